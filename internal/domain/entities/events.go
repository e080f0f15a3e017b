package entities

// Event is something that happened to the panel.
// The reducer turns (state, event) into the next state.
type Event interface {
	isEvent()
}

// QuestionChanged is a keystroke in the question input.
type QuestionChanged struct{ Question string }

// URLChanged is a keystroke in the YouTube URL input.
type URLChanged struct{ URL string }

// FileChosen is a change of the file picker. File is nil when cleared.
type FileChosen struct{ File *TranscriptFile }

// ValidationFailed is a precondition failure; nothing was sent.
type ValidationFailed struct{ Message string }

// RequestStarted marks a request as issued under Token.
type RequestStarted struct {
	Action Action
	Token  uint64
}

// RequestFinished carries the result of the request issued under Token.
type RequestFinished struct {
	Token  uint64
	Result Result
}

// AlertDismissed clears the pending alert. When Message is set, only an
// alert with that exact text is cleared.
type AlertDismissed struct{ Message string }

func (QuestionChanged) isEvent()  {}
func (URLChanged) isEvent()       {}
func (FileChosen) isEvent()       {}
func (ValidationFailed) isEvent() {}
func (RequestStarted) isEvent()   {}
func (RequestFinished) isEvent()  {}
func (AlertDismissed) isEvent()   {}
