package entities

import "strings"

// MessageResponse is the body returned by the ingestion endpoints.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IsEmpty reports whether the server populated neither field.
func (r MessageResponse) IsEmpty() bool {
	return r.Message == "" && r.Error == ""
}

// Text returns the message, falling back to the error.
func (r MessageResponse) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Error
}

// AskResponse is the body returned by /ask.
type AskResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// IsEmpty reports whether the server populated neither field.
func (r AskResponse) IsEmpty() bool {
	return r.Answer == "" && r.Error == ""
}

// Text returns the answer, falling back to the error.
func (r AskResponse) Text() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Error
}

// DocumentsResponse is the body returned by /documents.
type DocumentsResponse struct {
	Documents []string `json:"documents"`
	Error     string   `json:"error,omitempty"`
}

// IsEmpty reports whether the server sent no documents field and no error.
func (r DocumentsResponse) IsEmpty() bool {
	return r.Documents == nil && r.Error == ""
}

// Result is the outcome of one backend call.
// Err is set when the call itself failed: transport, status, decoding or timeout.
type Result struct {
	Action    Action
	Text      string   // message / answer / error reported by the server
	Documents []string // Only for ActionListDocuments
	// ServerError is set when Text came from the body's "error" field.
	ServerError bool
	Err         error
}

// Succeeded reports whether the server answered without reporting an error.
func (r Result) Succeeded() bool {
	return r.Err == nil && !r.ServerError
}

// Failed reports whether the call did not produce a server response.
func (r Result) Failed() bool {
	return r.Err != nil
}

// NoResponseText is shown when a server reply carries none of the expected fields.
const NoResponseText = "No response from server"

// Display is the text a user sees for this result.
func (r Result) Display() string {
	if r.Err != nil {
		return "Request failed: " + r.Err.Error()
	}
	if strings.TrimSpace(r.Text) == "" {
		return NoResponseText
	}
	return r.Text
}
