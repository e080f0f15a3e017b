// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"time"
)

// DefaultTranscriptExtensions returns the file types treated as transcripts
// when none are configured.
func DefaultTranscriptExtensions() []string {
	return []string{".txt", ".md", ".srt", ".vtt"}
}

// Action identifies one of the panel's user actions.
type Action int

const (
	ActionUploadTranscript Action = iota + 1
	ActionUploadYouTube
	ActionTranscribeWhisper
	ActionAsk
	ActionListDocuments
)

var actionNames = map[Action]string{
	ActionUploadTranscript:  "upload-transcript",
	ActionUploadYouTube:     "upload-youtube",
	ActionTranscribeWhisper: "transcribe-youtube-whisper",
	ActionAsk:               "ask",
	ActionListDocuments:     "documents",
}

// String returns the action's stable name, matching the backend endpoint.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction is the inverse of String.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// Gated reports whether the action sets the shared loading flag.
// Only the document listing runs ungated.
func (a Action) Gated() bool {
	switch a {
	case ActionUploadTranscript, ActionUploadYouTube, ActionTranscribeWhisper, ActionAsk:
		return true
	}
	return false
}

// TranscriptFile is a transcript chosen for upload.
type TranscriptFile struct {
	Name     string
	Path     string // Empty when the file came from a browser upload
	Content  []byte
	Hash     string // Hex blake3 digest of Content
	LoadedAt time.Time
}

// PanelState is the whole UI state of the panel.
// It is only ever changed by the reducer in usecases.
type PanelState struct {
	Question  string
	Answer    string
	URL       string
	File      *TranscriptFile
	Documents []string
	Loading   bool
	Alert     string // Pending blocking message, shown once

	InFlight       uint64 // Token of the outstanding gated request, 0 when idle
	DocumentsToken uint64 // Token of the latest issued documents fetch
}

// Clone returns a copy that shares no slices with s.
func (s PanelState) Clone() PanelState {
	c := s
	if s.Documents != nil {
		c.Documents = append([]string(nil), s.Documents...)
	}
	return c
}

// JournalEntry is one completed request, kept locally for history and dedupe.
type JournalEntry struct {
	ID        string
	Action    Action
	Target    string // File name, URL or question that was sent
	Hash      string // Transcript hash for uploads
	Outcome   string // What the user was shown
	Failed    bool
	CreatedAt time.Time
}
