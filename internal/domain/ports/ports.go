// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"
	"io"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

// Backend is the remote summarisation API.
// A returned error means the call failed; server-reported errors live in the response.
type Backend interface {
	// UploadTranscript sends the file as multipart field "file".
	UploadTranscript(ctx context.Context, file *entities.TranscriptFile) (entities.MessageResponse, error)

	// UploadYouTube ingests a video through its subtitles.
	UploadYouTube(ctx context.Context, url string) (entities.MessageResponse, error)

	// TranscribeYouTubeWhisper ingests a video through server-side speech-to-text.
	TranscribeYouTubeWhisper(ctx context.Context, url string) (entities.MessageResponse, error)

	// Ask answers a question against ingested content.
	Ask(ctx context.Context, question string) (entities.AskResponse, error)

	// ListDocuments enumerates indexed documents.
	ListDocuments(ctx context.Context) (entities.DocumentsResponse, error)
}

// TranscriptLoader turns files into transcripts ready for upload.
type TranscriptLoader interface {
	// Load reads a transcript from the given path.
	Load(ctx context.Context, path string) (*entities.TranscriptFile, error)

	// Read builds a transcript from an already opened stream, e.g. a browser upload.
	Read(ctx context.Context, name string, r io.Reader) (*entities.TranscriptFile, error)

	// SupportedExtensions returns file extensions the drop folder picks up.
	SupportedExtensions() []string
}

// Journal keeps a local record of completed requests.
type Journal interface {
	// Record appends an entry. ID and CreatedAt are filled when empty.
	Record(ctx context.Context, entry entities.JournalEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error)

	// HasUpload reports whether a transcript with this hash was uploaded successfully.
	HasUpload(ctx context.Context, hash string) (bool, error)
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
