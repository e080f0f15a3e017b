package usecases

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
	"github.com/0xcro3dile/podpanel-go/internal/domain/ports"
)

// mockBackend implements ports.Backend for testing
type mockBackend struct {
	mu    sync.Mutex
	calls map[entities.Action]int

	uploadFn    func(ctx context.Context, file *entities.TranscriptFile) (entities.MessageResponse, error)
	youtubeFn   func(ctx context.Context, url string) (entities.MessageResponse, error)
	whisperFn   func(ctx context.Context, url string) (entities.MessageResponse, error)
	askFn       func(ctx context.Context, question string) (entities.AskResponse, error)
	documentsFn func(ctx context.Context) (entities.DocumentsResponse, error)
}

func (m *mockBackend) count(a entities.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[entities.Action]int)
	}
	m.calls[a]++
}

func (m *mockBackend) callCount(a entities.Action) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[a]
}

func (m *mockBackend) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockBackend) UploadTranscript(ctx context.Context, file *entities.TranscriptFile) (entities.MessageResponse, error) {
	m.count(entities.ActionUploadTranscript)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, file)
	}
	return entities.MessageResponse{Message: "uploaded " + file.Name}, nil
}

func (m *mockBackend) UploadYouTube(ctx context.Context, url string) (entities.MessageResponse, error) {
	m.count(entities.ActionUploadYouTube)
	if m.youtubeFn != nil {
		return m.youtubeFn(ctx, url)
	}
	return entities.MessageResponse{Message: "subtitles ingested"}, nil
}

func (m *mockBackend) TranscribeYouTubeWhisper(ctx context.Context, url string) (entities.MessageResponse, error) {
	m.count(entities.ActionTranscribeWhisper)
	if m.whisperFn != nil {
		return m.whisperFn(ctx, url)
	}
	return entities.MessageResponse{Message: "audio transcribed"}, nil
}

func (m *mockBackend) Ask(ctx context.Context, question string) (entities.AskResponse, error) {
	m.count(entities.ActionAsk)
	if m.askFn != nil {
		return m.askFn(ctx, question)
	}
	return entities.AskResponse{Answer: "mocked answer"}, nil
}

func (m *mockBackend) ListDocuments(ctx context.Context) (entities.DocumentsResponse, error) {
	m.count(entities.ActionListDocuments)
	if m.documentsFn != nil {
		return m.documentsFn(ctx)
	}
	return entities.DocumentsResponse{Documents: []string{}}, nil
}

// mockLoader implements ports.TranscriptLoader; the hash is the content itself.
type mockLoader struct{}

func (mockLoader) Load(ctx context.Context, path string) (*entities.TranscriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &entities.TranscriptFile{Name: path, Path: path, Content: data, Hash: string(data)}, nil
}

func (mockLoader) Read(ctx context.Context, name string, r io.Reader) (*entities.TranscriptFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &entities.TranscriptFile{Name: name, Content: data, Hash: string(data)}, nil
}

func (mockLoader) SupportedExtensions() []string {
	return []string{".txt"}
}

// mockJournal implements ports.Journal in memory
type mockJournal struct {
	mu       sync.Mutex
	entries  []entities.JournalEntry
	recordFn func(entry entities.JournalEntry) error
}

func (m *mockJournal) Record(ctx context.Context, entry entities.JournalEntry) error {
	if m.recordFn != nil {
		return m.recordFn(entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournal) Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.JournalEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *mockJournal) HasUpload(ctx context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Action == entities.ActionUploadTranscript && e.Hash == hash && !e.Failed {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockJournal) snapshot() []entities.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.JournalEntry(nil), m.entries...)
}

// mockWatcher implements ports.FileWatcher with a channel the test feeds.
type mockWatcher struct {
	events chan ports.FileEvent
}

func (m *mockWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if m.events == nil {
		return nil, errors.New("no events channel")
	}
	return m.events, nil
}

func (m *mockWatcher) Stop() error {
	return nil
}
