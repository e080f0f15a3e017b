package journal

import (
	"context"
	"sync"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

// InMemoryStore keeps the journal for the lifetime of the process.
// Used when no journal path is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []entities.JournalEntry // oldest first
	uploads map[string]bool         // hash -> uploaded successfully
}

// NewInMemoryStore creates an empty in-memory journal.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		uploads: make(map[string]bool),
	}
}

// Record appends an entry.
func (s *InMemoryStore) Record(ctx context.Context, entry entities.JournalEntry) error {
	entry = withDefaults(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	if entry.Action == entities.ActionUploadTranscript && entry.Hash != "" && !entry.Failed {
		s.uploads[entry.Hash] = true
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *InMemoryStore) Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []entities.JournalEntry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// HasUpload reports whether a transcript with this hash was uploaded successfully.
func (s *InMemoryStore) HasUpload(ctx context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploads[hash], nil
}
