// Package journal provides activity journal adapters.
// Clean Architecture: Adapter implementing ports.Journal.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

// SQLiteStore implements ports.Journal with SQLite persistence.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the journal database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join("data", "journal.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables.
func (s *SQLiteStore) initSchema() error {
	schema := `
	PRAGMA busy_timeout = 10000;
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous  = NORMAL;

	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		target TEXT NOT NULL DEFAULT '',
		hash TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT '',
		failed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_hash ON entries(hash);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends an entry.
func (s *SQLiteStore) Record(ctx context.Context, entry entities.JournalEntry) error {
	entry = withDefaults(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, action, target, hash, outcome, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Action.String(),
		entry.Target,
		entry.Hash,
		entry.Outcome,
		entry.Failed,
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]entities.JournalEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, target, hash, outcome, failed, created_at
		FROM entries
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []entities.JournalEntry
	for rows.Next() {
		var (
			e       entities.JournalEntry
			action  string
			created int64
		)
		if err := rows.Scan(&e.ID, &action, &e.Target, &e.Hash, &e.Outcome, &e.Failed, &created); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Action, _ = entities.ParseAction(action)
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// HasUpload reports whether a transcript with this hash was uploaded successfully.
func (s *SQLiteStore) HasUpload(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM entries
		WHERE hash = ? AND action = ? AND failed = 0
	`, hash, entities.ActionUploadTranscript.String()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("querying uploads: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func withDefaults(entry entities.JournalEntry) entities.JournalEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return entry
}
