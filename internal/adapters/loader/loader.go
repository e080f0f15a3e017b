// Package loader provides transcript loading adapters.
// Clean Architecture: Adapter implementing ports.TranscriptLoader.
package loader

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lukechampine.com/blake3"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
)

// DefaultMaxBytes caps a transcript at 32 MiB.
const DefaultMaxBytes = 32 << 20

// FileLoader reads transcripts from disk or streams and hashes them with blake3.
type FileLoader struct {
	extensions []string
	maxBytes   int64
	now        func() time.Time
}

// NewFileLoader creates a loader. Empty extensions fall back to entities.DefaultTranscriptExtensions.
func NewFileLoader(extensions []string) *FileLoader {
	if len(extensions) == 0 {
		extensions = entities.DefaultTranscriptExtensions()
	}
	normalized := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}
	return &FileLoader{
		extensions: normalized,
		maxBytes:   DefaultMaxBytes,
		now:        time.Now,
	}
}

// Load reads a transcript from the given path.
func (l *FileLoader) Load(ctx context.Context, path string) (*entities.TranscriptFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	tf, err := l.Read(ctx, filepath.Base(path), file)
	if err != nil {
		return nil, err
	}
	tf.Path = path
	return tf, nil
}

// Read builds a transcript from r.
func (l *FileLoader) Read(ctx context.Context, name string, r io.Reader) (*entities.TranscriptFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(content)) > l.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, l.maxBytes)
	}

	return &entities.TranscriptFile{
		Name:     name,
		Content:  content,
		Hash:     Hash(content),
		LoadedAt: l.now(),
	}, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *FileLoader) SupportedExtensions() []string {
	return append([]string(nil), l.extensions...)
}

// Hash returns the hex blake3-256 digest of content.
func Hash(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}
