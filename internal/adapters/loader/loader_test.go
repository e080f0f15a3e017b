package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLoader_LoadTxtFile(t *testing.T) {
	dir, _ := os.MkdirTemp("", "loader-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "episode.txt")
	os.WriteFile(path, []byte("Hello World"), 0644)

	loader := NewFileLoader(nil)
	tf, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(tf.Content) != "Hello World" {
		t.Errorf("unexpected content: %s", tf.Content)
	}
	if tf.Name != "episode.txt" || tf.Path != path {
		t.Errorf("unexpected name/path: %s %s", tf.Name, tf.Path)
	}
	if len(tf.Hash) != 64 {
		t.Errorf("expected 32-byte hex hash, got %q", tf.Hash)
	}
	if tf.LoadedAt.IsZero() {
		t.Error("load time should be set")
	}
}

func TestFileLoader_HashIsContentAddressed(t *testing.T) {
	loader := NewFileLoader(nil)
	ctx := context.Background()

	a, _ := loader.Read(ctx, "a.txt", strings.NewReader("same"))
	b, _ := loader.Read(ctx, "b.txt", strings.NewReader("same"))
	c, _ := loader.Read(ctx, "c.txt", strings.NewReader("different"))

	if a.Hash != b.Hash {
		t.Error("same content should hash the same")
	}
	if a.Hash == c.Hash {
		t.Error("different content should hash differently")
	}
	if a.Hash != Hash([]byte("same")) {
		t.Error("Read and Hash should agree")
	}
}

func TestFileLoader_SupportedExtensions(t *testing.T) {
	loader := NewFileLoader(nil)
	exts := loader.SupportedExtensions()

	found := false
	for _, e := range exts {
		if e == ".txt" {
			found = true
		}
	}
	if !found {
		t.Error(".txt should be supported by default")
	}

	custom := NewFileLoader([]string{"SRT", " .Vtt ", ""})
	exts = custom.SupportedExtensions()
	if len(exts) != 2 || exts[0] != ".srt" || exts[1] != ".vtt" {
		t.Errorf("extensions should be normalized, got %v", exts)
	}
}

func TestFileLoader_RejectsOversized(t *testing.T) {
	loader := NewFileLoader(nil)
	loader.maxBytes = 4

	_, err := loader.Read(context.Background(), "big.txt", strings.NewReader("12345"))
	if err == nil {
		t.Error("oversized transcript should be rejected")
	}
}

func TestFileLoader_NonexistentFile(t *testing.T) {
	loader := NewFileLoader(nil)
	_, err := loader.Load(context.Background(), "/nonexistent/file.txt")

	if err == nil {
		t.Error("should error on nonexistent file")
	}
}

func TestFileLoader_Directory(t *testing.T) {
	loader := NewFileLoader(nil)
	_, err := loader.Load(context.Background(), t.TempDir())

	if err == nil {
		t.Error("should error on a directory")
	}
}
