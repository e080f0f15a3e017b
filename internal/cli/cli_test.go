package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PANEL_API_BASE_URL", "")
	t.Setenv("VITE_API_BASE_URL", "")
	t.Setenv("PANEL_JOURNAL_PATH", "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--env-file=", "--log-level=error"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ask":
			json.NewEncoder(w).Encode(map[string]string{"answer": "42"})
		case "/documents":
			json.NewEncoder(w).Encode(map[string][]string{"documents": {"a", "b"}})
		case "/upload-youtube":
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "bad request"})
		case "/upload-transcript":
			f, hdr, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			body, _ := io.ReadAll(f)
			json.NewEncoder(w).Encode(map[string]string{"message": "stored " + hdr.Filename + " (" + string(body) + ")"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_PrintsAnswer(t *testing.T) {
	backend := newBackend(t)

	out, err := run(t, "--api", backend.URL, "ask", "what", "is", "this")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDocuments_PrintsList(t *testing.T) {
	backend := newBackend(t)

	out, err := run(t, "--api", backend.URL, "documents")
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	want := "Total Documents: 2\n  - a\n  - b\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestYouTube_ServerErrorFails(t *testing.T) {
	backend := newBackend(t)

	_, err := run(t, "--api", backend.URL, "youtube", "https://youtu.be/x")
	if err == nil || err.Error() != "bad request" {
		t.Errorf("expected server error, got %v", err)
	}
}

func TestWhisper_EmptyURL(t *testing.T) {
	backend := newBackend(t)

	_, err := run(t, "--api", backend.URL, "whisper", " ")
	if err == nil || err.Error() != "Enter YouTube URL" {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpload_SendsFile(t *testing.T) {
	backend := newBackend(t)
	path := filepath.Join(t.TempDir(), "ep1.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--api", backend.URL, "upload", path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if strings.TrimSpace(out) != "stored ep1.txt (hello)" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMissingAPI(t *testing.T) {
	_, err := run(t, "documents")
	if err == nil || !strings.Contains(err.Error(), "base URL") {
		t.Errorf("expected missing base URL error, got %v", err)
	}
}

func TestHistory_ListsJournal(t *testing.T) {
	backend := newBackend(t)
	db := filepath.Join(t.TempDir(), "journal.db")

	if _, err := run(t, "--api", backend.URL, "--journal", db, "ask", "q"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, err := run(t, "--api", backend.URL, "--journal", db, "youtube", "https://youtu.be/x"); err == nil {
		t.Fatal("expected youtube to fail")
	}

	out, err := run(t, "--api", backend.URL, "--journal", db, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 entries, got %q", out)
	}
	if !strings.Contains(lines[1], "upload-youtube") || !strings.Contains(lines[1], "failed") {
		t.Errorf("newest entry should be the failed youtube upload: %q", lines[1])
	}
	if !strings.Contains(lines[2], "ask") || !strings.Contains(lines[2], "42") {
		t.Errorf("unexpected ask entry: %q", lines[2])
	}
}

func TestHistory_RequiresJournal(t *testing.T) {
	backend := newBackend(t)

	if _, err := run(t, "--api", backend.URL, "history"); err == nil {
		t.Error("expected an error without a journal")
	}
}
