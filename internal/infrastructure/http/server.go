// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
	"github.com/0xcro3dile/podpanel-go/internal/domain/usecases"
)

//go:embed templates/*
var templatesFS embed.FS

// MsgBusy is shown when a gated action is submitted while another is running.
const MsgBusy = "Please wait for the current request to finish"

// maxUploadMemory bounds the multipart form kept in memory; the rest spills to disk.
const maxUploadMemory = 32 << 20

// historyLimit is how many journal entries the page shows.
const historyLimit = 10

// Server serves the panel page and its form actions.
type Server struct {
	panel     *usecases.PanelUseCase
	templates *template.Template
	logger    *slog.Logger
	addr      string
	apiBase   string
	timeout   time.Duration
}

// NewServer creates a new HTTP server. apiBase is only displayed; the panel
// already talks to it. timeout is the per-request timeout of the panel and
// sizes the write deadline.
func NewServer(panel *usecases.PanelUseCase, addr, apiBase string, timeout time.Duration, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		panel:     panel,
		templates: tmpl,
		logger:    logger,
		addr:      addr,
		apiBase:   apiBase,
		timeout:   timeout,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.handleIndex)

	// Form actions
	mux.HandleFunc("/actions/upload-transcript", s.post(s.handleUploadTranscript))
	mux.HandleFunc("/actions/upload-youtube", s.post(s.handleUploadYouTube))
	mux.HandleFunc("/actions/transcribe-youtube-whisper", s.post(s.handleTranscribeWhisper))
	mux.HandleFunc("/actions/ask", s.post(s.handleAsk))
	mux.HandleFunc("/actions/documents", s.post(s.handleDocuments))

	// API
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/health", s.handleHealth)

	return loggingMiddleware(s.logger, mux)
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	writeTimeout := 300 * time.Second
	if s.timeout > 0 {
		// A form post blocks for the whole backend call.
		writeTimeout = s.timeout + 30*time.Second
	}

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: writeTimeout,
	}

	s.logger.Info("panel server starting", "addr", s.addr, "api", s.apiBase)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown failed", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type pageData struct {
	State   entities.PanelState
	History []entities.JournalEntry
	APIBase string
}

// handleIndex renders the panel. A pending alert is shown once.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := s.panel.State()
	history, err := s.panel.History(r.Context(), historyLimit)
	if err != nil {
		s.logger.Warn("reading history failed", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	data := pageData{State: state, History: history, APIBase: s.apiBase}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("rendering page failed", "error", err)
		return
	}
	// HEAD renders no body, so the alert stays pending.
	if state.Alert != "" && r.Method == http.MethodGet {
		s.panel.DismissAlert(state.Alert)
	}
}

// post restricts h to POST and redirects back to the page when it returns.
func (s *Server) post(h func(*http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := h(r); err != nil {
			s.actionError(err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// actionError turns errors that carry no state of their own into an alert.
func (s *Server) actionError(err error) {
	var verr *usecases.ValidationError
	switch {
	case errors.As(err, &verr):
		// Already the pending alert.
	case errors.Is(err, usecases.ErrBusy):
		s.panel.Dispatch(entities.ValidationFailed{Message: MsgBusy})
	default:
		s.logger.Warn("action failed", "error", err)
		s.panel.Dispatch(entities.ValidationFailed{Message: err.Error()})
	}
}

func (s *Server) handleUploadTranscript(r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return fmt.Errorf("reading form: %w", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	f, hdr, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		s.panel.ClearFile()
	case err != nil:
		return fmt.Errorf("reading file: %w", err)
	case hdr.Filename == "":
		f.Close()
		s.panel.ClearFile()
	default:
		err = s.panel.ChooseUpload(r.Context(), hdr.Filename, f)
		f.Close()
		if err != nil {
			return err
		}
	}

	_, err = s.panel.UploadTranscript(r.Context())
	return err
}

func (s *Server) handleUploadYouTube(r *http.Request) error {
	s.panel.SetURL(r.FormValue("url"))
	_, err := s.panel.UploadYouTube(r.Context())
	return err
}

func (s *Server) handleTranscribeWhisper(r *http.Request) error {
	s.panel.SetURL(r.FormValue("url"))
	_, err := s.panel.TranscribeYouTubeWhisper(r.Context())
	return err
}

func (s *Server) handleAsk(r *http.Request) error {
	s.panel.SetQuestion(r.FormValue("question"))
	_, err := s.panel.Ask(r.Context())
	return err
}

func (s *Server) handleDocuments(r *http.Request) error {
	_, err := s.panel.FetchDocuments(r.Context())
	return err
}

type stateResponse struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	URL       string   `json:"url"`
	File      string   `json:"file,omitempty"`
	Documents []string `json:"documents"`
	Loading   bool     `json:"loading"`
	Alert     string   `json:"alert,omitempty"`
}

// handleState returns a JSON snapshot of the panel. It does not consume the alert.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.panel.State()
	resp := stateResponse{
		Question:  st.Question,
		Answer:    st.Answer,
		URL:       st.URL,
		Documents: st.Documents,
		Loading:   st.Loading,
		Alert:     st.Alert,
	}
	if st.File != nil {
		resp.File = st.File.Name
	}
	if resp.Documents == nil {
		resp.Documents = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
