// Package usecases - panel.go runs the panel's actions against the backend.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
	"github.com/0xcro3dile/podpanel-go/internal/domain/ports"
)

// Messages shown when a precondition fails. Nothing is sent in that case.
const (
	MsgChooseFile    = "Choose a file"
	MsgEnterURL      = "Enter YouTube URL"
	MsgEnterQuestion = "Enter question"
)

// ErrBusy is returned when a gated action is started while another is in flight.
var ErrBusy = errors.New("another request is already in flight")

// ValidationError is a precondition failure surfaced to the user as an alert.
type ValidationError struct {
	Action  entities.Action
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PanelUseCase owns the panel state and performs its actions.
// Gated actions are serialised; document fetches may overlap and the latest one wins.
type PanelUseCase struct {
	backend ports.Backend
	loader  ports.TranscriptLoader
	journal ports.Journal
	logger  *slog.Logger
	timeout time.Duration

	mu    sync.Mutex
	state entities.PanelState
	token uint64
	idle  chan struct{} // closed when the current gated request finishes
}

// NewPanelUseCase creates a PanelUseCase with injected dependencies.
// journal may be nil. A timeout <= 0 leaves requests bounded only by ctx.
func NewPanelUseCase(
	backend ports.Backend,
	loader ports.TranscriptLoader,
	journal ports.Journal,
	logger *slog.Logger,
	timeout time.Duration,
) *PanelUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PanelUseCase{
		backend: backend,
		loader:  loader,
		journal: journal,
		logger:  logger,
		timeout: timeout,
		state:   entities.PanelState{Documents: []string{}},
	}
}

// State returns a snapshot of the panel state.
func (uc *PanelUseCase) State() entities.PanelState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state.Clone()
}

// Dispatch applies ev and returns the new state.
func (uc *PanelUseCase) Dispatch(ev entities.Event) entities.PanelState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.state = Reduce(uc.state, ev)
	return uc.state.Clone()
}

// SetQuestion updates the question input.
func (uc *PanelUseCase) SetQuestion(question string) {
	uc.Dispatch(entities.QuestionChanged{Question: question})
}

// SetURL updates the YouTube URL input.
func (uc *PanelUseCase) SetURL(url string) {
	uc.Dispatch(entities.URLChanged{URL: url})
}

// ChooseFile loads path and selects it for upload.
func (uc *PanelUseCase) ChooseFile(ctx context.Context, path string) error {
	file, err := uc.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("loading transcript: %w", err)
	}
	uc.Dispatch(entities.FileChosen{File: file})
	return nil
}

// ChooseUpload selects a transcript read from r, e.g. a browser upload.
func (uc *PanelUseCase) ChooseUpload(ctx context.Context, name string, r io.Reader) error {
	file, err := uc.loader.Read(ctx, name, r)
	if err != nil {
		return fmt.Errorf("reading transcript: %w", err)
	}
	uc.Dispatch(entities.FileChosen{File: file})
	return nil
}

// ClearFile empties the file picker.
func (uc *PanelUseCase) ClearFile() {
	uc.Dispatch(entities.FileChosen{File: nil})
}

// DismissAlert clears the pending alert. A non-empty msg only clears that
// exact alert, so one raised after msg was displayed survives.
func (uc *PanelUseCase) DismissAlert(msg string) {
	uc.Dispatch(entities.AlertDismissed{Message: msg})
}

// UploadTranscript uploads the chosen file.
func (uc *PanelUseCase) UploadTranscript(ctx context.Context) (entities.Result, error) {
	file := uc.State().File
	if file == nil {
		return uc.reject(entities.ActionUploadTranscript, MsgChooseFile)
	}
	return uc.UploadTranscriptFile(ctx, file)
}

// UploadTranscriptFile uploads file without touching the file picker.
func (uc *PanelUseCase) UploadTranscriptFile(ctx context.Context, file *entities.TranscriptFile) (entities.Result, error) {
	if file == nil {
		return uc.reject(entities.ActionUploadTranscript, MsgChooseFile)
	}
	return uc.run(ctx, entities.ActionUploadTranscript, file.Name, file.Hash, func(ctx context.Context) entities.Result {
		return messageResult(uc.backend.UploadTranscript(ctx, file))
	})
}

// UploadYouTube ingests the current URL through its subtitles.
func (uc *PanelUseCase) UploadYouTube(ctx context.Context) (entities.Result, error) {
	url := uc.State().URL
	if strings.TrimSpace(url) == "" {
		return uc.reject(entities.ActionUploadYouTube, MsgEnterURL)
	}
	return uc.run(ctx, entities.ActionUploadYouTube, url, "", func(ctx context.Context) entities.Result {
		return messageResult(uc.backend.UploadYouTube(ctx, url))
	})
}

// TranscribeYouTubeWhisper ingests the current URL through speech-to-text.
func (uc *PanelUseCase) TranscribeYouTubeWhisper(ctx context.Context) (entities.Result, error) {
	url := uc.State().URL
	if strings.TrimSpace(url) == "" {
		return uc.reject(entities.ActionTranscribeWhisper, MsgEnterURL)
	}
	return uc.run(ctx, entities.ActionTranscribeWhisper, url, "", func(ctx context.Context) entities.Result {
		return messageResult(uc.backend.TranscribeYouTubeWhisper(ctx, url))
	})
}

// Ask sends the current question. The answer lands in State().Answer.
func (uc *PanelUseCase) Ask(ctx context.Context) (entities.Result, error) {
	question := uc.State().Question
	if strings.TrimSpace(question) == "" {
		return uc.reject(entities.ActionAsk, MsgEnterQuestion)
	}
	return uc.run(ctx, entities.ActionAsk, question, "", func(ctx context.Context) entities.Result {
		resp, err := uc.backend.Ask(ctx, question)
		if err != nil {
			return entities.Result{Err: err}
		}
		return entities.Result{Text: resp.Text(), ServerError: resp.Answer == "" && resp.Error != ""}
	})
}

// FetchDocuments refreshes the document list. It never sets Loading.
func (uc *PanelUseCase) FetchDocuments(ctx context.Context) (entities.Result, error) {
	return uc.run(ctx, entities.ActionListDocuments, "", "", func(ctx context.Context) entities.Result {
		resp, err := uc.backend.ListDocuments(ctx)
		if err != nil {
			return entities.Result{Err: err}
		}
		return entities.Result{Documents: resp.Documents, Text: resp.Error, ServerError: resp.Error != ""}
	})
}

// WaitIdle blocks until no gated request is in flight.
func (uc *PanelUseCase) WaitIdle(ctx context.Context) error {
	for {
		uc.mu.Lock()
		if !uc.state.Loading {
			uc.mu.Unlock()
			return nil
		}
		ch := uc.idle
		uc.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// History returns the most recent journal entries, newest first.
func (uc *PanelUseCase) History(ctx context.Context, limit int) ([]entities.JournalEntry, error) {
	if uc.journal == nil {
		return nil, nil
	}
	return uc.journal.Recent(ctx, limit)
}

func (uc *PanelUseCase) reject(action entities.Action, msg string) (entities.Result, error) {
	uc.Dispatch(entities.ValidationFailed{Message: msg})
	return entities.Result{Action: action}, &ValidationError{Action: action, Message: msg}
}

// run issues one request: start event, call, finish event, journal.
func (uc *PanelUseCase) run(
	ctx context.Context,
	action entities.Action,
	target, hash string,
	call func(context.Context) entities.Result,
) (entities.Result, error) {
	token, err := uc.begin(action)
	if err != nil {
		return entities.Result{Action: action}, err
	}

	callCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	start := time.Now()
	res := call(callCtx)
	res.Action = action
	uc.finish(token, res)

	if res.Failed() {
		uc.logger.Warn("request failed", "action", action.String(), "token", token, "duration", time.Since(start), "error", res.Err)
	} else {
		uc.logger.Info("request finished", "action", action.String(), "token", token, "duration", time.Since(start), "server_error", res.ServerError)
	}

	uc.record(ctx, entities.JournalEntry{
		Action:  action,
		Target:  target,
		Hash:    hash,
		Outcome: res.Display(),
		Failed:  !res.Succeeded(),
	})
	return res, nil
}

func (uc *PanelUseCase) begin(action entities.Action) (uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if action.Gated() && uc.state.Loading {
		return 0, ErrBusy
	}
	uc.token++
	uc.state = Reduce(uc.state, entities.RequestStarted{Action: action, Token: uc.token})
	if action.Gated() {
		uc.idle = make(chan struct{})
	}
	return uc.token, nil
}

func (uc *PanelUseCase) finish(token uint64, res entities.Result) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state = Reduce(uc.state, entities.RequestFinished{Token: token, Result: res})
	if !uc.state.Loading && uc.idle != nil {
		close(uc.idle)
		uc.idle = nil
	}
}

// record is best effort: a journal failure never fails the action.
func (uc *PanelUseCase) record(ctx context.Context, entry entities.JournalEntry) {
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		uc.logger.Warn("journal write failed", "action", entry.Action.String(), "error", err)
	}
}

func messageResult(resp entities.MessageResponse, err error) entities.Result {
	if err != nil {
		return entities.Result{Err: err}
	}
	return entities.Result{Text: resp.Text(), ServerError: resp.Message == "" && resp.Error != ""}
}
