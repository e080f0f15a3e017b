// Package usecases - dropfolder.go uploads transcripts dropped into a watched directory.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/0xcro3dile/podpanel-go/internal/domain/ports"
)

// DropFolderUseCase watches a directory and uploads new transcripts through the panel.
// A file whose content hash was already uploaded successfully is skipped.
type DropFolderUseCase struct {
	panel   *PanelUseCase
	watcher ports.FileWatcher
	loader  ports.TranscriptLoader
	journal ports.Journal
	logger  *slog.Logger
	settle  time.Duration
}

// NewDropFolderUseCase creates a DropFolderUseCase with injected dependencies.
// settle is how long a file must stay unchanged before it is uploaded.
func NewDropFolderUseCase(
	panel *PanelUseCase,
	watcher ports.FileWatcher,
	loader ports.TranscriptLoader,
	journal ports.Journal,
	logger *slog.Logger,
	settle time.Duration,
) *DropFolderUseCase {
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DropFolderUseCase{
		panel:   panel,
		watcher: watcher,
		loader:  loader,
		journal: journal,
		logger:  logger,
		settle:  settle,
	}
}

// Run uploads the transcripts already in dir, then watches it until ctx is done.
func (uc *DropFolderUseCase) Run(ctx context.Context, dir string) error {
	events, err := uc.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	existing, err := uc.scan(dir)
	if err != nil {
		return err
	}
	for _, path := range existing {
		uc.ingestAndLog(ctx, path)
	}

	ticker := time.NewTicker(tickInterval(uc.settle))
	defer ticker.Stop()

	// path -> time of the last write seen
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Operation {
			case ports.FileCreated, ports.FileModified:
				pending[ev.Path] = time.Now()
			case ports.FileDeleted:
				delete(pending, ev.Path)
			}
		case now := <-ticker.C:
			for _, path := range settled(pending, now, uc.settle) {
				delete(pending, path)
				uc.ingestAndLog(ctx, path)
			}
		}
	}
}

// Ingest uploads one transcript. It reports whether an upload happened.
func (uc *DropFolderUseCase) Ingest(ctx context.Context, path string) (bool, error) {
	file, err := uc.loader.Load(ctx, path)
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", path, err)
	}
	if strings.TrimSpace(string(file.Content)) == "" {
		return false, nil
	}

	if uc.journal != nil {
		seen, err := uc.journal.HasUpload(ctx, file.Hash)
		if err != nil {
			return false, fmt.Errorf("checking journal: %w", err)
		}
		if seen {
			uc.logger.Debug("transcript already uploaded", "path", path, "hash", file.Hash)
			return false, nil
		}
	}

	for {
		if err := uc.panel.WaitIdle(ctx); err != nil {
			return false, err
		}
		res, err := uc.panel.UploadTranscriptFile(ctx, file)
		if errors.Is(err, ErrBusy) {
			continue
		}
		if err != nil {
			return false, err
		}
		if !res.Succeeded() {
			return false, fmt.Errorf("uploading %s: %s", file.Name, res.Display())
		}
		return true, nil
	}
}

func (uc *DropFolderUseCase) ingestAndLog(ctx context.Context, path string) {
	uploaded, err := uc.Ingest(ctx, path)
	switch {
	case err != nil && ctx.Err() == nil:
		uc.logger.Error("drop folder upload failed", "path", path, "error", err)
	case uploaded:
		uc.logger.Info("transcript uploaded", "path", path)
	}
}

// scan lists supported files already present in dir, sorted by name.
func (uc *DropFolderUseCase) scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	exts := make(map[string]bool)
	for _, e := range uc.loader.SupportedExtensions() {
		exts[strings.ToLower(e)] = true
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !exts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// settled returns the pending paths untouched for at least d, sorted.
// tickInterval is how often pending files are checked: twice per settle
// period, never below one nanosecond.
func tickInterval(settle time.Duration) time.Duration {
	if tick := settle / 2; tick > 0 {
		return tick
	}
	return time.Nanosecond
}

func settled(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var ready []string
	for path, at := range pending {
		if now.Sub(at) >= d {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}
