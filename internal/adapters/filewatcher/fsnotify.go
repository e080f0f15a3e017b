// Package filewatcher provides file system monitoring adapters.
// Clean Architecture: Adapter implementing ports.FileWatcher.
package filewatcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/podpanel-go/internal/domain/entities"
	"github.com/0xcro3dile/podpanel-go/internal/domain/ports"
)

// FSNotifyWatcher reports transcript files appearing, changing or leaving a
// directory. Hidden files and editor leftovers are ignored.
type FSNotifyWatcher struct {
	fs     *fsnotify.Watcher
	exts   map[string]struct{}
	logger *slog.Logger
}

// NewFSNotifyWatcher creates a watcher for the given extensions.
func NewFSNotifyWatcher(extensions []string, logger *slog.Logger) (*FSNotifyWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if len(extensions) == 0 {
		extensions = entities.DefaultTranscriptExtensions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}

	return &FSNotifyWatcher{fs: fw, exts: exts, logger: logger}, nil
}

// Watch adds dir and forwards relevant events until ctx is done or Stop is called.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	out := make(chan ports.FileEvent, 64)
	go w.forward(ctx, dir, out)
	return out, nil
}

func (w *FSNotifyWatcher) forward(ctx context.Context, dir string, out chan<- ports.FileEvent) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			fe, ok := w.translate(ev)
			if !ok {
				continue
			}
			w.logger.Debug("transcript file changed", "path", fe.Path, "op", fe.Operation)
			select {
			case out <- fe:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "dir", dir, "error", err)
		}
	}
}

// translate maps an fsnotify event to a FileEvent. Chmod-only events and
// files the panel would not upload are dropped.
func (w *FSNotifyWatcher) translate(ev fsnotify.Event) (ports.FileEvent, bool) {
	if !w.wants(ev.Name) {
		return ports.FileEvent{}, false
	}

	fe := ports.FileEvent{Path: ev.Name}
	switch {
	case ev.Has(fsnotify.Create):
		fe.Operation = ports.FileCreated
	case ev.Has(fsnotify.Write):
		fe.Operation = ports.FileModified
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		// A rename reports the old name; the new one arrives as Create.
		fe.Operation = ports.FileDeleted
	default:
		return ports.FileEvent{}, false
	}
	return fe, true
}

// wants reports whether path looks like a finished transcript.
func (w *FSNotifyWatcher) wants(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~") {
		return false
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Stop closes the underlying watcher, which ends every Watch channel.
func (w *FSNotifyWatcher) Stop() error {
	return w.fs.Close()
}
