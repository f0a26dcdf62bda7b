package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"treemk/internal/hash"
)

const DefaultDebounce = 200 * time.Millisecond

// BuildFunc is called with the current tree text.
type BuildFunc func(ctx context.Context, text string) error

// Watcher rebuilds whenever the tree file changes. The file's directory is
// watched rather than the file so editors that replace the file on save
// keep triggering events.
type Watcher struct {
	path     string
	debounce time.Duration
	build    BuildFunc
	log      *slog.Logger

	last string // fingerprint of the text last handed to build
}

func New(path string, build BuildFunc, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		path:     filepath.Clean(abs),
		debounce: DefaultDebounce,
		build:    build,
		log:      logger,
	}, nil
}

// SetDebounce changes how long events must settle before a rebuild.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run builds once, then rebuilds after every settled change of the tree file
// until ctx is done. Build errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.Info("watching tree file", slog.String("path", w.path))

	if err := w.rebuild(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("tree file event", slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", slog.String("err", err.Error()))

		case <-timer.C:
			if err := w.rebuild(ctx); err != nil {
				return err
			}
		}
	}
}

// rebuild reads the tree file and calls build when its fingerprint moved.
// A missing file is not fatal: it is usually mid-replace.
func (w *Watcher) rebuild(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.log.Warn("tree file missing, waiting for it", slog.String("path", w.path))
			return nil
		}
		return fmt.Errorf("failed to read tree file: %w", err)
	}

	if hash.Equal(w.last, data) {
		w.log.Debug("tree file unchanged, skipping rebuild")
		return nil
	}
	w.last = hash.Fingerprint(data)

	if err := w.build(ctx, string(data)); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		w.log.Error("rebuild failed", slog.String("err", err.Error()))
	}
	return nil
}
