package metadata

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ytget/media-workbench/internal/logging"
)

// Watcher calls onChange when the tracked file is written, replaced or removed.
// The parent directory is watched so atomic replacements are seen too.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	file  string // cleaned absolute path
	dir   string
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher. Call Watch to start processing events.
func NewWatcher(onChange func(), debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  watcher,
		onChange: onChange,
		debounce: debounce,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts the event loop
func (w *Watcher) Watch() error {
	go w.processEvents()
	return nil
}

// Track switches the watched file. An empty path stops watching.
func (w *Watcher) Track(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}

	file, dir := "", ""
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			w.logger.Warn("cannot watch path", slog.String(logging.KeyPath, path), slog.String("error", err.Error()))
			abs = ""
		}
		if abs != "" {
			file, dir = filepath.Clean(abs), filepath.Dir(abs)
		}
	}

	if dir != w.dir {
		if w.dir != "" {
			_ = w.watcher.Remove(w.dir)
		}
		if dir != "" {
			if err := w.watcher.Add(dir); err != nil {
				// Non-fatal, metadata still loads once
				w.logger.Warn("cannot watch directory", slog.String(logging.KeyPath, dir), slog.String("error", err.Error()))
				dir = ""
			}
		}
		w.dir = dir
	}
	w.file = file
}

// Close stops watching and releases resources
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	return err
}

// processEvents filters events down to the tracked file
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule(filepath.Clean(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

// schedule debounces change notifications for the tracked file
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name != w.file || w.file == "" {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		w.logger.Debug("tracked file changed", slog.String(logging.KeyPath, name))
		w.onChange()
	})
}
