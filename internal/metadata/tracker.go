package metadata

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
)

// State is what the presentation layer renders for the tracked file
type State struct {
	Path    string
	Info    *model.VideoMetadata // nil when absent
	Loading bool
	Err     string
}

// Tracker follows one path and keeps the metadata of the latest query.
// Results of superseded queries are discarded regardless of completion order.
type Tracker struct {
	client *Client
	logger *slog.Logger
	ctx    context.Context
	stop   context.CancelFunc

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	onChange   func(State)
	watcher    *Watcher

	wg sync.WaitGroup
}

// NewTracker creates a tracker. Queries are cancelled when ctx ends or Close is called.
func NewTracker(ctx context.Context, client *Client, logger *slog.Logger) *Tracker {
	ctx, stop := context.WithCancel(ctx)
	return &Tracker{
		client: client,
		logger: logging.NewComponentLogger(logger, "metadata"),
		ctx:    ctx,
		stop:   stop,
	}
}

// SetOnChange sets the callback invoked after every state change
func (t *Tracker) SetOnChange(fn func(State)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// EnableWatch re-queries the tracked file when it changes on disk
func (t *Tracker) EnableWatch(debounce time.Duration) error {
	w, err := NewWatcher(t.Refresh, debounce, t.logger)
	if err != nil {
		return err
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return err
	}

	t.mu.Lock()
	t.watcher = w
	path := t.state.Path
	t.mu.Unlock()

	if path != "" {
		w.Track(path)
	}
	return nil
}

// SetPath changes the tracked path. An empty path clears the metadata and
// issues no query.
func (t *Tracker) SetPath(path string) {
	t.mu.Lock()
	w := t.watcher
	t.mu.Unlock()
	if w != nil {
		w.Track(path)
	}

	t.issue(path, true)
}

// Refresh re-queries the current path keeping the visible metadata until the result arrives.
// The path is read under the lock that issues the query.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	if t.state.Path == "" {
		t.mu.Unlock()
		return
	}
	t.issueLocked(t.state.Path, false)
}

// State returns the current state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Wait blocks until all issued queries have returned
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Close cancels in-flight queries and stops the watcher
func (t *Tracker) Close() error {
	t.stop()
	t.mu.Lock()
	w := t.watcher
	t.watcher = nil
	t.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	t.wg.Wait()
	return err
}

// issue supersedes any in-flight query and starts a new one for path
func (t *Tracker) issue(path string, reset bool) {
	t.mu.Lock()
	t.issueLocked(path, reset)
}

// issueLocked is issue with t.mu held. It releases the lock.
func (t *Tracker) issueLocked(path string, reset bool) {
	t.generation++
	gen := t.generation
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	if path == "" {
		t.state = State{}
		state, cb := t.state, t.onChange
		t.mu.Unlock()
		notify(cb, state)
		return
	}

	if reset {
		t.state = State{Path: path, Loading: true}
	} else {
		t.state.Loading = true
	}
	ctx, cancel := context.WithCancel(t.ctx)
	t.cancel = cancel
	state, cb := t.state, t.onChange
	t.wg.Add(1)
	t.mu.Unlock()

	notify(cb, state)
	go t.query(ctx, gen, path)
}

func (t *Tracker) query(ctx context.Context, gen uint64, path string) {
	defer t.wg.Done()

	meta, err := t.client.FetchMetadata(ctx, path)

	t.mu.Lock()
	if gen != t.generation || path != t.state.Path {
		t.mu.Unlock()
		t.logger.Debug("discarding superseded metadata", slog.String(logging.KeyPath, path))
		return
	}
	if err != nil {
		t.state = State{Path: path, Err: err.Error()}
	} else {
		t.state = State{Path: path, Info: &meta}
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	state, cb := t.state, t.onChange
	t.mu.Unlock()

	if err != nil {
		t.logger.Warn("metadata query failed", slog.String(logging.KeyPath, path), slog.String("error", err.Error()))
	}
	notify(cb, state)
}

func notify(cb func(State), state State) {
	if cb != nil {
		cb(state)
	}
}
