// Package tasks keeps the long-lived per-kind task slots and routes progress
// events into them.
package tasks

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
)

// Store holds one slot per task kind
type Store struct {
	logger *slog.Logger

	slots      map[model.TaskKind]model.Task
	slotsMutex sync.RWMutex
	onUpdate   func(model.Task) // callback for UI updates
	cbMutex    sync.RWMutex
}

// NewStore creates a store with every slot in its initial state
func NewStore(logger *slog.Logger) *Store {
	s := &Store{
		logger: logging.NewComponentLogger(logger, "tasks"),
		slots:  make(map[model.TaskKind]model.Task),
	}
	for _, kind := range model.Kinds() {
		s.slots[kind] = model.NewTask(kind)
	}
	return s
}

// SetUpdateCallback sets the function called after every slot change
func (s *Store) SetUpdateCallback(callback func(model.Task)) {
	s.cbMutex.Lock()
	s.onUpdate = callback
	s.cbMutex.Unlock()
}

// Get returns a copy of the slot for kind
func (s *Store) Get(kind model.TaskKind) model.Task {
	s.slotsMutex.RLock()
	defer s.slotsMutex.RUnlock()
	return s.slots[kind]
}

// Snapshot returns copies of all slots in display order
func (s *Store) Snapshot() []model.Task {
	s.slotsMutex.RLock()
	defer s.slotsMutex.RUnlock()

	out := make([]model.Task, 0, len(s.slots))
	for _, kind := range model.Kinds() {
		out = append(out, s.slots[kind])
	}
	return out
}

// HandleProgress routes ev to its slot. Untagged events go to the default slot.
// It is meant to be registered as the bus handler.
func (s *Store) HandleProgress(ev model.ProgressEvent) {
	kind := ev.Kind()
	s.update(kind, func(t model.Task) (model.Task, error) {
		return model.ApplyProgress(t, ev), nil
	})
}

// Initiate resets the slot for a new run and returns the new state
func (s *Store) Initiate(kind model.TaskKind, runID, inputPath, outputTarget string, params model.Params) model.Task {
	t, _ := s.update(kind, func(t model.Task) (model.Task, error) {
		return model.Initiate(t, runID, inputPath, outputTarget, params), nil
	})
	s.logger.Debug("slot initiated", slog.String(logging.KeyKind, kind.String()), slog.String(logging.KeyRunID, runID))
	return t
}

// Fail forces the slot into error if runID still owns it
func (s *Store) Fail(kind model.TaskKind, runID string, cause error) (model.Task, error) {
	return s.update(kind, func(t model.Task) (model.Task, error) {
		if t.RunID != runID {
			return t, fmt.Errorf("%w: slot %s belongs to run %s", ErrStaleRun, kind, t.RunID)
		}
		return model.Fail(t, cause), nil
	})
}

// Complete marks the slot completed if runID still owns it
func (s *Store) Complete(kind model.TaskKind, runID string) (model.Task, error) {
	return s.update(kind, func(t model.Task) (model.Task, error) {
		if t.RunID != runID {
			return t, fmt.Errorf("%w: slot %s belongs to run %s", ErrStaleRun, kind, t.RunID)
		}
		return model.Complete(t), nil
	})
}

// update applies fn under the lock and notifies outside of it when the slot changed
func (s *Store) update(kind model.TaskKind, fn func(model.Task) (model.Task, error)) (model.Task, error) {
	s.slotsMutex.Lock()
	current, ok := s.slots[kind]
	if !ok {
		s.slotsMutex.Unlock()
		return model.Task{}, fmt.Errorf("unknown task kind %q", kind)
	}
	next, err := fn(current)
	if err != nil {
		s.slotsMutex.Unlock()
		s.logger.Debug("slot update skipped", slog.String(logging.KeyKind, kind.String()), slog.String("error", err.Error()))
		return current, err
	}
	changed := next != current
	s.slots[kind] = next
	s.slotsMutex.Unlock()

	if changed {
		s.notifyUpdate(next)
	}
	return next, nil
}

// notifyUpdate calls the update callback if set
func (s *Store) notifyUpdate(t model.Task) {
	s.cbMutex.RLock()
	cb := s.onUpdate
	s.cbMutex.RUnlock()

	if cb != nil {
		cb(t)
	}
}
