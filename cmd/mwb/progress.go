package main

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ytget/media-workbench/internal/model"
)

// slotBar renders the updates of one task slot as a terminal progress bar
type slotBar struct {
	kind model.TaskKind

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	last model.Task
}

func newSlotBar(kind model.TaskKind, w io.Writer, quiet bool) *slotBar {
	s := &slotBar{kind: kind, last: model.NewTask(kind)}
	if !quiet {
		s.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(kind.String()),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		)
	}
	return s
}

// Update is installed as the store update callback
func (s *slotBar) Update(t model.Task) {
	if t.Kind != s.kind {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = t
	if s.bar == nil {
		return
	}
	if t.Message != "" {
		s.bar.Describe(t.Message)
	}
	_ = s.bar.Set(t.Percent())
	if t.Status == model.TaskStatusCompleted {
		_ = s.bar.Finish()
	}
}

// Last returns the most recent state of the slot
func (s *slotBar) Last() model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Close stops rendering without completing the bar
func (s *slotBar) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		_ = s.bar.Exit()
		s.bar = nil
	}
}
