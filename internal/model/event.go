package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformedEvent is returned when a wire notification cannot be used
var ErrMalformedEvent = errors.New("malformed progress event")

// ProgressEvent is a single notification published by the worker.
// An empty Task means the notification carries no tag.
type ProgressEvent struct {
	Progress float64  `json:"progress"`
	Message  string   `json:"message"`
	Task     TaskKind `json:"task,omitempty"`
}

// NewProgressEvent builds a tagged event; TaskKindDefault yields an untagged one
func NewProgressEvent(kind TaskKind, progress float64, message string) ProgressEvent {
	ev := ProgressEvent{Progress: progress, Message: message}
	if kind.IsTagged() {
		ev.Task = kind
	}
	return ev
}

// Kind returns the slot this event is routed to
func (e ProgressEvent) Kind() TaskKind {
	if e.Task == "" {
		return TaskKindDefault
	}
	return e.Task
}

// Tagged reports whether the event names its task
func (e ProgressEvent) Tagged() bool {
	return e.Task != ""
}

// wireEvent keeps presence information for required fields
type wireEvent struct {
	Progress *float64 `json:"progress"`
	Message  *string  `json:"message"`
	Task     *string  `json:"task"`
}

// DecodeProgressEvent parses a wire notification. Missing progress or message,
// progress outside 0..100 and unknown tags are rejected with ErrMalformedEvent.
func DecodeProgressEvent(data []byte) (ProgressEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return ProgressEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if w.Progress == nil {
		return ProgressEvent{}, fmt.Errorf("%w: missing progress", ErrMalformedEvent)
	}
	if w.Message == nil {
		return ProgressEvent{}, fmt.Errorf("%w: missing message", ErrMalformedEvent)
	}
	p := *w.Progress
	if math.IsNaN(p) || p < 0 || p > 100 {
		return ProgressEvent{}, fmt.Errorf("%w: progress %v out of range", ErrMalformedEvent, p)
	}

	ev := ProgressEvent{Progress: p, Message: *w.Message}
	if w.Task != nil {
		kind, err := ParseTaskKind(*w.Task)
		if err != nil {
			return ProgressEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if kind.IsTagged() {
			ev.Task = kind
		}
	}
	return ev, nil
}

// EncodeProgressEvent renders the event in its wire form
func EncodeProgressEvent(ev ProgressEvent) ([]byte, error) {
	return json.Marshal(ev)
}
