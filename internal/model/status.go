package model

import "strings"

// TaskStatus represents the presentation status of a task slot
type TaskStatus string

const (
	// TaskStatusIdle means nothing has happened yet (or progress is back at 0)
	TaskStatusIdle TaskStatus = "idle"

	// TaskStatusProcessing means the worker is running the command
	TaskStatusProcessing TaskStatus = "processing"

	// TaskStatusCompleted means the command finished successfully
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusError means the command failed
	TaskStatusError TaskStatus = "error"
)

// ErrorMarkers are the reserved substrings that flag a message as a failure.
// Matching is case-insensitive for the latin marker.
var ErrorMarkers = []string{"error", "错误"}

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true while the worker is still running
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusProcessing
}

// IsFinished returns true if the task reached a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

// HasErrorMarker reports whether message contains one of the ErrorMarkers.
func HasErrorMarker(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range ErrorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// statusRule is one step of the derivation chain
type statusRule struct {
	match  func(progress float64, message string) bool
	status TaskStatus
}

// statusChain is evaluated top to bottom; the first match wins.
// The error check must stay first so a failure at progress 0 is not shown as idle.
var statusChain = []statusRule{
	{func(_ float64, m string) bool { return HasErrorMarker(m) }, TaskStatusError},
	{func(p float64, _ string) bool { return p >= 100 }, TaskStatusCompleted},
	{func(p float64, _ string) bool { return p <= 0 }, TaskStatusIdle},
}

// DeriveStatus maps a (progress, message) pair to a presentation status
func DeriveStatus(progress float64, message string) TaskStatus {
	for _, rule := range statusChain {
		if rule.match(progress, message) {
			return rule.status
		}
	}
	return TaskStatusProcessing
}
