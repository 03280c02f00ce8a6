// Package logging builds the structured loggers used by every service.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared across components
const (
	KeyComponent = "component"
	KeyKind      = "kind"
	KeyRunID     = "run_id"
	KeyPath      = "path"
)

// ParseLevel converts a config level name into a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a text logger writing to w at the given level
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewComponentLogger tags logger with a component name. A nil logger yields Discard().
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With(slog.String(KeyComponent, component))
}

// WithRun tags logger with the task kind and run ID of one command
func WithRun(logger *slog.Logger, kind, runID string) *slog.Logger {
	return logger.With(slog.String(KeyKind, kind), slog.String(KeyRunID, runID))
}
