package dispatch

import (
	"errors"
	"fmt"
)

// Validation sentinels, matched with errors.Is
var (
	ErrEmptyInput         = errors.New("input path is empty")
	ErrInvalidDuration    = errors.New("segment duration out of range")
	ErrUnsupportedOption  = errors.New("unsupported option")
	ErrIncompatibleOption = errors.New("incompatible options")
)

// ValidationError reports an option rejected before dispatch
type ValidationError struct {
	Field  string
	Value  any
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func invalid(field string, value any, reason error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
