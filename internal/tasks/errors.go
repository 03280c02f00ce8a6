package tasks

import "errors"

// ErrStaleRun is returned when an outcome arrives for a run that no longer owns its slot
var ErrStaleRun = errors.New("stale run")
