package model

// NewTask returns a slot in its initial state
func NewTask(kind TaskKind) Task {
	return Task{
		Kind:     kind,
		Status:   DeriveStatus(0, MessageWaiting),
		Progress: 0,
		Message:  MessageWaiting,
	}
}

// Initiate resets the slot for a newly dispatched command. The status is forced
// to processing even though progress is 0: the command is in flight.
func Initiate(t Task, runID, inputPath, outputTarget string, params Params) Task {
	t.RunID = runID
	t.InputPath = inputPath
	t.OutputTarget = outputTarget
	t.Params = params
	t.Progress = 0
	t.Message = t.Kind.StartedMessage()
	t.Status = TaskStatusProcessing
	return t
}

// ApplyProgress copies a notification into the slot and re-derives the status.
// Applying the same event twice gives the same state.
func ApplyProgress(t Task, ev ProgressEvent) Task {
	t.Progress = ev.Progress
	t.Message = ev.Message
	t.Status = DeriveStatus(ev.Progress, ev.Message)
	return t
}

// Fail marks the slot as failed. Progress keeps its last value.
func Fail(t Task, err error) Task {
	reason := "unknown failure"
	if err != nil {
		reason = err.Error()
	}
	t.Message = t.Kind.ErrorPrefix() + reason
	t.Status = TaskStatusError
	return t
}

// Complete marks the slot as successfully finished
func Complete(t Task) Task {
	t.Progress = 100
	t.Message = t.Kind.CompletedMessage()
	t.Status = TaskStatusCompleted
	return t
}
