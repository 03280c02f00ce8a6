package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TaskKind identifies one of the long-lived task slots
type TaskKind string

const (
	// TaskKindExtract is the audio extraction slot
	TaskKindExtract TaskKind = "extract"

	// TaskKindSlice is the video segmentation slot
	TaskKindSlice TaskKind = "slice"

	// TaskKindDefault receives notifications that carry no task tag
	TaskKindDefault TaskKind = "default"
)

// Slot messages
const (
	MessageWaiting = "waiting"

	MessageExtractStarted   = "Extracting audio..."
	MessageExtractCompleted = "Audio extraction completed"
	MessageSliceStarted     = "Slicing video..."
	MessageSliceCompleted   = "Video slicing completed"
	MessageDefaultStarted   = "Processing..."
	MessageDefaultCompleted = "Completed"
)

// Kinds returns every slot kind in display order
func Kinds() []TaskKind {
	return []TaskKind{TaskKindExtract, TaskKindSlice, TaskKindDefault}
}

// String returns the string representation of TaskKind
func (k TaskKind) String() string {
	return string(k)
}

// IsTagged reports whether the kind can appear as a tag on the wire
func (k TaskKind) IsTagged() bool {
	return k == TaskKindExtract || k == TaskKindSlice
}

// ParseTaskKind converts a tag into a TaskKind. An empty tag maps to the default slot.
func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(strings.TrimSpace(s)) {
	case "", TaskKindDefault:
		return TaskKindDefault, nil
	case TaskKindExtract:
		return TaskKindExtract, nil
	case TaskKindSlice:
		return TaskKindSlice, nil
	}
	return "", fmt.Errorf("unknown task kind %q", s)
}

// StartedMessage is the initiating phrase shown when a command is dispatched
func (k TaskKind) StartedMessage() string {
	switch k {
	case TaskKindExtract:
		return MessageExtractStarted
	case TaskKindSlice:
		return MessageSliceStarted
	default:
		return MessageDefaultStarted
	}
}

// CompletedMessage is the phrase shown when a command resolves
func (k TaskKind) CompletedMessage() string {
	switch k {
	case TaskKindExtract:
		return MessageExtractCompleted
	case TaskKindSlice:
		return MessageSliceCompleted
	default:
		return MessageDefaultCompleted
	}
}

// ErrorPrefix carries an error marker so a failed slot always derives to error
func (k TaskKind) ErrorPrefix() string {
	switch k {
	case TaskKindExtract:
		return "extract error: "
	case TaskKindSlice:
		return "slice error: "
	default:
		return "error: "
	}
}

// Params is the kind-specific configuration of a dispatched command
type Params interface {
	Kind() TaskKind
}

// ExtractParams configures an extract-audio command
type ExtractParams struct {
	AudioFormat string // mp3, aac, flac, wav
	Bitrate     int    // kbps
	SampleRate  int    // Hz
}

// Kind implements Params
func (ExtractParams) Kind() TaskKind { return TaskKindExtract }

// SliceParams configures a slice-video command
type SliceParams struct {
	Duration      int    // segment length in seconds, 1..600
	SegmentFormat string // ts, mp4, webm
	VideoCodec    string
	VideoQuality  string // low, medium, high
	AudioCodec    string
}

// Kind implements Params
func (SliceParams) Kind() TaskKind { return TaskKindSlice }

// Task is the state of one slot
type Task struct {
	Kind         TaskKind
	RunID        string // run that last initiated the slot
	Status       TaskStatus
	Progress     float64 // 0 to 100
	Message      string
	InputPath    string
	OutputTarget string // output file or directory
	Params       Params
}

// Percent returns progress rounded down to a whole percent in 0..100
func (t Task) Percent() int {
	switch {
	case t.Progress <= 0:
		return 0
	case t.Progress >= 100:
		return 100
	}
	return int(t.Progress)
}

// GetDisplayName returns the input file name, or the kind when nothing ran yet
func (t Task) GetDisplayName() string {
	if t.InputPath == "" {
		return t.Kind.String()
	}
	return filepath.Base(t.InputPath)
}
