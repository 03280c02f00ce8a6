package worker

import (
	"context"

	"github.com/ytget/media-workbench/internal/model"
)

// Command names understood by the worker
const (
	CommandExtractAudio = "extract-audio"
	CommandSliceVideo   = "slice-video"
	CommandGetVideoInfo = "get-video-info"
	CommandOpenFolder   = "open-folder"
)

// ExtractRequest is the input of extract-audio. All fields are resolved.
type ExtractRequest struct {
	InputPath   string
	OutputPath  string
	AudioFormat string
	Bitrate     int // kbps
	SampleRate  int // Hz
}

// SliceRequest is the input of slice-video. All fields are resolved.
type SliceRequest struct {
	InputPath     string
	OutputDir     string
	Duration      int // seconds per segment
	SegmentFormat string
	VideoCodec    string
	VideoQuality  string
	AudioCodec    string
}

// Worker runs media commands out of process. Commands block until the
// operation finishes; progress is published separately on the event bus.
type Worker interface {
	ExtractAudio(ctx context.Context, req ExtractRequest) error
	SliceVideo(ctx context.Context, req SliceRequest) error
	VideoInfo(ctx context.Context, inputPath string) (model.VideoMetadata, error)
	OpenFolder(path string) error
}
