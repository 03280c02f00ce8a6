package dispatch

import (
	"fmt"
	"strings"

	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/worker"
)

// SliceOutputSuffix is appended to the input path for the default segment directory
const SliceOutputSuffix = "_segments"

// ExtractOptions are the inputs of RunExtractAudio. Zero values mean "use the default".
type ExtractOptions struct {
	InputPath   string
	OutputPath  string
	AudioFormat string
	Bitrate     int
	SampleRate  int
}

// SliceOptions are the inputs of RunSliceVideo. Zero values mean "use the default",
// except Duration which is required.
type SliceOptions struct {
	InputPath     string
	OutputDir     string
	Duration      int
	SegmentFormat string
	VideoCodec    string
	VideoQuality  string
	AudioCodec    string
}

// DefaultExtractOutput returns "{input}.{format}"
func DefaultExtractOutput(inputPath, audioFormat string) string {
	return inputPath + "." + audioFormat
}

// DefaultSliceOutput returns "{input}_segments"
func DefaultSliceOutput(inputPath string) string {
	return inputPath + SliceOutputSuffix
}

// ResolveExtract validates opts and fills in defaults
func ResolveExtract(opts ExtractOptions) (worker.ExtractRequest, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return worker.ExtractRequest{}, invalid("inputPath", opts.InputPath, ErrEmptyInput)
	}

	req := worker.ExtractRequest{
		InputPath:   opts.InputPath,
		OutputPath:  opts.OutputPath,
		AudioFormat: withDefault(opts.AudioFormat, model.DefaultAudioFormat),
		Bitrate:     opts.Bitrate,
		SampleRate:  opts.SampleRate,
	}
	if !model.IsAudioFormat(req.AudioFormat) {
		return worker.ExtractRequest{}, invalid("audioFormat", req.AudioFormat, ErrUnsupportedOption)
	}
	if req.Bitrate == 0 {
		req.Bitrate = model.DefaultBitrate
	} else if req.Bitrate < 0 {
		return worker.ExtractRequest{}, invalid("bitrate", req.Bitrate, ErrUnsupportedOption)
	}
	if req.SampleRate == 0 {
		req.SampleRate = model.DefaultSampleRate
	} else if req.SampleRate < 0 {
		return worker.ExtractRequest{}, invalid("sampleRate", req.SampleRate, ErrUnsupportedOption)
	}
	if req.OutputPath == "" {
		req.OutputPath = DefaultExtractOutput(req.InputPath, req.AudioFormat)
	}
	return req, nil
}

// ResolveSlice validates opts and fills in defaults
func ResolveSlice(opts SliceOptions) (worker.SliceRequest, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return worker.SliceRequest{}, invalid("inputPath", opts.InputPath, ErrEmptyInput)
	}
	if !model.IsSliceDuration(opts.Duration) {
		return worker.SliceRequest{}, invalid("duration", opts.Duration,
			fmt.Errorf("%w: must be %d..%d seconds", ErrInvalidDuration, model.MinSliceDuration, model.MaxSliceDuration))
	}

	req := worker.SliceRequest{
		InputPath:     opts.InputPath,
		OutputDir:     opts.OutputDir,
		Duration:      opts.Duration,
		SegmentFormat: withDefault(opts.SegmentFormat, model.DefaultSegmentFormat),
		VideoCodec:    withDefault(opts.VideoCodec, model.DefaultVideoCodec),
		VideoQuality:  withDefault(opts.VideoQuality, model.DefaultVideoQuality),
		AudioCodec:    withDefault(opts.AudioCodec, model.DefaultAudioCodec),
	}

	switch {
	case !model.IsSegmentFormat(req.SegmentFormat):
		return worker.SliceRequest{}, invalid("segmentFormat", req.SegmentFormat, ErrUnsupportedOption)
	case !model.IsVideoCodec(req.VideoCodec):
		return worker.SliceRequest{}, invalid("videoCodec", req.VideoCodec, ErrUnsupportedOption)
	case !model.IsVideoQuality(req.VideoQuality):
		return worker.SliceRequest{}, invalid("videoQuality", req.VideoQuality, ErrUnsupportedOption)
	case !model.IsAudioCodec(req.AudioCodec):
		return worker.SliceRequest{}, invalid("audioCodec", req.AudioCodec, ErrUnsupportedOption)
	}
	if err := checkContainer(req); err != nil {
		return worker.SliceRequest{}, err
	}

	if req.OutputDir == "" {
		req.OutputDir = DefaultSliceOutput(req.InputPath)
	}
	return req, nil
}

// checkContainer rejects codec choices the segment container cannot carry
func checkContainer(req worker.SliceRequest) error {
	vpx := req.VideoCodec == "libvpx" || req.VideoCodec == "libvpx-vp9"

	switch req.SegmentFormat {
	case "webm":
		if !vpx {
			return invalid("videoCodec", req.VideoCodec, fmt.Errorf("%w: webm needs libvpx or libvpx-vp9", ErrIncompatibleOption))
		}
		if req.AudioCodec != "opus" && req.AudioCodec != "vorbis" {
			return invalid("audioCodec", req.AudioCodec, fmt.Errorf("%w: webm needs opus or vorbis", ErrIncompatibleOption))
		}
	case "ts":
		if vpx {
			return invalid("videoCodec", req.VideoCodec, fmt.Errorf("%w: ts needs libx264 or libx265", ErrIncompatibleOption))
		}
		if req.AudioCodec == "vorbis" {
			return invalid("audioCodec", req.AudioCodec, fmt.Errorf("%w: ts cannot carry vorbis", ErrIncompatibleOption))
		}
	case "mp4":
		if req.AudioCodec == "vorbis" {
			return invalid("audioCodec", req.AudioCodec, fmt.Errorf("%w: mp4 cannot carry vorbis", ErrIncompatibleOption))
		}
	}
	return nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
