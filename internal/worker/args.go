package worker

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// FFmpeg constants shared by every command
const (
	ProgressPipeTarget = "pipe:1"
	PlaylistName       = "index.m3u8"
	SegmentPattern     = "segment_%03d"

	// Segment audio is always resampled to 48 kHz (required by opus)
	SegmentAudioRate    = "48000"
	SegmentAudioBitrate = "128k"

	// H.264 baseline keeps segments playable on older devices
	H264Profile = "baseline"
	H264Level   = "4.1"
)

// audioEncoders maps an extraction format to its ffmpeg encoder
var audioEncoders = map[string]string{
	"mp3":  "libmp3lame",
	"aac":  "aac",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

// lossyFormats accept a target bitrate
var lossyFormats = map[string]bool{
	"mp3": true,
	"aac": true,
}

// segmentAudioEncoders maps a segment audio codec option to its ffmpeg encoder
var segmentAudioEncoders = map[string]string{
	"aac":        "aac",
	"libmp3lame": "libmp3lame",
	"opus":       "libopus",
	"vorbis":     "libvorbis",
}

// segmentMuxers maps a segment format to the muxer and file extension
var segmentMuxers = map[string]struct{ muxer, ext string }{
	"ts":   {"mpegts", "ts"},
	"mp4":  {"mp4", "mp4"},
	"webm": {"webm", "webm"},
}

// qualityPreset holds the rate control of one quality level
type qualityPreset struct {
	crf    int
	preset string // x264/x265 only
}

// qualityPresets per encoder family
var qualityPresets = map[string]map[string]qualityPreset{
	"x264": {
		"low":    {crf: 28, preset: "veryfast"},
		"medium": {crf: 23, preset: "veryfast"},
		"high":   {crf: 18, preset: "medium"},
	},
	"x265": {
		"low":    {crf: 32, preset: "veryfast"},
		"medium": {crf: 28, preset: "fast"},
		"high":   {crf: 23, preset: "medium"},
	},
	"vpx": {
		"low":    {crf: 40},
		"medium": {crf: 32},
		"high":   {crf: 24},
	},
}

// BuildExtractArgs builds the ffmpeg arguments for extract-audio
func BuildExtractArgs(req ExtractRequest) ([]string, error) {
	encoder, ok := audioEncoders[req.AudioFormat]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", req.AudioFormat)
	}

	args := []string{
		"-y",                // Overwrite output file
		"-i", req.InputPath, // Input file
		"-vn",              // Drop video
		"-acodec", encoder, // Audio encoder
	}
	if lossyFormats[req.AudioFormat] && req.Bitrate > 0 {
		args = append(args, "-b:a", strconv.Itoa(req.Bitrate)+"k")
	}
	if req.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(req.SampleRate))
	}
	args = append(args,
		"-progress", ProgressPipeTarget,
		"-nostats",
		req.OutputPath,
	)
	return args, nil
}

// BuildSliceArgs builds the ffmpeg arguments for slice-video
func BuildSliceArgs(req SliceRequest) ([]string, error) {
	mux, ok := segmentMuxers[req.SegmentFormat]
	if !ok {
		return nil, fmt.Errorf("unsupported segment format: %s", req.SegmentFormat)
	}
	videoArgs, err := videoEncoderArgs(req.VideoCodec, req.VideoQuality)
	if err != nil {
		return nil, err
	}
	audioEncoder, ok := segmentAudioEncoders[req.AudioCodec]
	if !ok {
		return nil, fmt.Errorf("unsupported audio codec: %s", req.AudioCodec)
	}
	if req.Duration <= 0 {
		return nil, fmt.Errorf("invalid segment duration: %d", req.Duration)
	}

	seconds := strconv.Itoa(req.Duration)
	args := []string{"-y", "-i", req.InputPath}
	args = append(args, videoArgs...)
	args = append(args,
		"-c:a", audioEncoder,
		"-ar", SegmentAudioRate,
		"-b:a", SegmentAudioBitrate,
		"-force_key_frames", "expr:gte(t,n_forced*"+seconds+")",
		"-f", "segment",
		"-segment_time", seconds,
		"-segment_format", mux.muxer,
		"-segment_list_type", "m3u8",
		"-segment_list", filepath.Join(req.OutputDir, PlaylistName),
		"-segment_list_flags", "+live",
		"-segment_wrap", "0",
		"-progress", ProgressPipeTarget,
		"-nostats",
		filepath.Join(req.OutputDir, SegmentPattern+"."+mux.ext),
	)
	return args, nil
}

// videoEncoderArgs returns codec and rate-control arguments
func videoEncoderArgs(codec, quality string) ([]string, error) {
	var family string
	switch codec {
	case "libx264":
		family = "x264"
	case "libx265":
		family = "x265"
	case "libvpx", "libvpx-vp9":
		family = "vpx"
	default:
		return nil, fmt.Errorf("unsupported video codec: %s", codec)
	}

	preset, ok := qualityPresets[family][quality]
	if !ok {
		return nil, fmt.Errorf("unsupported video quality: %s", quality)
	}

	args := []string{"-c:v", codec, "-crf", strconv.Itoa(preset.crf)}
	switch codec {
	case "libx264":
		args = append(args, "-preset", preset.preset, "-profile:v", H264Profile, "-level", H264Level)
	case "libx265":
		args = append(args, "-preset", preset.preset)
	case "libvpx":
		// VP8 treats -b:v as the upper bound in constrained quality mode
		args = append(args, "-b:v", "2M")
	case "libvpx-vp9":
		args = append(args, "-b:v", "0")
	}
	return args, nil
}

// SegmentExtension returns the file extension of a segment format
func SegmentExtension(format string) string {
	return segmentMuxers[format].ext
}
