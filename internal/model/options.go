package model

import "slices"

// Option catalogs accepted by the worker commands
var (
	AudioFormats   = []string{"mp3", "aac", "flac", "wav"}
	Bitrates       = []int{128, 192, 256, 320}
	SampleRates    = []int{22050, 44100, 48000, 96000}
	SegmentFormats = []string{"ts", "mp4", "webm"}
	VideoCodecs    = []string{"libx264", "libx265", "libvpx", "libvpx-vp9"}
	VideoQualities = []string{"low", "medium", "high"}
	AudioCodecs    = []string{"aac", "libmp3lame", "opus", "vorbis"}
)

// Slice duration bounds in seconds
const (
	MinSliceDuration = 1
	MaxSliceDuration = 600
)

// Defaults applied when a command leaves an option empty
const (
	DefaultAudioFormat   = "mp3"
	DefaultBitrate       = 192
	DefaultSampleRate    = 44100
	DefaultSliceDuration = 10
	DefaultSegmentFormat = "ts"
	DefaultVideoCodec    = "libx264"
	DefaultVideoQuality  = "medium"
	DefaultAudioCodec    = "aac"
)

// IsAudioFormat reports whether f is a supported extraction format
func IsAudioFormat(f string) bool { return slices.Contains(AudioFormats, f) }

// IsSegmentFormat reports whether f is a supported segment container
func IsSegmentFormat(f string) bool { return slices.Contains(SegmentFormats, f) }

// IsVideoCodec reports whether c is a supported video encoder
func IsVideoCodec(c string) bool { return slices.Contains(VideoCodecs, c) }

// IsVideoQuality reports whether q is a supported quality preset
func IsVideoQuality(q string) bool { return slices.Contains(VideoQualities, q) }

// IsAudioCodec reports whether c is a supported segment audio encoder
func IsAudioCodec(c string) bool { return slices.Contains(AudioCodecs, c) }

// IsSliceDuration reports whether d is within the accepted segment length
func IsSliceDuration(d int) bool { return d >= MinSliceDuration && d <= MaxSliceDuration }
