package config

import (
	"slices"

	"fyne.io/fyne/v2"

	"github.com/ytget/media-workbench/internal/model"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir          = "output_directory"
	KeyAudioFormat        = "audio_format"
	KeyAudioBitrate       = "audio_bitrate"
	KeySampleRate         = "sample_rate"
	KeySliceDuration      = "segment_duration"
	KeySegmentFormat      = "segment_format"
	KeyVideoCodec         = "video_codec"
	KeyVideoQuality       = "video_quality"
	KeyAudioCodec         = "segment_audio_codec"
	KeyLanguage           = "app_language"
	KeyAutoOpenOnComplete = "auto_open_on_complete"
	KeyWorkerConfigPath   = "worker_config_path"
)

// Default values
const (
	DefaultLanguage           = "system"
	DefaultAutoOpenOnComplete = false
)

// Settings manages the user's form defaults stored in Fyne preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the configured output directory.
// Empty means outputs go next to the input file.
func (s *Settings) GetOutputDirectory() string {
	return s.app.Preferences().String(KeyOutputDir)
}

// SetOutputDirectory sets the output directory
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetAudioFormat returns the default extraction format
func (s *Settings) GetAudioFormat() string {
	return s.stringOption(KeyAudioFormat, model.AudioFormats, model.DefaultAudioFormat)
}

// SetAudioFormat sets the default extraction format
func (s *Settings) SetAudioFormat(format string) {
	s.setStringOption(KeyAudioFormat, format, model.AudioFormats, model.DefaultAudioFormat)
}

// GetAudioBitrate returns the default extraction bitrate in kbps
func (s *Settings) GetAudioBitrate() int {
	return s.intOption(KeyAudioBitrate, model.Bitrates, model.DefaultBitrate)
}

// SetAudioBitrate sets the default extraction bitrate
func (s *Settings) SetAudioBitrate(kbps int) {
	s.setIntOption(KeyAudioBitrate, kbps, model.Bitrates, model.DefaultBitrate)
}

// GetSampleRate returns the default extraction sample rate in Hz
func (s *Settings) GetSampleRate() int {
	return s.intOption(KeySampleRate, model.SampleRates, model.DefaultSampleRate)
}

// SetSampleRate sets the default extraction sample rate
func (s *Settings) SetSampleRate(hz int) {
	s.setIntOption(KeySampleRate, hz, model.SampleRates, model.DefaultSampleRate)
}

// GetSliceDuration returns the default segment length in seconds
func (s *Settings) GetSliceDuration() int {
	value := s.app.Preferences().Int(KeySliceDuration)
	if !model.IsSliceDuration(value) {
		s.SetSliceDuration(model.DefaultSliceDuration)
		return model.DefaultSliceDuration
	}
	return value
}

// SetSliceDuration sets the default segment length, clamped to 1..600
func (s *Settings) SetSliceDuration(seconds int) {
	if seconds < model.MinSliceDuration {
		seconds = model.MinSliceDuration
	}
	if seconds > model.MaxSliceDuration {
		seconds = model.MaxSliceDuration
	}
	s.app.Preferences().SetInt(KeySliceDuration, seconds)
}

// GetSegmentFormat returns the default segment container
func (s *Settings) GetSegmentFormat() string {
	return s.stringOption(KeySegmentFormat, model.SegmentFormats, model.DefaultSegmentFormat)
}

// SetSegmentFormat sets the default segment container
func (s *Settings) SetSegmentFormat(format string) {
	s.setStringOption(KeySegmentFormat, format, model.SegmentFormats, model.DefaultSegmentFormat)
}

// GetVideoCodec returns the default segment video encoder
func (s *Settings) GetVideoCodec() string {
	return s.stringOption(KeyVideoCodec, model.VideoCodecs, model.DefaultVideoCodec)
}

// SetVideoCodec sets the default segment video encoder
func (s *Settings) SetVideoCodec(codec string) {
	s.setStringOption(KeyVideoCodec, codec, model.VideoCodecs, model.DefaultVideoCodec)
}

// GetVideoQuality returns the default quality preset
func (s *Settings) GetVideoQuality() string {
	return s.stringOption(KeyVideoQuality, model.VideoQualities, model.DefaultVideoQuality)
}

// SetVideoQuality sets the default quality preset
func (s *Settings) SetVideoQuality(quality string) {
	s.setStringOption(KeyVideoQuality, quality, model.VideoQualities, model.DefaultVideoQuality)
}

// GetAudioCodec returns the default segment audio encoder
func (s *Settings) GetAudioCodec() string {
	return s.stringOption(KeyAudioCodec, model.AudioCodecs, model.DefaultAudioCodec)
}

// SetAudioCodec sets the default segment audio encoder
func (s *Settings) SetAudioCodec(codec string) {
	s.setStringOption(KeyAudioCodec, codec, model.AudioCodecs, model.DefaultAudioCodec)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh":     "中文",
	}
}

// GetAutoOpenOnComplete returns whether the output folder opens after a run
func (s *Settings) GetAutoOpenOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoOpenOnComplete, DefaultAutoOpenOnComplete)
}

// SetAutoOpenOnComplete sets whether the output folder opens after a run
func (s *Settings) SetAutoOpenOnComplete(open bool) {
	s.app.Preferences().SetBool(KeyAutoOpenOnComplete, open)
}

// GetWorkerConfigPath returns the TOML worker config path, falling back to ConfigPath()
func (s *Settings) GetWorkerConfigPath() string {
	path := s.app.Preferences().String(KeyWorkerConfigPath)
	if path != "" {
		return path
	}
	path, err := ConfigPath()
	if err != nil {
		return ""
	}
	return path
}

// SetWorkerConfigPath sets the TOML worker config path
func (s *Settings) SetWorkerConfigPath(path string) {
	s.app.Preferences().SetString(KeyWorkerConfigPath, path)
}

// stringOption reads key and repairs it when it is not one of allowed
func (s *Settings) stringOption(key string, allowed []string, fallback string) string {
	value := s.app.Preferences().String(key)
	if !slices.Contains(allowed, value) {
		s.app.Preferences().SetString(key, fallback)
		return fallback
	}
	return value
}

func (s *Settings) setStringOption(key, value string, allowed []string, fallback string) {
	if !slices.Contains(allowed, value) {
		value = fallback
	}
	s.app.Preferences().SetString(key, value)
}

func (s *Settings) intOption(key string, allowed []int, fallback int) int {
	value := s.app.Preferences().Int(key)
	if !slices.Contains(allowed, value) {
		s.app.Preferences().SetInt(key, fallback)
		return fallback
	}
	return value
}

func (s *Settings) setIntOption(key string, value int, allowed []int, fallback int) {
	if !slices.Contains(allowed, value) {
		value = fallback
	}
	s.app.Preferences().SetInt(key, value)
}
