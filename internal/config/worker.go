package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ytget/media-workbench/internal/logging"
)

// AppDirName is the directory under the user config dir holding config.toml
const AppDirName = "media-workbench"

// Environment overrides
const (
	EnvFFmpegPath  = "MWB_FFMPEG"
	EnvFFprobePath = "MWB_FFPROBE"
	EnvLogLevel    = "MWB_LOG_LEVEL"
)

// Config holds worker and runtime settings loaded from TOML
type Config struct {
	Worker   WorkerConfig   `toml:"worker"`
	Metadata MetadataConfig `toml:"metadata"`
	Log      LogConfig      `toml:"log"`
}

// WorkerConfig configures the ffmpeg/ffprobe worker
type WorkerConfig struct {
	FFmpegPath         string `toml:"ffmpeg_path"`
	FFprobePath        string `toml:"ffprobe_path"`
	ProgressIntervalMS int    `toml:"progress_interval_ms"` // minimum gap between progress events
	StderrTailLines    int    `toml:"stderr_tail_lines"`    // stderr lines kept for error messages
}

// MetadataConfig configures the metadata tracker
type MetadataConfig struct {
	Watch      bool `toml:"watch"` // re-query when the tracked file changes
	DebounceMS int  `toml:"debounce_ms"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Worker: WorkerConfig{
			FFmpegPath:         "ffmpeg",
			FFprobePath:        "ffprobe",
			ProgressIntervalMS: 250,
			StderrTailLines:    20,
		},
		Metadata: MetadataConfig{
			Watch:      true,
			DebounceMS: 500,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ProgressInterval returns the progress throttle as a duration
func (w WorkerConfig) ProgressInterval() time.Duration {
	return time.Duration(w.ProgressIntervalMS) * time.Millisecond
}

// Debounce returns the watcher debounce as a duration
func (m MetadataConfig) Debounce() time.Duration {
	return time.Duration(m.DebounceMS) * time.Millisecond
}

// ConfigPath returns the default config.toml location
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, "config.toml"), nil
}

// Load reads path on top of Default(). A missing file yields the defaults.
// Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path into cfg
func LoadTOML(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// SaveTOML writes cfg to path, creating the parent directory
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# media-workbench configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides replaces file values with MWB_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		c.Worker.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		c.Worker.FFprobePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns every problem found
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Worker.FFmpegPath) == "" {
		errs = append(errs, ValidationError{Field: "worker.ffmpeg_path", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Worker.FFprobePath) == "" {
		errs = append(errs, ValidationError{Field: "worker.ffprobe_path", Message: "must not be empty"})
	}
	if c.Worker.ProgressIntervalMS < 0 || c.Worker.ProgressIntervalMS > 10000 {
		errs = append(errs, ValidationError{
			Field:   "worker.progress_interval_ms",
			Message: fmt.Sprintf("%d out of range 0..10000", c.Worker.ProgressIntervalMS),
		})
	}
	if c.Worker.StderrTailLines < 1 {
		errs = append(errs, ValidationError{Field: "worker.stderr_tail_lines", Message: "must be at least 1"})
	}
	if c.Metadata.DebounceMS < 0 {
		errs = append(errs, ValidationError{Field: "metadata.debounce_ms", Message: "must not be negative"})
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
