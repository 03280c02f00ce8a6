package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ytget/media-workbench/internal/events"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/platform"
)

// Defaults for Options
const (
	DefaultFFmpegCommand    = "ffmpeg"
	DefaultFFprobeCommand   = "ffprobe"
	DefaultStderrTailLines  = 20
	DefaultProgressInterval = 250 * time.Millisecond
)

// Options configures the FFmpeg worker
type Options struct {
	FFmpegPath       string
	FFprobePath      string
	ProgressInterval time.Duration // minimum gap between progress events, 0 disables throttling
	StderrTailLines  int           // stderr lines kept for error messages
}

var _ Worker = (*FFmpeg)(nil)

// FFmpeg implements Worker with ffmpeg and ffprobe subprocesses
type FFmpeg struct {
	opts       Options
	publisher  events.Publisher
	logger     *slog.Logger
	openFolder func(string) error
	remove     func(string) error
}

// NewFFmpeg creates a worker publishing progress to publisher
func NewFFmpeg(publisher events.Publisher, opts Options, logger *slog.Logger) *FFmpeg {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = DefaultFFmpegCommand
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = DefaultFFprobeCommand
	}
	if opts.StderrTailLines <= 0 {
		opts.StderrTailLines = DefaultStderrTailLines
	}
	return &FFmpeg{
		opts:       opts,
		publisher:  publisher,
		logger:     logging.NewComponentLogger(logger, "worker"),
		openFolder: platform.OpenFolder,
		remove:     os.Remove,
	}
}

// CheckDependencies reports whether ffmpeg and ffprobe can be found
func (f *FFmpeg) CheckDependencies() error {
	return platform.CheckDependencies(f.opts.FFmpegPath, f.opts.FFprobePath)
}

// ExtractAudio runs extract-audio
func (f *FFmpeg) ExtractAudio(ctx context.Context, req ExtractRequest) error {
	if err := checkInput(req.InputPath); err != nil {
		return err
	}
	args, err := BuildExtractArgs(req)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(req.OutputPath)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger := f.logger.With(slog.String("command", CommandExtractAudio), slog.String(logging.KeyPath, req.InputPath))
	reporter := newProgressReporter(f.publisher, model.TaskKindExtract, model.MessageExtractStarted, f.probeDuration(ctx, req.InputPath, logger), f.opts.ProgressInterval)

	if err := f.run(ctx, args, reporter, logger); err != nil {
		// Remove partial output file
		if rmErr := f.remove(req.OutputPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Debug("failed to remove partial output",
				slog.String("output", req.OutputPath), slog.String("error", rmErr.Error()))
		}
		return err
	}
	reporter.finish(model.MessageExtractCompleted)
	logger.Info("audio extracted", slog.String("output", req.OutputPath))
	return nil
}

// SliceVideo runs slice-video and verifies the resulting segment list
func (f *FFmpeg) SliceVideo(ctx context.Context, req SliceRequest) error {
	if err := checkInput(req.InputPath); err != nil {
		return err
	}
	args, err := BuildSliceArgs(req)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger := f.logger.With(slog.String("command", CommandSliceVideo), slog.String(logging.KeyPath, req.InputPath))
	reporter := newProgressReporter(f.publisher, model.TaskKindSlice, model.MessageSliceStarted, f.probeDuration(ctx, req.InputPath, logger), f.opts.ProgressInterval)

	if err := f.run(ctx, args, reporter, logger); err != nil {
		return err
	}

	summary, err := VerifyPlaylist(filepath.Join(req.OutputDir, PlaylistName))
	if err != nil {
		return err
	}
	reporter.finish(model.MessageSliceCompleted)
	logger.Info("video sliced",
		slog.String("output", req.OutputDir),
		slog.Int("segments", summary.Segments),
		slog.Float64("total_seconds", summary.TotalDuration))
	return nil
}

// VideoInfo runs get-video-info
func (f *FFmpeg) VideoInfo(ctx context.Context, inputPath string) (model.VideoMetadata, error) {
	if err := checkInput(inputPath); err != nil {
		return model.VideoMetadata{}, err
	}

	cmd := exec.CommandContext(ctx, f.opts.FFprobePath, probeArgs(inputPath)...)
	output, err := cmd.Output()
	if err != nil {
		return model.VideoMetadata{}, fmt.Errorf("failed to run ffprobe: %w", exitDetail(err))
	}

	meta, err := parseProbeOutput(output)
	if err != nil {
		return model.VideoMetadata{}, err
	}
	if meta.Size == 0 {
		if info, statErr := os.Stat(inputPath); statErr == nil {
			meta.Size = info.Size()
		}
	}
	return meta, nil
}

// OpenFolder runs open-folder
func (f *FFmpeg) OpenFolder(path string) error {
	if err := f.openFolder(path); err != nil {
		return fmt.Errorf("%s: %w", CommandOpenFolder, err)
	}
	return nil
}

// probeDuration returns the input duration, or 0 when it cannot be determined.
// Without a duration only the start and final events are published.
func (f *FFmpeg) probeDuration(ctx context.Context, inputPath string, logger *slog.Logger) float64 {
	cmd := exec.CommandContext(ctx, f.opts.FFprobePath, durationArgs(inputPath)...)
	output, err := cmd.Output()
	if err != nil {
		logger.Warn("failed to probe duration", slog.String("error", err.Error()))
		return 0
	}
	duration, err := parseDuration(output)
	if err != nil {
		logger.Warn("failed to probe duration", slog.String("error", err.Error()))
		return 0
	}
	return duration
}

// run starts ffmpeg, feeds its progress output to reporter and waits for exit
func (f *FFmpeg) run(ctx context.Context, args []string, reporter *progressReporter, logger *slog.Logger) error {
	cmd := exec.CommandContext(ctx, f.opts.FFmpegPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	logger.Debug("starting ffmpeg", slog.String("args", strings.Join(args, " ")))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := newLineTail(f.opts.StderrTailLines)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		reporter.consume(stdout)
	}()
	go func() {
		defer wg.Done()
		tail.consume(stderr)
	}()
	// Pipes must be drained before Wait
	wg.Wait()

	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
	}
	if err != nil {
		detail := tail.String()
		logger.Warn("ffmpeg failed", slog.String("error", err.Error()), slog.String("stderr", detail))
		if detail != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// checkInput verifies that the input file exists
func checkInput(inputPath string) error {
	if inputPath == "" {
		return errors.New("input path is empty")
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}
	return nil
}

// exitDetail appends captured stderr of a failed Output() call
func exitDetail(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}

// lineTail keeps the last n lines written by a process
type lineTail struct {
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t.lines = append(t.lines, line)
		if len(t.lines) > t.n {
			t.lines = t.lines[len(t.lines)-t.n:]
		}
	}
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "; ")
}
