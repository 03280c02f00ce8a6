// Package dispatch turns user commands into worker calls and keeps the task
// slots in step with each call's outcome.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/tasks"
	"github.com/ytget/media-workbench/internal/worker"
)

// RunIDPrefix prefixes generated run identifiers
const RunIDPrefix = "run-"

// Dispatcher issues extract and slice commands
type Dispatcher struct {
	worker   worker.Worker
	store    *tasks.Store
	logger   *slog.Logger
	newRunID func() string
	barrier  func()
}

// NewDispatcher creates a dispatcher updating store around worker calls
func NewDispatcher(w worker.Worker, store *tasks.Store, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		worker:   w,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "dispatch"),
		newRunID: generateRunID,
	}
}

// SetBarrier sets a function that runs after each worker call and before its
// outcome is recorded. Passing the bus Flush keeps queued progress events from
// landing on top of the outcome.
func (d *Dispatcher) SetBarrier(fn func()) {
	d.barrier = fn
}

// RunExtractAudio validates opts, marks the extract slot processing and runs
// extract-audio. It returns when the worker finishes.
func (d *Dispatcher) RunExtractAudio(ctx context.Context, opts ExtractOptions) error {
	req, err := ResolveExtract(opts)
	if err != nil {
		return err
	}

	params := model.ExtractParams{AudioFormat: req.AudioFormat, Bitrate: req.Bitrate, SampleRate: req.SampleRate}
	return d.run(ctx, model.TaskKindExtract, req.InputPath, req.OutputPath, params, func(ctx context.Context) error {
		return d.worker.ExtractAudio(ctx, req)
	})
}

// RunSliceVideo validates opts, marks the slice slot processing and runs
// slice-video. It returns when the worker finishes.
func (d *Dispatcher) RunSliceVideo(ctx context.Context, opts SliceOptions) error {
	req, err := ResolveSlice(opts)
	if err != nil {
		return err
	}

	params := model.SliceParams{
		Duration:      req.Duration,
		SegmentFormat: req.SegmentFormat,
		VideoCodec:    req.VideoCodec,
		VideoQuality:  req.VideoQuality,
		AudioCodec:    req.AudioCodec,
	}
	return d.run(ctx, model.TaskKindSlice, req.InputPath, req.OutputDir, params, func(ctx context.Context) error {
		return d.worker.SliceVideo(ctx, req)
	})
}

// StartExtractAudio runs RunExtractAudio in the background.
// The channel receives the single outcome and is then closed.
func (d *Dispatcher) StartExtractAudio(ctx context.Context, opts ExtractOptions) <-chan error {
	return goRun(func() error { return d.RunExtractAudio(ctx, opts) })
}

// StartSliceVideo runs RunSliceVideo in the background
func (d *Dispatcher) StartSliceVideo(ctx context.Context, opts SliceOptions) <-chan error {
	return goRun(func() error { return d.RunSliceVideo(ctx, opts) })
}

// OpenFolder relays open-folder to the worker
func (d *Dispatcher) OpenFolder(path string) error {
	if path == "" {
		return invalid("path", path, ErrEmptyInput)
	}
	return d.worker.OpenFolder(path)
}

// OpenSliceOutput opens the default segment directory of input
func (d *Dispatcher) OpenSliceOutput(input string) error {
	if input == "" {
		return invalid("input", input, ErrEmptyInput)
	}
	return d.OpenFolder(DefaultSliceOutput(input))
}

// OpenOutput opens the output location of the last run of kind.
// Extraction outputs are files, so their folder is opened.
func (d *Dispatcher) OpenOutput(kind model.TaskKind) error {
	t := d.store.Get(kind)
	if t.OutputTarget == "" {
		return fmt.Errorf("no output for %s yet", kind)
	}
	target := t.OutputTarget
	if kind == model.TaskKindExtract {
		target = filepath.Dir(target)
	}
	return d.OpenFolder(target)
}

// run brackets one worker call with slot transitions
func (d *Dispatcher) run(ctx context.Context, kind model.TaskKind, input, output string, params model.Params, call func(context.Context) error) error {
	runID := d.newRunID()
	logger := logging.WithRun(d.logger, kind.String(), runID)

	d.store.Initiate(kind, runID, input, output, params)
	logger.Info("dispatching command", slog.String(logging.KeyPath, input), slog.String("output", output))

	started := time.Now()
	err := call(ctx)
	elapsed := slog.Duration("elapsed", time.Since(started))
	if d.barrier != nil {
		d.barrier()
	}

	if err != nil {
		logger.Warn("command failed", slog.String("error", err.Error()), elapsed)
		if _, ferr := d.store.Fail(kind, runID, err); ferr != nil && !errors.Is(ferr, tasks.ErrStaleRun) {
			logger.Error("failed to record failure", slog.String("error", ferr.Error()))
		}
		return err
	}

	logger.Info("command completed", elapsed)
	if _, cerr := d.store.Complete(kind, runID); cerr != nil && !errors.Is(cerr, tasks.ErrStaleRun) {
		logger.Error("failed to record completion", slog.String("error", cerr.Error()))
	}
	return nil
}

func goRun(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- fn()
	}()
	return done
}

// generateRunID generates a unique run ID using UUID v7 for time ordering
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
