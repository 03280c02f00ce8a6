// Package workbench assembles the long-lived components shared by the desktop
// app and the command line: the event bus, the task store and its single bus
// subscription, the ffmpeg worker, the dispatcher and the metadata tracker.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/dispatch"
	"github.com/ytget/media-workbench/internal/events"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/metadata"
	"github.com/ytget/media-workbench/internal/tasks"
	"github.com/ytget/media-workbench/internal/worker"
)

// Runtime is the wired component graph
type Runtime struct {
	Bus        *events.Bus
	Store      *tasks.Store
	Worker     *worker.FFmpeg
	Dispatcher *dispatch.Dispatcher
	Tracker    *metadata.Tracker

	owner  *events.Owner
	logger *slog.Logger
}

// Options tweak how New wires the graph
type Options struct {
	// Worker replaces the ffmpeg worker, mainly for tests
	Worker worker.Worker
	// DisableWatch skips the metadata file watcher even when cfg enables it
	DisableWatch bool
}

// New builds the runtime from cfg. The store subscribes to the bus exactly once
// here; Close releases the subscription. ctx bounds metadata queries.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger = logging.NewComponentLogger(logger, "workbench")

	bus := events.NewBus(logger)
	store := tasks.NewStore(logger)
	owner := events.NewOwner(bus)
	if _, err := owner.Acquire(store.HandleProgress); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to subscribe task store: %w", err)
	}

	ffmpeg := worker.NewFFmpeg(bus, worker.Options{
		FFmpegPath:       cfg.Worker.FFmpegPath,
		FFprobePath:      cfg.Worker.FFprobePath,
		ProgressInterval: cfg.Worker.ProgressInterval(),
		StderrTailLines:  cfg.Worker.StderrTailLines,
	}, logger)

	var w worker.Worker = ffmpeg
	if opts.Worker != nil {
		w = opts.Worker
	}

	dispatcher := dispatch.NewDispatcher(w, store, logger)
	dispatcher.SetBarrier(bus.Flush)

	tracker := metadata.NewTracker(ctx, metadata.NewClient(w), logger)
	if cfg.Metadata.Watch && !opts.DisableWatch {
		if err := tracker.EnableWatch(cfg.Metadata.Debounce()); err != nil {
			logger.Warn("metadata watch disabled", slog.String("error", err.Error()))
		}
	}

	return &Runtime{
		Bus:        bus,
		Store:      store,
		Worker:     ffmpeg,
		Dispatcher: dispatcher,
		Tracker:    tracker,
		owner:      owner,
		logger:     logger,
	}, nil
}

// Close stops the tracker, releases the store subscription and drains the bus
func (r *Runtime) Close() error {
	errs := []error{r.Tracker.Close()}
	r.Bus.Flush()
	errs = append(errs, r.owner.Release(), r.Bus.Close())
	if dropped := r.Bus.Dropped(); dropped > 0 {
		r.logger.Info("malformed events dropped", slog.Int64("count", dropped))
	}
	return errors.Join(errs...)
}

// Subscribed reports whether the store still holds its bus subscription
func (r *Runtime) Subscribed() bool {
	return r.owner.Held()
}
