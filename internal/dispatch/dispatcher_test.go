package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-workbench/internal/events"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/tasks"
	"github.com/ytget/media-workbench/internal/worker"
)

// fakeWorker records calls and runs optional hooks in place of ffmpeg
type fakeWorker struct {
	mu       sync.Mutex
	extracts []worker.ExtractRequest
	slices   []worker.SliceRequest
	opened   []string

	onExtract func(context.Context, worker.ExtractRequest) error
	onSlice   func(context.Context, worker.SliceRequest) error
}

func (f *fakeWorker) ExtractAudio(ctx context.Context, req worker.ExtractRequest) error {
	f.mu.Lock()
	f.extracts = append(f.extracts, req)
	hook := f.onExtract
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, req)
	}
	return nil
}

func (f *fakeWorker) SliceVideo(ctx context.Context, req worker.SliceRequest) error {
	f.mu.Lock()
	f.slices = append(f.slices, req)
	hook := f.onSlice
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, req)
	}
	return nil
}

func (f *fakeWorker) VideoInfo(context.Context, string) (model.VideoMetadata, error) {
	return model.VideoMetadata{}, nil
}

func (f *fakeWorker) OpenFolder(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, path)
	return nil
}

func newTestDispatcher(w *fakeWorker) (*Dispatcher, *tasks.Store) {
	store := tasks.NewStore(logging.Discard())
	d := NewDispatcher(w, store, logging.Discard())
	return d, store
}

func TestRunExtractAudio_DefaultOutput(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)

	require.NoError(t, d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/videos/clip.mp4", AudioFormat: "flac"}))

	require.Len(t, w.extracts, 1)
	req := w.extracts[0]
	assert.Equal(t, "/videos/clip.mp4.flac", req.OutputPath)
	assert.Equal(t, model.DefaultBitrate, req.Bitrate)
	assert.Equal(t, model.DefaultSampleRate, req.SampleRate)

	slot := store.Get(model.TaskKindExtract)
	assert.Equal(t, model.TaskStatusCompleted, slot.Status)
	assert.Equal(t, 100.0, slot.Progress)
	assert.Equal(t, "/videos/clip.mp4.flac", slot.OutputTarget)
	assert.Equal(t, model.ExtractParams{AudioFormat: "flac", Bitrate: 192, SampleRate: 44100}, slot.Params)
}

func TestRunSliceVideo_DefaultOutput(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)

	require.NoError(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/videos/clip.mp4", Duration: 10}))

	require.Len(t, w.slices, 1)
	req := w.slices[0]
	assert.Equal(t, "/videos/clip.mp4_segments", req.OutputDir)
	assert.Equal(t, "ts", req.SegmentFormat)
	assert.Equal(t, "libx264", req.VideoCodec)
	assert.Equal(t, "medium", req.VideoQuality)
	assert.Equal(t, "aac", req.AudioCodec)
	assert.Equal(t, model.TaskStatusCompleted, store.Get(model.TaskKindSlice).Status)
}

func TestRun_ExplicitOutputKept(t *testing.T) {
	w := &fakeWorker{}
	d, _ := newTestDispatcher(w)

	require.NoError(t, d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/a.mp4", OutputPath: "/out/a.mp3", AudioFormat: "mp3"}))
	require.NoError(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a.mp4", OutputDir: "/out/seg", Duration: 5}))

	assert.Equal(t, "/out/a.mp3", w.extracts[0].OutputPath)
	assert.Equal(t, "/out/seg", w.slices[0].OutputDir)
}

func TestRun_ValidationRejectsBeforeDispatch(t *testing.T) {
	tests := []struct {
		name   string
		run    func(*Dispatcher) error
		target error
	}{
		{"empty extract input", func(d *Dispatcher) error {
			return d.RunExtractAudio(context.Background(), ExtractOptions{AudioFormat: "mp3"})
		}, ErrEmptyInput},
		{"empty slice input", func(d *Dispatcher) error {
			return d.RunSliceVideo(context.Background(), SliceOptions{Duration: 10})
		}, ErrEmptyInput},
		{"duration zero", func(d *Dispatcher) error {
			return d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a", Duration: 0})
		}, ErrInvalidDuration},
		{"duration too long", func(d *Dispatcher) error {
			return d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a", Duration: 601})
		}, ErrInvalidDuration},
		{"audio format", func(d *Dispatcher) error {
			return d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/a", AudioFormat: "ogg"})
		}, ErrUnsupportedOption},
		{"segment format", func(d *Dispatcher) error {
			return d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a", Duration: 10, SegmentFormat: "avi"})
		}, ErrUnsupportedOption},
		{"webm with h264", func(d *Dispatcher) error {
			return d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a", Duration: 10, SegmentFormat: "webm", AudioCodec: "opus"})
		}, ErrIncompatibleOption},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := &fakeWorker{}
			d, store := newTestDispatcher(w)
			before := store.Snapshot()

			err := test.run(d)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.target)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.Empty(t, w.extracts)
			assert.Empty(t, w.slices)
			assert.Equal(t, before, store.Snapshot())
		})
	}
}

func TestRunSliceVideo_DurationBounds(t *testing.T) {
	for _, duration := range []int{model.MinSliceDuration, model.MaxSliceDuration} {
		w := &fakeWorker{}
		d, _ := newTestDispatcher(w)
		require.NoError(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a", Duration: duration}))
		assert.Len(t, w.slices, 1)
	}
}

func TestRun_SlotProcessingBeforeWorkerCall(t *testing.T) {
	var seen model.Task
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)
	w.onSlice = func(context.Context, worker.SliceRequest) error {
		seen = store.Get(model.TaskKindSlice)
		return nil
	}

	require.NoError(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a.mp4", Duration: 10}))

	assert.Equal(t, model.TaskStatusProcessing, seen.Status)
	assert.Equal(t, 0.0, seen.Progress)
	assert.Equal(t, model.MessageSliceStarted, seen.Message)
	assert.NotEmpty(t, seen.RunID)
}

func TestRun_FailureKeepsLastProgress(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)
	w.onExtract = func(context.Context, worker.ExtractRequest) error {
		store.HandleProgress(model.NewProgressEvent(model.TaskKindExtract, 42, model.MessageExtractStarted))
		return errors.New("ffmpeg failed: exit status 1: disk full")
	}

	err := d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/a.mp4"})
	require.Error(t, err)

	slot := store.Get(model.TaskKindExtract)
	assert.Equal(t, model.TaskStatusError, slot.Status)
	assert.Equal(t, 42.0, slot.Progress)
	assert.Contains(t, slot.Message, "disk full")
}

func TestRun_BarrierDrainsQueuedEvents(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)

	bus := events.NewBus(logging.Discard())
	t.Cleanup(func() { _ = bus.Close() })
	sub, err := bus.Subscribe(store.HandleProgress)
	require.NoError(t, err)
	defer sub.Close()
	d.SetBarrier(bus.Flush)

	w.onExtract = func(context.Context, worker.ExtractRequest) error {
		for _, p := range []float64{10, 20, 30} {
			require.NoError(t, bus.Publish(model.NewProgressEvent(model.TaskKindExtract, p, model.MessageExtractStarted)))
		}
		return errors.New("exit status 1")
	}

	require.Error(t, d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/a.mp4"}))

	// nothing queued may land after the failure is recorded
	bus.Flush()
	slot := store.Get(model.TaskKindExtract)
	assert.Equal(t, model.TaskStatusError, slot.Status)
	assert.Equal(t, 30.0, slot.Progress)
}

func TestRun_ImmediateFailureIsError(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)
	w.onSlice = func(context.Context, worker.SliceRequest) error {
		return errors.New("input file does not exist: /a.mp4")
	}

	require.Error(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/a.mp4", Duration: 10}))

	slot := store.Get(model.TaskKindSlice)
	assert.Equal(t, 0.0, slot.Progress)
	assert.Equal(t, model.TaskStatusError, slot.Status)
	assert.Equal(t, model.TaskStatusError, model.DeriveStatus(slot.Progress, slot.Message))
}

func TestStart_ConcurrentKinds(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)

	releaseExtract := make(chan struct{})
	extractRunning := make(chan struct{})
	w.onExtract = func(ctx context.Context, _ worker.ExtractRequest) error {
		close(extractRunning)
		<-releaseExtract
		return nil
	}

	extractDone := d.StartExtractAudio(context.Background(), ExtractOptions{InputPath: "/a.mp4"})
	<-extractRunning

	// slicing completes while extraction is still in flight
	require.NoError(t, <-d.StartSliceVideo(context.Background(), SliceOptions{InputPath: "/b.mp4", Duration: 30}))
	assert.Equal(t, model.TaskStatusCompleted, store.Get(model.TaskKindSlice).Status)
	assert.Equal(t, model.TaskStatusProcessing, store.Get(model.TaskKindExtract).Status)

	close(releaseExtract)
	require.NoError(t, <-extractDone)
	assert.Equal(t, model.TaskStatusCompleted, store.Get(model.TaskKindExtract).Status)

	_, open := <-extractDone
	assert.False(t, open)
}

func TestRun_ContextPassedToWorker(t *testing.T) {
	w := &fakeWorker{}
	d, store := newTestDispatcher(w)
	w.onSlice = func(ctx context.Context, _ worker.SliceRequest) error {
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := d.StartSliceVideo(ctx, SliceOptions{InputPath: "/a.mp4", Duration: 10})
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, model.TaskStatusError, store.Get(model.TaskKindSlice).Status)
}

func TestOpenOutput(t *testing.T) {
	w := &fakeWorker{}
	d, _ := newTestDispatcher(w)

	assert.Error(t, d.OpenOutput(model.TaskKindSlice))

	require.NoError(t, d.RunExtractAudio(context.Background(), ExtractOptions{InputPath: "/videos/a.mp4"}))
	require.NoError(t, d.RunSliceVideo(context.Background(), SliceOptions{InputPath: "/videos/a.mp4", Duration: 10}))

	require.NoError(t, d.OpenOutput(model.TaskKindExtract))
	require.NoError(t, d.OpenOutput(model.TaskKindSlice))
	assert.Equal(t, []string{"/videos", "/videos/a.mp4_segments"}, w.opened)

	assert.ErrorIs(t, d.OpenFolder(""), ErrEmptyInput)
}

func TestOpenSliceOutput(t *testing.T) {
	w := &fakeWorker{}
	d, _ := newTestDispatcher(w)

	require.NoError(t, d.OpenSliceOutput("/videos/b.mkv"))
	assert.Equal(t, []string{"/videos/b.mkv_segments"}, w.opened)
	assert.ErrorIs(t, d.OpenSliceOutput(""), ErrEmptyInput)
}

func TestGenerateRunID(t *testing.T) {
	a, b := generateRunID(), generateRunID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, RunIDPrefix)
}
