package workbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-workbench/internal/config"
	"github.com/ytget/media-workbench/internal/dispatch"
	"github.com/ytget/media-workbench/internal/events"
	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
	"github.com/ytget/media-workbench/internal/worker"
)

// publishingWorker emits progress on the bus the way the ffmpeg worker does
type publishingWorker struct {
	bus events.Publisher
}

func (p *publishingWorker) ExtractAudio(_ context.Context, _ worker.ExtractRequest) error {
	_ = p.bus.Publish(model.NewProgressEvent(model.TaskKindExtract, 0, "starting"))
	_ = p.bus.Publish(model.NewProgressEvent(model.TaskKindExtract, 55.5, "encoding"))
	_ = p.bus.Publish(model.NewProgressEvent(model.TaskKindExtract, 100, "done"))
	return nil
}

func (p *publishingWorker) SliceVideo(context.Context, worker.SliceRequest) error { return nil }

func (p *publishingWorker) VideoInfo(context.Context, string) (model.VideoMetadata, error) {
	return model.VideoMetadata{Duration: 12}, nil
}

func (p *publishingWorker) OpenFolder(string) error { return nil }

// lateBus forwards to the runtime bus once it exists
type lateBus struct {
	bus *events.Bus
}

func (l *lateBus) Publish(ev model.ProgressEvent) error { return l.bus.Publish(ev) }

func TestNew_WiresStoreToBus(t *testing.T) {
	late := &lateBus{}
	rt, err := New(context.Background(), config.Default(), logging.Discard(), Options{
		Worker:       &publishingWorker{bus: late},
		DisableWatch: true,
	})
	require.NoError(t, err)
	late.bus = rt.Bus
	assert.True(t, rt.Subscribed())

	require.NoError(t, rt.Dispatcher.RunExtractAudio(context.Background(), dispatch.ExtractOptions{InputPath: "/v/a.mp4"}))

	slot := rt.Store.Get(model.TaskKindExtract)
	assert.Equal(t, model.TaskStatusCompleted, slot.Status)
	assert.Equal(t, model.MessageExtractCompleted, slot.Message)
	assert.Equal(t, model.TaskStatusIdle, rt.Store.Get(model.TaskKindSlice).Status)

	require.NoError(t, rt.Close())
	assert.False(t, rt.Subscribed())
	assert.ErrorIs(t, rt.Bus.Publish(model.NewProgressEvent(model.TaskKindSlice, 1, "x")), events.ErrBusClosed)
}

func TestNew_UntaggedJSONReachesDefaultSlot(t *testing.T) {
	rt, err := New(context.Background(), nil, logging.Discard(), Options{DisableWatch: true})
	require.NoError(t, err)
	defer rt.Close()

	require.NoError(t, rt.Bus.PublishJSON([]byte(`{"progress": 40, "message": "working"}`)))
	require.NoError(t, rt.Bus.PublishJSON([]byte(`{"progress": "nope"}`)))
	rt.Bus.Flush()

	slot := rt.Store.Get(model.TaskKindDefault)
	assert.Equal(t, model.TaskStatusProcessing, slot.Status)
	assert.Equal(t, 40.0, slot.Progress)
	assert.EqualValues(t, 1, rt.Bus.Dropped())
}
