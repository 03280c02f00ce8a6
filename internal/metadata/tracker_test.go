package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/media-workbench/internal/logging"
	"github.com/ytget/media-workbench/internal/model"
)

// gatedFetcher answers each path only when its gate is released
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string]model.VideoMetadata
	errs    map[string]error
	calls   map[string]int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		gates:   make(map[string]chan struct{}),
		results: make(map[string]model.VideoMetadata),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *gatedFetcher) gate(path string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[path]
	if !ok {
		g = make(chan struct{})
		f.gates[path] = g
	}
	return g
}

func (f *gatedFetcher) open(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[path]
	if !ok {
		g = make(chan struct{})
		f.gates[path] = g
	}
	select {
	case <-g:
	default:
		close(g)
	}
}

func (f *gatedFetcher) VideoInfo(ctx context.Context, path string) (model.VideoMetadata, error) {
	f.mu.Lock()
	f.calls[path]++
	f.mu.Unlock()

	<-f.gate(path)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[path]; err != nil {
		return model.VideoMetadata{}, err
	}
	return f.results[path], nil
}

func (f *gatedFetcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func newTestTracker(t *testing.T, f Fetcher) *Tracker {
	t.Helper()
	tr := NewTracker(context.Background(), NewClient(f), logging.Discard())
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestClient_FetchMetadata(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "mp4", Duration: 12}
	f.open("/a.mp4")
	f.errs["/bad.mp4"] = errors.New("moov atom not found")
	f.open("/bad.mp4")
	c := NewClient(f)

	meta, err := c.FetchMetadata(context.Background(), "/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "mp4", meta.Format)

	_, err = c.FetchMetadata(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = c.FetchMetadata(context.Background(), "/bad.mp4")
	assert.ErrorContains(t, err, "failed to get video info")
	assert.ErrorContains(t, err, "moov atom not found")
}

func TestTracker_LastPathWins(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.results["/b.mp4"] = model.VideoMetadata{Format: "b"}
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.SetPath("/b.mp4")

	// B resolves first, A resolves last
	f.open("/b.mp4")
	require.Eventually(t, func() bool { return tr.State().Info != nil }, time.Second, 5*time.Millisecond)
	f.open("/a.mp4")
	tr.Wait()

	state := tr.State()
	assert.Equal(t, "/b.mp4", state.Path)
	require.NotNil(t, state.Info)
	assert.Equal(t, "b", state.Info.Format)
	assert.False(t, state.Loading)
}

func TestTracker_OlderQueryResolvingFirstIsDiscarded(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.results["/b.mp4"] = model.VideoMetadata{Format: "b"}
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.SetPath("/b.mp4")
	f.open("/a.mp4")
	require.Eventually(t, func() bool { return f.callCount("/b.mp4") == 1 }, time.Second, 5*time.Millisecond)

	state := tr.State()
	assert.Equal(t, "/b.mp4", state.Path)
	assert.True(t, state.Loading)
	assert.Nil(t, state.Info)

	f.open("/b.mp4")
	tr.Wait()
	require.NotNil(t, tr.State().Info)
	assert.Equal(t, "b", tr.State().Info.Format)
}

func TestTracker_ClearPath(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.open("/a.mp4")
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.Wait()
	require.NotNil(t, tr.State().Info)

	tr.SetPath("")
	assert.Equal(t, State{}, tr.State())
	assert.Equal(t, 1, f.callCount("/a.mp4"))
	assert.Equal(t, 0, f.callCount(""))
}

func TestTracker_ClearWhileLoading(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.SetPath("")
	f.open("/a.mp4")
	tr.Wait()

	assert.Nil(t, tr.State().Info)
	assert.Empty(t, tr.State().Path)
}

func TestTracker_FailureClearsMetadata(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.errs["/broken.mp4"] = errors.New("Invalid data found when processing input")
	f.open("/a.mp4")
	f.open("/broken.mp4")
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.Wait()
	require.NotNil(t, tr.State().Info)

	tr.SetPath("/broken.mp4")
	tr.Wait()

	state := tr.State()
	assert.Nil(t, state.Info)
	assert.Contains(t, state.Err, "failed to get video info")
	assert.False(t, state.Loading)
}

func TestTracker_OnChange(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.open("/a.mp4")
	tr := newTestTracker(t, f)

	var mu sync.Mutex
	var states []State
	tr.SetOnChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	tr.SetPath("/a.mp4")
	tr.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	require.NotNil(t, states[1].Info)
}

func TestTracker_RefreshKeepsVisibleMetadata(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.open("/a.mp4")
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.Wait()
	tr.Refresh()
	tr.Wait()

	assert.Equal(t, 2, f.callCount("/a.mp4"))
	require.NotNil(t, tr.State().Info)
}

func TestTracker_RefreshDuringPathChange(t *testing.T) {
	f := newGatedFetcher()
	f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
	f.results["/b.mp4"] = model.VideoMetadata{Format: "b"}
	tr := newTestTracker(t, f)

	tr.SetPath("/a.mp4")
	tr.SetPath("/b.mp4")
	tr.Refresh()
	f.open("/a.mp4")
	f.open("/b.mp4")
	tr.Wait()

	state := tr.State()
	assert.Equal(t, "/b.mp4", state.Path)
	assert.False(t, state.Loading)
	require.NotNil(t, state.Info)
	assert.Equal(t, "b", state.Info.Format)
	assert.Equal(t, 1, f.callCount("/a.mp4"))
	assert.Equal(t, 2, f.callCount("/b.mp4"))
}

func TestTracker_ConcurrentRefreshAndSetPath(t *testing.T) {
	for i := 0; i < 200; i++ {
		f := newGatedFetcher()
		f.results["/a.mp4"] = model.VideoMetadata{Format: "a"}
		f.results["/b.mp4"] = model.VideoMetadata{Format: "b"}
		f.open("/a.mp4")
		f.open("/b.mp4")
		tr := NewTracker(context.Background(), NewClient(f), logging.Discard())

		tr.SetPath("/a.mp4")
		tr.Wait()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Refresh()
		}()
		go func() {
			defer wg.Done()
			tr.SetPath("/b.mp4")
		}()
		wg.Wait()
		tr.Wait()

		state := tr.State()
		require.Equal(t, "/b.mp4", state.Path, "iteration %d", i)
		require.False(t, state.Loading, "iteration %d", i)
		require.NotNil(t, state.Info, "iteration %d", i)
		require.Equal(t, "b", state.Info.Format, "iteration %d", i)
		require.NoError(t, tr.Close())
	}
}

func TestTracker_WatchRequeriesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	f := newGatedFetcher()
	f.results[path] = model.VideoMetadata{Format: "mp4"}
	f.open(path)
	tr := newTestTracker(t, f)
	if err := tr.EnableWatch(20 * time.Millisecond); err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}

	tr.SetPath(path)
	tr.Wait()
	require.Equal(t, 1, f.callCount(path))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	assert.Eventually(t, func() bool { return f.callCount(path) >= 2 }, 2*time.Second, 10*time.Millisecond)
}
