package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const segmentList = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-MEDIA-SEQUENCE:0
#EXT-X-ALLOW-CACHE:YES
#EXT-X-TARGETDURATION:11
#EXTINF:10.000000,
segment_000.ts
#EXTINF:10.000000,
segment_001.ts
#EXTINF:4.500000,
segment_002.ts
#EXT-X-ENDLIST
`

func writeSegments(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("ts"), 0o644))
	}
}

func TestVerifyPlaylist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlaylistName)
	require.NoError(t, os.WriteFile(path, []byte(segmentList), 0o644))
	writeSegments(t, dir, "segment_000.ts", "segment_001.ts", "segment_002.ts")

	summary, err := VerifyPlaylist(path)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Segments)
	assert.InDelta(t, 24.5, summary.TotalDuration, 0.001)
	assert.InDelta(t, 10.0, summary.Longest, 0.001)
}

func TestVerifyPlaylist_MissingSegment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlaylistName)
	require.NoError(t, os.WriteFile(path, []byte(segmentList), 0o644))
	writeSegments(t, dir, "segment_000.ts")

	_, err := VerifyPlaylist(path)
	assert.ErrorContains(t, err, "segment_001.ts")
}

func TestVerifyPlaylist_MissingFile(t *testing.T) {
	_, err := VerifyPlaylist(filepath.Join(t.TempDir(), PlaylistName))
	assert.Error(t, err)
}

func TestVerifyPlaylist_Master(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PlaylistName)
	master := "#EXTM3U\n#EXT-X-STREAM-INF:BANDWIDTH=1280000\nlow/index.m3u8\n"
	require.NoError(t, os.WriteFile(path, []byte(master), 0o644))

	_, err := VerifyPlaylist(path)
	assert.Error(t, err)
}
