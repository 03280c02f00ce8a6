package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeFixture = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080,
     "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "bit_rate": "128000"},
    {"index": 2, "codec_name": "ac3", "codec_type": "audio", "channels": 6, "bit_rate": "384000"}
  ],
  "format": {
    "filename": "clip.mp4",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "125.458000",
    "size": "52428800",
    "bit_rate": "3342157"
  }
}`

func TestParseProbeOutput(t *testing.T) {
	meta, err := parseProbeOutput([]byte(probeFixture))
	require.NoError(t, err)

	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", meta.Format)
	assert.InDelta(t, 125.458, meta.Duration, 0.0001)
	assert.Equal(t, int64(52428800), meta.Size)
	assert.Equal(t, int64(3342157), meta.Bitrate)
	assert.Equal(t, "1920x1080", meta.Resolution)
	assert.Equal(t, "h264", meta.Codec)
	require.NotNil(t, meta.FPS)
	assert.InDelta(t, 29.97, *meta.FPS, 0.01)
	assert.Equal(t, "aac", meta.AudioCodec)
	require.NotNil(t, meta.AudioChannels)
	assert.Equal(t, 2, *meta.AudioChannels)
	require.NotNil(t, meta.AudioBitrate)
	assert.Equal(t, int64(128000), *meta.AudioBitrate)
}

func TestParseProbeOutput_AudioOnly(t *testing.T) {
	data := `{"streams":[{"codec_type":"audio","codec_name":"mp3","channels":1}],
	"format":{"format_name":"mp3","duration":"3.0","size":"48000"}}`

	meta, err := parseProbeOutput([]byte(data))
	require.NoError(t, err)
	assert.Empty(t, meta.Resolution)
	assert.Empty(t, meta.Codec)
	assert.Nil(t, meta.FPS)
	assert.Nil(t, meta.AudioBitrate)
	assert.Equal(t, "mp3", meta.AudioCodec)
	assert.Equal(t, int64(0), meta.Bitrate)
}

func TestParseProbeOutput_Invalid(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)

	_, err = parseProbeOutput([]byte(`{"streams":[],"format":{}}`))
	assert.Error(t, err)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"25/1", 25, true},
		{"24", 24, true},
		{"0/0", 0, false},
		{"30/0", 0, false},
		{"", 0, false},
	}

	for _, test := range tests {
		got, ok := parseFrameRate(test.input)
		assert.Equal(t, test.ok, ok, test.input)
		assert.InDelta(t, test.expected, got, 0.0001, test.input)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration([]byte("12.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 12.5, d)

	_, err = parseDuration([]byte("N/A"))
	assert.Error(t, err)
}
