package worker

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestBuildExtractArgs(t *testing.T) {
	tests := []struct {
		name     string
		req      ExtractRequest
		expected []string
	}{
		{
			name: "mp3 with bitrate",
			req:  ExtractRequest{InputPath: "/in.mp4", OutputPath: "/in.mp4.mp3", AudioFormat: "mp3", Bitrate: 192, SampleRate: 44100},
			expected: []string{
				"-y", "-i", "/in.mp4", "-vn", "-acodec", "libmp3lame",
				"-b:a", "192k", "-ar", "44100",
				"-progress", "pipe:1", "-nostats", "/in.mp4.mp3",
			},
		},
		{
			name: "flac ignores bitrate",
			req:  ExtractRequest{InputPath: "/in.mkv", OutputPath: "/out.flac", AudioFormat: "flac", Bitrate: 320, SampleRate: 96000},
			expected: []string{
				"-y", "-i", "/in.mkv", "-vn", "-acodec", "flac",
				"-ar", "96000",
				"-progress", "pipe:1", "-nostats", "/out.flac",
			},
		},
		{
			name: "wav",
			req:  ExtractRequest{InputPath: "/a", OutputPath: "/a.wav", AudioFormat: "wav"},
			expected: []string{
				"-y", "-i", "/a", "-vn", "-acodec", "pcm_s16le",
				"-progress", "pipe:1", "-nostats", "/a.wav",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			args, err := BuildExtractArgs(test.req)
			if err != nil {
				t.Fatalf("BuildExtractArgs failed: %v", err)
			}
			if !slices.Equal(args, test.expected) {
				t.Errorf("args = %v\nexpected %v", args, test.expected)
			}
		})
	}
}

func TestBuildExtractArgs_UnsupportedFormat(t *testing.T) {
	if _, err := BuildExtractArgs(ExtractRequest{AudioFormat: "ogg"}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestBuildSliceArgs(t *testing.T) {
	req := SliceRequest{
		InputPath:     "/videos/in.mp4",
		OutputDir:     "/videos/in.mp4_segments",
		Duration:      10,
		SegmentFormat: "ts",
		VideoCodec:    "libx264",
		VideoQuality:  "medium",
		AudioCodec:    "aac",
	}

	args, err := BuildSliceArgs(req)
	if err != nil {
		t.Fatalf("BuildSliceArgs failed: %v", err)
	}

	expectPair := func(flag, value string) {
		t.Helper()
		i := slices.Index(args, flag)
		if i < 0 || i+1 >= len(args) || args[i+1] != value {
			t.Errorf("expected %s %s in %v", flag, value, args)
		}
	}

	expectPair("-c:v", "libx264")
	expectPair("-crf", "23")
	expectPair("-preset", "veryfast")
	expectPair("-profile:v", "baseline")
	expectPair("-level", "4.1")
	expectPair("-c:a", "aac")
	expectPair("-ar", "48000")
	expectPair("-force_key_frames", "expr:gte(t,n_forced*10)")
	expectPair("-f", "segment")
	expectPair("-segment_time", "10")
	expectPair("-segment_format", "mpegts")
	expectPair("-segment_list_type", "m3u8")
	expectPair("-segment_list", filepath.Join("/videos/in.mp4_segments", "index.m3u8"))
	expectPair("-segment_list_flags", "+live")
	expectPair("-segment_wrap", "0")
	expectPair("-progress", "pipe:1")

	if last := args[len(args)-1]; last != filepath.Join("/videos/in.mp4_segments", "segment_%03d.ts") {
		t.Errorf("unexpected output pattern %s", last)
	}
}

func TestBuildSliceArgs_WebM(t *testing.T) {
	args, err := BuildSliceArgs(SliceRequest{
		InputPath: "/in.mp4", OutputDir: "/out", Duration: 5,
		SegmentFormat: "webm", VideoCodec: "libvpx-vp9", VideoQuality: "high", AudioCodec: "opus",
	})
	if err != nil {
		t.Fatalf("BuildSliceArgs failed: %v", err)
	}
	for _, want := range []string{"libvpx-vp9", "libopus", "webm"} {
		if !slices.Contains(args, want) {
			t.Errorf("expected %s in %v", want, args)
		}
	}
	if i := slices.Index(args, "-b:v"); i < 0 || args[i+1] != "0" {
		t.Errorf("VP9 should use constant quality -b:v 0: %v", args)
	}
	if slices.Contains(args, "-profile:v") {
		t.Error("H.264 profile must not be set for VP9")
	}
	if last := args[len(args)-1]; filepath.Ext(last) != ".webm" {
		t.Errorf("unexpected output pattern %s", last)
	}
}

func TestBuildSliceArgs_Errors(t *testing.T) {
	base := SliceRequest{InputPath: "/in", OutputDir: "/out", Duration: 10, SegmentFormat: "ts", VideoCodec: "libx264", VideoQuality: "medium", AudioCodec: "aac"}

	tests := []struct {
		name   string
		mutate func(*SliceRequest)
	}{
		{"format", func(r *SliceRequest) { r.SegmentFormat = "avi" }},
		{"video codec", func(r *SliceRequest) { r.VideoCodec = "h264_nvenc" }},
		{"quality", func(r *SliceRequest) { r.VideoQuality = "ultra" }},
		{"audio codec", func(r *SliceRequest) { r.AudioCodec = "ac3" }},
		{"duration", func(r *SliceRequest) { r.Duration = 0 }},
	}

	for _, test := range tests {
		req := base
		test.mutate(&req)
		if _, err := BuildSliceArgs(req); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestSegmentExtension(t *testing.T) {
	if SegmentExtension("ts") != "ts" || SegmentExtension("mp4") != "mp4" || SegmentExtension("webm") != "webm" {
		t.Error("unexpected segment extension")
	}
}
