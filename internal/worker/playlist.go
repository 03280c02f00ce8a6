package worker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grafov/m3u8"
)

// PlaylistSummary describes a verified segment list
type PlaylistSummary struct {
	Segments      int
	Longest       float64 // longest segment in seconds
	TotalDuration float64
}

// VerifyPlaylist decodes the segment list written by slice-video and checks
// that every listed segment exists next to it
func VerifyPlaylist(path string) (PlaylistSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return PlaylistSummary{}, fmt.Errorf("failed to open segment list: %w", err)
	}
	defer f.Close()

	p, listType, err := m3u8.DecodeFrom(f, true)
	if err != nil {
		return PlaylistSummary{}, fmt.Errorf("failed to parse segment list: %w", err)
	}
	if listType != m3u8.MEDIA {
		return PlaylistSummary{}, fmt.Errorf("segment list %s is not a media playlist", path)
	}
	media := p.(*m3u8.MediaPlaylist)

	var summary PlaylistSummary
	dir := filepath.Dir(path)
	for _, seg := range media.Segments {
		if seg == nil || seg.URI == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, seg.URI)); err != nil {
			return summary, fmt.Errorf("segment %s listed but missing: %w", seg.URI, err)
		}
		summary.Segments++
		summary.TotalDuration += seg.Duration
		if seg.Duration > summary.Longest {
			summary.Longest = seg.Duration
		}
	}

	if summary.Segments == 0 {
		return summary, fmt.Errorf("segment list %s has no segments", path)
	}
	return summary, nil
}
