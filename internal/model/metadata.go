package model

import (
	"fmt"
	"math"
	"strconv"
)

// VideoMetadata is a snapshot of one media file at query time
type VideoMetadata struct {
	Duration      float64  `json:"duration"`   // seconds
	Size          int64    `json:"size"`       // bytes
	Format        string   `json:"format"`     // container format name
	Resolution    string   `json:"resolution"` // WxH
	Bitrate       int64    `json:"bitrate"`    // bits per second
	Codec         string   `json:"codec,omitempty"`
	FPS           *float64 `json:"fps,omitempty"`
	AudioCodec    string   `json:"audioCodec,omitempty"`
	AudioChannels *int     `json:"audioChannels,omitempty"`
	AudioBitrate  *int64   `json:"audioBitrate,omitempty"`
}

// SizeString returns the size in human readable form
func (m VideoMetadata) SizeString() string {
	return FormatFileSize(m.Size)
}

// DurationString returns the duration as H:MM:SS or M:SS
func (m VideoMetadata) DurationString() string {
	return FormatDuration(m.Duration)
}

// BitrateString returns the overall bitrate as Mbps or kbps
func (m VideoMetadata) BitrateString() string {
	return FormatBitrate(m.Bitrate)
}

// FPSString returns the frame rate with two decimals, or "—" if unknown
func (m VideoMetadata) FPSString() string {
	if m.FPS == nil {
		return "—"
	}
	return strconv.FormatFloat(math.Round(*m.FPS*100)/100, 'f', -1, 64)
}

// FormatFileSize formats bytes with a 1024 base up to GB, two decimals at most
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

// FormatDuration formats seconds as H:MM:SS, or M:SS below one hour
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) {
		return "0:00"
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatBitrate formats bits per second
func FormatBitrate(bps int64) string {
	switch {
	case bps <= 0:
		return "—"
	case bps >= 1_000_000:
		return fmt.Sprintf("%.2f Mbps", float64(bps)/1_000_000)
	}
	return fmt.Sprintf("%d kbps", bps/1000)
}
