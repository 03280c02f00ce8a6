package worker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ytget/media-workbench/internal/model"
)

// FFprobe constants
const (
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	FFprobePrintFormat  = "json"
)

// probeOutput mirrors the parts of ffprobe -print_format json we read
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Channels     int    `json:"channels"`
		BitRate      string `json:"bit_rate"`
	} `json:"streams"`
}

// probeArgs returns ffprobe arguments for a full metadata query
func probeArgs(inputPath string) []string {
	return []string{
		"-v", FFprobeLogLevel,
		"-print_format", FFprobePrintFormat,
		"-show_format",
		"-show_streams",
		inputPath,
	}
}

// durationArgs returns ffprobe arguments for a duration-only query
func durationArgs(inputPath string) []string {
	return []string{"-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, inputPath}
}

// parseDuration parses the output of a duration-only query
func parseDuration(output []byte) (float64, error) {
	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// parseProbeOutput converts ffprobe JSON into VideoMetadata.
// The first video and the first audio stream are used.
func parseProbeOutput(data []byte) (model.VideoMetadata, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	meta := model.VideoMetadata{
		Format:   out.Format.FormatName,
		Duration: parseFloatOrZero(out.Format.Duration),
		Size:     parseIntOrZero(out.Format.Size),
		Bitrate:  parseIntOrZero(out.Format.BitRate),
	}

	videoSeen, audioSeen := false, false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if videoSeen {
				continue
			}
			videoSeen = true
			meta.Codec = s.CodecName
			if s.Width > 0 && s.Height > 0 {
				meta.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
			}
			rate := s.AvgFrameRate
			if rate == "" || rate == "0/0" {
				rate = s.RFrameRate
			}
			if fps, ok := parseFrameRate(rate); ok {
				meta.FPS = &fps
			}
		case "audio":
			if audioSeen {
				continue
			}
			audioSeen = true
			meta.AudioCodec = s.CodecName
			if s.Channels > 0 {
				channels := s.Channels
				meta.AudioChannels = &channels
			}
			if br := parseIntOrZero(s.BitRate); br > 0 {
				meta.AudioBitrate = &br
			}
		}
	}

	if meta.Format == "" {
		return model.VideoMetadata{}, fmt.Errorf("ffprobe returned no format information")
	}
	return meta, nil
}

// parseFrameRate parses "30000/1001" or "25"
func parseFrameRate(s string) (float64, bool) {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	if !found {
		return n, true
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return n / d, true
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseIntOrZero(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
