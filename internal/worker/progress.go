package worker

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/media-workbench/internal/events"
	"github.com/ytget/media-workbench/internal/model"
)

// ffmpeg -progress keys
const (
	ProgressTimeUSPrefix = "out_time_us="
	ProgressTimeMSPrefix = "out_time_ms=" // microseconds despite the name
	ProgressTimePrefix   = "out_time="
	ProgressStatePrefix  = "progress="
	ProgressStateEnd     = "end"
)

// MaxRunningProgress caps progress until the process exits successfully,
// so a slot only reads completed once the command resolves.
const MaxRunningProgress = 99.99

// parseProgressLine extracts the encoded position in seconds from one
// ffmpeg -progress line
func parseProgressLine(line string) (seconds float64, ok bool) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, ProgressTimeUSPrefix):
		return parseMicroseconds(strings.TrimPrefix(line, ProgressTimeUSPrefix))
	case strings.HasPrefix(line, ProgressTimeMSPrefix):
		return parseMicroseconds(strings.TrimPrefix(line, ProgressTimeMSPrefix))
	case strings.HasPrefix(line, ProgressTimePrefix):
		return parseClock(strings.TrimPrefix(line, ProgressTimePrefix))
	}
	return 0, false
}

func parseMicroseconds(s string) (float64, bool) {
	us, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return float64(us) / 1000000.0, true
}

// parseClock parses HH:MM:SS.micro
func parseClock(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.ParseFloat(parts[0], 64)
	m, err2 := strconv.ParseFloat(parts[1], 64)
	sec, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || h < 0 {
		return 0, false
	}
	return h*3600 + m*60 + sec, true
}

// percentOf converts a position into a running percentage rounded to 2 decimals
func percentOf(position, total float64) float64 {
	if total <= 0 || position <= 0 {
		return 0
	}
	p := math.Round(position/total*100*100) / 100
	return math.Min(p, MaxRunningProgress)
}

// progressReporter publishes throttled progress for one command run
type progressReporter struct {
	publisher events.Publisher
	kind      model.TaskKind
	message   string
	duration  float64
	limiter   *rate.Limiter
	last      float64
}

func newProgressReporter(publisher events.Publisher, kind model.TaskKind, message string, duration float64, interval time.Duration) *progressReporter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &progressReporter{
		publisher: publisher,
		kind:      kind,
		message:   message,
		duration:  duration,
		limiter:   rate.NewLimiter(limit, 1),
		last:      -1,
	}
}

// finish publishes the terminal 100% event. It is never throttled.
func (r *progressReporter) finish(message string) {
	r.message = message
	r.publish(100)
}

// report publishes p unless it is not positive, repeats the last value or the
// limiter denies it. A 0% event would derive idle for a running slot.
func (r *progressReporter) report(p float64) {
	if p <= 0 || p == r.last || !r.limiter.Allow() {
		return
	}
	r.publish(p)
}

func (r *progressReporter) publish(p float64) {
	r.last = p
	_ = r.publisher.Publish(model.NewProgressEvent(r.kind, p, r.message))
}

// consume reads ffmpeg -progress output until EOF
func (r *progressReporter) consume(out io.Reader) {
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		seconds, ok := parseProgressLine(scanner.Text())
		if !ok {
			continue
		}
		r.report(percentOf(seconds, r.duration))
	}
}
