// Package progress renders human-readable progress and log lines for the
// CLI front-end. It replaces the reference implementation's
// package-level atomic counters and background ticker goroutine with a
// per-operation Reporter value, in line with this codebase's "no global
// state in the core" convention (options.Options callbacks are the only
// thing the core ever calls) — the reference's formatSize/formatRate
// rendering and update-throttling heuristics are kept as-is.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"huffarc/pkg/options"
)

// minUpdateInterval and minPercentDelta throttle how often the console is
// repainted, matching the reference tracker's "every second or 10%"
// heuristic so a fast operation doesn't flood the terminal.
const (
	minUpdateInterval = time.Second
	minPercentDelta   = 10.0
)

// Reporter renders progress/log callbacks for one operation to w.
type Reporter struct {
	w        io.Writer
	op       string
	total    uint64
	start    time.Time
	mu       sync.Mutex
	lastTime time.Time
	lastPct  float64
	lastByte uint64
}

// NewReporter returns a Reporter that describes op (e.g. "compressing
// notes.txt") and assumes total bytes of work, writing rendered lines to
// w.
func NewReporter(w io.Writer, op string, total uint64) *Reporter {
	if total == 0 {
		total = 1 // avoid division by zero, matching the reference tracker
	}
	now := time.Now()
	return &Reporter{w: w, op: op, total: total, start: now, lastTime: now}
}

// LogFunc returns an options.Options.Logger suitable for this Reporter.
func (r *Reporter) LogFunc() func(options.LogLevel, string) {
	return func(level options.LogLevel, msg string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		fmt.Fprintf(r.w, "[%s] %s\n", level, msg)
	}
}

// ProgressFunc returns an options.Options.Progress callback suitable for
// this Reporter. percent is expected in [0,100], monotonically
// non-decreasing, as the core guarantees.
func (r *Reporter) ProgressFunc() func(percent float64) {
	return func(percent float64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.render(percent)
	}
}

func (r *Reporter) render(percent float64) {
	now := time.Now()
	delta := percent - r.lastPct
	done := percent >= 100 && r.lastPct < 100
	if !done && now.Sub(r.lastTime) < minUpdateInterval && delta < minPercentDelta {
		return
	}

	currentBytes := uint64(percent / 100 * float64(r.total))
	elapsed := now.Sub(r.lastTime).Seconds()
	var rate uint64
	if elapsed > 0 && currentBytes > r.lastByte {
		rate = uint64(float64(currentBytes-r.lastByte) / elapsed)
	}

	eta := "calculating..."
	if rate > 0 && r.total > currentBytes {
		eta = formatDuration(float64(r.total-currentBytes) / float64(rate))
	}

	fmt.Fprintf(r.w, "%s: %s of %s (%.1f%%) | rate %s | eta %s\n",
		r.op, formatSize(currentBytes), formatSize(r.total), percent, formatRate(rate), eta)

	r.lastTime = now
	r.lastPct = percent
	r.lastByte = currentBytes
}

// formatSize renders a byte count as a fixed-point IEC-unit string.
func formatSize(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatRate renders a bytes-per-second rate the same way as formatSize.
func formatRate(bytesPerSec uint64) string {
	return formatSize(bytesPerSec) + "/s"
}

// formatDuration renders a second count as seconds, minutes, or hours,
// whichever reads most naturally.
func formatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f minutes", seconds/60)
	default:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	}
}
