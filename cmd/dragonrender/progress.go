package main

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/tauraamui/dragonrender/pkg/log"
	"golang.org/x/term"
)

type progressReporter interface {
	update(frame uint32)
	finish()
}

// newReporter draws a bar when stderr is a terminal and logs otherwise.
func newReporter(totalFrames int) progressReporter {
	if totalFrames > 0 && term.IsTerminal(int(os.Stderr.Fd())) {
		return &barReporter{bar: progressbar.NewOptions(totalFrames,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)}
	}
	return &logReporter{total: totalFrames, every: 5 * time.Second}
}

type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r *barReporter) update(frame uint32) {
	if err := r.bar.Set(int(frame)); err != nil {
		log.Debug("progress bar update failed: %v", err)
	}
}

func (r *barReporter) finish() {
	if err := r.bar.Finish(); err != nil {
		log.Debug("progress bar finish failed: %v", err)
	}
}

type logReporter struct {
	total  int
	every  time.Duration
	last   time.Time
	latest uint32
}

func (r *logReporter) update(frame uint32) {
	r.latest = frame
	if time.Since(r.last) < r.every {
		return
	}
	r.last = time.Now()
	if r.total > 0 {
		log.Info("Rendered frame %d of %d (%.1f%%)", frame, r.total, float64(frame)/float64(r.total)*100)
		return
	}
	log.Info("Rendered frame %d", frame)
}

func (r *logReporter) finish() {
	log.Info("Rendering stopped at frame %d", r.latest)
}
