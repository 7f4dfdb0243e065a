package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"subspeak/internal/syncdrive"
)

// cueProgress advances a progress bar once per written cue. The zero value
// is a no-op so non-interactive runs need no special casing.
type cueProgress struct {
	bar *progressbar.ProgressBar
}

func newCueProgress(w io.Writer, total int, enabled bool) *cueProgress {
	if !enabled || total <= 0 || !isTerminal(w) {
		return &cueProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("synthesizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &cueProgress{bar: bar}
}

func (p *cueProgress) observe(res syncdrive.CueResult) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("cue %d", res.Cue.Index))
	_ = p.bar.Add(1)
}

func (p *cueProgress) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func (p *cueProgress) abandon() {
	if p.bar != nil {
		_ = p.bar.Exit()
	}
}
