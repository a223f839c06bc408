package orchestrator

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressReporter is told about every finished candidate
type ProgressReporter interface {
	Start(total int)
	Increment()
	Stop()
}

// NopReporter discards progress
type NopReporter struct{}

func (NopReporter) Start(int)  {}
func (NopReporter) Increment() {}
func (NopReporter) Stop()      {}

// BarReporter draws a terminal progress bar
type BarReporter struct {
	out         io.Writer
	description string
	bar         *progressbar.ProgressBar
}

// NewBarReporter creates a reporter drawing to out
func NewBarReporter(out io.Writer, description string) *BarReporter {
	return &BarReporter{
		out:         out,
		description: description,
	}
}

func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(r.description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("names"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *BarReporter) Increment() {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *BarReporter) Stop() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
