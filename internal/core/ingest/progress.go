package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// ProgressReporter prints per-file progress during an import run.
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	readings  int
	startTime time.Time
}

// NewProgressReporter creates a reporter expecting total files.
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update records one finished file.
func (p *ProgressReporter) Update(path string, readings int) {
	p.current++
	p.readings += readings
	_, _ = fmt.Fprintf(p.writer, "[%d/%d] %s: %s readings\n",
		p.current, p.total, path, humanize.Comma(int64(readings)))
}

// Finish prints the run summary.
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "Imported %s readings from %d file(s) in %s\n",
		humanize.Comma(int64(p.readings)), p.current, elapsed.Round(time.Millisecond))
}
