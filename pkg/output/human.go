package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/dupscan/pkg/models"
)

// HumanFormatter renders the plain text report
type HumanFormatter struct {
	writer io.Writer
	top    int
}

// NewHumanFormatter creates a human-readable formatter that renders at
// most top spans
func NewHumanFormatter(top int) *HumanFormatter {
	return &HumanFormatter{top: top}
}

// Start initializes the formatter. A nil writer keeps the current one,
// defaulting to stdout.
func (f *HumanFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}
	return nil
}

// Progress is a no-op; the human formatter only prints the final report
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete renders the final report
func (f *HumanFormatter) Complete(report *models.ScanReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return RenderReport(f.writer, report, f.top)
}

// Error reports a fatal error
func (f *HumanFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// RenderReport writes the text report: a summary line, then up to top
// spans, longest first. The summary counts the full deduplicated result
// set, not just the rendered lines. Line numbers are 1-based.
func RenderReport(w io.Writer, report *models.ScanReport, top int) error {
	_, err := fmt.Fprintf(w, "Scanned %d files. Found %d duplicate blocks (>= %d lines).\n",
		report.Stats.FilesScanned, report.Stats.SpansFound, report.MinLines)
	if err != nil {
		return err
	}

	if len(report.Spans) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "Top duplicates:"); err != nil {
		return err
	}

	spans := report.Spans
	if top > 0 && len(spans) > top {
		spans = spans[:top]
	}
	for _, span := range spans {
		_, err := fmt.Fprintf(w, "- %d lines: %s:%d <-> %s:%d\n",
			span.Length,
			report.Paths[span.FileA], span.StartA+1,
			report.Paths[span.FileB], span.StartB+1,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
