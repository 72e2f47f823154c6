package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/dupscan/pkg/models"
)

// ProgressFormatter shows a progress bar while files are hashed, then
// renders the same text report as the human formatter. The bar goes to
// stderr so stdout stays pipe-clean.
type ProgressFormatter struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *pb.ProgressBar
	top    int
}

// NewProgressFormatter creates a progress bar formatter
func NewProgressFormatter(top int) *ProgressFormatter {
	return &ProgressFormatter{top: top}
}

// Start begins the bar once the corpus size is known
func (f *ProgressFormatter) Start(writer io.Writer, totalFiles int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}

	f.bar = pb.New(totalFiles)
	f.bar.Set(pb.Bytes, false)
	f.bar.SetWriter(os.Stderr)
	f.bar.Start()
	return nil
}

// Progress advances the bar
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil && update.Type == EventFileHashed {
		f.bar.Increment()
	}
	return nil
}

// Complete stops the bar and renders the report
func (f *ProgressFormatter) Complete(report *models.ScanReport) error {
	f.mu.Lock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	w := f.writer
	f.mu.Unlock()

	if w == nil {
		w = os.Stdout
	}
	return RenderReport(w, report, f.top)
}

// Error stops the bar and reports the error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}

	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
