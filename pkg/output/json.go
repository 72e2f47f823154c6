package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dupscan/pkg/models"
)

// JSONFormatter emits the final report as a single JSON document for
// automation and scripting
type JSONFormatter struct {
	writer io.Writer
	top    int
}

// JSONReport is the serialized shape of a scan report
type JSONReport struct {
	OperationID string          `json:"operation_id"`
	Root        string          `json:"root"`
	MinLines    int             `json:"min_lines"`
	StartTime   time.Time       `json:"start_time"`
	DurationMs  int64           `json:"duration_ms"`
	Status      string          `json:"status"`
	Stats       JSONStats       `json:"stats"`
	Duplicates  []JSONDuplicate `json:"duplicates"`
}

// JSONStats mirrors models.Statistics
type JSONStats struct {
	FilesScanned  int `json:"files_scanned"`
	FilesSkipped  int `json:"files_skipped"`
	LinesScanned  int `json:"lines_scanned"`
	WindowsHashed int `json:"windows_hashed"`
	BucketsPaired int `json:"buckets_paired"`
	SpansFound    int `json:"spans_found"`
}

// JSONDuplicate is one reported span; line numbers are 1-based
type JSONDuplicate struct {
	Lines  int    `json:"lines"`
	PathA  string `json:"path_a"`
	StartA int    `json:"start_a"`
	PathB  string `json:"path_b"`
	StartB int    `json:"start_b"`
}

// NewJSONFormatter creates a JSON formatter that emits at most top spans
func NewJSONFormatter(top int) *JSONFormatter {
	return &JSONFormatter{top: top}
}

// Start initializes the formatter. A nil writer keeps the current one,
// defaulting to stdout.
func (f *JSONFormatter) Start(writer io.Writer, totalFiles int) error {
	if writer != nil {
		f.writer = writer
	} else if f.writer == nil {
		f.writer = os.Stdout
	}
	return nil
}

// Progress is a no-op; JSON output is a single final document
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete emits the report document
func (f *JSONFormatter) Complete(report *models.ScanReport) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return EncodeReport(f.writer, report, f.top)
}

// Error emits a JSON error object
func (f *JSONFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	enc := json.NewEncoder(w)
	return enc.Encode(map[string]string{"error": err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// EncodeReport writes the JSON form of a report, truncated to top spans
func EncodeReport(w io.Writer, report *models.ScanReport, top int) error {
	spans := report.Spans
	if top > 0 && len(spans) > top {
		spans = spans[:top]
	}

	duplicates := make([]JSONDuplicate, 0, len(spans))
	for _, span := range spans {
		duplicates = append(duplicates, JSONDuplicate{
			Lines:  span.Length,
			PathA:  report.Paths[span.FileA],
			StartA: span.StartA + 1,
			PathB:  report.Paths[span.FileB],
			StartB: span.StartB + 1,
		})
	}

	doc := JSONReport{
		OperationID: report.OperationID,
		Root:        report.RootPath,
		MinLines:    report.MinLines,
		StartTime:   report.StartTime,
		DurationMs:  report.Duration.Milliseconds(),
		Status:      string(report.Status),
		Stats: JSONStats{
			FilesScanned:  report.Stats.FilesScanned,
			FilesSkipped:  report.Stats.FilesSkipped,
			LinesScanned:  report.Stats.LinesScanned,
			WindowsHashed: report.Stats.WindowsHashed,
			BucketsPaired: report.Stats.BucketsPaired,
			SpansFound:    report.Stats.SpansFound,
		},
		Duplicates: duplicates,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
