package output

import (
	"io"

	"github.com/sdejongh/dupscan/pkg/models"
)

// EventType identifies a progress notification
type EventType string

const (
	// EventFileHashed fires once per file whose windows have been hashed
	EventFileHashed EventType = "file_hashed"
)

// ProgressUpdate represents a progress notification during a scan
type ProgressUpdate struct {
	Type       EventType
	FilePath   string
	TotalFiles int
}

// Formatter defines the interface for scan output.
// Progress may be called from concurrent workers; implementations must
// be safe for concurrent use.
type Formatter interface {
	// Start initializes the formatter once the corpus size is known.
	// A nil writer keeps the current destination, defaulting to stdout.
	Start(writer io.Writer, totalFiles int) error

	// Progress reports progress during the scan
	Progress(update ProgressUpdate) error

	// Complete renders the final report
	Complete(report *models.ScanReport) error

	// Error reports a fatal error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
