package models

import (
	"time"
)

// ScanReport represents the results of a scan run
type ScanReport struct {
	// Operation details
	OperationID string
	RootPath    string
	MinLines    int

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Spans holds the full deduplicated result set, sorted longest first.
	// Truncation to the top-N happens at presentation time only.
	Spans []MatchSpan

	// Paths maps file indices to report-relative paths
	Paths []string

	// Overall status
	Status ScanStatus
}

// Statistics holds scan run metrics
type Statistics struct {
	// Files
	FilesScanned int // matching candidates under the root, unreadable ones included
	FilesSkipped int // unreadable files skipped during loading

	// Detection
	WindowsHashed int // windows that passed the significance filter
	BucketsPaired int // digest buckets with at least two occurrences
	SpansFound    int // deduplicated spans (pre-truncation)

	// Lines
	LinesScanned int
}

// ScanStatus represents the overall result
type ScanStatus string

const (
	// StatusSuccess indicates the scan completed
	StatusSuccess ScanStatus = "success"
	// StatusFailed indicates the scan could not run
	StatusFailed ScanStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled ScanStatus = "cancelled"
)

// ExitCode returns the appropriate process exit code for the status.
// Finding zero duplicates is still a success.
func (s ScanStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
