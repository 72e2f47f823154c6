package models

import (
	"time"
)

// ScanOperation represents a scan run configuration
type ScanOperation struct {
	ID              string
	RootPath        string
	Extensions      []string
	ExcludeDirs     []string
	MinLines        int
	MinSignificant  int
	MaxPairsPerHash int
	Top             int
	IncludeSameFile bool
	MaxWorkers      int
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid.
// The detection core assumes validated parameters; all rejection
// happens here at the boundary.
func (op *ScanOperation) Validate() error {
	if op.RootPath == "" {
		return &ValidationError{Field: "RootPath", Message: "root path is required"}
	}
	if len(op.Extensions) == 0 {
		return &ValidationError{Field: "Extensions", Message: "at least one file extension is required"}
	}
	if op.MinLines < 1 {
		return &ValidationError{Field: "MinLines", Message: "min lines must be at least 1"}
	}
	if op.MinSignificant < 0 {
		return &ValidationError{Field: "MinSignificant", Message: "min significant lines cannot be negative"}
	}
	if op.MinSignificant > op.MinLines {
		return &ValidationError{Field: "MinSignificant", Message: "min significant lines cannot exceed min lines"}
	}
	if op.MaxPairsPerHash < 1 {
		return &ValidationError{Field: "MaxPairsPerHash", Message: "max pairs per hash must be at least 1"}
	}
	if op.Top < 1 {
		return &ValidationError{Field: "Top", Message: "top must be at least 1"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
