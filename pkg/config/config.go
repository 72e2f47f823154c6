package config

import (
	"github.com/sdejongh/dupscan/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Extensions  []string          `yaml:"extensions"`
	ExcludeDirs []string          `yaml:"exclude_dirs"`
}

// ScanConfig holds detection settings
type ScanConfig struct {
	MinLines        int  `yaml:"min_lines"`          // window length in lines
	MinSignificant  int  `yaml:"min_significant"`    // significant lines required per window
	MaxPairsPerHash int  `yaml:"max_pairs_per_hash"` // occurrence cap per digest bucket
	Top             int  `yaml:"top"`                // spans rendered in the report
	IncludeSameFile bool `yaml:"include_same_file"`  // report duplicates within one file
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar while hashing
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			MinLines:        12,
			MinSignificant:  8,
			MaxPairsPerHash: 20,
			Top:             30,
			IncludeSameFile: true,
		},
		Performance: PerformanceConfig{
			MaxWorkers: 5,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
		Extensions: []string{"go"},
		ExcludeDirs: []string{
			".git",
			"vendor",
			"node_modules",
			"dist",
			"build",
			"target",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scan.MinLines < 1 {
		return &models.ValidationError{
			Field:   "scan.min_lines",
			Message: "must be at least 1",
		}
	}

	if c.Scan.MinSignificant < 0 {
		return &models.ValidationError{
			Field:   "scan.min_significant",
			Message: "cannot be negative",
		}
	}

	if c.Scan.MinSignificant > c.Scan.MinLines {
		return &models.ValidationError{
			Field:   "scan.min_significant",
			Message: "cannot exceed scan.min_lines",
		}
	}

	if c.Scan.MaxPairsPerHash < 1 {
		return &models.ValidationError{
			Field:   "scan.max_pairs_per_hash",
			Message: "must be at least 1",
		}
	}

	if c.Scan.Top < 1 {
		return &models.ValidationError{
			Field:   "scan.top",
			Message: "must be at least 1",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if len(c.Extensions) == 0 {
		return &models.ValidationError{
			Field:   "extensions",
			Message: "at least one file extension is required",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
