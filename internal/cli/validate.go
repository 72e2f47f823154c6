package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dupscan/internal/platform"
	"github.com/sdejongh/dupscan/pkg/config"
	"github.com/sdejongh/dupscan/pkg/models"
)

// validateScanFlags validates the scan command flags before the core runs.
// Detection flags use zero values as "not set", so explicit values are told
// apart from defaults via Changed; an explicit non-positive value is
// rejected here rather than silently falling back to the configured one.
func validateScanFlags(cmd *cobra.Command) error {
	if err := platform.ValidatePath(scanFlags.Root); err != nil {
		return err
	}

	info, err := os.Stat(scanFlags.Root)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path does not exist: %s", scanFlags.Root)
	}
	if err != nil {
		return fmt.Errorf("failed to access root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", scanFlags.Root)
	}

	flags := cmd.Flags()
	if flags.Changed("min-lines") && scanFlags.MinLines < 1 {
		return fmt.Errorf("invalid --min-lines: must be at least 1")
	}
	if flags.Changed("min-significant") && scanFlags.MinSignificant < 0 {
		return fmt.Errorf("invalid --min-significant: cannot be negative")
	}
	if flags.Changed("max-pairs-per-hash") && scanFlags.MaxPairsPerHash < 1 {
		return fmt.Errorf("invalid --max-pairs-per-hash: must be at least 1")
	}
	if flags.Changed("top") && scanFlags.Top < 1 {
		return fmt.Errorf("invalid --top: must be at least 1")
	}
	if flags.Changed("parallel") && scanFlags.Parallel < 1 {
		return fmt.Errorf("invalid --parallel: must be at least 1")
	}

	if scanFlags.Output != "" && scanFlags.Output != "human" && scanFlags.Output != "json" {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", scanFlags.Output)
	}
	if scanFlags.ReportFormat != "" && scanFlags.ReportFormat != "human" && scanFlags.ReportFormat != "json" {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", scanFlags.ReportFormat)
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags.
// Zero flag values mean "not set" and keep the configured value; the
// configuration's own Validate rejects anything out of range afterwards.
func applyFlagsToConfig(cfg *config.Config) {
	if len(scanFlags.Extensions) > 0 {
		cfg.Extensions = scanFlags.Extensions
	}
	if len(scanFlags.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = scanFlags.ExcludeDirs
	}
	if scanFlags.MinLines > 0 {
		cfg.Scan.MinLines = scanFlags.MinLines
	}
	if scanFlags.MinSignificant >= 0 {
		cfg.Scan.MinSignificant = scanFlags.MinSignificant
	}
	if scanFlags.MaxPairsPerHash > 0 {
		cfg.Scan.MaxPairsPerHash = scanFlags.MaxPairsPerHash
	}
	if scanFlags.Top > 0 {
		cfg.Scan.Top = scanFlags.Top
	}
	if scanFlags.ExcludeSameFile {
		cfg.Scan.IncludeSameFile = false
	}
	if scanFlags.Parallel > 0 {
		cfg.Performance.MaxWorkers = scanFlags.Parallel
	}
	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}

	// Logging flags
	if scanFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = scanFlags.LogFile
		cfg.Logging.Format = scanFlags.LogFormat
		cfg.Logging.Level = scanFlags.LogLevel
	}
	if globalFlags.Verbose {
		cfg.Logging.Level = "debug"
	}

	// Quiet mode suppresses the progress bar and the report body
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}

// createScanOperation creates a scan operation from configuration
func createScanOperation(cfg *config.Config) (*models.ScanOperation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	operation := &models.ScanOperation{
		ID:              uuid.New().String(),
		RootPath:        platform.NormalizePath(scanFlags.Root),
		Extensions:      cfg.Extensions,
		ExcludeDirs:     cfg.ExcludeDirs,
		MinLines:        cfg.Scan.MinLines,
		MinSignificant:  cfg.Scan.MinSignificant,
		MaxPairsPerHash: cfg.Scan.MaxPairsPerHash,
		Top:             cfg.Scan.Top,
		IncludeSameFile: cfg.Scan.IncludeSameFile,
		MaxWorkers:      cfg.Performance.MaxWorkers,
		CreatedAt:       time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}
