package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupscan/pkg/config"
	"github.com/sdejongh/dupscan/pkg/logging"
	"github.com/sdejongh/dupscan/pkg/models"
	"github.com/sdejongh/dupscan/pkg/output"
	"github.com/sdejongh/dupscan/pkg/scan"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Root            string
	Extensions      []string
	ExcludeDirs     []string
	MinLines        int
	MinSignificant  int
	MaxPairsPerHash int
	Top             int
	ExcludeSameFile bool
	Parallel        int
	Output          string
	Report          string
	ReportFormat    string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory tree for duplicated code blocks",
		Long: `Scan source files under a root directory and report the longest
duplicated line spans between any two locations. Comparison is exact after
whitespace normalization; no parser or language knowledge is involved.`,
		RunE: runScan,
	}

	addScanFlags(cmd)

	return cmd
}

// addScanFlags registers the detection flags shared by scan and watch
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scanFlags.Root, "root", "r", ".", "root directory to scan")
	cmd.Flags().StringSliceVarP(&scanFlags.Extensions, "ext", "e", nil, "file extension to include, repeatable (default: go)")
	cmd.Flags().StringSliceVar(&scanFlags.ExcludeDirs, "exclude-dir", nil, "directory name to exclude, repeatable")
	cmd.Flags().IntVar(&scanFlags.MinLines, "min-lines", 0, "minimum number of lines in a duplicate block (default: 12)")
	cmd.Flags().IntVar(&scanFlags.MinSignificant, "min-significant", -1, "minimum significant lines per window (default: 8)")
	cmd.Flags().IntVar(&scanFlags.MaxPairsPerHash, "max-pairs-per-hash", 0, "max pair comparisons per hash bucket (default: 20)")
	cmd.Flags().IntVarP(&scanFlags.Top, "top", "t", 0, "number of results to show (default: 30)")
	cmd.Flags().BoolVar(&scanFlags.ExcludeSameFile, "exclude-same-file", false, "exclude duplicates within the same file")
	cmd.Flags().IntVarP(&scanFlags.Parallel, "parallel", "p", 0, "number of parallel workers (default: 5)")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&scanFlags.Report, "report", "", "write full report to file")
	cmd.Flags().StringVar(&scanFlags.ReportFormat, "report-format", "human", "report file format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, operation, err := prepareScan(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	report, err := executeScan(ctx, cfg, operation, logger)
	if err != nil {
		if report == nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		// Exit with the status-specific code: 2 for failure, 3 when the
		// run was cancelled
		fmt.Fprintf(os.Stderr, "Error: scan failed: %v\n", err)
		logger.Close()
		os.Exit(report.Status.ExitCode())
	}

	if scanFlags.Report != "" {
		if err := output.WriteReport(report, scanFlags.Report, scanFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// prepareScan validates flags and assembles the configuration and the
// scan operation
func prepareScan(cmd *cobra.Command) (*config.Config, *models.ScanOperation, error) {
	if err := validateScanFlags(cmd); err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagsToConfig(cfg)

	operation, err := createScanOperation(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scan operation: %w", err)
	}

	return cfg, operation, nil
}

// executeScan runs one full scan and prints its report
func executeScan(ctx context.Context, cfg *config.Config, operation *models.ScanOperation, logger logging.Logger) (*models.ScanReport, error) {
	loader, err := scan.NewLoader(operation.RootPath, operation.Extensions, operation.ExcludeDirs, logger)
	if err != nil {
		return nil, err
	}

	formatter := newFormatter(cfg)
	engine := scan.NewEngine(loader, formatter, logger, operation)

	return engine.Run(ctx)
}

// newFormatter picks the output formatter from the configuration
func newFormatter(cfg *config.Config) output.Formatter {
	if cfg.Output.Quiet {
		return nil
	}
	if cfg.Output.Format == "json" {
		return output.NewJSONFormatter(cfg.Scan.Top)
	}
	if cfg.Output.Progress {
		return output.NewProgressFormatter(cfg.Scan.Top)
	}
	return output.NewHumanFormatter(cfg.Scan.Top)
}

// newLogger builds the logger from the configuration, or a null logger
// when file logging is disabled
func newLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled || cfg.Logging.File == "" {
		return logging.NewNullLogger(), nil
	}
	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:   cfg.Logging.File,
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}
