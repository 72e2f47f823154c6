package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdejongh/dupscan/pkg/models"
)

// WriteReport writes the scan report to a file in the requested format.
// The file always receives the full result set, not just the top spans.
func WriteReport(report *models.ScanReport, path, format string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		if err := EncodeReport(file, report, 0); err != nil {
			return fmt.Errorf("failed to write json report: %w", err)
		}
	case "human", "":
		if err := RenderReport(file, report, 0); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format: %s (use: human, json)", format)
	}

	return nil
}
