package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dupscan/pkg/config"
	"github.com/sdejongh/dupscan/pkg/logging"
	"github.com/sdejongh/dupscan/pkg/models"
)

// debounce delay between a filesystem event and the rescan it triggers,
// so editor save bursts collapse into one run
const watchDebounce = 500 * time.Millisecond

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan whenever source files change",
		Long: `Run an initial scan, then watch the root directory and re-run a full
scan whenever a file with a matching extension is created, modified, renamed
or removed. Every run is a complete scan; nothing is carried over between
runs. Stop with Ctrl-C.`,
		RunE: runWatch,
	}

	addScanFlags(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	// Initial scan before watching
	if report, err := executeScan(ctx, cfg, operation, logger); err != nil {
		if report == nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Error: scan failed: %v\n", err)
		logger.Close()
		os.Exit(report.Status.ExitCode())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, operation); err != nil {
		return fmt.Errorf("failed to watch root: %w", err)
	}

	if !cfg.Output.Quiet {
		fmt.Fprintf(os.Stderr, "Watching %s for changes...\n", operation.RootPath)
	}

	return watchLoop(ctx, watcher, cfg, operation, logger)
}

// watchLoop dispatches filesystem events until the context is cancelled.
// Rescans are debounced; new directories are added to the watch set as
// they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, cfg *config.Config, operation *models.ScanOperation, logger logging.Logger) error {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, operation) {
				continue
			}

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watcher.Add(event.Name)
				}
			}

			logger.Debug(ctx, "change detected", logging.Fields{
				"path": event.Name,
				"op":   event.Op.String(),
			})

			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if _, err := executeScan(ctx, cfg, operation, logger); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error(ctx, "rescan failed", err, nil)
				fmt.Fprintf(os.Stderr, "Error: rescan failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(ctx, "watcher error", logging.Fields{"error": err.Error()})
		}
	}
}

// watchTree registers the root and every non-excluded subdirectory
func watchTree(watcher *fsnotify.Watcher, operation *models.ScanOperation) error {
	excluded := make(map[string]bool, len(operation.ExcludeDirs))
	for _, dir := range operation.ExcludeDirs {
		excluded[dir] = true
	}

	return filepath.WalkDir(operation.RootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != operation.RootPath && excluded[d.Name()] {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// relevantEvent reports whether an event concerns a file the scan would
// include: matching extension, no excluded path segment. Directory
// creation is always relevant so the new directory gets watched.
func relevantEvent(event fsnotify.Event, operation *models.ScanOperation) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(event.Name), ".")
	found := false
	for _, e := range operation.Extensions {
		if strings.TrimPrefix(e, ".") == ext {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	rel, err := filepath.Rel(operation.RootPath, event.Name)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		for _, dir := range operation.ExcludeDirs {
			if segment == dir {
				return false
			}
		}
	}

	return true
}
