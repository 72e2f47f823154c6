package scan

import (
	"context"
	"time"

	"github.com/sdejongh/dupscan/pkg/logging"
	"github.com/sdejongh/dupscan/pkg/models"
	"github.com/sdejongh/dupscan/pkg/output"
)

// Engine orchestrates one scan run: load, hash, expand
type Engine struct {
	loader    *Loader
	formatter output.Formatter
	logger    logging.Logger
	operation *models.ScanOperation
}

// NewEngine creates a scan engine. Formatter and logger may be nil.
func NewEngine(loader *Loader, formatter output.Formatter, logger logging.Logger, operation *models.ScanOperation) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		loader:    loader,
		formatter: formatter,
		logger:    logger,
		operation: operation,
	}
}

// Run executes the scan and returns the report. The three phases are
// strictly sequential; hashing and expansion parallelize internally.
func (e *Engine) Run(ctx context.Context) (*models.ScanReport, error) {
	op := e.operation
	report := &models.ScanReport{
		OperationID: op.ID,
		RootPath:    e.loader.Root(),
		MinLines:    op.MinLines,
		StartTime:   time.Now(),
	}

	// Phase 1: load the corpus
	loadStart := time.Now()
	corpus, skipped, err := e.loader.Load(ctx)
	if err != nil {
		report.Status = statusForErr(ctx)
		return report, err
	}
	// The scanned count covers every matching candidate, unreadable
	// ones included
	report.Stats.FilesScanned = corpus.Len() + skipped
	report.Stats.FilesSkipped = skipped
	for _, f := range corpus.Files {
		report.Stats.LinesScanned += f.LineCount()
	}

	e.logger.Info(ctx, "corpus loaded", logging.Fields{
		"operation_id": op.ID,
		"files":        corpus.Len(),
		"skipped":      skipped,
		"lines":        report.Stats.LinesScanned,
		"duration_ms":  time.Since(loadStart).Milliseconds(),
	})

	if e.formatter != nil {
		e.formatter.Start(nil, corpus.Len())
	}

	// Phase 2: hash every qualifying window
	hashStart := time.Now()
	buckets, windowCount, err := BuildBuckets(ctx, corpus, HashOptions{
		MinLines:       op.MinLines,
		MinSignificant: op.MinSignificant,
		MaxWorkers:     op.MaxWorkers,
		OnFile: func() {
			if e.formatter != nil {
				e.formatter.Progress(output.ProgressUpdate{
					Type:       output.EventFileHashed,
					TotalFiles: corpus.Len(),
				})
			}
		},
	})
	if err != nil {
		report.Status = statusForErr(ctx)
		return report, err
	}
	report.Stats.WindowsHashed = windowCount

	e.logger.Info(ctx, "windows hashed", logging.Fields{
		"operation_id": op.ID,
		"windows":      windowCount,
		"buckets":      len(buckets),
		"duration_ms":  time.Since(hashStart).Milliseconds(),
	})

	// Phase 3: expand matches into maximal spans
	expandStart := time.Now()
	result, err := ExpandSpans(ctx, corpus, buckets, ExpandOptions{
		MinLines:        op.MinLines,
		MaxPairsPerHash: op.MaxPairsPerHash,
		IncludeSameFile: op.IncludeSameFile,
		MaxWorkers:      op.MaxWorkers,
	})
	if err != nil {
		report.Status = statusForErr(ctx)
		return report, err
	}

	report.Spans = result.Spans
	report.Stats.BucketsPaired = result.BucketsPaired
	report.Stats.SpansFound = len(result.Spans)
	report.Paths = make([]string, corpus.Len())
	for i, f := range corpus.Files {
		report.Paths[i] = f.RelativePath
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Status = models.StatusSuccess

	e.logger.Info(ctx, "scan complete", logging.Fields{
		"operation_id": op.ID,
		"spans":        len(result.Spans),
		"duration_ms":  time.Since(expandStart).Milliseconds(),
	})

	if e.formatter != nil {
		if err := e.formatter.Complete(report); err != nil {
			return report, err
		}
	}

	return report, nil
}

// statusForErr distinguishes cancellation from failure
func statusForErr(ctx context.Context) models.ScanStatus {
	if ctx.Err() != nil {
		return models.StatusCancelled
	}
	return models.StatusFailed
}
