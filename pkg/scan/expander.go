package scan

import (
	"context"
	"sort"
	"sync"

	"github.com/sdejongh/dupscan/pkg/models"
)

// ExpandOptions control span expansion
type ExpandOptions struct {
	// MinLines is the window length the buckets were built with
	MinLines int
	// MaxPairsPerHash caps each bucket's occurrence list before pairing,
	// keeping the first entries in discovery order. Bounds the quadratic
	// pair blow-up on highly repetitive boilerplate.
	MaxPairsPerHash int
	// IncludeSameFile permits spans whose two occurrences live in one file
	IncludeSameFile bool
	// MaxWorkers bounds the number of buckets expanded concurrently
	MaxWorkers int
}

// ExpandResult holds the deduplicated spans plus pairing statistics
type ExpandResult struct {
	Spans         []models.MatchSpan
	BucketsPaired int
}

// expandPair grows a confirmed window match outward in both directions
// while the adjacent normalized lines stay identical, and returns the
// maximal span. This is a two-pointer extension, not an LCS computation:
// the windows are already known equal, so only local single-step
// comparisons are needed.
func expandPair(a, b *models.SourceFile, occA, occB Window, minLines int) models.MatchSpan {
	startA, startB := occA.Start, occB.Start
	for startA > 0 && startB > 0 && a.Lines[startA-1] == b.Lines[startB-1] {
		startA--
		startB--
	}

	endA := occA.Start + minLines
	endB := occB.Start + minLines
	for endA < a.LineCount() && endB < b.LineCount() && a.Lines[endA] == b.Lines[endB] {
		endA++
		endB++
	}

	// Both sides extend in lockstep, so endA-startA == endB-startB
	return models.MatchSpan{
		Length: endA - startA,
		FileA:  occA.File,
		StartA: startA,
		FileB:  occB.File,
		StartB: startB,
	}
}

// expandBucket produces every maximal span reachable from one bucket's
// occurrence pairs. Same-file pairs closer than minLines apart are the
// window overlapping itself, not a second location, and are skipped.
func expandBucket(corpus *models.Corpus, occs []Window, opts ExpandOptions) []models.MatchSpan {
	if len(occs) > opts.MaxPairsPerHash {
		occs = occs[:opts.MaxPairsPerHash]
	}

	var spans []models.MatchSpan
	for i := 0; i < len(occs); i++ {
		for j := i + 1; j < len(occs); j++ {
			occA, occB := occs[i], occs[j]

			if occA.File == occB.File {
				if !opts.IncludeSameFile {
					continue
				}
				delta := occA.Start - occB.Start
				if delta < 0 {
					delta = -delta
				}
				if delta < opts.MinLines {
					continue
				}
			}

			spans = append(spans, expandPair(
				corpus.File(occA.File),
				corpus.File(occB.File),
				occA, occB, opts.MinLines,
			))
		}
	}
	return spans
}

// ExpandSpans turns digest buckets into the deduplicated, sorted result
// set. Buckets are independent and processed concurrently; the shared
// seen-set makes the result order-independent, and the final sort
// (length descending, then file and start offsets ascending) makes the
// output deterministic.
func ExpandSpans(ctx context.Context, corpus *models.Corpus, buckets Buckets, opts ExpandOptions) (*ExpandResult, error) {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		seen    = make(map[models.SpanKey]bool)
		spans   []models.MatchSpan
		paired  int
		semChan = make(chan struct{}, opts.MaxWorkers)
	)

	for _, occs := range buckets {
		if len(occs) < 2 {
			continue
		}
		paired++

		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		semChan <- struct{}{}
		wg.Add(1)

		go func(occs []Window) {
			defer wg.Done()
			defer func() { <-semChan }()

			bucketSpans := expandBucket(corpus, occs, opts)

			mu.Lock()
			for _, span := range bucketSpans {
				key := span.Key()
				if seen[key] {
					continue
				}
				seen[key] = true
				spans = append(spans, span)
			}
			mu.Unlock()
		}(occs)
	}
	wg.Wait()

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Less(spans[j])
	})

	return &ExpandResult{Spans: spans, BucketsPaired: paired}, nil
}
