package scan

import (
	"context"
	"crypto/sha1"
	"strings"
	"sync"

	"github.com/sdejongh/dupscan/pkg/models"
)

// Digest identifies the content of one window. SHA-1 is wide enough that
// digest equality is treated as content equality.
type Digest [sha1.Size]byte

// Window locates one fixed-length run of normalized lines within a file
type Window struct {
	File  int
	Start int
}

// Buckets maps a window digest to every occurrence sharing it,
// across all files
type Buckets map[Digest][]Window

// HashOptions control window hashing
type HashOptions struct {
	// MinLines is the window length in lines
	MinLines int
	// MinSignificant is the minimum number of significant lines a window
	// must contain to be hashed at all
	MinSignificant int
	// MaxWorkers bounds the number of files hashed concurrently
	MaxWorkers int
	// OnFile, when set, is invoked once per hashed file. Called from
	// worker goroutines; implementations must be safe for concurrent use.
	OnFile func()
}

// windowText joins a window's normalized lines for digesting
func windowText(lines []string) string {
	return strings.Join(lines, "\n")
}

// hashFile computes the digest of every qualifying window of one file.
// Returns nil when the file is shorter than the window length.
func hashFile(ctx context.Context, file *models.SourceFile, fileIdx int, opts HashOptions) ([]Digest, []Window, error) {
	total := file.LineCount()
	if total < opts.MinLines {
		return nil, nil, nil
	}

	// Prefix sums over the significance flags give O(1) significant-line
	// counts for any window.
	sigPrefix := make([]int, total+1)
	for i, sig := range file.Significant {
		sigPrefix[i+1] = sigPrefix[i]
		if sig {
			sigPrefix[i+1]++
		}
	}

	var digests []Digest
	var windows []Window
	for start := 0; start <= total-opts.MinLines; start++ {
		if start%1024 == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
		}

		sigCount := sigPrefix[start+opts.MinLines] - sigPrefix[start]
		if sigCount < opts.MinSignificant {
			continue
		}

		digest := sha1.Sum([]byte(windowText(file.Lines[start : start+opts.MinLines])))
		digests = append(digests, digest)
		windows = append(windows, Window{File: fileIdx, Start: start})
	}

	return digests, windows, nil
}

// BuildBuckets hashes every qualifying window of every file and groups the
// occurrences by digest. Files are hashed concurrently, but partial results
// are merged in file-index order so occurrence order inside a bucket is
// deterministic: ascending file index, then ascending start offset.
func BuildBuckets(ctx context.Context, corpus *models.Corpus, opts HashOptions) (Buckets, int, error) {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}

	type partial struct {
		digests []Digest
		windows []Window
		err     error
	}

	partials := make([]partial, corpus.Len())
	semaphore := make(chan struct{}, opts.MaxWorkers)
	var wg sync.WaitGroup

	for idx := range corpus.Files {
		semaphore <- struct{}{}
		wg.Add(1)

		go func(fileIdx int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			digests, windows, err := hashFile(ctx, corpus.File(fileIdx), fileIdx, opts)
			partials[fileIdx] = partial{digests: digests, windows: windows, err: err}

			if opts.OnFile != nil {
				opts.OnFile()
			}
		}(idx)
	}
	wg.Wait()

	buckets := make(Buckets)
	hashed := 0
	for _, p := range partials {
		if p.err != nil {
			return nil, 0, p.err
		}
		for i, digest := range p.digests {
			buckets[digest] = append(buckets[digest], p.windows[i])
			hashed++
		}
	}

	return buckets, hashed, nil
}
