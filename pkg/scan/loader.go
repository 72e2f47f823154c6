package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sdejongh/dupscan/pkg/logging"
	"github.com/sdejongh/dupscan/pkg/models"
)

// Loader enumerates and loads candidate source files under a root directory
type Loader struct {
	root        string
	extensions  map[string]bool
	excludeDirs map[string]bool
	logger      logging.Logger
}

// NewLoader creates a loader for the given root.
// Extensions are matched without their leading dot; excludeDirs are matched
// against every path segment between the root and the file.
func NewLoader(root string, extensions, excludeDirs []string, logger logging.Logger) (*Loader, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to access root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	if logger == nil {
		logger = logging.NewNullLogger()
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.TrimPrefix(ext, ".")] = true
	}

	dirSet := make(map[string]bool, len(excludeDirs))
	for _, dir := range excludeDirs {
		dirSet[dir] = true
	}

	return &Loader{
		root:        absRoot,
		extensions:  extSet,
		excludeDirs: dirSet,
		logger:      logger,
	}, nil
}

// Root returns the absolute root path of the loader
func (l *Loader) Root() string {
	return l.root
}

// Load walks the tree and returns the corpus of matching files.
// Files are sorted by path before indexing so file indices are stable
// across runs. Unreadable files are skipped, never fatal; the skipped
// count is returned alongside the corpus.
func (l *Loader) Load(ctx context.Context) (*models.Corpus, int, error) {
	var paths []string

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory: skip its subtree, keep scanning
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if p != l.root && l.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return nil
		}
		if l.excluded(rel) {
			return nil
		}

		ext := strings.TrimPrefix(filepath.Ext(p), ".")
		if !l.extensions[ext] {
			return nil
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to walk root: %w", err)
	}

	sort.Strings(paths)

	corpus := &models.Corpus{}
	skipped := 0
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return nil, skipped, ctx.Err()
		default:
		}

		file, err := l.loadFile(p)
		if err != nil {
			skipped++
			l.logger.Debug(ctx, "skipping unreadable file", logging.Fields{
				"path":  p,
				"error": err.Error(),
			})
			continue
		}
		corpus.Files = append(corpus.Files, file)
	}

	return corpus, skipped, nil
}

// excluded reports whether any segment of the relative path matches an
// excluded directory name. The filename itself is checked with the same
// rule as its ancestors.
func (l *Loader) excluded(relPath string) bool {
	if len(l.excludeDirs) == 0 {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if l.excludeDirs[segment] {
			return true
		}
	}
	return false
}

// loadFile reads one file and produces its normalized view.
// Decoding is lenient: invalid UTF-8 sequences are replaced rather than
// failing the file.
func (l *Loader) loadFile(path string) (*models.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		rel = path
	}

	text := strings.ToValidUTF8(string(data), string('�'))
	rawLines := splitLines(text)

	lines := make([]string, len(rawLines))
	significant := make([]bool, len(rawLines))
	for i, raw := range rawLines {
		norm := NormalizeLine(raw)
		lines[i] = norm
		significant[i] = IsSignificant(norm)
	}

	return &models.SourceFile{
		Path:         path,
		RelativePath: filepath.ToSlash(rel),
		Lines:        lines,
		Significant:  significant,
	}, nil
}

// splitLines splits file content on line boundaries without producing a
// phantom empty line after a trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
