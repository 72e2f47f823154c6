package models

// SourceFile holds one loaded file: its identity plus the normalized view
// of its lines used for duplicate detection. Immutable once loaded.
type SourceFile struct {
	// Path is the absolute path of the file
	Path string
	// RelativePath is the path relative to the scan root (used in reports)
	RelativePath string
	// Lines holds the normalized form of every line, 1:1 with the raw lines
	Lines []string
	// Significant flags, 1:1 with Lines, true when the line carries
	// at least one alphanumeric or underscore character
	Significant []bool
}

// LineCount returns the number of lines in the file
func (f *SourceFile) LineCount() int {
	return len(f.Lines)
}

// Corpus is the ordered collection of loaded source files.
// File indices are assigned in sorted-path order at load time and
// never change during a run.
type Corpus struct {
	Files []*SourceFile
}

// Len returns the number of files in the corpus
func (c *Corpus) Len() int {
	return len(c.Files)
}

// File returns the file at the given index
func (c *Corpus) File(idx int) *SourceFile {
	return c.Files[idx]
}
