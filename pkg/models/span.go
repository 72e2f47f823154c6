package models

// MatchSpan represents one maximal duplicated region between two locations.
// Start offsets are zero-based line indices into the normalized lines of
// the respective files; reports render them 1-based.
type MatchSpan struct {
	// Length is the number of duplicated lines (always >= the window size)
	Length int
	// FileA / StartA locate the first occurrence
	FileA  int
	StartA int
	// FileB / StartB locate the second occurrence
	FileB  int
	StartB int
}

// SpanKey is the deduplication key for a span. The same maximal span is
// discovered from every overlapping window it contains, so results must
// be deduplicated on the full tuple.
type SpanKey struct {
	FileA  int
	StartA int
	FileB  int
	StartB int
	Length int
}

// Key returns the deduplication key for the span
func (s MatchSpan) Key() SpanKey {
	return SpanKey{
		FileA:  s.FileA,
		StartA: s.StartA,
		FileB:  s.FileB,
		StartB: s.StartB,
		Length: s.Length,
	}
}

// Less orders spans for reporting: longest first, ties broken by
// file index then start line on both sides so output is deterministic.
func (s MatchSpan) Less(other MatchSpan) bool {
	if s.Length != other.Length {
		return s.Length > other.Length
	}
	if s.FileA != other.FileA {
		return s.FileA < other.FileA
	}
	if s.StartA != other.StartA {
		return s.StartA < other.StartA
	}
	if s.FileB != other.FileB {
		return s.FileB < other.FileB
	}
	return s.StartB < other.StartB
}
