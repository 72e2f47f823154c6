package scan

import (
	"context"
	"testing"

	"github.com/sdejongh/dupscan/pkg/models"
)

// runDetection runs hashing and expansion back to back with the given
// parameters, the way the engine does
func runDetection(t *testing.T, corpus *models.Corpus, minLines, minSignificant, maxPairs int, includeSameFile bool) []models.MatchSpan {
	t.Helper()

	buckets, _, err := BuildBuckets(context.Background(), corpus, HashOptions{
		MinLines:       minLines,
		MinSignificant: minSignificant,
		MaxWorkers:     2,
	})
	if err != nil {
		t.Fatalf("BuildBuckets() error = %v", err)
	}

	result, err := ExpandSpans(context.Background(), corpus, buckets, ExpandOptions{
		MinLines:        minLines,
		MaxPairsPerHash: maxPairs,
		IncludeSameFile: includeSameFile,
		MaxWorkers:      2,
	})
	if err != nil {
		t.Fatalf("ExpandSpans() error = %v", err)
	}
	return result.Spans
}

func TestExpandSpans_BoundaryAbsorption(t *testing.T) {
	// B is A with a leading blank line; expansion must absorb the
	// boundary and find the full 4-line block once.
	block := []string{"fn f() {", "  let x = 1;", "  return x;", "}"}
	corpus := makeCorpus(
		makeFile("a.rs", block),
		makeFile("b.rs", append([]string{""}, block...)),
	)

	spans := runDetection(t, corpus, 3, 2, 20, true)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want exactly 1", len(spans))
	}
	span := spans[0]
	if span.Length != 4 {
		t.Errorf("span length = %d, want 4", span.Length)
	}
	if span.FileA != 0 || span.StartA != 0 {
		t.Errorf("occurrence A = file %d line %d, want file 0 line 0", span.FileA, span.StartA)
	}
	if span.FileB != 1 || span.StartB != 1 {
		t.Errorf("occurrence B = file %d line %d, want file 1 line 1", span.FileB, span.StartB)
	}
}

func TestExpandSpans_PairCapPreventsPairs(t *testing.T) {
	// Five occurrences of the same window capped at 1 leaves a single
	// kept occurrence, which cannot form a pair.
	block := genLines("dup", 3)
	files := make([]*models.SourceFile, 5)
	for i := range files {
		files[i] = makeFile(string(rune('a'+i))+".go", block)
	}
	corpus := makeCorpus(files...)

	spans := runDetection(t, corpus, 3, 0, 1, true)

	if len(spans) != 0 {
		t.Errorf("got %d spans with max-pairs-per-hash 1, want 0", len(spans))
	}
}

func TestExpandSpans_PairCapKeepsFirstOccurrences(t *testing.T) {
	block := genLines("dup", 3)
	files := make([]*models.SourceFile, 4)
	for i := range files {
		files[i] = makeFile(string(rune('a'+i))+".go", block)
	}
	corpus := makeCorpus(files...)

	// Cap 2 keeps occurrences from files 0 and 1 only: one pair
	spans := runDetection(t, corpus, 3, 0, 2, true)

	if len(spans) != 1 {
		t.Fatalf("got %d spans with cap 2, want 1", len(spans))
	}
	if spans[0].FileA != 0 || spans[0].FileB != 1 {
		t.Errorf("span pairs files %d and %d, want 0 and 1", spans[0].FileA, spans[0].FileB)
	}
}

func TestExpandSpans_SameFileExcluded(t *testing.T) {
	block := genLines("dup", 3)
	var raw []string
	raw = append(raw, block...)
	raw = append(raw, "separator one", "separator two", "separator three")
	raw = append(raw, block...)
	corpus := makeCorpus(makeFile("a.go", raw))

	withSame := runDetection(t, corpus, 3, 0, 20, true)
	if len(withSame) != 1 {
		t.Fatalf("got %d spans with same-file matches enabled, want 1", len(withSame))
	}

	withoutSame := runDetection(t, corpus, 3, 0, 20, false)
	if len(withoutSame) != 0 {
		t.Errorf("got %d spans with same-file matches disabled, want 0", len(withoutSame))
	}
}

func TestExpandSpans_SelfOverlapSkipped(t *testing.T) {
	// A run of one repeated line produces co-hashed windows whose starts
	// are closer than the window length; those pairs are the window
	// overlapping itself and must not be reported.
	raw := make([]string, 6)
	for i := range raw {
		raw[i] = "repeated line"
	}
	corpus := makeCorpus(makeFile("a.go", raw))

	spans := runDetection(t, corpus, 4, 0, 20, true)

	for _, span := range spans {
		if span.FileA == span.FileB {
			delta := span.StartA - span.StartB
			if delta < 0 {
				delta = -delta
			}
			if delta < 4 {
				t.Errorf("self-overlapping span reported: %+v", span)
			}
		}
	}
}

func TestExpandSpans_Maximality(t *testing.T) {
	prefix := genLines("ctx", 2)
	block := genLines("dup", 5)
	corpus := makeCorpus(
		makeFile("a.go", append(append(append([]string{}, prefix...), block...), "a only tail")),
		makeFile("b.go", append(append(append([]string{}, "b only head"), block...), "b only tail")),
	)

	spans := runDetection(t, corpus, 3, 0, 20, true)

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Length != 5 {
		t.Fatalf("span length = %d, want 5", span.Length)
	}

	a := corpus.File(span.FileA)
	b := corpus.File(span.FileB)

	// No extension possible in either direction
	if span.StartA > 0 && span.StartB > 0 &&
		a.Lines[span.StartA-1] == b.Lines[span.StartB-1] {
		t.Error("span extendable backward; not maximal")
	}
	endA := span.StartA + span.Length
	endB := span.StartB + span.Length
	if endA < a.LineCount() && endB < b.LineCount() &&
		a.Lines[endA] == b.Lines[endB] {
		t.Error("span extendable forward; not maximal")
	}
}

func TestExpandSpans_NoDuplicateReports(t *testing.T) {
	// A long shared block spawns many overlapping windows that all
	// expand to the same maximal span; it must be reported once.
	block := genLines("dup", 12)
	corpus := makeCorpus(
		makeFile("a.go", block),
		makeFile("b.go", block),
	)

	spans := runDetection(t, corpus, 4, 0, 20, true)

	seen := make(map[models.SpanKey]bool)
	for _, span := range spans {
		key := span.Key()
		if seen[key] {
			t.Errorf("duplicate span reported: %+v", span)
		}
		seen[key] = true
	}
	if len(spans) != 1 {
		t.Errorf("got %d spans, want 1 maximal span", len(spans))
	}
	if len(spans) > 0 && spans[0].Length != 12 {
		t.Errorf("span length = %d, want 12", spans[0].Length)
	}
}

func TestExpandSpans_MinLengthInvariant(t *testing.T) {
	corpus := makeCorpus(
		makeFile("a.go", genLines("dup", 8)),
		makeFile("b.go", genLines("dup", 8)),
	)

	spans := runDetection(t, corpus, 5, 0, 20, true)

	for _, span := range spans {
		if span.Length < 5 {
			t.Errorf("span length %d below minimum 5", span.Length)
		}
	}
}

func TestExpandSpans_SortOrder(t *testing.T) {
	long := genLines("long", 8)
	short := genLines("short", 4)
	corpus := makeCorpus(
		makeFile("a.go", append(append([]string{}, long...), append([]string{"gap a"}, short...)...)),
		makeFile("b.go", append(append([]string{}, short...), append([]string{"gap b"}, long...)...)),
	)

	spans := runDetection(t, corpus, 3, 0, 20, true)

	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Length < spans[1].Length {
		t.Errorf("spans not sorted by length descending: %d before %d", spans[0].Length, spans[1].Length)
	}
	if spans[0].Length != 8 || spans[1].Length != 4 {
		t.Errorf("span lengths = %d, %d; want 8, 4", spans[0].Length, spans[1].Length)
	}
}

func TestExpandSpans_Deterministic(t *testing.T) {
	corpus := makeCorpus(
		makeFile("a.go", append(genLines("x", 6), genLines("shared", 5)...)),
		makeFile("b.go", append(genLines("y", 3), genLines("shared", 5)...)),
		makeFile("c.go", append(genLines("shared", 5), genLines("z", 4)...)),
	)

	first := runDetection(t, corpus, 3, 0, 20, true)
	for run := 0; run < 5; run++ {
		again := runDetection(t, corpus, 3, 0, 20, true)
		if len(again) != len(first) {
			t.Fatalf("run %d produced %d spans, first run produced %d", run, len(again), len(first))
		}
		for i := range first {
			if first[i] != again[i] {
				t.Errorf("run %d span %d = %+v, first run had %+v", run, i, again[i], first[i])
			}
		}
	}
}
