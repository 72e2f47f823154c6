package models

import (
	"sort"
	"strings"
	"testing"
)

func validOperation() *ScanOperation {
	return &ScanOperation{
		ID:              "test-op",
		RootPath:        "/src/project",
		Extensions:      []string{"go"},
		MinLines:        12,
		MinSignificant:  8,
		MaxPairsPerHash: 20,
		Top:             30,
		MaxWorkers:      5,
	}
}

func TestScanOperationValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*ScanOperation)
		wantField string
	}{
		{
			name:   "valid",
			modify: func(op *ScanOperation) {},
		},
		{
			name:      "missing root path",
			modify:    func(op *ScanOperation) { op.RootPath = "" },
			wantField: "RootPath",
		},
		{
			name:      "no extensions",
			modify:    func(op *ScanOperation) { op.Extensions = nil },
			wantField: "Extensions",
		},
		{
			name:      "min lines zero",
			modify:    func(op *ScanOperation) { op.MinLines = 0 },
			wantField: "MinLines",
		},
		{
			name:      "negative min significant",
			modify:    func(op *ScanOperation) { op.MinSignificant = -1 },
			wantField: "MinSignificant",
		},
		{
			name:      "min significant exceeds min lines",
			modify:    func(op *ScanOperation) { op.MinSignificant = 13 },
			wantField: "MinSignificant",
		},
		{
			name:      "max pairs per hash zero",
			modify:    func(op *ScanOperation) { op.MaxPairsPerHash = 0 },
			wantField: "MaxPairsPerHash",
		},
		{
			name:      "top zero",
			modify:    func(op *ScanOperation) { op.Top = 0 },
			wantField: "Top",
		},
		{
			name:      "max workers zero",
			modify:    func(op *ScanOperation) { op.MaxWorkers = 0 },
			wantField: "MaxWorkers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := validOperation()
			tt.modify(op)

			err := op.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestScanOperationValidate_SignificantEqualsMinLines(t *testing.T) {
	op := validOperation()
	op.MinSignificant = op.MinLines

	if err := op.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when min significant equals min lines", err)
	}
}

func TestScanStatusExitCode(t *testing.T) {
	tests := []struct {
		status ScanStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{ScanStatus("unknown"), 2},
	}

	for _, tt := range tests {
		if got := tt.status.ExitCode(); got != tt.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestMatchSpanKey(t *testing.T) {
	a := MatchSpan{Length: 14, FileA: 0, StartA: 3, FileB: 1, StartB: 7}
	b := MatchSpan{Length: 14, FileA: 0, StartA: 3, FileB: 1, StartB: 7}
	c := MatchSpan{Length: 15, FileA: 0, StartA: 3, FileB: 1, StartB: 7}

	if a.Key() != b.Key() {
		t.Error("identical spans should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("spans of different length should have distinct keys")
	}
}

func TestMatchSpanLess(t *testing.T) {
	spans := []MatchSpan{
		{Length: 12, FileA: 1, StartA: 0, FileB: 2, StartB: 5},
		{Length: 20, FileA: 3, StartA: 9, FileB: 4, StartB: 0},
		{Length: 12, FileA: 0, StartA: 8, FileB: 2, StartB: 1},
		{Length: 12, FileA: 0, StartA: 2, FileB: 1, StartB: 4},
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Less(spans[j]) })

	// Longest first, ties broken by position
	want := []MatchSpan{
		{Length: 20, FileA: 3, StartA: 9, FileB: 4, StartB: 0},
		{Length: 12, FileA: 0, StartA: 2, FileB: 1, StartB: 4},
		{Length: 12, FileA: 0, StartA: 8, FileB: 2, StartB: 1},
		{Length: 12, FileA: 1, StartA: 0, FileB: 2, StartB: 5},
	}

	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("spans[%d] = %+v, want %+v", i, spans[i], want[i])
		}
	}
}
