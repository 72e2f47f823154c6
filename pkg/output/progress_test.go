package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestProgressFormatter_ErrorReportsError(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter(30)
	if err := f.Start(&buf, 2); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := f.Error(errors.New("walk failed")); err != nil {
		t.Fatalf("Error() returned %v", err)
	}
	if !strings.Contains(buf.String(), "Error: walk failed") {
		t.Errorf("error not reported:\n%s", buf.String())
	}
}

func TestProgressFormatter_CompleteAfterError(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter(30)
	if err := f.Start(&buf, 2); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	f.Error(errors.New("boom"))
	buf.Reset()

	// The bar is gone after Error; Complete must still render the report
	if err := f.Complete(sampleReport()); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Scanned 42 files.") {
		t.Errorf("report not rendered after error:\n%s", buf.String())
	}
}
