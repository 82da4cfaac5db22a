package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestMeasureRecordsPhases(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("split", func() (string, error) { return "3 items", nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("validate", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].Note != "3 items" || r.Phases[1].Note != "failed" {
		t.Errorf("notes = %q, %q", r.Phases[0].Note, r.Phases[1].Note)
	}
	if s := tm.Summary(); !strings.Contains(s, "split") || !strings.Contains(s, "total") {
		t.Errorf("summary = %q", s)
	}
}
