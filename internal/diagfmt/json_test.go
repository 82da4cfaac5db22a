package diagfmt

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"dada/internal/diag"
	"dada/internal/source"
)

func decode(t *testing.T, items []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	t.Helper()
	var buf bytes.Buffer
	if err := JSON(&buf, items, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	return out
}

func TestJSONBasic(t *testing.T) {
	fs, id := sampleSet(t, sample)
	d := diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: 14, End: 15}, "unknown character '$'")

	got := decode(t, []diag.Diagnostic{d}, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "LEX1001",
			Title:    "Unknown character",
			Message:  "unknown character '$'",
			Location: LocationJSON{
				File:      "test.dada",
				StartByte: 14,
				EndByte:   15,
				StartLine: 2,
				StartCol:  8,
				EndLine:   2,
				EndCol:    9,
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs, id := sampleSet(t, sample)
	d := diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: 14, End: 15}, "x")

	got := decode(t, []diag.Diagnostic{d}, fs, JSONOpts{PathMode: PathModeRelative})
	loc := got.Diagnostics[0].Location
	if loc.File != "src/test.dada" {
		t.Errorf("File = %q, want src/test.dada", loc.File)
	}
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions leaked without IncludePositions: %+v", loc)
	}
}

func TestJSONNotes(t *testing.T) {
	fs, id := sampleSet(t, "f(x: 1, x: 2)\n")
	d := diag.NewError(diag.ValDuplicateArgument, source.Span{File: id, Start: 8, End: 9}, "duplicate argument `x`").
		WithNote(source.Span{File: id, Start: 2, End: 3}, "first given here")

	without := decode(t, []diag.Diagnostic{d}, fs, JSONOpts{})
	if len(without.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes present without IncludeNotes: %+v", without.Diagnostics[0].Notes)
	}

	with := decode(t, []diag.Diagnostic{d}, fs, JSONOpts{IncludeNotes: true, IncludePositions: true})
	notes := with.Diagnostics[0].Notes
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Message != "first given here" || notes[0].Location.StartCol != 3 {
		t.Errorf("unexpected note: %+v", notes[0])
	}
}

func TestJSONMax(t *testing.T) {
	fs, id := sampleSet(t, sample)
	var items []diag.Diagnostic
	for i := range uint32(5) {
		items = append(items, diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: i, End: i + 1}, "x"))
	}

	tests := []struct {
		max       int
		count     int
		truncated int
	}{
		{0, 5, 0},
		{2, 2, 3},
		{10, 5, 0},
	}
	for _, tt := range tests {
		got := decode(t, items, fs, JSONOpts{Max: tt.max, Indent: true})
		if got.Count != tt.count || len(got.Diagnostics) != tt.count || got.Truncated != tt.truncated {
			t.Errorf("Max=%d: count=%d len=%d truncated=%d, want %d/%d",
				tt.max, got.Count, len(got.Diagnostics), got.Truncated, tt.count, tt.truncated)
		}
	}
}

func TestJSONEmpty(t *testing.T) {
	fs := source.NewFileSet()
	var buf bytes.Buffer
	if err := JSON(&buf, nil, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"diagnostics\":[],\"count\":0}\n" {
		t.Errorf("empty output = %q", got)
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":         PathModeAuto,
		"auto":     PathModeAuto,
		"absolute": PathModeAbsolute,
		"relative": PathModeRelative,
		"basename": PathModeBasename,
	} {
		got, ok := ParsePathMode(in)
		if !ok || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("nope"); ok {
		t.Error("ParsePathMode accepted an unknown mode")
	}
}
