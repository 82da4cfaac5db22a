package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func feed(m tea.Model, events ...Event) tea.Model {
	for _, ev := range events {
		m, _ = m.Update(eventMsg(ev))
	}
	return m
}

func TestProgressModelTracksFiles(t *testing.T) {
	m := NewProgressModel("validate", []string{"a.dada", "b.dada"}, nil)
	m = feed(m,
		Event{File: "a.dada", Stage: StageLoad, Status: StatusWorking},
		Event{File: "a.dada", Stage: StageValidate, Status: StatusWorking, Functions: 3},
		Event{File: "a.dada", Stage: StageDiagnostics, Status: StatusError, Functions: 3, Errors: 1, Warnings: 2},
		Event{File: "b.dada", Stage: StageValidate, Status: StatusWorking, Functions: 1},
		Event{File: "unknown.dada", Stage: StageLoad, Status: StatusError},
	)

	view := m.View()
	for _, want := range []string{"failed", "3 fn", "1 error", "2 warnings", "validating", "b.dada",
		"1/2 files  4 functions  1 error  2 warnings"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "unknown.dada") {
		t.Errorf("view shows an unregistered file:\n%s", view)
	}

	pm := m.(*progressModel)
	if got, want := pm.fraction(), (1.0+0.3)/2; got != want {
		t.Errorf("fraction = %v, want %v", got, want)
	}
}

func TestProgressModelShowsLoadFailure(t *testing.T) {
	m := NewProgressModel("validate", []string{"gone.dada"}, nil)
	m = feed(m, Event{File: "gone.dada", Stage: StageLoad, Status: StatusError, Detail: "no such file"})
	view := m.View()
	if !strings.Contains(view, "no such file") || !strings.Contains(view, "1/1 files") {
		t.Errorf("load failure not shown:\n%s", view)
	}
}

func TestProgressModelHeader(t *testing.T) {
	m := NewProgressModel("validate", []string{"a.dada"}, nil)
	m = feed(m, Event{Stage: StageDiagnostics, Status: StatusWorking})
	if view := m.View(); !strings.Contains(view, "validate (collecting)") {
		t.Errorf("header not updated:\n%s", view)
	}

	m, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done should quit the program")
	}
	if view := m.View(); !strings.Contains(view, "done: validate") {
		t.Errorf("final header missing:\n%s", view)
	}
}

func TestProgressModelEmpty(t *testing.T) {
	m := NewProgressModel("validate", nil, nil)
	if v := m.View(); v != "" {
		t.Errorf("empty model renders %q", v)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a/very/long/path.dada", 10, "a/very/..."},
		{"a/very/long/path.dada", 21, "a/very/long/path.dada"},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRunReturnsWorkError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("boom")
	err := Run("validate", []string{"a.dada"}, &out, func(sink Sink) error {
		sink.Emit(Event{File: "a.dada", Stage: StageLoad, Status: StatusWorking})
		sink.Emit(Event{File: "a.dada", Stage: StageDiagnostics, Status: StatusError, Errors: 1})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want %v", err, boom)
	}
	if !strings.Contains(out.String(), "a.dada") {
		t.Errorf("nothing rendered:\n%q", out.String())
	}
}
