package trace

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	outer, ctx := Start(ctx, ScopePass, "validate")
	inner, _ := Start(ctx, ScopeNode, "query:parse")
	inner.WithExtra("key", "f").End("")
	outer.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != "end" || ev.Name != "query:parse" || ev.ParentID != outer.ID() || ev.Extra["key"] != "f" {
		t.Errorf("unexpected inner end event: %+v", ev)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "")
	}
	got := ring.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestDisabledTracerIsSilent(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	sp := Begin(tr, ScopeDriver, "x", 0)
	if sp.ID() != 0 || sp.End("") != 0 {
		t.Error("nop span must have zero id and duration")
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindPoint, Name: "n", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.Contains(got, "{a=1, b=2}") {
		t.Errorf("text = %q", got)
	}
}

func TestLogTracerWritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Mode: ModeLog, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)

	sp, _ := Start(ctx, ScopePass, "validate")
	sp.WithExtra("file", "a.dada").End("ok")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var entry struct {
		Level  string            `json:"level"`
		Name   string            `json:"name"`
		Kind   string            `json:"kind"`
		Scope  string            `json:"scope"`
		SpanID uint64            `json:"span_id"`
		Detail string            `json:"detail"`
		Extra  map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Level != "debug" || entry.Name != "validate" || entry.Kind != "end" || entry.Scope != "pass" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.SpanID != sp.ID() || entry.Detail != "ok" || entry.Extra["file"] != "a.dada" {
		t.Errorf("unexpected entry fields: %+v", entry)
	}
}

func TestParseModeLog(t *testing.T) {
	m, err := ParseMode("log")
	if err != nil || m != ModeLog || m.String() != "log" {
		t.Errorf("ParseMode(log) = %v, %v", m, err)
	}
}

func TestHeartbeatCarriesState(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond, func() map[string]string {
		return map[string]string{"revision": "7"}
	})
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	got := ring.Snapshot()
	if len(got) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	ev := got[0]
	if ev.Kind != KindHeartbeat || ev.Detail != "#1" || ev.Extra["revision"] != "7" || ev.Extra["uptime"] == "" {
		t.Errorf("unexpected heartbeat: %+v", ev)
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	if h := StartHeartbeat(Nop, time.Millisecond, nil); h != nil {
		t.Error("heartbeat started on a disabled tracer")
	}
	var h *Heartbeat
	h.Stop()
}

func TestSpanFail(t *testing.T) {
	ring := NewRingTracer(4, LevelDebug)
	Begin(ring, ScopeNode, "q", 0).Fail(errors.New("boom"))
	got := ring.Snapshot()
	if len(got) != 2 || got[1].Detail != "error: boom" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestNewPicksFormatByExtension(t *testing.T) {
	for ext, wantJSON := range map[string]bool{".jsonl": true, ".ndjson": true, ".log": false} {
		path := filepath.Join(t.TempDir(), "trace"+ext)
		tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, OutputPath: path})
		if err != nil {
			t.Fatal(err)
		}
		Point(tr, ScopePass, "split", "")
		if err := tr.Close(); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.HasPrefix(string(data), "{"); got != wantJSON {
			t.Errorf("%s: json = %v, output %q", ext, got, data)
		}
	}
}
