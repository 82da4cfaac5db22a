package treedump

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

func sample() []Entry {
	return []Entry{{
		Name: "fn f",
		Root: Node{Kind: "Block", Children: []Node{
			{Kind: "Assign", Children: []Node{
				{Kind: "Id", Text: "x"},
				{Kind: "Op", Text: "+", Children: []Node{
					{Kind: "IntegerLiteral", Text: "1"},
					{Kind: "IntegerLiteral", Text: "2"},
				}},
			}},
		}},
	}}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"fn f", "Assign", "Id x", "Op +", "IntegerLiteral 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestWriteJSONAndMsgpack(t *testing.T) {
	var js bytes.Buffer
	if err := Write(&js, FormatJSON, sample()); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON []Entry
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if diff := cmp.Diff(sample(), fromJSON); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	var mp bytes.Buffer
	if err := Write(&mp, FormatMsgpack, sample()); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	var fromMsgpack []Entry
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatalf("msgpack decode: %v", err)
	}
	if diff := cmp.Diff(sample(), fromMsgpack); diff != "" {
		t.Errorf("msgpack mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, sample()); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "- name: fn f\n") {
		t.Errorf("unexpected yaml layout:\n%s", buf.String())
	}
	var got []Entry
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "msgpack": FormatMsgpack, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
