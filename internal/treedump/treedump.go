// Package treedump turns syntax and validated trees into a neutral node
// form that can be printed as text or exported as JSON, msgpack or YAML
// for inspection. Nothing reads these encodings back.
package treedump

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xlab/treeprint"
	"gopkg.in/yaml.v3"
)

// Node is one tree node in exportable form.
type Node struct {
	Kind     string `json:"kind" msgpack:"kind" yaml:"kind"`
	Text     string `json:"text,omitempty" msgpack:"text,omitempty" yaml:"text,omitempty"`
	Span     string `json:"span,omitempty" msgpack:"span,omitempty" yaml:"span,omitempty"`
	Children []Node `json:"children,omitempty" msgpack:"children,omitempty" yaml:"children,omitempty"`
}

// Label renders the node header: kind, text and span.
func (n Node) Label() string {
	var sb strings.Builder
	sb.WriteString(n.Kind)
	if n.Text != "" {
		sb.WriteString(" ")
		sb.WriteString(n.Text)
	}
	if n.Span != "" {
		sb.WriteString(" @")
		sb.WriteString(n.Span)
	}
	return sb.String()
}

// Entry is a named tree, e.g. the syntax tree of one function.
type Entry struct {
	Name string `json:"name" msgpack:"name" yaml:"name"`
	Root Node   `json:"root" msgpack:"root" yaml:"root"`
}

// Format selects the encoding of Write.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatMsgpack
	FormatYAML
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("invalid dump format: %q (expected: text|json|msgpack|yaml)", s)
	}
}

// Write encodes entries to w.
func Write(w io.Writer, format Format, entries []Entry) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(entries)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, e := range entries {
			if _, err := io.WriteString(w, Text(e)); err != nil {
				return err
			}
		}
		return nil
	}
}

// Text renders an entry as an indented tree.
func Text(e Entry) string {
	root := treeprint.New()
	addNode(root.AddBranch(e.Name), e.Root)
	return root.String()
}

func addNode(parent treeprint.Tree, n Node) {
	if len(n.Children) == 0 {
		parent.AddNode(n.Label())
		return
	}
	branch := parent.AddBranch(n.Label())
	for _, c := range n.Children {
		addNode(branch, c)
	}
}
