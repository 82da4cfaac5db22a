package ir

import "dada/internal/source"

// Code is a slice of source text that has not been parsed yet.
type Code struct {
	Text string
	Span source.Span // where Text lives in its file; Span.Len() == len(Text)
}

// Empty reports whether the code holds no text.
func (c Code) Empty() bool { return c.Text == "" }

// UnparsedCode is the parameter list and body of a function, stored
// verbatim until a syntax tree is demanded.
type UnparsedCode struct {
	Params Code // text between the parentheses
	Body   Code // text between the braces
}

// SameText reports whether u and other hold identical text, ignoring
// where that text sits in the file.
func (u UnparsedCode) SameText(other UnparsedCode) bool {
	return u.Params.Text == other.Params.Text && u.Body.Text == other.Body.Text
}
