package token

import (
	"slices"

	"dada/internal/source"
)

// TriviaKind classifies the non-significant text between tokens.
type TriviaKind uint8

const (
	TriviaSpace       TriviaKind = iota // run of ' ', '\t', '\r'
	TriviaNewline                       // run of '\n'
	TriviaLineComment                   // # to end of line
)

// Trivia is one run of non-significant text, attached to the token after it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
}

// BreaksLine reports whether the trivia ends a statement.
func (tv Trivia) BreaksLine() bool { return tv.Kind == TriviaNewline }

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// HasNewlineBefore reports whether a line break separates t from the
// previous token.
func (t Token) HasNewlineBefore() bool {
	return slices.ContainsFunc(t.Leading, Trivia.BreaksLine)
}
