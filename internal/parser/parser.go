// Package parser is the reference parser of dada source. SplitItems finds
// the top-level definitions of a file and keeps their parameter lists and
// bodies as unparsed code; ParseCode turns one such body into a syntax tree
// on demand.
//
// Parsing is total: malformed input produces diagnostics and Error nodes,
// never a failure.
package parser

import (
	"slices"

	"dada/internal/diag"
	"dada/internal/lexer"
	"dada/internal/source"
	"dada/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors > o.MaxErrors
}

// Parser - состояние парсера на один фрагмент исходника
type Parser struct {
	toks     []token.Token // все токены фрагмента, последний - EOF
	pos      int
	words    *source.Interner
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

func newParser(toks []token.Token, words *source.Interner, opts Options) *Parser {
	return &Parser{
		toks:     toks,
		words:    words,
		opts:     opts,
		lastSpan: source.Span{File: toks[0].Span.File, Start: toks[0].Span.Start, End: toks[0].Span.Start},
	}
}

func lexCode(text string, file source.FileID, base uint32, r diag.Reporter) []token.Token {
	return lexer.New([]byte(text), file, base, lexer.Options{Reporter: r}).All()
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

// peekN смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atSameLine reports whether the next token is k and sits on the line of
// the previous token.
func (p *Parser) atSameLine(k token.Kind) bool {
	t := p.peek()
	return t.Kind == k && !t.HasNewlineBefore()
}
