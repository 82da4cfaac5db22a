// Package lexer turns dada source fragments into tokens. A lexer may cover a
// whole file or only a function body: spans are always file offsets.
package lexer

import (
	"dada/internal/source"
	"dada/internal/token"
)

type Lexer struct {
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

// New lexes src, which starts at byte offset base of file.
func New(src []byte, file source.FileID, base uint32, opts Options) *Lexer {
	if opts.MaxTokenLen == 0 {
		opts.MaxTokenLen = DefaultMaxTokenLen
	}
	return &Lexer{
		cursor: NewCursor(src, file, base),
		opts:   opts,
	}
}

// NewFile lexes the whole content of f.
func NewFile(f *source.File, opts Options) *Lexer {
	return New(f.Content, f.ID, 0, opts)
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF; его Leading содержит хвостовые trivia.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	var tok token.Token
	if lx.cursor.EOF() {
		tok = token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	} else {
		ch := lx.cursor.Peek()
		switch {
		case isIdentStartByte(ch), ch >= utf8RuneSelf:
			tok = lx.scanIdentOrKeyword()
		case isDec(ch):
			tok = lx.scanNumber()
		case ch == '"':
			tok = lx.scanString()
		default:
			tok = lx.scanOperatorOrPunct()
		}
		lx.checkLength(&tok)
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input, EOF included.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	off := lx.cursor.Base + lx.cursor.Off
	return source.Span{File: lx.cursor.File, Start: off, End: off}
}
