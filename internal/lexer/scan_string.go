package lexer

import (
	"dada/internal/diag"
	"dada/internal/token"
)

// "..." с escape \" \\ \n \t; строка может занимать несколько строк.
// Token.Text - исходный срез вместе с кавычками.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.cursor.TextFrom(start))}
		case '\\':
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.cursor.TextFrom(start))}
}
