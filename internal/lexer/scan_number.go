package lexer

import (
	"dada/internal/diag"
	"dada/internal/token"
)

// scanNumber сканирует десятичный литерал [0-9][0-9_]*. Значение не
// декодируется: переполнение проверяет валидатор. Буква сразу после цифр
// делает литерал некорректным.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
	if b := lx.cursor.Peek(); isIdentStartByte(b) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid digit in integer literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.cursor.TextFrom(start))}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.cursor.TextFrom(start))}
}
