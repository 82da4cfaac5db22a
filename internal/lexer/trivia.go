package lexer

import (
	"dada/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - # ... до \n -> TriviaLineComment
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.push(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.push(token.TriviaNewline, start)
		case b == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.push(token.TriviaLineComment, start)
		default:
			return
		}
	}
}

func (lx *Lexer) push(kind token.TriviaKind, start Mark) {
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: lx.cursor.SpanFrom(start)})
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }
