package lexer

import (
	"fmt"

	"dada/internal/diag"
	"dada/internal/token"
)

var twoByteOps = map[[2]byte]token.Kind{
	{':', '='}: token.ColonAssign,
	{'+', '='}: token.PlusAssign,
	{'-', '='}: token.MinusAssign,
	{'*', '='}: token.StarAssign,
	{'/', '='}: token.SlashAssign,
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'-', '>'}: token.Arrow,
}

var oneByteOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'=': token.Assign, '<': token.Lt, '>': token.Gt, '.': token.Dot,
	',': token.Comma, ':': token.Colon, ';': token.Semicolon,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}

// scanOperatorOrPunct жадно выбирает самый длинный оператор.
// Неизвестный символ даёт Invalid-токен длиной в одну руну.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok {
		if k, found := twoByteOps[[2]byte{b0, b1}]; found {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.tokenFrom(k, start)
		}
	}
	if k := oneByteOps[lx.cursor.Peek()]; k != token.Invalid {
		lx.cursor.Bump()
		return lx.tokenFrom(k, start)
	}

	r, _ := lx.peekRune()
	lx.bumpRune()
	tok := lx.tokenFrom(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", r))
	return tok
}

func (lx *Lexer) tokenFrom(k token.Kind, start Mark) token.Token {
	return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start), Text: string(lx.cursor.TextFrom(start))}
}

// checkLength reports tokens longer than the configured limit.
func (lx *Lexer) checkLength(tok *token.Token) {
	if tok.Span.Len() <= lx.opts.MaxTokenLen {
		return
	}
	lx.errLex(diag.LexTokenTooLong, tok.Span, fmt.Sprintf("token longer than %d bytes", lx.opts.MaxTokenLen))
	tok.Kind = token.Invalid
}
