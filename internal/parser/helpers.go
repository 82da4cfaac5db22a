package parser

import (
	"dada/internal/diag"
	"dada/internal/source"
	"dada/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// afterLast is an empty span right after the last consumed token.
func (p *Parser) afterLast() source.Span {
	return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// getDiagnosticSpan - возвращает лучший span для диагностики:
// на EOF указываем сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	if p.at(token.EOF) {
		return p.afterLast()
	}
	return p.peek().Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// skipUntil съедает токены до одного из stop (не включая) или EOF и
// возвращает покрытый span; ok=false, если ничего не съедено.
func (p *Parser) skipUntil(stop func(token.Token) bool) (source.Span, bool) {
	var sp source.Span
	skipped := false
	for !p.at(token.EOF) && !stop(p.peek()) {
		tok := p.advance()
		if !skipped {
			sp = tok.Span
			skipped = true
		} else {
			sp = sp.Cover(tok.Span)
		}
	}
	return sp, skipped
}

// tokenDescription gives a short human form of t for messages.
func tokenDescription(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return "identifier `" + t.Text + "`"
	case token.IntLit, token.StringLit:
		return "literal " + t.Text
	default:
		return "`" + t.Kind.String() + "`"
	}
}

// isRecoveryPoint reports whether t closes or separates an enclosing
// construct and must be left for it.
func isRecoveryPoint(t token.Token) bool {
	switch t.Kind {
	case token.EOF, token.RParen, token.RBrace, token.Semicolon, token.Comma:
		return true
	default:
		return t.HasNewlineBefore()
	}
}
