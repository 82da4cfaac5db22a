package parser

import (
	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/token"
)

// parseStmts parses statements until the closing token (`}` or EOF).
// Statements end at `;`, at a line break or before the closing token.
func (p *bodyParser) parseStmts(closing token.Kind) []syntax.Expr {
	var stmts []syntax.Expr
	for {
		for p.at(token.Semicolon) {
			p.advance()
		}
		if p.at(closing) || p.at(token.EOF) {
			return stmts
		}

		before := p.pos
		stmt := p.parseStmt()
		if p.pos == before {
			// ничего не съели - поглощаем токен в тот же Error-узел
			tok := p.advance()
			p.spans.SetExpr(stmt, tok.Span)
		}
		stmts = append(stmts, stmt)

		if garbage, ok := p.expectStmtEnd(closing); ok {
			stmts = append(stmts, garbage)
		}
	}
}

// expectStmtEnd checks that the statement is properly terminated. Trailing
// tokens on the same line are reported and folded into one Error node.
func (p *bodyParser) expectStmtEnd(closing token.Kind) (syntax.Expr, bool) {
	next := p.peek()
	if next.Kind == token.Semicolon || next.Kind == closing || next.Kind == token.EOF || next.HasNewlineBefore() {
		return syntax.NoExpr, false
	}
	p.err(diag.SynExpectStmtEnd, "expected newline or `;` after statement, found "+tokenDescription(next))
	sp, _ := p.skipUntil(func(t token.Token) bool {
		return t.Kind == token.Semicolon || t.Kind == closing || t.HasNewlineBefore()
	})
	return p.errorExpr(sp), true
}

// parseStmt parses one statement: a declaration `[mode] x = e` or an
// expression.
func (p *bodyParser) parseStmt() syntax.Expr {
	first := p.peek()
	if mode, ok := storageMode(first.Kind); ok {
		// `atomic { ... }` is an expression, `atomic x = ...` a declaration
		if first.Kind != token.KwAtomic || p.peekN(1).Kind == token.Ident {
			p.advance()
			return p.parseVar(mode, first.Span)
		}
	}
	if first.Kind == token.Ident && p.peekN(1).Kind == token.Assign {
		return p.parseVar(ir.StorageMy, first.Span)
	}
	return p.parseExpr()
}

// parseVar parses `name = initializer` after an optional storage keyword.
func (p *bodyParser) parseVar(mode ir.StorageMode, start source.Span) syntax.Expr {
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name, found "+tokenDescription(p.peek()))
	if ok {
		_, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected `=` after variable name, found "+tokenDescription(p.peek()))
	}
	if !ok {
		return p.recoverStmt(start)
	}
	init := p.parseExpr()
	v := p.tables.NewVar(mode, p.words.Intern(name.Text), init)
	return p.mark(v, start.Cover(p.spanOf(init)))
}

// recoverStmt skips the rest of a malformed statement and records all of it,
// from start, as a single Error node.
func (p *bodyParser) recoverStmt(start source.Span) syntax.Expr {
	sp := start.Cover(p.lastSpan)
	if rest, ok := p.skipUntil(func(t token.Token) bool {
		return t.Kind == token.Semicolon || t.Kind == token.RBrace || t.HasNewlineBefore()
	}); ok {
		sp = sp.Cover(rest)
	}
	return p.errorExpr(sp)
}
