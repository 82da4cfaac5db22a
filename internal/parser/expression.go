package parser

import (
	"strings"

	"dada/internal/diag"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений.
// Присваивания `:=` и `op=` правоассоциативны и имеют самый низкий приоритет.
func (p *bodyParser) parseExpr() syntax.Expr {
	lhs := p.parseBinaryExpr(0)

	switch tok := p.peek(); {
	case tok.HasNewlineBefore():
		return lhs
	case tok.Kind == token.ColonAssign:
		p.advance()
		rhs := p.parseExpr()
		return p.mark(p.tables.NewAssign(lhs, rhs), p.spanOf(lhs).Cover(p.spanOf(rhs)))
	default:
		if op, ok := compoundOp(tok.Kind); ok {
			p.advance()
			rhs := p.parseExpr()
			return p.mark(p.tables.NewOpEq(lhs, op, rhs), p.spanOf(lhs).Cover(p.spanOf(rhs)))
		}
	}
	return lhs
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов.
// Оператор должен стоять на той же строке, что и левый операнд.
func (p *bodyParser) parseBinaryExpr(minPrec int) syntax.Expr {
	left := p.parsePostfixExpr()
	for {
		tok := p.peek()
		op, prec, ok := binaryOp(tok.Kind)
		if !ok || prec < minPrec || tok.HasNewlineBefore() {
			return left
		}
		p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = p.mark(p.tables.NewOp(left, op, right), p.spanOf(left).Cover(p.spanOf(right)))
	}
}

// parsePostfixExpr обрабатывает `.field`, `.await`, `.share`, `.lease`,
// `.give` и вызовы. Скобка вызова должна быть на строке вызываемого.
func (p *bodyParser) parsePostfixExpr() syntax.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch {
		case p.at(token.Dot):
			expr = p.parseDotSuffix(expr)
		case p.atSameLine(token.LParen):
			expr = p.parseCall(expr)
		default:
			return expr
		}
	}
}

func (p *bodyParser) parseDotSuffix(owner syntax.Expr) syntax.Expr {
	p.advance() // '.'
	start := p.spanOf(owner)
	tok := p.peek()
	var kind syntax.ExprKind
	switch tok.Kind {
	case token.KwAwait:
		kind = syntax.ExprAwait
	case token.KwShare:
		kind = syntax.ExprShare
	case token.KwLease:
		kind = syntax.ExprLease
	case token.KwGive:
		kind = syntax.ExprGive
	case token.Ident:
		p.advance()
		return p.mark(p.tables.NewDot(owner, p.words.Intern(tok.Text)), start.Cover(tok.Span))
	default:
		p.err(diag.SynExpectIdentifier, "expected field name after `.`, found "+tokenDescription(tok))
		if !isRecoveryPoint(tok) {
			p.advance()
		}
		return p.errorExpr(start.Cover(p.lastSpan))
	}
	p.advance()
	return p.mark(p.tables.NewUnary(kind, owner), start.Cover(tok.Span))
}

// parseCall parses `(name: expr, expr, ...)` after a callee.
func (p *bodyParser) parseCall(callee syntax.Expr) syntax.Expr {
	open := p.advance() // '('
	var args []syntax.NamedExpr
	closed := false
	for !closed {
		if p.at(token.RParen) {
			p.advance()
			closed = true
			break
		}
		if p.atOr(token.EOF, token.RBrace, token.Semicolon) {
			break
		}
		args = append(args, p.parseArg())

		switch {
		case p.at(token.Comma):
			p.advance()
		case p.at(token.RParen):
		default:
			p.err(diag.SynUnexpectedToken, "expected `,` or `)` in argument list, found "+tokenDescription(p.peek()))
			sp, ok := p.skipUntil(func(t token.Token) bool {
				return t.Kind == token.Comma || t.Kind == token.RParen || t.Kind == token.RBrace || t.Kind == token.Semicolon
			})
			if ok {
				junk := p.errorExpr(sp)
				named := p.tables.NewNamedExpr(source.NoWord, junk)
				p.spans.SetNamed(named, sp, source.Span{File: sp.File, Start: sp.Start, End: sp.Start})
				args = append(args, named)
			}
			if p.at(token.Comma) {
				p.advance()
			}
		}
	}
	if !closed {
		p.report(diag.SynUnclosedParen, diag.SevError, open.Span, "unclosed `(` in call")
	}
	call := p.tables.NewCall(callee, args)
	return p.mark(call, p.spanOf(callee).Cover(p.lastSpan))
}

// parseArg parses `name: expr` or a positional `expr`.
func (p *bodyParser) parseArg() syntax.NamedExpr {
	start := p.peek().Span
	name := source.NoWord
	nameSpan := source.Span{File: start.File, Start: start.Start, End: start.Start}
	if p.at(token.Ident) && p.peekN(1).Kind == token.Colon {
		tok := p.advance()
		p.advance() // ':'
		name = p.words.Intern(tok.Text)
		nameSpan = tok.Span
	}
	e := p.parseExpr()
	named := p.tables.NewNamedExpr(name, e)
	p.spans.SetNamed(named, start.Cover(p.spanOf(e)), nameSpan)
	return named
}

// parsePrimaryExpr парсит основные (атомарные) выражения.
// На неожиданном токене создаётся ровно один Error-узел; закрывающие
// скобки и конец ввода не съедаются, чтобы внешний уровень восстановился.
func (p *bodyParser) parsePrimaryExpr() syntax.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.mark(p.tables.NewId(p.words.Intern(tok.Text)), tok.Span)
	case token.IntLit:
		p.advance()
		return p.mark(p.tables.NewIntegerLiteral(p.words.Intern(tok.Text)), tok.Span)
	case token.StringLit:
		p.advance()
		return p.mark(p.tables.NewStringLiteral(p.words.Intern(unquote(tok.Text))), tok.Span)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.mark(p.tables.NewBooleanLiteral(tok.Kind == token.KwTrue), tok.Span)
	case token.LParen:
		return p.parseParenthesized()
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		p.advance()
		cond := p.parseExpr()
		body := p.parseBlockExpr()
		return p.mark(p.tables.NewWhile(cond, body), tok.Span.Cover(p.spanOf(body)))
	case token.KwLoop, token.KwAtomic:
		p.advance()
		body := p.parseBlockExpr()
		kind := syntax.ExprLoop
		if tok.Kind == token.KwAtomic {
			kind = syntax.ExprAtomic
		}
		return p.mark(p.tables.NewUnary(kind, body), tok.Span.Cover(p.spanOf(body)))
	case token.EOF, token.RParen, token.RBrace, token.Semicolon, token.Comma:
		// не съедаем: это точка восстановления внешнего уровня
		p.err(diag.SynExpectExpression, "expected expression, found "+tokenDescription(tok))
		return p.errorExpr(p.afterLast())
	default:
		if tok.Kind != token.Invalid {
			p.err(diag.SynExpectExpression, "expected expression, found "+tokenDescription(tok))
		}
		p.advance()
		return p.errorExpr(tok.Span)
	}
}

func (p *bodyParser) parseParenthesized() syntax.Expr {
	open := p.advance()
	inner := p.parseExpr()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected `)`, found "+tokenDescription(p.peek())); !ok {
		return p.mark(p.tables.NewUnary(syntax.ExprParenthesized, inner), open.Span.Cover(p.spanOf(inner)))
	}
	return p.mark(p.tables.NewUnary(syntax.ExprParenthesized, inner), open.Span.Cover(p.lastSpan))
}

// parseBlockExpr parses `{ stmts }`. A missing `{` is reported and yields
// an Error node in place of the block.
func (p *bodyParser) parseBlockExpr() syntax.Expr {
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected `{`, found "+tokenDescription(p.peek()))
		return p.errorExpr(p.afterLast())
	}
	open := p.advance()
	stmts := p.parseStmts(token.RBrace)
	p.expect(token.RBrace, diag.SynUnclosedBrace, "unclosed `{`")
	sp := open.Span.Cover(p.lastSpan)
	block := p.tables.NewBlock(stmts)
	p.spans.SetBlock(block, sp)
	return p.mark(p.tables.NewBlockExpr(block), sp)
}

// parseIf parses `if cond { ... } [else { ... } | else if ...]`.
func (p *bodyParser) parseIf() syntax.Expr {
	start := p.advance().Span
	cond := p.parseExpr()
	then := p.parseBlockExpr()
	end := p.spanOf(then)
	elseExpr := syntax.NoExpr
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			elseExpr = p.parseIf()
		} else {
			elseExpr = p.parseBlockExpr()
		}
		end = p.spanOf(elseExpr)
	}
	return p.mark(p.tables.NewIf(cond, then, elseExpr), start.Cover(end))
}

// unquote strips the quotes of a string literal and resolves \" \\ \n \t.
// Unknown escapes are kept verbatim.
func unquote(lit string) string {
	lit = strings.TrimPrefix(lit, `"`)
	lit = strings.TrimSuffix(lit, `"`)
	if !strings.ContainsRune(lit, '\\') {
		return lit
	}
	var b strings.Builder
	for i := 0; i < len(lit); i++ {
		c := lit[i]
		if c != '\\' || i+1 == len(lit) {
			b.WriteByte(c)
			continue
		}
		i++
		switch lit[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"', '\\':
			b.WriteByte(lit[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(lit[i])
		}
	}
	return b.String()
}
