package parser

import (
	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/token"
)

// CodeResult is the outcome of parsing one function.
type CodeResult struct {
	Tree  *syntax.Tree
	Spans *syntax.Spans
	Diags []diag.Diagnostic
}

// bodyParser builds the tables and the span side-table of one tree.
type bodyParser struct {
	*Parser
	tables *syntax.Tables
	spans  *syntax.Spans
}

// ParseCode parses the parameter list and body of a function. Identical
// text always yields equal trees, wherever it sits in the file; only the
// spans differ.
func ParseCode(words *source.Interner, code ir.UnparsedCode, opts Options) CodeResult {
	bag := diag.NewBag(0)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	} else {
		opts.Reporter = tee{diag.BagReporter{Bag: bag}, opts.Reporter}
	}

	tables := syntax.NewTables(uint(len(code.Body.Text) / 4))
	spans := syntax.NewSpans(tables)

	params, paramSpans := parseParams(words, code.Params, &opts)
	spans.SetParams(paramSpans)

	toks := lexCode(code.Body.Text, code.Body.Span.File, code.Body.Span.Start, opts.Reporter)
	bp := &bodyParser{Parser: newParser(toks, words, opts), tables: tables, spans: spans}
	root := bp.parseBody(code.Body.Span)

	return CodeResult{
		Tree:  syntax.NewTree(tables, root, params),
		Spans: spans,
		Diags: bag.Items(),
	}
}

// tee forwards every report to both reporters.
type tee [2]diag.Reporter

func (t tee) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	t[0].Report(code, sev, primary, msg, notes)
	t[1].Report(code, sev, primary, msg, notes)
}

// parseBody parses statements up to EOF into the root block expression.
func (p *bodyParser) parseBody(whole source.Span) syntax.Expr {
	stmts := p.parseStmts(token.EOF)
	block := p.tables.NewBlock(stmts)
	p.spans.SetBlock(block, whole)
	root := p.tables.NewBlockExpr(block)
	p.spans.SetExpr(root, whole)
	return root
}

func (p *bodyParser) mark(e syntax.Expr, sp source.Span) syntax.Expr {
	p.spans.SetExpr(e, sp)
	return e
}

func (p *bodyParser) spanOf(e syntax.Expr) source.Span {
	sp, _ := p.spans.Expr(e)
	return sp
}

// errorExpr records malformed input as one Error node.
func (p *bodyParser) errorExpr(sp source.Span) syntax.Expr {
	return p.mark(p.tables.NewError(), sp)
}
