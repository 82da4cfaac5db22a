package parser

import (
	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/token"
)

// parseParams parses `[shared|var|atomic] name [: Type], ...`. Types are
// skipped; malformed entries are reported and dropped.
func parseParams(words *source.Interner, code ir.Code, opts *Options) ([]syntax.Param, []source.Span) {
	toks := lexCode(code.Text, code.Span.File, code.Span.Start, opts.Reporter)
	p := newParser(toks, words, *opts)
	defer func() { opts.CurrentErrors = p.opts.CurrentErrors }()

	var (
		params []syntax.Param
		spans  []source.Span
	)
	atParamEnd := func(t token.Token) bool { return t.Kind == token.Comma }
	for !p.at(token.EOF) {
		start := p.peek().Span
		mode, hasMode := storageMode(p.peek().Kind)
		if hasMode {
			p.advance()
		}
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name, found "+tokenDescription(p.peek()))
		if ok {
			if p.at(token.Colon) {
				p.advance()
				p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter type, found "+tokenDescription(p.peek()))
			}
			if !p.atOr(token.Comma, token.EOF) {
				p.err(diag.SynUnexpectedToken, "expected `,` after parameter, found "+tokenDescription(p.peek()))
				ok = false
			}
		}
		p.skipUntil(atParamEnd)
		if ok {
			params = append(params, syntax.Param{Mode: mode, Name: words.Intern(name.Text)})
			spans = append(spans, start.Cover(p.lastSpan))
		}
		if p.at(token.Comma) {
			p.advance()
		}
	}
	return params, spans
}
