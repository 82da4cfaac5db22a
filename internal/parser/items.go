package parser

import (
	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/token"
)

// FunctionDecl is a function definition found by SplitItems.
type FunctionDecl struct {
	Name       ir.SpannedWord
	Effect     ir.Effect
	EffectSpan source.Span // `async`/`atomic` keyword, or `fn` when absent
	Return     ir.ReturnType
	Code       ir.UnparsedCode
	Span       source.Span
}

// ClassDecl is a class definition found by SplitItems.
type ClassDecl struct {
	Name   ir.SpannedWord
	Fields ir.Code
	Span   source.Span
}

// ItemDecl is one top-level definition, in file order.
type ItemDecl struct {
	Kind     ir.ItemKind
	Function *FunctionDecl
	Class    *ClassDecl
}

// SplitResult lists the definitions of a file plus top-level diagnostics.
type SplitResult struct {
	Items []ItemDecl
	Diags []diag.Diagnostic
}

// SplitItems scans the top level of f. Parameter lists and bodies are only
// delimited, not parsed; lexical problems inside them are left to
// ParseCode.
func SplitItems(words *source.Interner, f *source.File, opts Options) SplitResult {
	lexBag := diag.NewBag(0)
	toks := lexCode(string(f.Content), f.ID, 0, diag.BagReporter{Bag: lexBag})

	bag := diag.NewBag(0)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	} else {
		opts.Reporter = tee{diag.BagReporter{Bag: bag}, opts.Reporter}
	}
	s := &splitter{Parser: newParser(toks, words, opts), file: f}

	for !s.at(token.EOF) {
		item, ok := s.parseItem()
		if ok {
			s.items = append(s.items, item)
			continue
		}
		s.resyncTop()
	}

	// лексические ошибки внутри отложенного кода репортит ParseCode
	for _, d := range lexBag.Items() {
		if !s.insideCode(d.Primary) {
			s.report(d.Code, d.Severity, d.Primary, d.Message)
		}
	}
	bag.Sort()
	return SplitResult{Items: s.items, Diags: bag.Items()}
}

type splitter struct {
	*Parser
	file  *source.File
	items []ItemDecl
	code  []source.Span // deferred regions, in order
}

func (s *splitter) insideCode(sp source.Span) bool {
	for _, c := range s.code {
		if c.Start <= sp.Start && sp.End <= c.End && !c.Empty() {
			return true
		}
	}
	return false
}

func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwClass, token.KwAsync, token.KwAtomic:
		return true
	default:
		return false
	}
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (s *splitter) parseItem() (ItemDecl, bool) {
	switch tok := s.peek(); tok.Kind {
	case token.KwClass:
		return s.parseClass()
	case token.KwFn, token.KwAsync, token.KwAtomic:
		return s.parseFn()
	case token.Invalid:
		return ItemDecl{}, false
	default:
		s.err(diag.SynUnexpectedTopLevel, "expected `fn` or `class`, found "+tokenDescription(tok))
		return ItemDecl{}, false
	}
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// прокручиваем до стартового токена следующего item ИЛИ EOF.
func (s *splitter) resyncTop() {
	before := s.pos
	s.skipUntil(func(t token.Token) bool { return isTopLevelStarter(t.Kind) })
	if s.pos == before && !s.at(token.EOF) {
		s.advance()
	}
}

func (s *splitter) parseFn() (ItemDecl, bool) {
	start := s.peek().Span
	effect := ir.EffectDefault
	effectSpan := source.Span{}
	for {
		tok := s.peek()
		var e ir.Effect
		switch tok.Kind {
		case token.KwAsync:
			e = ir.EffectAsync
		case token.KwAtomic:
			e = ir.EffectAtomic
		}
		if e == ir.EffectDefault {
			break
		}
		s.advance()
		if effect != ir.EffectDefault {
			s.report(diag.SynDuplicateModifier, diag.SevError, tok.Span, "only one of `async` and `atomic` may be given")
			continue
		}
		effect, effectSpan = e, tok.Span
	}
	fnTok, ok := s.expect(token.KwFn, diag.SynUnexpectedToken, "expected `fn`, found "+tokenDescription(s.peek()))
	if !ok {
		return ItemDecl{}, false
	}
	if effect == ir.EffectDefault {
		effectSpan = fnTok.Span
	}

	name, ok := s.parseName()
	if !ok {
		return ItemDecl{}, false
	}
	params, ok := s.delimited(token.LParen, token.RParen, diag.SynExpectParams, diag.SynUnclosedParen)
	if !ok {
		return ItemDecl{}, false
	}

	ret := ir.ReturnType{Kind: ir.ReturnUnit, Span: name.Span}
	if s.at(token.Arrow) {
		arrow := s.advance()
		tyTok, ok := s.expect(token.Ident, diag.SynExpectIdentifier, "expected return type, found "+tokenDescription(s.peek()))
		if !ok {
			return ItemDecl{}, false
		}
		ret = ir.ReturnType{Kind: ir.ReturnValue, Name: s.words.Intern(tyTok.Text), Span: arrow.Span.Cover(tyTok.Span)}
	}

	body, ok := s.delimited(token.LBrace, token.RBrace, diag.SynExpectBody, diag.SynUnclosedBrace)
	if !ok {
		return ItemDecl{}, false
	}
	return ItemDecl{Kind: ir.ItemFunction, Function: &FunctionDecl{
		Name:       name,
		Effect:     effect,
		EffectSpan: effectSpan,
		Return:     ret,
		Code:       ir.UnparsedCode{Params: params, Body: body},
		Span:       start.Cover(s.lastSpan),
	}}, true
}

func (s *splitter) parseClass() (ItemDecl, bool) {
	start := s.advance().Span
	name, ok := s.parseName()
	if !ok {
		return ItemDecl{}, false
	}
	fields, ok := s.delimited(token.LParen, token.RParen, diag.SynExpectParams, diag.SynUnclosedParen)
	if !ok {
		return ItemDecl{}, false
	}
	return ItemDecl{Kind: ir.ItemClass, Class: &ClassDecl{
		Name:   name,
		Fields: fields,
		Span:   start.Cover(s.lastSpan),
	}}, true
}

func (s *splitter) parseName() (ir.SpannedWord, bool) {
	tok, ok := s.expect(token.Ident, diag.SynExpectIdentifier, "expected name, found "+tokenDescription(s.peek()))
	if !ok {
		return ir.SpannedWord{}, false
	}
	return ir.SpannedWord{Word: s.words.Intern(tok.Text), Span: tok.Span}, true
}

// delimited consumes a balanced `open ... close` group and returns the text
// strictly between the delimiters. An unclosed group extends to the end of
// the file.
func (s *splitter) delimited(open, close token.Kind, missing, unclosed diag.Code) (ir.Code, bool) {
	openTok, ok := s.expect(open, missing, "expected `"+open.String()+"`, found "+tokenDescription(s.peek()))
	if !ok {
		return ir.Code{}, false
	}
	depth := 1
	end := uint32(len(s.file.Content))
	for !s.at(token.EOF) {
		tok := s.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 {
			end = tok.Span.Start
			break
		}
	}
	if depth > 0 {
		s.report(unclosed, diag.SevError, openTok.Span, "unclosed `"+open.String()+"`")
	}
	sp := source.Span{File: s.file.ID, Start: openTok.Span.End, End: end}
	s.code = append(s.code, sp)
	return ir.Code{Text: string(s.file.Content[sp.Start:sp.End]), Span: sp}, true
}
