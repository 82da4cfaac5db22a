package syntax

import (
	"slices"

	"dada/internal/arena"
	"dada/internal/source"
)

// NamedExprSpan locates a call argument: the whole argument and its name
// alone, so diagnostics can point at just the name.
type NamedExprSpan struct {
	Span     source.Span
	NameSpan source.Span
}

// Spans is the side-table of source positions for one Tree. It is only
// needed for diagnostics. An absent entry means no position was recorded.
type Spans struct {
	owner  arena.Owner
	exprs  *arena.SideTable[source.Span]
	named  *arena.SideTable[NamedExprSpan]
	blocks *arena.SideTable[source.Span]
	params []source.Span
}

// NewSpans creates an empty side-table for the handles of tables.
func NewSpans(tables *Tables) *Spans {
	owner := tables.Owner()
	return &Spans{
		owner:  owner,
		exprs:  arena.NewSideTable[source.Span](owner),
		named:  arena.NewSideTable[NamedExprSpan](owner),
		blocks: arena.NewSideTable[source.Span](owner),
	}
}

func (s *Spans) SetExpr(e Expr, sp source.Span)   { s.exprs.Set(e.id, sp) }
func (s *Spans) SetBlock(b Block, sp source.Span) { s.blocks.Set(b.id, sp) }

func (s *Spans) SetNamed(n NamedExpr, full, name source.Span) {
	s.named.Set(n.id, NamedExprSpan{Span: full, NameSpan: name})
}

// SetParams records the spans of the parameter list, by position.
func (s *Spans) SetParams(spans []source.Span) { s.params = slices.Clone(spans) }

// Expr returns the span of e.
func (s *Spans) Expr(e Expr) (source.Span, bool) {
	if s == nil {
		return source.Span{}, false
	}
	return s.exprs.Get(e.id)
}

// Block returns the span of b.
func (s *Spans) Block(b Block) (source.Span, bool) {
	if s == nil {
		return source.Span{}, false
	}
	return s.blocks.Get(b.id)
}

// Named returns the spans of a call argument.
func (s *Spans) Named(n NamedExpr) (NamedExprSpan, bool) {
	if s == nil {
		return NamedExprSpan{}, false
	}
	return s.named.Get(n.id)
}

// Param returns the span of the i-th parameter.
func (s *Spans) Param(i int) (source.Span, bool) {
	if s == nil || i < 0 || i >= len(s.params) {
		return source.Span{}, false
	}
	return s.params[i], true
}

// Len returns the number of recorded entries of every kind.
func (s *Spans) Len() int {
	if s == nil {
		return 0
	}
	return s.exprs.Len() + s.named.Len() + s.blocks.Len() + len(s.params)
}

// Clear drops every entry.
func (s *Spans) Clear() {
	s.exprs.Clear()
	s.named.Clear()
	s.blocks.Clear()
	s.params = nil
}

// Rebind returns a copy of s keyed by the handles of tables, which must be
// structurally equal to the tables s was recorded for.
func (s *Spans) Rebind(tables *Tables) *Spans {
	owner := tables.Owner()
	if s == nil {
		return NewSpans(tables)
	}
	if s.owner == owner {
		return s
	}
	return &Spans{
		owner:  owner,
		exprs:  s.exprs.Rebind(owner),
		named:  s.named.Rebind(owner),
		blocks: s.blocks.Rebind(owner),
		params: slices.Clone(s.params),
	}
}
