// Package syntax holds the parsed form of one function: a Tree owning the
// node tables, and the Spans side-table that maps the same handles to
// source positions.
//
// Trees carry no positions. Keeping spans apart lets a re-parse that only
// moved text produce a Tree equal to the previous one, so everything
// derived from the Tree can be reused.
package syntax

import "slices"

// Tree is the syntax tree of one function body. It exclusively owns its
// tables; handles of one Tree are meaningless against another.
type Tree struct {
	Tables *Tables
	Root   Expr
	Params []Param
}

// NewTree wraps tables that were fully built.
func NewTree(tables *Tables, root Expr, params []Param) *Tree {
	return &Tree{Tables: tables, Root: root, Params: slices.Clone(params)}
}

// RootData returns the data of the root expression.
func (t *Tree) RootData() ExprData { return t.Tables.Expr(t.Root) }

// Equal reports whether a and b have the same content. Handles are
// compared by index, which is sound because both trees allocate nodes in
// construction order.
func Equal(a, b *Tree) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Root.Index() != b.Root.Index() || !slices.Equal(a.Params, b.Params) {
		return false
	}
	ta, tb := a.Tables, b.Tables
	if !slices.EqualFunc(ta.exprs.Slice(), tb.exprs.Slice(), exprDataEqual) {
		return false
	}
	if !slices.EqualFunc(ta.namedExprs.Slice(), tb.namedExprs.Slice(), func(x, y NamedExprData) bool {
		return x.Name == y.Name && x.Expr.Index() == y.Expr.Index()
	}) {
		return false
	}
	return slices.EqualFunc(ta.blocks.Slice(), tb.blocks.Slice(), func(x, y BlockData) bool {
		return slices.EqualFunc(x.Exprs, y.Exprs, func(p, q Expr) bool { return p.Index() == q.Index() })
	})
}

func exprDataEqual(x, y ExprData) bool {
	return x.Kind == y.Kind &&
		x.Word == y.Word &&
		x.Bool == y.Bool &&
		x.Op == y.Op &&
		x.Mode == y.Mode &&
		x.Lhs.Index() == y.Lhs.Index() &&
		x.Rhs.Index() == y.Rhs.Index() &&
		x.Else.Index() == y.Else.Index() &&
		x.Block.Index() == y.Block.Index() &&
		slices.EqualFunc(x.Args, y.Args, func(p, q NamedExpr) bool { return p.Index() == q.Index() })
}

// Errors returns the Error nodes reachable from the root.
func (t *Tree) Errors() []Expr {
	var out []Expr
	t.Tables.Walk(t.Root, func(e Expr) bool {
		if t.Tables.Expr(e).Kind == ExprError {
			out = append(out, e)
		}
		return true
	})
	return out
}
