// Package validated holds the validated form of a function body: a tree
// with its own arena, where names are resolved to locals or variables and
// sugar (parentheses, while, compound assignment) has been removed.
package validated

import "slices"

// Tree is the validated tree of one function.
type Tree struct {
	Tables *Tables
	Root   Expr
	Params []LocalVariable
}

// NewTree wraps fully built tables.
func NewTree(tables *Tables, root Expr, params []LocalVariable) *Tree {
	return &Tree{Tables: tables, Root: root, Params: slices.Clone(params)}
}

// Equal reports whether a and b have the same content, comparing handles
// by index.
func Equal(a, b *Tree) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Root.Index() != b.Root.Index() ||
		!slices.EqualFunc(a.Params, b.Params, func(p, q LocalVariable) bool { return p.Index() == q.Index() }) {
		return false
	}
	ta, tb := a.Tables, b.Tables
	if !slices.Equal(ta.locals.Slice(), tb.locals.Slice()) {
		return false
	}
	if !slices.EqualFunc(ta.namedExprs.Slice(), tb.namedExprs.Slice(), func(x, y NamedExprData) bool {
		return x.Name == y.Name && x.Expr.Index() == y.Expr.Index()
	}) {
		return false
	}
	return slices.EqualFunc(ta.exprs.Slice(), tb.exprs.Slice(), exprDataEqual)
}

func sameExpr(p, q Expr) bool { return p.Index() == q.Index() }

func exprDataEqual(x, y ExprData) bool {
	return x.Kind == y.Kind &&
		x.Bool == y.Bool &&
		x.Int == y.Int &&
		x.Word == y.Word &&
		x.Op == y.Op &&
		x.Local.Index() == y.Local.Index() &&
		x.Variable == y.Variable &&
		x.Lhs.Index() == y.Lhs.Index() &&
		x.Rhs.Index() == y.Rhs.Index() &&
		x.Else.Index() == y.Else.Index() &&
		slices.EqualFunc(x.Exprs, y.Exprs, sameExpr) &&
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
