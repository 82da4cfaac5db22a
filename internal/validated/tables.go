package validated

import (
	"slices"

	"dada/internal/arena"
	"dada/internal/ir"
	"dada/internal/source"
)

// Tables holds every node of one validated tree under a single owner. It
// shares nothing with the syntax tree it was produced from.
type Tables struct {
	owner      arena.Owner
	exprs      *arena.Arena[ExprData]
	namedExprs *arena.Arena[NamedExprData]
	locals     *arena.Arena[LocalVariableData]
}

// NewTables creates empty tables with a fresh owner.
func NewTables(capHint uint) *Tables {
	if capHint == 0 {
		capHint = 1 << 6
	}
	owner := arena.NewOwner()
	return &Tables{
		owner:      owner,
		exprs:      arena.New[ExprData](owner, capHint),
		namedExprs: arena.New[NamedExprData](owner, capHint/4),
		locals:     arena.New[LocalVariableData](owner, capHint/8),
	}
}

func (t *Tables) Owner() arena.Owner                      { return t.owner }
func (t *Tables) NamedExpr(n NamedExpr) NamedExprData     { return *t.namedExprs.Get(n.id) }
func (t *Tables) Local(l LocalVariable) LocalVariableData { return *t.locals.Get(l.id) }
func (t *Tables) NumExprs() uint32                        { return t.exprs.Len() }

// Expr returns a copy of the data of e with clipped slices. The memo store
// hands one tree to every reader, so slice elements are READONLY.
func (t *Tables) Expr(e Expr) ExprData {
	d := *t.exprs.Get(e.id)
	d.Exprs = slices.Clip(d.Exprs)
	d.Args = slices.Clip(d.Args)
	return d
}

func (t *Tables) add(d ExprData) Expr { return Expr{t.exprs.Alloc(d)} }

func (t *Tables) NewError() Expr { return t.add(ExprData{Kind: ExprError}) }
func (t *Tables) NewUnit() Expr  { return t.add(ExprData{Kind: ExprUnit}) }
func (t *Tables) NewBreak() Expr { return t.add(ExprData{Kind: ExprBreak}) }

func (t *Tables) NewBooleanLiteral(v bool) Expr {
	return t.add(ExprData{Kind: ExprBooleanLiteral, Bool: v})
}

func (t *Tables) NewIntegerLiteral(v uint64) Expr {
	return t.add(ExprData{Kind: ExprIntegerLiteral, Int: v})
}

func (t *Tables) NewStringLiteral(text source.Word) Expr {
	return t.add(ExprData{Kind: ExprStringLiteral, Word: text})
}

func (t *Tables) NewLocal(d LocalVariableData) LocalVariable {
	return LocalVariable{t.locals.Alloc(d)}
}

func (t *Tables) NewLocalVariable(l LocalVariable) Expr {
	return t.add(ExprData{Kind: ExprLocalVariable, Local: l})
}

func (t *Tables) NewVariable(v ir.Variable) Expr {
	return t.add(ExprData{Kind: ExprVariable, Variable: v})
}

func (t *Tables) NewDot(owner Expr, field source.Word) Expr {
	return t.add(ExprData{Kind: ExprDot, Lhs: owner, Word: field})
}

// NewUnary creates one of Await, Share, Lease, Give, Atomic or Loop.
func (t *Tables) NewUnary(kind ExprKind, operand Expr) Expr {
	switch kind {
	case ExprAwait, ExprShare, ExprLease, ExprGive, ExprAtomic, ExprLoop:
	default:
		panic("validated: NewUnary with non-unary kind " + kind.String())
	}
	return t.add(ExprData{Kind: kind, Lhs: operand})
}

func (t *Tables) NewCall(callee Expr, args []NamedExpr) Expr {
	return t.add(ExprData{Kind: ExprCall, Lhs: callee, Args: slices.Clone(args)})
}

// NewIf creates a conditional. elseExpr must be valid; use NewUnit for a
// missing branch.
func (t *Tables) NewIf(cond, then, elseExpr Expr) Expr {
	if !elseExpr.IsValid() {
		panic("validated: If without else branch")
	}
	return t.add(ExprData{Kind: ExprIf, Lhs: cond, Rhs: then, Else: elseExpr})
}

func (t *Tables) NewSeq(exprs []Expr) Expr {
	return t.add(ExprData{Kind: ExprSeq, Exprs: slices.Clone(exprs)})
}

func (t *Tables) NewOp(lhs Expr, op ir.Op, rhs Expr) Expr {
	return t.add(ExprData{Kind: ExprOp, Lhs: lhs, Op: op, Rhs: rhs})
}

func (t *Tables) NewAssign(place, value Expr) Expr {
	return t.add(ExprData{Kind: ExprAssign, Lhs: place, Rhs: value})
}

func (t *Tables) NewDeclare(l LocalVariable, init Expr) Expr {
	return t.add(ExprData{Kind: ExprDeclare, Local: l, Lhs: init})
}

func (t *Tables) NewNamedExpr(name source.Word, e Expr) NamedExpr {
	return NamedExpr{t.namedExprs.Alloc(NamedExprData{Name: name, Expr: e})}
}

// Children returns the direct sub-expressions of e in evaluation order.
func (t *Tables) Children(e Expr) []Expr {
	d := t.Expr(e)
	switch d.Kind {
	case ExprError, ExprBooleanLiteral, ExprIntegerLiteral, ExprStringLiteral,
		ExprLocalVariable, ExprVariable, ExprBreak, ExprUnit:
		return nil
	case ExprDot, ExprAwait, ExprShare, ExprLease, ExprGive, ExprAtomic, ExprLoop, ExprDeclare:
		return []Expr{d.Lhs}
	case ExprCall:
		out := make([]Expr, 0, 1+len(d.Args))
		out = append(out, d.Lhs)
		for _, a := range d.Args {
			out = append(out, t.NamedExpr(a).Expr)
		}
		return out
	case ExprIf:
		return []Expr{d.Lhs, d.Rhs, d.Else}
	case ExprSeq:
		return slices.Clone(d.Exprs)
	case ExprOp, ExprAssign:
		return []Expr{d.Lhs, d.Rhs}
	default:
		panic("validated: unhandled expression kind " + d.Kind.String())
	}
}

// Walk visits e and its descendants in pre-order. Returning false from
// visit skips the children of that node.
func (t *Tables) Walk(e Expr, visit func(Expr) bool) {
	if !e.IsValid() || !visit(e) {
		return
	}
	for _, c := range t.Children(e) {
		t.Walk(c, visit)
	}
}
