package syntax

import (
	"slices"

	"dada/internal/arena"
	"dada/internal/ir"
	"dada/internal/source"
)

// Tables holds every node of one syntax tree. Expressions, named
// arguments and blocks live in separate sub-arenas sharing one owner, so
// references between kinds are plain handles.
type Tables struct {
	owner      arena.Owner
	exprs      *arena.Arena[ExprData]
	namedExprs *arena.Arena[NamedExprData]
	blocks     *arena.Arena[BlockData]
}

// NewTables creates empty tables with a fresh owner.
// If capHint is 0, a default capacity of 1<<6 is used.
func NewTables(capHint uint) *Tables {
	if capHint == 0 {
		capHint = 1 << 6
	}
	owner := arena.NewOwner()
	return &Tables{
		owner:      owner,
		exprs:      arena.New[ExprData](owner, capHint),
		namedExprs: arena.New[NamedExprData](owner, capHint/4),
		blocks:     arena.New[BlockData](owner, capHint/4),
	}
}

// Owner returns the owner shared by all handles of these tables.
func (t *Tables) Owner() arena.Owner { return t.owner }

// Expr returns a copy of the data of e. Trees are shared between readers
// once published, so the copy's Args is clipped and must not be written.
func (t *Tables) Expr(e Expr) ExprData {
	d := *t.exprs.Get(e.id)
	d.Args = slices.Clip(d.Args)
	return d
}

// NamedExpr returns the data of n.
func (t *Tables) NamedExpr(n NamedExpr) NamedExprData { return *t.namedExprs.Get(n.id) }

// Block returns a copy of the data of b. Exprs is clipped, READONLY.
func (t *Tables) Block(b Block) BlockData {
	d := *t.blocks.Get(b.id)
	d.Exprs = slices.Clip(d.Exprs)
	return d
}

// NumExprs returns the number of allocated expressions.
func (t *Tables) NumExprs() uint32 { return t.exprs.Len() }

// Exprs returns every expression handle in allocation order.
func (t *Tables) Exprs() []Expr {
	ids := t.exprs.IDs()
	out := make([]Expr, len(ids))
	for i, id := range ids {
		out[i] = Expr{id}
	}
	return out
}

func (t *Tables) add(d ExprData) Expr {
	return Expr{t.exprs.Alloc(d)}
}

func (t *Tables) NewError() Expr { return t.add(ExprData{Kind: ExprError}) }

func (t *Tables) NewId(name source.Word) Expr {
	return t.add(ExprData{Kind: ExprId, Word: name})
}

func (t *Tables) NewBooleanLiteral(v bool) Expr {
	return t.add(ExprData{Kind: ExprBooleanLiteral, Bool: v})
}

func (t *Tables) NewIntegerLiteral(text source.Word) Expr {
	return t.add(ExprData{Kind: ExprIntegerLiteral, Word: text})
}

func (t *Tables) NewStringLiteral(text source.Word) Expr {
	return t.add(ExprData{Kind: ExprStringLiteral, Word: text})
}

func (t *Tables) NewDot(owner Expr, field source.Word) Expr {
	return t.add(ExprData{Kind: ExprDot, Lhs: owner, Word: field})
}

// NewUnary creates one of the single-operand kinds (Await, Share, Lease,
// Give, Parenthesized, Atomic, Loop).
func (t *Tables) NewUnary(kind ExprKind, operand Expr) Expr {
	switch kind {
	case ExprAwait, ExprShare, ExprLease, ExprGive, ExprParenthesized, ExprAtomic, ExprLoop:
	default:
		panic("syntax: NewUnary with non-unary kind " + kind.String())
	}
	return t.add(ExprData{Kind: kind, Lhs: operand})
}

func (t *Tables) NewCall(callee Expr, args []NamedExpr) Expr {
	return t.add(ExprData{Kind: ExprCall, Lhs: callee, Args: slices.Clone(args)})
}

func (t *Tables) NewVar(mode ir.StorageMode, name source.Word, init Expr) Expr {
	return t.add(ExprData{Kind: ExprVar, Mode: mode, Word: name, Lhs: init})
}

// NewIf creates a conditional; elseExpr may be NoExpr.
func (t *Tables) NewIf(cond, then, elseExpr Expr) Expr {
	return t.add(ExprData{Kind: ExprIf, Lhs: cond, Rhs: then, Else: elseExpr})
}

func (t *Tables) NewWhile(cond, body Expr) Expr {
	return t.add(ExprData{Kind: ExprWhile, Lhs: cond, Rhs: body})
}

func (t *Tables) NewBlockExpr(b Block) Expr {
	return t.add(ExprData{Kind: ExprBlock, Block: b})
}

func (t *Tables) NewOp(lhs Expr, op ir.Op, rhs Expr) Expr {
	return t.add(ExprData{Kind: ExprOp, Lhs: lhs, Op: op, Rhs: rhs})
}

func (t *Tables) NewOpEq(lhs Expr, op ir.Op, rhs Expr) Expr {
	return t.add(ExprData{Kind: ExprOpEq, Lhs: lhs, Op: op, Rhs: rhs})
}

func (t *Tables) NewAssign(lhs, rhs Expr) Expr {
	return t.add(ExprData{Kind: ExprAssign, Lhs: lhs, Rhs: rhs})
}

func (t *Tables) NewNamedExpr(name source.Word, e Expr) NamedExpr {
	return NamedExpr{t.namedExprs.Alloc(NamedExprData{Name: name, Expr: e})}
}

func (t *Tables) NewBlock(exprs []Expr) Block {
	return Block{t.blocks.Alloc(BlockData{Exprs: slices.Clone(exprs)})}
}

// Children returns the direct sub-expressions of e in source order.
// Named arguments contribute their expressions.
func (t *Tables) Children(e Expr) []Expr {
	d := t.Expr(e)
	switch d.Kind {
	case ExprError, ExprId, ExprBooleanLiteral, ExprIntegerLiteral, ExprStringLiteral:
		return nil
	case ExprDot, ExprAwait, ExprShare, ExprLease, ExprGive, ExprVar,
		ExprParenthesized, ExprAtomic, ExprLoop:
		return []Expr{d.Lhs}
	case ExprCall:
		out := make([]Expr, 0, 1+len(d.Args))
		out = append(out, d.Lhs)
		for _, a := range d.Args {
			out = append(out, t.NamedExpr(a).Expr)
		}
		return out
	case ExprIf:
		if d.Else.IsValid() {
			return []Expr{d.Lhs, d.Rhs, d.Else}
		}
		return []Expr{d.Lhs, d.Rhs}
	case ExprWhile, ExprOp, ExprOpEq, ExprAssign:
		return []Expr{d.Lhs, d.Rhs}
	case ExprBlock:
		return slices.Clone(t.Block(d.Block).Exprs)
	default:
		panic("syntax: unhandled expression kind " + d.Kind.String())
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
