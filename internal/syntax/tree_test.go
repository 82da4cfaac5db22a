package syntax

import (
	"testing"

	"dada/internal/ir"
	"dada/internal/source"
)

// buildAssign builds `x := 1 + 2` inside a block, bottom-up.
func buildAssign(words *source.Interner, withSpans bool) (*Tree, *Spans) {
	tables := NewTables(0)
	spans := NewSpans(tables)

	x := tables.NewId(words.Intern("x"))
	one := tables.NewIntegerLiteral(words.Intern("1"))
	two := tables.NewIntegerLiteral(words.Intern("2"))
	sum := tables.NewOp(one, ir.OpPlus, two)
	assign := tables.NewAssign(x, sum)
	block := tables.NewBlock([]Expr{assign})
	root := tables.NewBlockExpr(block)

	if withSpans {
		spans.SetExpr(x, source.Span{Start: 9, End: 10})
		spans.SetExpr(one, source.Span{Start: 14, End: 15})
		spans.SetExpr(two, source.Span{Start: 18, End: 19})
		spans.SetExpr(sum, source.Span{Start: 14, End: 19})
		spans.SetExpr(assign, source.Span{Start: 9, End: 19})
		spans.SetBlock(block, source.Span{Start: 7, End: 21})
	}
	return NewTree(tables, root, nil), spans
}

func TestTreesFromSameInputAreEqualButNotInterchangeable(t *testing.T) {
	words := source.NewInterner()
	a, _ := buildAssign(words, true)
	b, _ := buildAssign(words, false)

	if !Equal(a, b) {
		t.Fatal("trees with identical content must be equal")
	}
	if a.Root == b.Root {
		t.Fatal("root handles of distinct trees must never compare equal")
	}
	if a.Root.Index() != b.Root.Index() {
		t.Fatalf("raw indices should match: %d vs %d", a.Root.Index(), b.Root.Index())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("dereferencing a foreign handle must panic")
		}
	}()
	a.Tables.Expr(b.Root)
}

func TestEqualDetectsContentChange(t *testing.T) {
	words := source.NewInterner()
	a, _ := buildAssign(words, false)

	tables := NewTables(0)
	x := tables.NewId(words.Intern("x"))
	one := tables.NewIntegerLiteral(words.Intern("1"))
	three := tables.NewIntegerLiteral(words.Intern("3"))
	sum := tables.NewOp(one, ir.OpPlus, three)
	assign := tables.NewAssign(x, sum)
	root := tables.NewBlockExpr(tables.NewBlock([]Expr{assign}))
	b := NewTree(tables, root, nil)

	if Equal(a, b) {
		t.Fatal("trees differing in a literal must not be equal")
	}
}

func TestExprDataIsACopy(t *testing.T) {
	words := source.NewInterner()
	a, _ := buildAssign(words, false)
	b, _ := buildAssign(words, false)

	root := a.RootData()
	root.Kind = ExprError
	block := a.Tables.Block(root.Block)
	block.Exprs = append(block.Exprs, a.Root)

	if k := a.RootData().Kind; k != ExprBlock {
		t.Fatalf("root kind = %s after writing a copy", k)
	}
	if n := len(a.Tables.Block(root.Block).Exprs); n != 1 {
		t.Fatalf("block has %d statements after appending to a copy", n)
	}
	if !Equal(a, b) {
		t.Fatal("writes to returned data leaked into the tree")
	}
}

func TestStructureOfAssignment(t *testing.T) {
	words := source.NewInterner()
	tree, spans := buildAssign(words, true)

	root := tree.RootData()
	if root.Kind != ExprBlock {
		t.Fatalf("root kind = %v", root.Kind)
	}
	stmts := tree.Tables.Block(root.Block).Exprs
	if len(stmts) != 1 {
		t.Fatalf("block has %d statements", len(stmts))
	}
	assign := tree.Tables.Expr(stmts[0])
	if assign.Kind != ExprAssign {
		t.Fatalf("statement kind = %v", assign.Kind)
	}
	rhs := tree.Tables.Expr(assign.Rhs)
	if rhs.Kind != ExprOp || rhs.Op != ir.OpPlus {
		t.Fatalf("rhs = %+v", rhs)
	}
	for _, operand := range []Expr{rhs.Lhs, rhs.Rhs} {
		if k := tree.Tables.Expr(operand).Kind; k != ExprIntegerLiteral {
			t.Errorf("operand kind = %v", k)
		}
	}

	if sp, ok := spans.Expr(assign.Rhs); !ok || sp.Start != 14 || sp.End != 19 {
		t.Errorf("rhs span = %v, %v", sp, ok)
	}
	if _, ok := spans.Named(NamedExpr{}); ok {
		t.Error("unset entries must be absent")
	}
}

func TestSpansAreIndependentOfContent(t *testing.T) {
	words := source.NewInterner()
	tree, spans := buildAssign(words, true)
	other, _ := buildAssign(words, false)

	if spans.Len() == 0 {
		t.Fatal("expected recorded spans")
	}
	spans.Clear()
	if spans.Len() != 0 {
		t.Fatalf("Len() after Clear = %d", spans.Len())
	}
	if !Equal(tree, other) {
		t.Fatal("dropping spans must not change tree content")
	}
	if _, ok := spans.Expr(tree.Root); ok {
		t.Error("cleared spans must report absence")
	}
}

func TestChildrenAndErrors(t *testing.T) {
	words := source.NewInterner()
	tables := NewTables(0)
	f := tables.NewId(words.Intern("f"))
	bad := tables.NewError()
	arg := tables.NewNamedExpr(words.Intern("a"), bad)
	call := tables.NewCall(f, []NamedExpr{arg})
	cond := tables.NewBooleanLiteral(true)
	body := tables.NewBlockExpr(tables.NewBlock([]Expr{call}))
	loop := tables.NewWhile(cond, body)
	tree := NewTree(tables, tables.NewBlockExpr(tables.NewBlock([]Expr{loop})), nil)

	if got := tables.Children(call); len(got) != 2 || got[0] != f || got[1] != bad {
		t.Errorf("Children(call) = %v", got)
	}
	errs := tree.Errors()
	if len(errs) != 1 || errs[0] != bad {
		t.Errorf("Errors() = %v", errs)
	}
}

func TestNewUnaryRejectsNonUnaryKinds(t *testing.T) {
	tables := NewTables(0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	tables.NewUnary(ExprCall, tables.NewError())
}

func TestSpansRebindFollowsEqualTree(t *testing.T) {
	words := source.NewInterner()
	a, spans := buildAssign(words, true)
	b, _ := buildAssign(words, false)

	rb := spans.Rebind(b.Tables)
	ea, eb := a.Tables.Exprs(), b.Tables.Exprs()
	for i := range ea {
		want, wok := spans.Expr(ea[i])
		got, gok := rb.Expr(eb[i])
		if got != want || gok != wok {
			t.Errorf("expr %d: rebound span %v/%v, want %v/%v", i, got, gok, want, wok)
		}
	}
	if rb.Len() != spans.Len() {
		t.Errorf("Len = %d, want %d", rb.Len(), spans.Len())
	}
	if spans.Rebind(a.Tables) != spans {
		t.Error("rebinding to the same tables returns the receiver")
	}
}
