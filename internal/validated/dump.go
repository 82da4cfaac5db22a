package validated

import (
	"strconv"

	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/treedump"
)

// Dump converts the tree into exportable nodes. variable names a Variable
// entity; when nil, the entity handle is printed.
func Dump(t *Tree, words *source.Interner, variable func(ir.Variable) string) treedump.Node {
	d := dumper{t: t.Tables, words: words, variable: variable}
	root := d.expr(t.Root)
	if len(t.Params) == 0 {
		return root
	}
	params := treedump.Node{Kind: "Params"}
	for _, p := range t.Params {
		params.Children = append(params.Children, treedump.Node{Kind: "Param", Text: d.local(p)})
	}
	return treedump.Node{Kind: "Function", Children: []treedump.Node{params, root}}
}

type dumper struct {
	t        *Tables
	words    *source.Interner
	variable func(ir.Variable) string
}

func (d dumper) word(w source.Word) string {
	s, _ := d.words.Lookup(w)
	return s
}

func (d dumper) local(l LocalVariable) string {
	ld := d.t.Local(l)
	return ld.Mode.String() + " " + d.word(ld.Name) + "#" + strconv.FormatUint(uint64(l.Index()), 10)
}

func (d dumper) expr(e Expr) treedump.Node {
	data := d.t.Expr(e)
	n := treedump.Node{Kind: data.Kind.String()}
	switch data.Kind {
	case ExprBooleanLiteral:
		n.Text = strconv.FormatBool(data.Bool)
	case ExprIntegerLiteral:
		n.Text = strconv.FormatUint(data.Int, 10)
	case ExprStringLiteral:
		n.Text = strconv.Quote(d.word(data.Word))
	case ExprLocalVariable, ExprDeclare:
		n.Text = d.local(data.Local)
	case ExprVariable:
		if d.variable != nil {
			n.Text = d.variable(data.Variable)
		} else {
			n.Text = data.Variable.String()
		}
	case ExprDot:
		n.Text = d.word(data.Word)
	case ExprOp:
		n.Text = data.Op.String()
	}
	if data.Kind == ExprCall {
		n.Children = append(n.Children, d.expr(data.Lhs))
		for _, a := range data.Args {
			arg := d.t.NamedExpr(a)
			n.Children = append(n.Children, treedump.Node{
				Kind:     "Arg",
				Text:     d.word(arg.Name),
				Children: []treedump.Node{d.expr(arg.Expr)},
			})
		}
		return n
	}
	for _, c := range d.t.Children(e) {
		n.Children = append(n.Children, d.expr(c))
	}
	return n
}
