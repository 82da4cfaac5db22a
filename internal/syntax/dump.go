package syntax

import (
	"dada/internal/source"
	"dada/internal/treedump"
)

// Dump converts the tree into exportable nodes. spans may be nil.
func Dump(t *Tree, words *source.Interner, spans *Spans) treedump.Node {
	d := dumper{t: t.Tables, words: words, spans: spans}
	root := d.expr(t.Root)
	if len(t.Params) == 0 {
		return root
	}
	params := treedump.Node{Kind: "Params"}
	for i, p := range t.Params {
		n := treedump.Node{Kind: "Param", Text: p.Mode.String() + " " + d.word(p.Name)}
		if sp, ok := spans.Param(i); ok {
			n.Span = sp.String()
		}
		params.Children = append(params.Children, n)
	}
	return treedump.Node{Kind: "Function", Children: []treedump.Node{params, root}}
}

type dumper struct {
	t     *Tables
	words *source.Interner
	spans *Spans
}

func (d dumper) word(w source.Word) string {
	s, _ := d.words.Lookup(w)
	return s
}

func (d dumper) expr(e Expr) treedump.Node {
	data := d.t.Expr(e)
	n := treedump.Node{Kind: data.Kind.String()}
	if sp, ok := d.spans.Expr(e); ok {
		n.Span = sp.String()
	}
	switch data.Kind {
	case ExprId, ExprIntegerLiteral, ExprDot:
		n.Text = d.word(data.Word)
	case ExprStringLiteral:
		n.Text = "\"" + d.word(data.Word) + "\""
	case ExprBooleanLiteral:
		if data.Bool {
			n.Text = "true"
		} else {
			n.Text = "false"
		}
	case ExprVar:
		n.Text = data.Mode.String() + " " + d.word(data.Word)
	case ExprOp, ExprOpEq:
		n.Text = data.Op.String()
	}
	if data.Kind == ExprCall {
		n.Children = append(n.Children, d.expr(data.Lhs))
		for _, a := range data.Args {
			arg := d.t.NamedExpr(a)
			an := treedump.Node{Kind: "Arg", Text: d.word(arg.Name)}
			if sp, ok := d.spans.Named(a); ok {
				an.Span = sp.Span.String()
			}
			an.Children = []treedump.Node{d.expr(arg.Expr)}
			n.Children = append(n.Children, an)
		}
		return n
	}
	for _, c := range d.t.Children(e) {
		n.Children = append(n.Children, d.expr(c))
	}
	return n
}
