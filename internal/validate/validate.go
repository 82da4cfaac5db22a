// Package validate turns a syntax tree into a validated tree. Validation
// never aborts: every problem becomes a diagnostic and the offending
// subtree becomes an Error node.
package validate

import (
	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/validated"
)

// Input is everything the validator may read about one function.
type Input struct {
	Tree   *syntax.Tree
	Effect ir.Effect
	Words  *source.Interner

	// Spans is called at most once, and only when a diagnostic needs a
	// position. Nil means no positions are available.
	Spans func() *syntax.Spans

	// Variable interns the entity a non-local name refers to.
	Variable func(source.Word) ir.Variable
}

// Result is the validated tree with its origins and diagnostics.
type Result struct {
	Tree    *validated.Tree
	Origins *validated.Origins
	Diags   []diag.Diagnostic

	// SpansForced is set when validation needed source positions.
	SpansForced bool
}

type validator struct {
	in       Input
	tables   *validated.Tables
	origins  *validated.Origins
	reporter diag.Reporter
	spans    *syntax.Spans
	forced   bool
	scopes   scopes
	params   map[source.Word]int
}

// Validate builds the validated tree for in.Tree.
func Validate(in Input) Result {
	bag := diag.NewBag(0)
	tables := validated.NewTables(uint(in.Tree.Tables.NumExprs()))
	v := &validator{
		in:       in,
		tables:   tables,
		origins:  validated.NewOrigins(tables),
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		params:   make(map[source.Word]int, len(in.Tree.Params)),
	}

	v.scopes.push()
	params := v.declareParams()
	root := v.expr(in.Tree.Root)
	v.scopes.pop()

	return Result{
		Tree:    validated.NewTree(tables, root, params),
		Origins: v.origins,
		Diags:   bag.Items(),

		SpansForced: v.forced,
	}
}

func (v *validator) declareParams() []validated.LocalVariable {
	out := make([]validated.LocalVariable, 0, len(v.in.Tree.Params))
	for i, p := range v.in.Tree.Params {
		if first, dup := v.params[p.Name]; dup {
			diag.ReportError(v.reporter, diag.ValDuplicateParameter, v.paramSpan(i),
				"parameter `"+v.word(p.Name)+"` is declared more than once").
				WithNote(v.paramSpan(first), "first declared here").
				Emit()
		} else {
			v.params[p.Name] = i
		}
		l := v.tables.NewLocal(validated.LocalVariableData{Name: p.Name, Mode: p.Mode, Param: true})
		v.scopes.declare(p.Name, l)
		out = append(out, l)
	}
	return out
}

func (v *validator) word(w source.Word) string {
	s, _ := v.in.Words.Lookup(w)
	return s
}

func (v *validator) positions() *syntax.Spans {
	if !v.forced {
		v.forced = true
		if v.in.Spans != nil {
			v.spans = v.in.Spans()
		}
	}
	return v.spans
}

func (v *validator) span(e syntax.Expr) source.Span {
	sp, _ := v.positions().Expr(e)
	return sp
}

func (v *validator) paramSpan(i int) source.Span {
	sp, _ := v.positions().Param(i)
	return sp
}

func (v *validator) argSpans(n syntax.NamedExpr) syntax.NamedExprSpan {
	sp, _ := v.positions().Named(n)
	return sp
}

// from records the origin of e and returns it.
func (v *validator) from(e validated.Expr, origin syntax.Expr) validated.Expr {
	v.origins.Set(e, origin)
	return e
}

// scopes is the stack of lexical blocks. Lookups search innermost first.
type scopes struct {
	frames [][]binding
}

type binding struct {
	name  source.Word
	local validated.LocalVariable
}

func (s *scopes) push() { s.frames = append(s.frames, nil) }
func (s *scopes) pop()  { s.frames = s.frames[:len(s.frames)-1] }

func (s *scopes) declare(name source.Word, l validated.LocalVariable) {
	top := len(s.frames) - 1
	s.frames[top] = append(s.frames[top], binding{name: name, local: l})
}

func (s *scopes) lookup(name source.Word) (validated.LocalVariable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].name == name {
				return frame[j].local, true
			}
		}
	}
	return validated.LocalVariable{}, false
}
