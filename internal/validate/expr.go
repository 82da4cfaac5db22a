package validate

import (
	"fmt"
	"strconv"
	"strings"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/validated"
)

func (v *validator) expr(e syntax.Expr) validated.Expr {
	if !e.IsValid() {
		return v.tables.NewUnit()
	}
	data := v.in.Tree.Tables.Expr(e)
	switch data.Kind {
	case syntax.ExprError:
		// the parser already reported it
		return v.from(v.tables.NewError(), e)

	case syntax.ExprId:
		return v.from(v.resolve(data.Word), e)

	case syntax.ExprBooleanLiteral:
		return v.from(v.tables.NewBooleanLiteral(data.Bool), e)

	case syntax.ExprIntegerLiteral:
		return v.from(v.integer(e, data.Word), e)

	case syntax.ExprStringLiteral:
		return v.from(v.tables.NewStringLiteral(data.Word), e)

	case syntax.ExprDot:
		owner := v.expr(data.Lhs)
		return v.from(v.tables.NewDot(owner, data.Word), e)

	case syntax.ExprAwait:
		if !v.in.Effect.PermitsAwait() {
			diag.ReportError(v.reporter, diag.ValAwaitOutsideAsync, v.span(e),
				fmt.Sprintf("await is not permitted in %s functions", v.in.Effect)).
				Emit()
		}
		return v.from(v.tables.NewUnary(validated.ExprAwait, v.expr(data.Lhs)), e)

	case syntax.ExprShare:
		return v.from(v.tables.NewUnary(validated.ExprShare, v.expr(data.Lhs)), e)
	case syntax.ExprLease:
		return v.from(v.tables.NewUnary(validated.ExprLease, v.expr(data.Lhs)), e)
	case syntax.ExprGive:
		return v.from(v.tables.NewUnary(validated.ExprGive, v.expr(data.Lhs)), e)
	case syntax.ExprAtomic:
		return v.from(v.tables.NewUnary(validated.ExprAtomic, v.expr(data.Lhs)), e)
	case syntax.ExprLoop:
		return v.from(v.tables.NewUnary(validated.ExprLoop, v.expr(data.Lhs)), e)

	case syntax.ExprCall:
		return v.from(v.call(&data), e)

	case syntax.ExprVar:
		return v.from(v.declare(e, &data), e)

	case syntax.ExprParenthesized:
		return v.expr(data.Lhs)

	case syntax.ExprIf:
		cond := v.expr(data.Lhs)
		then := v.expr(data.Rhs)
		var elseExpr validated.Expr
		if data.Else.IsValid() {
			elseExpr = v.expr(data.Else)
		} else {
			elseExpr = v.from(v.tables.NewUnit(), e)
		}
		return v.from(v.tables.NewIf(cond, then, elseExpr), e)

	case syntax.ExprWhile:
		// while c { b }  =>  loop { if c { b } else { break } }
		cond := v.expr(data.Lhs)
		body := v.expr(data.Rhs)
		brk := v.from(v.tables.NewBreak(), e)
		iff := v.from(v.tables.NewIf(cond, body, brk), e)
		seq := v.from(v.tables.NewSeq([]validated.Expr{iff}), e)
		return v.from(v.tables.NewUnary(validated.ExprLoop, seq), e)

	case syntax.ExprBlock:
		return v.from(v.block(data.Block), e)

	case syntax.ExprOp:
		lhs := v.expr(data.Lhs)
		rhs := v.expr(data.Rhs)
		return v.from(v.tables.NewOp(lhs, data.Op, rhs), e)

	case syntax.ExprOpEq:
		// a op= b  =>  a := a op b
		place := v.place(data.Lhs)
		lhs := v.expr(data.Lhs)
		rhs := v.expr(data.Rhs)
		value := v.from(v.tables.NewOp(lhs, data.Op, rhs), e)
		return v.from(v.tables.NewAssign(place, value), e)

	case syntax.ExprAssign:
		place := v.place(data.Lhs)
		value := v.expr(data.Rhs)
		return v.from(v.tables.NewAssign(place, value), e)

	default:
		panic("validate: unhandled expression kind " + data.Kind.String())
	}
}

func (v *validator) resolve(name source.Word) validated.Expr {
	if l, ok := v.scopes.lookup(name); ok {
		return v.tables.NewLocalVariable(l)
	}
	var entity ir.Variable
	if v.in.Variable != nil {
		entity = v.in.Variable(name)
	}
	return v.tables.NewVariable(entity)
}

func (v *validator) integer(e syntax.Expr, text source.Word) validated.Expr {
	lit := v.word(text)
	n, err := strconv.ParseUint(strings.ReplaceAll(lit, "_", ""), 10, 64)
	if err != nil {
		diag.ReportError(v.reporter, diag.ValIntegerOverflow, v.span(e),
			fmt.Sprintf("integer literal %s does not fit in 64 bits", lit)).
			Emit()
		return v.tables.NewError()
	}
	return v.tables.NewIntegerLiteral(n)
}

// place validates an assignment target. Only locals, variables and field
// accesses can be assigned to.
func (v *validator) place(e syntax.Expr) validated.Expr {
	inner := e
	tables := v.in.Tree.Tables
	for inner.IsValid() && tables.Expr(inner).Kind == syntax.ExprParenthesized {
		inner = tables.Expr(inner).Lhs
	}
	if !inner.IsValid() {
		return v.from(v.tables.NewError(), e)
	}
	switch tables.Expr(inner).Kind {
	case syntax.ExprId, syntax.ExprDot:
		return v.expr(inner)
	case syntax.ExprError:
		return v.from(v.tables.NewError(), inner)
	default:
		diag.ReportError(v.reporter, diag.ValInvalidAssignTarget, v.span(e),
			"the left-hand side of an assignment must be a variable or a field").
			Emit()
		return v.from(v.tables.NewError(), e)
	}
}

func (v *validator) call(data *syntax.ExprData) validated.Expr {
	callee := v.expr(data.Lhs)
	tables := v.in.Tree.Tables
	seen := make(map[source.Word]syntax.NamedExpr, len(data.Args))
	args := make([]validated.NamedExpr, 0, len(data.Args))
	for _, a := range data.Args {
		arg := tables.NamedExpr(a)
		if arg.Name != source.NoWord {
			if first, dup := seen[arg.Name]; dup {
				diag.ReportError(v.reporter, diag.ValDuplicateArgument, v.argSpans(a).NameSpan,
					"argument `"+v.word(arg.Name)+"` is given more than once").
					WithNote(v.argSpans(first).NameSpan, "first given here").
					Emit()
			} else {
				seen[arg.Name] = a
			}
		}
		args = append(args, v.tables.NewNamedExpr(arg.Name, v.expr(arg.Expr)))
	}
	return v.tables.NewCall(callee, args)
}

// declare handles `[mode] name = init`. The name is in scope only after
// its initializer.
func (v *validator) declare(e syntax.Expr, data *syntax.ExprData) validated.Expr {
	var init validated.Expr
	if data.Lhs.IsValid() {
		init = v.expr(data.Lhs)
	} else {
		init = v.from(v.tables.NewError(), e)
	}
	if _, isParam := v.params[data.Word]; isParam {
		diag.ReportWarning(v.reporter, diag.ValShadowParameter, v.span(e),
			"variable `"+v.word(data.Word)+"` shadows a parameter").
			Emit()
	}
	l := v.tables.NewLocal(validated.LocalVariableData{Name: data.Word, Mode: data.Mode})
	v.scopes.declare(data.Word, l)
	return v.tables.NewDeclare(l, init)
}

func (v *validator) block(b syntax.Block) validated.Expr {
	stmts := v.in.Tree.Tables.Block(b).Exprs
	v.scopes.push()
	defer v.scopes.pop()
	out := make([]validated.Expr, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, v.expr(s))
	}
	return v.tables.NewSeq(out)
}
