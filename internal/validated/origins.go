package validated

import (
	"dada/internal/arena"
	"dada/internal/syntax"
)

// Origins maps validated expressions to the syntax expressions they were
// produced from. Synthesized nodes (a Unit else branch, the Break of a
// rewritten while) map to the syntax node that caused them.
type Origins struct {
	exprs *arena.SideTable[syntax.Expr]
}

// NewOrigins creates an empty table for the handles of tables.
func NewOrigins(tables *Tables) *Origins {
	return &Origins{exprs: arena.NewSideTable[syntax.Expr](tables.Owner())}
}

func (o *Origins) Set(e Expr, from syntax.Expr) { o.exprs.Set(e.id, from) }

// Get returns the syntax expression e came from.
func (o *Origins) Get(e Expr) (syntax.Expr, bool) {
	if o == nil {
		return syntax.NoExpr, false
	}
	return o.exprs.Get(e.id)
}

func (o *Origins) Len() int {
	if o == nil {
		return 0
	}
	return o.exprs.Len()
}

// Rebind returns a copy of o keyed by the handles of tables, which must be
// structurally equal to the tables o was recorded for.
func (o *Origins) Rebind(tables *Tables) *Origins {
	if o == nil {
		return NewOrigins(tables)
	}
	return &Origins{exprs: o.exprs.Rebind(tables.Owner())}
}
