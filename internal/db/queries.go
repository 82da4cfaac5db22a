package db

import (
	"slices"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/syntax"
	"dada/internal/validate"
	"dada/internal/validated"
)

// registerQueries wires the derivation chain of a function:
//
//	unparsed_code -> parse -> syntax_tree ----------> validate -> validated_tree
//	                      \-> spans (rebound) ....../          \-> origins
//
// parse re-runs on any change of the code, including pure moves. The
// syntax tree is backdated when equal, so moves stop there; spans are only
// read by validate when it reports something.
func (db *Database) registerQueries() {
	db.parse = query.NewMemo(db.rt, "parse", func(qc *query.Ctx, fn ir.Function) (parser.CodeResult, error) {
		code, err := db.code.Get(qc, fn)
		if err != nil {
			return parser.CodeResult{}, err
		}
		return db.parser.ParseCode(code), nil
	}, nil)

	db.syntaxTree = query.NewMemo(db.rt, "syntax_tree", func(qc *query.Ctx, fn ir.Function) (*syntax.Tree, error) {
		res, err := db.parse.Fetch(qc, fn)
		return res.Tree, err
	}, syntax.Equal)

	// The published tree may be an older, equal one; spans are re-keyed
	// to its handles.
	db.spans = query.NewMemo(db.rt, "spans", func(qc *query.Ctx, fn ir.Function) (*syntax.Spans, error) {
		res, err := db.parse.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		tree, err := db.syntaxTree.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		return res.Spans.Rebind(tree.Tables), nil
	}, nil)

	db.validation = query.NewMemo(db.rt, "validate", db.validate, nil)

	db.validatedTree = query.NewMemo(db.rt, "validated_tree", func(qc *query.Ctx, fn ir.Function) (*validated.Tree, error) {
		res, err := db.validation.Fetch(qc, fn)
		return res.Tree, err
	}, validated.Equal)

	db.origins = query.NewMemo(db.rt, "origins", func(qc *query.Ctx, fn ir.Function) (*validated.Origins, error) {
		res, err := db.validation.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		tree, err := db.validatedTree.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		return res.Origins.Rebind(tree.Tables), nil
	}, nil)

	db.functionDiags = query.NewMemo(db.rt, "function_diagnostics", func(qc *query.Ctx, fn ir.Function) ([]diag.Diagnostic, error) {
		parsed, err := db.parse.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		res, err := db.validation.Fetch(qc, fn)
		if err != nil {
			return nil, err
		}
		return slices.Concat(parsed.Diags, res.Diags), nil
	}, diag.EqualSlices)
}

func (db *Database) validate(qc *query.Ctx, fn ir.Function) (validate.Result, error) {
	tree, err := db.syntaxTree.Fetch(qc, fn)
	if err != nil {
		return validate.Result{}, err
	}
	effect, err := db.effect.Get(qc, fn)
	if err != nil {
		return validate.Result{}, err
	}
	var spansErr error
	res := db.validator.Validate(validate.Input{
		Tree:   tree,
		Effect: effect,
		Words:  db.words,
		Spans: func() *syntax.Spans {
			spans, err := db.spans.Fetch(qc, fn)
			if err != nil {
				spansErr = err
				return nil
			}
			return spans
		},
		Variable: db.entities.variable,
	})
	if spansErr != nil {
		return validate.Result{}, spansErr
	}
	return res, nil
}

// itemValidatedTree dispatches on the item kind. Classes have no body.
func (db *Database) itemValidatedTree(qc *query.Ctx, item ir.Item) (*validated.Tree, bool, error) {
	switch item.Kind {
	case ir.ItemFunction:
		fn, _ := item.Function()
		tree, err := db.validatedTree.Fetch(qc, fn)
		return tree, err == nil, err
	case ir.ItemClass:
		return nil, false, nil
	default:
		panic("db: unhandled item kind " + item.Kind.String())
	}
}
