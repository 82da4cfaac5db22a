package db

import (
	"context"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/query"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/trace"
	"dada/internal/validated"
)

// FunctionInfo is the declaration data of a function, without its code.
type FunctionInfo struct {
	Name       string
	NameSpan   source.Span
	Effect     ir.Effect
	EffectSpan source.Span
	Return     ir.ReturnType
	Span       source.Span
}

func read[T any](ctx context.Context, db *Database, fn func(qc *query.Ctx) (T, error)) (T, error) {
	var out T
	err := db.rt.Read(ctx, func(qc *query.Ctx) error {
		var err error
		out, err = fn(qc)
		return err
	})
	return out, err
}

// Items returns the definitions file currently holds, in source order.
func (db *Database) Items(ctx context.Context, file ir.Filename) ([]ir.Item, error) {
	return read(ctx, db, func(qc *query.Ctx) ([]ir.Item, error) {
		return db.items.Get(qc, file)
	})
}

// Function returns the declaration data of fn.
func (db *Database) Function(ctx context.Context, fn ir.Function) (FunctionInfo, error) {
	return read(ctx, db, func(qc *query.Ctx) (FunctionInfo, error) {
		info := FunctionInfo{Name: db.FunctionName(fn)}
		var err error
		if info.NameSpan, err = db.nameSpan.Get(qc, fn); err != nil {
			return info, err
		}
		if info.Effect, err = db.effect.Get(qc, fn); err != nil {
			return info, err
		}
		if info.EffectSpan, err = db.effectSpan.Get(qc, fn); err != nil {
			return info, err
		}
		if info.Return, err = db.returnType.Get(qc, fn); err != nil {
			return info, err
		}
		info.Span, err = db.fnSpan.Get(qc, fn)
		return info, err
	})
}

// UnparsedCode returns the stored parameter list and body of fn.
func (db *Database) UnparsedCode(ctx context.Context, fn ir.Function) (ir.UnparsedCode, error) {
	return read(ctx, db, func(qc *query.Ctx) (ir.UnparsedCode, error) {
		return db.code.Get(qc, fn)
	})
}

// SyntaxTree returns the parsed body of fn.
func (db *Database) SyntaxTree(ctx context.Context, fn ir.Function) (*syntax.Tree, error) {
	return read(ctx, db, func(qc *query.Ctx) (*syntax.Tree, error) {
		return db.syntaxTree.Fetch(qc, fn)
	})
}

// Spans returns the positions of the nodes of SyntaxTree(fn).
func (db *Database) Spans(ctx context.Context, fn ir.Function) (*syntax.Spans, error) {
	return read(ctx, db, func(qc *query.Ctx) (*syntax.Spans, error) {
		return db.spans.Fetch(qc, fn)
	})
}

// ValidatedTree returns the validated body of fn.
func (db *Database) ValidatedTree(ctx context.Context, fn ir.Function) (*validated.Tree, error) {
	return read(ctx, db, func(qc *query.Ctx) (*validated.Tree, error) {
		return db.validatedTree.Fetch(qc, fn)
	})
}

// Origins maps the nodes of ValidatedTree(fn) to nodes of SyntaxTree(fn).
func (db *Database) Origins(ctx context.Context, fn ir.Function) (*validated.Origins, error) {
	return read(ctx, db, func(qc *query.Ctx) (*validated.Origins, error) {
		return db.origins.Fetch(qc, fn)
	})
}

// ItemValidatedTree returns the validated tree of a function item. For a
// class it reports false without parsing anything.
func (db *Database) ItemValidatedTree(ctx context.Context, item ir.Item) (*validated.Tree, bool, error) {
	var (
		tree *validated.Tree
		ok   bool
	)
	err := db.rt.Read(ctx, func(qc *query.Ctx) error {
		var err error
		tree, ok, err = db.itemValidatedTree(qc, item)
		return err
	})
	return tree, ok, err
}

// ValidateRoot validates every definition of file.
func (db *Database) ValidateRoot(ctx context.Context, file ir.Filename) error {
	sp, ctx := trace.Start(ctx, trace.ScopePass, "validate_root")
	defer sp.End("")

	return db.rt.Read(ctx, func(qc *query.Ctx) error {
		items, err := db.items.Get(qc, file)
		if err != nil {
			return err
		}
		sp.WithExtra("items", strconv.Itoa(len(items)))

		g, gctx := errgroup.WithContext(qc.Context())
		g.SetLimit(max(1, min(db.jobs, len(items))))
		for _, item := range items {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				_, _, err := db.itemValidatedTree(qc, item)
				return err
			})
		}
		return g.Wait()
	})
}

// Diagnostics returns the top-level, parse and validation diagnostics of
// every definition in file, sorted and deduplicated.
func (db *Database) Diagnostics(ctx context.Context, file ir.Filename) ([]diag.Diagnostic, error) {
	return read(ctx, db, func(qc *query.Ctx) ([]diag.Diagnostic, error) {
		bag := diag.NewBag(0)
		top, err := db.fileDiags.Get(qc, file)
		if err != nil {
			return nil, err
		}
		bag.AddAll(top)

		items, err := db.items.Get(qc, file)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			fn, ok := item.Function()
			if !ok {
				continue
			}
			ds, err := db.functionDiags.Fetch(qc, fn)
			if err != nil {
				return nil, err
			}
			bag.AddAll(ds)
		}

		bag.Sort()
		bag.Dedup()
		out := bag.Items()
		if db.maxDiags > 0 && len(out) > db.maxDiags {
			out = out[:db.maxDiags]
		}
		return slices.Clone(out), nil
	})
}
