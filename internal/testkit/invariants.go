// Package testkit holds shared assertions for parser and database tests.
package testkit

import (
	"fmt"

	"dada/internal/ir"
	"dada/internal/source"
	"dada/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed function:
// 1) the root expression spans exactly the body text
// 2) every reachable expression has a span in the body's file, inside the body
// 3) every child span is contained in its parent's span
// 4) there is one parameter span per parameter
func CheckSpanInvariants(tree *syntax.Tree, spans *syntax.Spans, code ir.UnparsedCode) error {
	if tree == nil || spans == nil {
		return fmt.Errorf("nil tree or spans")
	}
	body := code.Body.Span

	root, ok := spans.Expr(tree.Root)
	if !ok {
		return fmt.Errorf("root has no span")
	}
	if root != body {
		return fmt.Errorf("root span %v differs from body span %v", root, body)
	}

	var failure error
	var check func(e syntax.Expr, parent source.Span)
	check = func(e syntax.Expr, parent source.Span) {
		if failure != nil {
			return
		}
		sp, ok := spans.Expr(e)
		switch {
		case !ok:
			failure = fmt.Errorf("%v (%s) has no span", e, tree.Tables.Expr(e).Kind)
		case sp.File != body.File:
			failure = fmt.Errorf("%v span file mismatch: got=%d want=%d", e, sp.File, body.File)
		case sp.Start > sp.End:
			failure = fmt.Errorf("%v has inverted span %v", e, sp)
		case !parent.Contains(sp):
			failure = fmt.Errorf("%v (%s) span %v escapes parent span %v", e, tree.Tables.Expr(e).Kind, sp, parent)
		}
		if failure != nil {
			return
		}
		for _, child := range tree.Tables.Children(e) {
			check(child, sp)
		}
	}
	check(tree.Root, body)
	if failure != nil {
		return failure
	}

	for i := range tree.Params {
		if _, ok := spans.Param(i); !ok {
			return fmt.Errorf("parameter %d has no span", i)
		}
	}
	return nil
}
