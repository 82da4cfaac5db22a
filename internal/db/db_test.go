package db

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/parser"
	"dada/internal/syntax"
	"dada/internal/treedump"
	"dada/internal/validate"
	"dada/internal/validated"
)

// counting wraps the reference collaborators and counts calls per body.
type counting struct {
	mu        sync.Mutex
	inner     Parser
	parses    map[string]int
	validates int
}

func (c *counting) ParseCode(code ir.UnparsedCode) parser.CodeResult {
	c.mu.Lock()
	c.parses[strings.TrimSpace(code.Body.Text)]++
	c.mu.Unlock()
	return c.inner.ParseCode(code)
}

func (c *counting) Validate(in validate.Input) validate.Result {
	c.mu.Lock()
	c.validates++
	c.mu.Unlock()
	return validate.Validate(in)
}

func (c *counting) parsed(body string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parses[body]
}

func (c *counting) totalParses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.parses {
		n += v
	}
	return n
}

func (c *counting) validations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validates
}

type env struct {
	db  *Database
	c   *counting
	reg *prometheus.Registry
	ctx context.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	c := &counting{parses: map[string]int{}}
	reg := prometheus.NewRegistry()
	db := New(Options{Registerer: reg, Validator: c})
	c.inner = referenceParser{words: db.Words()}
	db.parser = c
	return &env{db: db, c: c, reg: reg, ctx: context.Background()}
}

func (e *env) fn(t *testing.T, file ir.Filename, name string) ir.Function {
	t.Helper()
	items, err := e.db.Items(e.ctx, file)
	require.NoError(t, err)
	for _, it := range items {
		if fn, ok := it.Function(); ok && e.db.FunctionName(fn) == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return ir.Function{}
}

func TestAssignmentScenario(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("main.dada", []byte("fn f() { x := 1 + 2 }\n"))
	f := e.fn(t, file, "f")

	tree, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	want := treedump.Node{Kind: "Block", Children: []treedump.Node{
		{Kind: "Assign", Children: []treedump.Node{
			{Kind: "Id", Text: "x"},
			{Kind: "Op", Text: "+", Children: []treedump.Node{
				{Kind: "IntegerLiteral", Text: "1"},
				{Kind: "IntegerLiteral", Text: "2"},
			}},
		}},
	}}
	if diff := cmp.Diff(want, syntax.Dump(tree, e.db.Words(), nil)); diff != "" {
		t.Errorf("syntax tree mismatch (-want +got):\n%s", diff)
	}

	vt, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	require.Empty(t, vt.Errors())
	diags, err := e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Empty(t, diags)
}

func TestSyntaxTreeIsMemoized(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() { x := 1 + 2 }"))
	f := e.fn(t, file, "f")

	a, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	b, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	require.Same(t, a, b)
	require.True(t, syntax.Equal(a, b))
	require.Equal(t, 1, e.c.parsed("x := 1 + 2"))
}

func TestInvalidationPrecision(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() { 1 }\nfn g() { 2 }\n"))
	f, g := e.fn(t, file, "f"), e.fn(t, file, "g")
	require.NoError(t, e.db.ValidateRoot(e.ctx, file))
	fTree, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	gTree, err := e.db.ValidatedTree(e.ctx, g)
	require.NoError(t, err)

	e.db.SetSourceText("a.dada", []byte("fn f() { 1 }\nfn g() { 3 }\n"))
	require.Equal(t, g, e.fn(t, file, "g"), "identity survives the edit")
	require.NoError(t, e.db.ValidateRoot(e.ctx, file))

	fAgain, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	require.Same(t, fTree, fAgain, "f must be reused")
	gAgain, err := e.db.ValidatedTree(e.ctx, g)
	require.NoError(t, err)
	require.NotSame(t, gTree, gAgain)
	require.False(t, validated.Equal(gTree, gAgain))

	require.Equal(t, 1, e.c.parsed("1"))
	require.Equal(t, 1, e.c.parsed("2"))
	require.Equal(t, 1, e.c.parsed("3"))
	require.Equal(t, 3, e.c.validations())
}

func TestMovingTextOnlyReparses(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() { y = 40 + 2 }\n"))
	f := e.fn(t, file, "f")
	tree, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	vt, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	changed, _, _ := e.db.syntaxTree.Stamp(f)

	e.db.SetSourceText("a.dada", []byte("\n\n# moved\nfn f() { y = 40 + 2 }\n"))
	require.Equal(t, f, e.fn(t, file, "f"))

	tree2, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	require.Same(t, tree, tree2, "equal tree is backdated")
	changed2, _, _ := e.db.syntaxTree.Stamp(f)
	require.Equal(t, changed, changed2)

	vt2, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	require.Same(t, vt, vt2)
	require.Equal(t, 2, e.c.parsed("y = 40 + 2"), "moves re-run the parser")
	require.Equal(t, 1, e.c.validations(), "validation never read spans")

	spans, err := e.db.Spans(e.ctx, f)
	require.NoError(t, err)
	sp, ok := spans.Expr(tree2.Root)
	require.True(t, ok, "spans are keyed by the published tree")
	require.Equal(t, uint32(18), sp.Start)

	require.Equal(t, 1.0, testutil.ToFloat64(e.db.Runtime().Metrics().Backdates.WithLabelValues("syntax_tree")))
}

func TestMovedDiagnosticsFollowText(t *testing.T) {
	e := newEnv(t)
	src := "fn f() { g().await }\n"
	file := e.db.SetSourceText("a.dada", []byte(src))
	f := e.fn(t, file, "f")

	d1, err := e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, d1, 1)
	require.Equal(t, diag.ValAwaitOutsideAsync, d1[0].Code)
	vt, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)

	e.db.SetSourceText("a.dada", []byte("\n\n"+src))
	d2, err := e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, d2, 1)
	require.Equal(t, d1[0].Primary.Start+2, d2[0].Primary.Start)

	vt2, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	require.Same(t, vt, vt2, "validation re-ran for positions only")
	require.Equal(t, 2, e.c.validations())
}

func TestEffectChangeRevalidatesWithoutParsing(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() { g().await }"))
	f := e.fn(t, file, "f")
	d, err := e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, d, 1)

	e.db.SetEffect(f, ir.EffectAsync)
	d, err = e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Empty(t, d)
	require.Equal(t, 1, e.c.totalParses())
	require.Equal(t, 2, e.c.validations())
}

func TestClassHasNoValidatedTree(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("class Point(x, y)\n"))
	items, err := e.db.Items(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, items, 1)
	c, ok := items[0].Class()
	require.True(t, ok)
	require.Equal(t, "Point", e.db.ClassName(c))

	tree, ok, err := e.db.ItemValidatedTree(e.ctx, items[0])
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, tree)
	require.NoError(t, e.db.ValidateRoot(e.ctx, file))
	require.Equal(t, 0, e.c.totalParses())
}

func TestItemsTrackDefinitions(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() {}\nfn f() { 1 }\nclass C()\nasync fn h() -> Int { 2 }\n"))
	items, err := e.db.Items(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, items, 4)

	first, _ := items[0].Function()
	second, _ := items[1].Function()
	require.NotEqual(t, first, second)
	require.Equal(t, uint32(1), e.db.FunctionKey(second).Ordinal)

	h, _ := items[3].Function()
	info, err := e.db.Function(e.ctx, h)
	require.NoError(t, err)
	require.Equal(t, "h", info.Name)
	require.Equal(t, ir.EffectAsync, info.Effect)
	require.Equal(t, ir.ReturnValue, info.Return.Kind)

	e.db.SetSourceText("a.dada", []byte("fn f() {}\nclass C()\n"))
	items, err = e.db.Items(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, items, 2)
	fn, _ := items[0].Function()
	require.Equal(t, first, fn)
}

func TestDiagnosticsAreSortedAndLimited(t *testing.T) {
	e := newEnv(t)
	src := "fn a() { 99999999999999999999999 }\n$\nfn b() { x := }\nfn c() { f(k: 1, k: 2) }\n"
	file := e.db.SetSourceText("a.dada", []byte(src))
	diags, err := e.db.Diagnostics(e.ctx, file)
	require.NoError(t, err)

	got := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		got = append(got, d.Code)
	}
	want := []diag.Code{diag.ValIntegerOverflow, diag.LexUnknownChar, diag.SynExpectExpression, diag.ValDuplicateArgument}
	require.Equal(t, want, got)

	limited := New(Options{MaxDiagnostics: 2})
	file = limited.SetSourceText("a.dada", []byte(src))
	diags, err = limited.Diagnostics(e.ctx, file)
	require.NoError(t, err)
	require.Len(t, diags, 2)
}

func TestOriginsPointIntoSyntaxTree(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f(p) { while p { p := false } }"))
	f := e.fn(t, file, "f")
	st, err := e.db.SyntaxTree(e.ctx, f)
	require.NoError(t, err)
	vt, err := e.db.ValidatedTree(e.ctx, f)
	require.NoError(t, err)
	origins, err := e.db.Origins(e.ctx, f)
	require.NoError(t, err)

	vt.Tables.Walk(vt.Root, func(v validated.Expr) bool {
		s, ok := origins.Get(v)
		require.True(t, ok)
		require.LessOrEqual(t, s.Index(), st.Tables.NumExprs())
		return true
	})
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	e := newEnv(t)
	file := e.db.SetSourceText("a.dada", []byte("fn f() { 1 }\nfn g() { 2 }\n"))

	ctx, cancel := context.WithCancel(e.ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	var ready sync.WaitGroup
	const readers = 4
	ready.Add(readers)
	for range readers {
		g.Go(func() error {
			var once sync.Once
			defer once.Do(ready.Done)
			for gctx.Err() == nil {
				if err := e.db.ValidateRoot(gctx, file); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return err
				}
				once.Do(ready.Done)
			}
			return nil
		})
	}
	// writes start only once every reader holds a validated revision
	ready.Wait()
	for i := range 20 {
		e.db.SetSourceText("a.dada", []byte("fn f() { 1 }\nfn g() { "+strings.Repeat("1 + ", i)+"2 }\n"))
	}
	cancel()
	require.NoError(t, g.Wait())
	require.NoError(t, e.db.ValidateRoot(e.ctx, file))

	gfn := e.fn(t, file, "g")
	tree, err := e.db.ValidatedTree(e.ctx, gfn)
	require.NoError(t, err)
	seq := tree.Tables.Expr(tree.Root)
	require.Len(t, seq.Exprs, 1)
	require.Equal(t, validated.ExprOp, tree.Tables.Expr(seq.Exprs[0]).Kind)
	require.Equal(t, 1, e.c.parsed("1"), "f is never re-parsed")
}
