package parser

import (
	"testing"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/source"
)

func splitSource(t *testing.T, src string) (*source.Interner, *source.File, SplitResult) {
	t.Helper()
	fs := source.NewFileSet()
	id, _ := fs.SetVirtual("main.dada", []byte(src))
	f := fs.Get(id)
	words := source.NewInterner()
	return words, f, SplitItems(words, f, Options{})
}

func TestSplitItems(t *testing.T) {
	src := "class Point(x, y)\n\nasync fn fetch(url) -> String {\n  url.await\n}\n\nfn main() { p := Point(x: 1, y: 2) }\n"
	words, f, res := splitSource(t, src)
	if len(res.Diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diags)
	}
	if len(res.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(res.Items))
	}

	class := res.Items[0]
	if class.Kind != ir.ItemClass || words.MustLookup(class.Class.Name.Word) != "Point" || class.Class.Fields.Text != "x, y" {
		t.Errorf("class = %+v", class.Class)
	}

	fetch := res.Items[1].Function
	if fetch.Effect != ir.EffectAsync || f.Text(fetch.EffectSpan) != "async" {
		t.Errorf("fetch effect = %v @ %q", fetch.Effect, f.Text(fetch.EffectSpan))
	}
	if fetch.Return.Kind != ir.ReturnValue || words.MustLookup(fetch.Return.Name) != "String" {
		t.Errorf("fetch return = %+v", fetch.Return)
	}
	if fetch.Code.Params.Text != "url" || fetch.Code.Body.Text != "\n  url.await\n" {
		t.Errorf("fetch code = %+v", fetch.Code)
	}
	if f.Text(fetch.Code.Body.Span) != fetch.Code.Body.Text {
		t.Error("body span must locate the body text")
	}

	main := res.Items[2].Function
	if main.Effect != ir.EffectDefault || f.Text(main.EffectSpan) != "fn" {
		t.Errorf("main effect span = %q", f.Text(main.EffectSpan))
	}
	if f.Text(main.Span) != "fn main() { p := Point(x: 1, y: 2) }" {
		t.Errorf("main span = %q", f.Text(main.Span))
	}
}

func TestSplitItemsRecovers(t *testing.T) {
	src := "let x = 1\nfn a() { }\nfn (oops) { }\nfn b() { \"}\" }\n"
	words, _, res := splitSource(t, src)
	var names []string
	for _, it := range res.Items {
		names = append(names, words.MustLookup(it.Function.Name.Word))
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("items = %v", names)
	}
	var codes []diag.Code
	for _, d := range res.Diags {
		codes = append(codes, d.Code)
	}
	if len(codes) != 2 || codes[0] != diag.SynUnexpectedTopLevel || codes[1] != diag.SynExpectIdentifier {
		t.Errorf("codes = %v", codes)
	}
}

func TestSplitItemsDefersBodyLexErrors(t *testing.T) {
	words, _, res := splitSource(t, "fn f() { $ }\n$\n")
	if len(res.Items) != 1 {
		t.Fatalf("items = %d", len(res.Items))
	}
	if len(res.Diags) != 1 || res.Diags[0].Code != diag.LexUnknownChar || res.Diags[0].Primary.Start != 13 {
		t.Errorf("diags = %v", res.Diags)
	}
	body := ParseCode(words, res.Items[0].Function.Code, Options{})
	if len(body.Diags) != 1 || body.Diags[0].Code != diag.LexUnknownChar || body.Diags[0].Primary.Start != 9 {
		t.Errorf("body diags = %v", body.Diags)
	}
}

func TestSplitItemsUnclosedBody(t *testing.T) {
	_, f, res := splitSource(t, "fn f() { x := 1\n")
	if len(res.Items) != 1 {
		t.Fatalf("items = %d", len(res.Items))
	}
	if got := res.Items[0].Function.Code.Body; got.Span.End != uint32(len(f.Content)) {
		t.Errorf("unclosed body must run to EOF, got %v", got.Span)
	}
	if len(res.Diags) != 1 || res.Diags[0].Code != diag.SynUnclosedBrace {
		t.Errorf("diags = %v", res.Diags)
	}
}

func TestDuplicateEffect(t *testing.T) {
	_, _, res := splitSource(t, "async atomic fn f() { }")
	if len(res.Items) != 1 || res.Items[0].Function.Effect != ir.EffectAsync {
		t.Fatalf("items = %+v", res.Items)
	}
	if len(res.Diags) != 1 || res.Diags[0].Code != diag.SynDuplicateModifier {
		t.Errorf("diags = %v", res.Diags)
	}
}
