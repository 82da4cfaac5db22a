package db

import (
	"fmt"
	"slices"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/source"
)

func eq[V comparable](a, b V) bool { return a == b }

func equalItems(a, b []ir.Item) bool { return slices.Equal(a, b) }

func (db *Database) registerInputs() {
	db.items = query.NewInput[ir.Filename, []ir.Item](db.rt, "items", equalItems)
	db.fileDiags = query.NewInput[ir.Filename, []diag.Diagnostic](db.rt, "file_diagnostics", diag.EqualSlices)
	db.nameSpan = query.NewInput[ir.Function, source.Span](db.rt, "name_span", eq[source.Span])
	db.effect = query.NewInput[ir.Function, ir.Effect](db.rt, "effect", eq[ir.Effect])
	db.effectSpan = query.NewInput[ir.Function, source.Span](db.rt, "effect_span", eq[source.Span])
	db.returnType = query.NewInput[ir.Function, ir.ReturnType](db.rt, "return_type", eq[ir.ReturnType])
	db.code = query.NewInput[ir.Function, ir.UnparsedCode](db.rt, "unparsed_code", eq[ir.UnparsedCode])
	db.fnSpan = query.NewInput[ir.Function, source.Span](db.rt, "function_span", eq[source.Span])
	db.className = query.NewInput[ir.Class, source.Span](db.rt, "class_name_span", eq[source.Span])
	db.fields = query.NewInput[ir.Class, ir.Code](db.rt, "class_fields", eq[ir.Code])
	db.classSpan = query.NewInput[ir.Class, source.Span](db.rt, "class_span", eq[source.Span])
}

// SetSourceText stores text as the content of path and updates the items
// of that file. Only fields whose values differ are written, so derived
// results of untouched definitions stay valid.
func (db *Database) SetSourceText(path string, text []byte) ir.Filename {
	var file ir.Filename
	db.rt.Write(func(rev query.Revision) {
		id, _ := db.files.Set(path, text, 0)
		file = ir.Filename(id)
		db.applyFile(rev, file)
	})
	return file
}

// LoadFile reads path from disk, normalizing BOM and line endings, and
// stores it like SetSourceText.
func (db *Database) LoadFile(path string) (ir.Filename, error) {
	var (
		file ir.Filename
		err  error
	)
	db.rt.Write(func(rev query.Revision) {
		var id source.FileID
		id, _, err = db.files.Load(path)
		if err != nil {
			return
		}
		file = ir.Filename(id)
		db.applyFile(rev, file)
	})
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return file, nil
}

// applyFile re-splits the file at top level. A definition keeps its
// entity while its (file, name, ordinal) identity exists.
func (db *Database) applyFile(rev query.Revision, file ir.Filename) {
	f := db.files.Get(file.FileID())
	split := parser.SplitItems(db.words, f, parser.Options{MaxErrors: db.maxErrors})

	fnOrdinal := make(map[source.Word]uint32)
	classOrdinal := make(map[source.Word]uint32)
	items := make([]ir.Item, 0, len(split.Items))
	for _, decl := range split.Items {
		switch decl.Kind {
		case ir.ItemFunction:
			d := decl.Function
			key := ir.FunctionKey{File: file, Name: d.Name.Word, Ordinal: fnOrdinal[d.Name.Word]}
			fnOrdinal[d.Name.Word]++
			fn := db.entities.function(key)
			db.nameSpan.Set(rev, fn, d.Name.Span)
			db.effect.Set(rev, fn, d.Effect)
			db.effectSpan.Set(rev, fn, d.EffectSpan)
			db.returnType.Set(rev, fn, d.Return)
			db.code.Set(rev, fn, d.Code)
			db.fnSpan.Set(rev, fn, d.Span)
			items = append(items, ir.FunctionItem(fn))
		case ir.ItemClass:
			d := decl.Class
			key := ir.ClassKey{File: file, Name: d.Name.Word, Ordinal: classOrdinal[d.Name.Word]}
			classOrdinal[d.Name.Word]++
			c := db.entities.class(key)
			db.className.Set(rev, c, d.Name.Span)
			db.fields.Set(rev, c, d.Fields)
			db.classSpan.Set(rev, c, d.Span)
			items = append(items, ir.ClassItem(c))
		default:
			panic(fmt.Sprintf("db: unhandled item kind %v", decl.Kind))
		}
	}
	db.items.Set(rev, file, items)
	db.fileDiags.Set(rev, file, split.Diags)
}

// SetUnparsedCode overwrites the code of fn.
func (db *Database) SetUnparsedCode(fn ir.Function, code ir.UnparsedCode) {
	db.rt.Write(func(rev query.Revision) { db.code.Set(rev, fn, code) })
}

// SetEffect overwrites the declared effect of fn.
func (db *Database) SetEffect(fn ir.Function, effect ir.Effect) {
	db.rt.Write(func(rev query.Revision) { db.effect.Set(rev, fn, effect) })
}
