// Package db is the compilation session: the entity store, the tracked
// inputs written by SetSourceText, and the derived queries that turn a
// function's unparsed code into syntax and validated trees on demand.
//
// A Database is passed explicitly to everything that reads it. Reads may
// run concurrently; writes cancel in-flight reads, which then retry
// against the new revision.
package db

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"dada/internal/diag"
	"dada/internal/ir"
	"dada/internal/parser"
	"dada/internal/query"
	"dada/internal/source"
	"dada/internal/syntax"
	"dada/internal/validate"
	"dada/internal/validated"
)

// Parser turns a function's unparsed code into a syntax tree. It must be
// total and deterministic.
type Parser interface {
	ParseCode(code ir.UnparsedCode) parser.CodeResult
}

// Validator turns a syntax tree into a validated tree. It must be total
// and deterministic.
type Validator interface {
	Validate(in validate.Input) validate.Result
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(in validate.Input) validate.Result

func (f ValidatorFunc) Validate(in validate.Input) validate.Result { return f(in) }

type referenceParser struct {
	words *source.Interner
	opts  parser.Options
}

func (p referenceParser) ParseCode(code ir.UnparsedCode) parser.CodeResult {
	return parser.ParseCode(p.words, code, p.opts)
}

// Options configures a Database. Zero values select the reference
// collaborators and no limits.
type Options struct {
	Files     *source.FileSet
	Words     *source.Interner
	Parser    Parser
	Validator Validator

	// Registerer receives the query engine counters.
	Registerer prometheus.Registerer

	// Jobs bounds the fan-out of ValidateRoot; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxErrors stops the reference parser after that many errors per
	// function; 0 means no limit.
	MaxErrors uint
	// MaxDiagnostics truncates Diagnostics; <= 0 means no limit.
	MaxDiagnostics int
}

// Database is one compilation session.
type Database struct {
	rt        *query.Runtime
	files     *source.FileSet
	words     *source.Interner
	parser    Parser
	validator Validator
	jobs      int
	maxErrors uint
	maxDiags  int

	entities entities

	// inputs
	items      *query.Input[ir.Filename, []ir.Item]
	fileDiags  *query.Input[ir.Filename, []diag.Diagnostic]
	nameSpan   *query.Input[ir.Function, source.Span]
	effect     *query.Input[ir.Function, ir.Effect]
	effectSpan *query.Input[ir.Function, source.Span]
	returnType *query.Input[ir.Function, ir.ReturnType]
	code       *query.Input[ir.Function, ir.UnparsedCode]
	fnSpan     *query.Input[ir.Function, source.Span]
	className  *query.Input[ir.Class, source.Span]
	fields     *query.Input[ir.Class, ir.Code]
	classSpan  *query.Input[ir.Class, source.Span]

	// derived
	parse         *query.Memo[ir.Function, parser.CodeResult]
	syntaxTree    *query.Memo[ir.Function, *syntax.Tree]
	spans         *query.Memo[ir.Function, *syntax.Spans]
	validation    *query.Memo[ir.Function, validate.Result]
	validatedTree *query.Memo[ir.Function, *validated.Tree]
	origins       *query.Memo[ir.Function, *validated.Origins]
	functionDiags *query.Memo[ir.Function, []diag.Diagnostic]
}

// New creates an empty session.
func New(opts Options) *Database {
	db := &Database{
		rt:        query.NewRuntime(query.Options{Registerer: opts.Registerer}),
		files:     opts.Files,
		words:     opts.Words,
		parser:    opts.Parser,
		validator: opts.Validator,
		jobs:      opts.Jobs,
		maxErrors: opts.MaxErrors,
		maxDiags:  opts.MaxDiagnostics,
	}
	if db.files == nil {
		db.files = source.NewFileSet()
	}
	if db.words == nil {
		db.words = source.NewInterner()
	}
	if db.parser == nil {
		db.parser = referenceParser{words: db.words, opts: parser.Options{MaxErrors: opts.MaxErrors}}
	}
	if db.validator == nil {
		db.validator = ValidatorFunc(validate.Validate)
	}
	if db.jobs <= 0 {
		db.jobs = runtime.GOMAXPROCS(0)
	}
	db.entities.init()
	db.registerInputs()
	db.registerQueries()
	return db
}

// Runtime exposes the revision counter and engine metrics.
func (db *Database) Runtime() *query.Runtime { return db.rt }

// Files returns the file set holding every source text of the session.
func (db *Database) Files() *source.FileSet { return db.files }

// Words returns the session interner.
func (db *Database) Words() *source.Interner { return db.words }
