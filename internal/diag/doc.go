// Package diag defines the diagnostic model shared by the lexer, the parser
// and the validator.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form, a short Message, the Primary span and optional Notes that
// point at related source locations.
//
// Producers emit through a Reporter so they stay decoupled from storage.
// ReportBuilder lets a producer chain notes before Emit; BagReporter
// collects into a Bag, which supports limits, sorting and deduplication.
//
// Rendering lives in internal/diagfmt. Diagnostics are plain values: the
// incremental database stores them inside memoized query results and
// compares them with Diagnostic.Equal.
package diag
