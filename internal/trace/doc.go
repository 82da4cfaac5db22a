// Package trace provides the tracing subsystem of the dada front end.
//
// It records driver steps, passes, per-file work and individual query
// executions of the incremental database, to help diagnose slow
// recomputation and hangs.
//
// # Usage
//
//	dada validate --trace=- --trace-level=detail main.dada
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer for post-mortem dumps
//   - MultiTracer: fan-out to several tracers
//   - LogTracer: structured zap entries, one JSON object per line
//
// # Levels and scopes
//
// LevelPhase admits ScopeDriver and ScopePass, LevelDetail adds ScopeFile,
// and LevelDebug adds ScopeNode (one event pair per query execution).
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "validate_root")
//	defer span.End("")
package trace
