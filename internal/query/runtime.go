package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"dada/internal/trace"
)

// Revision counts writes. The first revision is 1.
type Revision uint64

var (
	// ErrCancelled reports that a read was interrupted, either by a pending
	// write or by its context.
	ErrCancelled = errors.New("query: cancelled")
	// ErrCycle reports a query that depends on itself.
	ErrCycle = errors.New("query: dependency cycle")
)

// Options configures a Runtime.
type Options struct {
	// Registerer receives the engine's counters. Nil skips registration.
	Registerer prometheus.Registerer
}

// Runtime owns the revision counter and the read/write lock shared by all
// inputs and memos of one database.
type Runtime struct {
	mu      sync.RWMutex
	rev     atomic.Uint64
	pending atomic.Int32
	reads   atomic.Int32
	metrics *Metrics
}

// Stats is a point-in-time view of the runtime.
type Stats struct {
	Revision      Revision
	Reads         int // reads holding the revision
	PendingWrites int // writes waiting for reads to unwind
}

// NewRuntime creates a runtime at revision 1.
func NewRuntime(opts Options) *Runtime {
	rt := &Runtime{metrics: NewMetrics()}
	rt.rev.Store(1)
	if opts.Registerer != nil {
		opts.Registerer.MustRegister(rt.metrics.PrometheusCollectors()...)
	}
	return rt
}

// Revision returns the current revision.
func (rt *Runtime) Revision() Revision { return Revision(rt.rev.Load()) }

// Stats returns the current revision and reader/writer counts.
func (rt *Runtime) Stats() Stats {
	return Stats{
		Revision:      rt.Revision(),
		Reads:         int(rt.reads.Load()),
		PendingWrites: int(rt.pending.Load()),
	}
}

// Metrics returns the engine counters.
func (rt *Runtime) Metrics() *Metrics { return rt.metrics }

// Write cancels in-flight reads, waits for them to unwind, opens a new
// revision and runs fn with it. Inputs may only be set inside fn.
func (rt *Runtime) Write(fn func(rev Revision)) {
	rt.pending.Add(1)
	rt.mu.Lock()
	rt.pending.Add(-1)
	defer rt.mu.Unlock()
	fn(Revision(rt.rev.Add(1)))
}

// Read runs fn against the current revision. A read interrupted by a write
// is retried until it completes or ctx is done.
func (rt *Runtime) Read(ctx context.Context, fn func(qc *Ctx) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := rt.readOnce(ctx, fn)
		if !errors.Is(err, ErrCancelled) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		trace.Point(trace.FromContext(ctx), trace.ScopePass, "query.retry", err.Error())
	}
}

func (rt *Runtime) readOnce(ctx context.Context, fn func(qc *Ctx) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	rt.reads.Add(1)
	defer rt.reads.Add(-1)
	return fn(&Ctx{ctx: ctx, rt: rt, rev: rt.Revision()})
}

func (rt *Runtime) cancelRequested() bool { return rt.pending.Load() > 0 }
