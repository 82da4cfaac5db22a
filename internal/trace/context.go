package trace

import "context"

// binding is what a context carries: the tracer and the innermost open
// span, so spans started from goroutines of one query nest under it.
type binding struct {
	tracer Tracer
	span   uint64
}

type ctxKey struct{}

func bound(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(ctxKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer { return bound(ctx).tracer }

// WithTracer attaches t to ctx and starts a fresh span stack.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, binding{tracer: t})
}

// ParentSpan returns the id of the innermost span opened with Start on
// ctx, 0 at the root.
func ParentSpan(ctx context.Context) uint64 { return bound(ctx).span }

// Start opens a span under the one recorded in ctx. The returned context
// makes the new span the parent of later Starts.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	b := bound(ctx)
	if !b.tracer.Enabled() || !b.tracer.Level().ShouldEmit(scope) {
		return inert, ctx
	}
	sp := Begin(b.tracer, scope, name, b.span)
	return sp, context.WithValue(ctx, ctxKey{}, binding{tracer: b.tracer, span: sp.ID()})
}
