package trace

import "go.uber.org/multierr"

// MultiTracer fans events out to several tracers, e.g. a stream for live
// output and a ring for the post-mortem dump.
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

// NewMultiTracer combines tracers under one level.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

// Emit hands each tracer its own copy, since tracers stamp Seq.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Flush flushes every tracer and combines the errors.
func (t *MultiTracer) Flush() error  {
	var err error
	for _, tr := range t.tracers {
		err = multierr.Append(err, tr.Flush())
	}
	return err
}

// Close closes every tracer, even after a failure.
func (t *MultiTracer) Close() error  {
	var err error
	for _, tr := range t.tracers {
		err = multierr.Append(err, tr.Close())
	}
	return err
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
