package trace

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// StreamTracer formats each event as it arrives and writes it to w.
// Write errors are dropped: a broken trace file must not fail validation.
type StreamTracer struct {
	level  Level
	format Format

	mu sync.Mutex
	w  io.Writer
}

// NewStreamTracer creates a StreamTracer writing format to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{level: level, format: format, w: w}
}

// Emit writes ev if its scope passes the level. Heartbeats always pass.
func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	line := FormatEvent(ev, t.format)

	t.mu.Lock()
	_, _ = t.w.Write(line)
	t.mu.Unlock()
}

// Flush pushes buffered output down: Flush for buffered writers, Sync for
// files.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch w := t.w.(type) {
	case interface{ Flush() error }:
		return w.Flush()
	case interface{ Sync() error }:
		return w.Sync()
	}
	return nil
}

// Close flushes, then closes w if it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
