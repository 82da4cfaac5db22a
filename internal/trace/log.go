package trace

import (
	"io"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogTracer writes events as structured zap log entries, one JSON object
// per line. Spans and points log at debug level, heartbeats at info.
type LogTracer struct {
	logger *zap.Logger
	w      io.Writer
	level  Level
}

// NewLogTracer creates a LogTracer over w.
func NewLogTracer(w io.Writer, level Level) *LogTracer {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "name"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return &LogTracer{logger: zap.New(core), w: w, level: level}
}

// Emit logs an event.
func (t *LogTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	ev.Seq = NextSeq()

	lvl := zapcore.DebugLevel
	if ev.Kind == KindHeartbeat {
		lvl = zapcore.InfoLevel
	}
	ce := t.logger.Check(lvl, ev.Name)
	if ce == nil {
		return
	}
	if !ev.Time.IsZero() {
		ce.Time = ev.Time
	}

	fields := make([]zap.Field, 0, 8+len(ev.Extra))
	fields = append(fields,
		zap.Uint64("seq", ev.Seq),
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
	)
	if ev.SpanID != 0 {
		fields = append(fields, zap.Uint64("span_id", ev.SpanID))
	}
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent_id", ev.ParentID))
	}
	if ev.GID != 0 {
		fields = append(fields, zap.Uint64("gid", ev.GID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		extra := make([]zap.Field, len(keys))
		for i, k := range keys {
			extra[i] = zap.String(k, ev.Extra[k])
		}
		fields = append(fields, zap.Dict("extra", extra...))
	}
	ce.Write(fields...)
}

// Flush syncs the logger.
func (t *LogTracer) Flush() error {
	return t.logger.Sync()
}

// Close syncs the logger and closes the writer if it implements io.Closer.
func (t *LogTracer) Close() error {
	err := t.Flush()
	if closer, ok := t.w.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	return err
}

func (t *LogTracer) Level() Level { return t.level }

func (t *LogTracer) Enabled() bool { return t.level > LevelOff }
