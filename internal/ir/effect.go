package ir

import "dada/internal/source"

// Effect is the declared effect of a function body, e.g. `async fn`.
// It affects validation and code generation.
type Effect uint8

const (
	EffectDefault Effect = iota
	EffectAtomic
	EffectAsync
)

func (e Effect) String() string {
	switch e {
	case EffectDefault:
		return "default"
	case EffectAtomic:
		return "atomic"
	case EffectAsync:
		return "async"
	default:
		return "unknown"
	}
}

// PermitsAwait reports whether `.await` may appear in a body with this effect.
func (e Effect) PermitsAwait() bool {
	return e == EffectAsync
}

// ReturnTypeKind distinguishes `fn f()` from `fn f() -> T`.
type ReturnTypeKind uint8

const (
	ReturnUnit ReturnTypeKind = iota
	ReturnValue
)

// ReturnType is the declared return type of a function. The type
// expression itself is not interpreted at this layer.
type ReturnType struct {
	Kind ReturnTypeKind
	Name source.Word // type text for ReturnValue
	Span source.Span // span of the `-> T` annotation, or of the name when unit
}
