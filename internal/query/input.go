package query

import "sync"

// Input is a tracked field: a value per key with the revision at which it
// last changed.
type Input[K comparable, V any] struct {
	name  string
	rt    *Runtime
	equal func(a, b V) bool

	mu     sync.RWMutex
	values map[K]slot[V]
}

type slot[V any] struct {
	value     V
	changedAt Revision
}

// NewInput creates an input. equal decides whether a Set changes the
// field; nil means every Set is a change.
func NewInput[K comparable, V any](rt *Runtime, name string, equal func(a, b V) bool) *Input[K, V] {
	return &Input[K, V]{name: name, rt: rt, equal: equal, values: make(map[K]slot[V])}
}

// Name returns the name used in metrics and traces.
func (in *Input[K, V]) Name() string { return in.name }

// Get returns the value for k and records the read. A key that was never
// set reads as the zero value.
func (in *Input[K, V]) Get(qc *Ctx, k K) (V, error) {
	if err := qc.Check(); err != nil {
		var zero V
		return zero, err
	}
	s := in.load(k)
	qc.record(inputDep[K, V]{in: in, key: k})
	return s.value, nil
}

// Peek returns the value for k without recording a dependency. It is
// meant for writers deciding what to Set.
func (in *Input[K, V]) Peek(k K) (V, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	s, ok := in.values[k]
	return s.value, ok
}

// Set stores v for k at rev and reports whether the field changed. It
// must be called from inside Runtime.Write.
func (in *Input[K, V]) Set(rev Revision, k K, v V) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if old, ok := in.values[k]; ok && in.equal != nil && in.equal(old.value, v) {
		return false
	}
	in.values[k] = slot[V]{value: v, changedAt: rev}
	return true
}

func (in *Input[K, V]) load(k K) slot[V] {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.values[k]
}

type inputDep[K comparable, V any] struct {
	in  *Input[K, V]
	key K
}

func (d inputDep[K, V]) changedAfter(_ *Ctx, since Revision) (bool, error) {
	return d.in.load(d.key).changedAt > since, nil
}
