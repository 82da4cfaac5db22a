package query

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"dada/internal/trace"
)

// Memo is a derived query with one cached entry per key.
type Memo[K comparable, V any] struct {
	name    string
	rt      *Runtime
	compute func(qc *Ctx, k K) (V, error)
	equal   func(a, b V) bool

	mu      sync.Mutex
	entries map[K]*entry[V]
	group   singleflight.Group
}

// entry is immutable once stored; refreshing replaces it.
type entry[V any] struct {
	value      V
	changedAt  Revision
	verifiedAt Revision
	deps       []dependency
}

// NewMemo creates a derived query. equal enables backdating; nil means a
// re-executed query always counts as changed.
func NewMemo[K comparable, V any](rt *Runtime, name string, compute func(qc *Ctx, k K) (V, error), equal func(a, b V) bool) *Memo[K, V] {
	return &Memo[K, V]{
		name:    name,
		rt:      rt,
		compute: compute,
		equal:   equal,
		entries: make(map[K]*entry[V]),
	}
}

// Name returns the name used in metrics and traces.
func (m *Memo[K, V]) Name() string { return m.name }

// Fetch returns the value for k at qc's revision, executing the query only
// if no verified entry exists, and records the read.
func (m *Memo[K, V]) Fetch(qc *Ctx, k K) (V, error) {
	e, err := m.fetch(qc, k)
	if err != nil {
		var zero V
		return zero, err
	}
	qc.record(memoDep[K, V]{m: m, key: k})
	return e.value, nil
}

// Stamp reports when the entry for k last changed and was last verified.
func (m *Memo[K, V]) Stamp(k K) (changedAt, verifiedAt Revision, ok bool) {
	e := m.load(k)
	if e == nil {
		return 0, 0, false
	}
	return e.changedAt, e.verifiedAt, true
}

func (m *Memo[K, V]) load(k K) *entry[V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[k]
}

func (m *Memo[K, V]) store(k K, e *entry[V]) {
	m.mu.Lock()
	m.entries[k] = e
	m.mu.Unlock()
}

func (m *Memo[K, V]) fetch(qc *Ctx, k K) (*entry[V], error) {
	if err := qc.Check(); err != nil {
		return nil, err
	}
	if e := m.load(k); e != nil && e.verifiedAt == qc.rev {
		m.rt.metrics.Hits.WithLabelValues(m.name).Inc()
		return e, nil
	}
	if qc.active(m, k) {
		return nil, fmt.Errorf("%w: %s(%v)", ErrCycle, m.name, k)
	}
	// одна вычисляющая горутина на (ключ, ревизия), остальные ждут результата
	res, err, _ := m.group.Do(fmt.Sprintf("%#v@%d", k, qc.rev), func() (any, error) {
		return m.refresh(qc, k)
	})
	if err != nil {
		return nil, err
	}
	return res.(*entry[V]), nil
}

func (m *Memo[K, V]) refresh(qc *Ctx, k K) (*entry[V], error) {
	old := m.load(k)
	if old != nil && old.verifiedAt == qc.rev {
		return old, nil
	}
	if old != nil {
		m.rt.metrics.Verifications.WithLabelValues(m.name).Inc()
		changed, err := depsChanged(qc, old.deps, old.verifiedAt)
		if err != nil {
			return nil, err
		}
		if !changed {
			e := &entry[V]{value: old.value, changedAt: old.changedAt, verifiedAt: qc.rev, deps: old.deps}
			m.store(k, e)
			return e, nil
		}
	}
	return m.execute(qc, k, old)
}

func depsChanged(qc *Ctx, deps []dependency, since Revision) (bool, error) {
	for _, d := range deps {
		changed, err := d.changedAfter(qc, since)
		if err != nil || changed {
			return changed, err
		}
	}
	return false, nil
}

func (m *Memo[K, V]) execute(qc *Ctx, k K, old *entry[V]) (*entry[V], error) {
	m.rt.metrics.Executions.WithLabelValues(m.name).Inc()
	sp, ctx := trace.Start(qc.ctx, trace.ScopeNode, m.name)
	sp.WithExtra("key", fmt.Sprint(k))

	child := qc.child(ctx, m, k)
	v, err := m.compute(child, k)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			m.rt.metrics.Cancellations.WithLabelValues(m.name).Inc()
			sp.End("cancelled")
		} else {
			sp.Fail(err)
		}
		return nil, err
	}

	e := &entry[V]{value: v, changedAt: qc.rev, verifiedAt: qc.rev, deps: child.frame.collect()}
	if old != nil && m.equal != nil && m.equal(old.value, v) {
		e.value, e.changedAt = old.value, old.changedAt
		m.rt.metrics.Backdates.WithLabelValues(m.name).Inc()
		sp.WithExtra("backdated", "true")
	}
	m.store(k, e)
	sp.End("")
	return e, nil
}

type memoDep[K comparable, V any] struct {
	m   *Memo[K, V]
	key K
}

func (d memoDep[K, V]) changedAfter(qc *Ctx, since Revision) (bool, error) {
	e, err := d.m.fetch(qc, d.key)
	if err != nil {
		return false, err
	}
	return e.changedAt > since, nil
}
