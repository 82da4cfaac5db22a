package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func eq[V comparable](a, b V) bool { return a == b }

func count(c *prometheus.CounterVec, name string) int {
	return int(testutil.ToFloat64(c.WithLabelValues(name)))
}

// fixture: input n, parity(k) = n(k) % 2, describe(k) = "even"/"odd".
type fixture struct {
	rt       *Runtime
	n        *Input[string, int]
	parity   *Memo[string, int]
	describe *Memo[string, string]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	f := &fixture{rt: NewRuntime(Options{Registerer: reg})}
	f.n = NewInput[string, int](f.rt, "n", eq[int])
	f.parity = NewMemo(f.rt, "parity", func(qc *Ctx, k string) (int, error) {
		v, err := f.n.Get(qc, k)
		return v % 2, err
	}, eq[int])
	f.describe = NewMemo(f.rt, "describe", func(qc *Ctx, k string) (string, error) {
		p, err := f.parity.Fetch(qc, k)
		if err != nil {
			return "", err
		}
		if p == 0 {
			return "even", nil
		}
		return "odd", nil
	}, eq[string])
	return f
}

func (f *fixture) set(k string, v int) {
	f.rt.Write(func(rev Revision) { f.n.Set(rev, k, v) })
}

func (f *fixture) describeOf(t *testing.T, k string) string {
	t.Helper()
	var out string
	err := f.rt.Read(context.Background(), func(qc *Ctx) error {
		var err error
		out, err = f.describe.Fetch(qc, k)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestMemoIsCachedWithinRevision(t *testing.T) {
	f := newFixture(t)
	f.set("a", 3)

	require.Equal(t, "odd", f.describeOf(t, "a"))
	require.Equal(t, "odd", f.describeOf(t, "a"))

	m := f.rt.Metrics()
	require.Equal(t, 1, count(m.Executions, "describe"))
	require.Equal(t, 1, count(m.Executions, "parity"))
	require.Equal(t, 1, count(m.Hits, "describe"))
}

func TestInvalidationIsPerKey(t *testing.T) {
	f := newFixture(t)
	f.set("a", 1)
	f.set("b", 2)
	require.Equal(t, "odd", f.describeOf(t, "a"))
	require.Equal(t, "even", f.describeOf(t, "b"))

	f.set("a", 2)
	require.Equal(t, "even", f.describeOf(t, "a"))
	require.Equal(t, "even", f.describeOf(t, "b"))

	m := f.rt.Metrics()
	require.Equal(t, 3, count(m.Executions, "parity"), "b must only be verified")
	require.Equal(t, 3, count(m.Executions, "describe"))
}

func TestBackdatingStopsPropagation(t *testing.T) {
	f := newFixture(t)
	f.set("a", 2)
	require.Equal(t, "even", f.describeOf(t, "a"))
	changed, _, ok := f.parity.Stamp("a")
	require.True(t, ok)

	f.set("a", 4)
	require.Equal(t, "even", f.describeOf(t, "a"))

	m := f.rt.Metrics()
	require.Equal(t, 2, count(m.Executions, "parity"))
	require.Equal(t, 1, count(m.Backdates, "parity"))
	require.Equal(t, 1, count(m.Executions, "describe"), "describe must be reused")

	changedNow, verified, _ := f.parity.Stamp("a")
	require.Equal(t, changed, changedNow)
	require.Equal(t, f.rt.Revision(), verified)
}

func TestEqualSetIsNotAChange(t *testing.T) {
	f := newFixture(t)
	f.set("a", 5)
	require.Equal(t, "odd", f.describeOf(t, "a"))

	rev := f.rt.Revision()
	f.set("a", 5)
	require.Greater(t, f.rt.Revision(), rev)
	require.Equal(t, "odd", f.describeOf(t, "a"))

	m := f.rt.Metrics()
	require.Equal(t, 1, count(m.Executions, "parity"))
	require.Equal(t, 1, count(m.Verifications, "describe"))
}

func TestErrorsAreNotCommitted(t *testing.T) {
	rt := NewRuntime(Options{})
	calls := 0
	boom := errors.New("boom")
	m := NewMemo(rt, "flaky", func(qc *Ctx, k int) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return k, nil
	}, nil)

	read := func() (int, error) {
		var v int
		err := rt.Read(context.Background(), func(qc *Ctx) error {
			var err error
			v, err = m.Fetch(qc, 7)
			return err
		})
		return v, err
	}
	_, err := read()
	require.ErrorIs(t, err, boom)
	_, _, ok := m.Stamp(7)
	require.False(t, ok)

	v, err := read()
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 2, calls)
}

func TestSingleFlight(t *testing.T) {
	rt := NewRuntime(Options{})
	var runs atomic.Int32
	release := make(chan struct{})
	slow := NewMemo(rt, "slow", func(qc *Ctx, k string) (string, error) {
		runs.Add(1)
		<-release
		return k + "!", nil
	}, nil)

	err := rt.Read(context.Background(), func(qc *Ctx) error {
		g := new(errgroup.Group)
		results := make([]string, 8)
		for i := range results {
			g.Go(func() error {
				v, err := slow.Fetch(qc, "k")
				results[i] = v
				return err
			})
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		if err := g.Wait(); err != nil {
			return err
		}
		for _, r := range results {
			require.Equal(t, "k!", r)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(1), runs.Load())
}

func TestWriteCancelsAndReadRetries(t *testing.T) {
	reg := prometheus.NewRegistry()
	rt := NewRuntime(Options{Registerer: reg})
	in := NewInput[int, int](rt, "in", eq[int])
	rt.Write(func(rev Revision) { in.Set(rev, 0, 1) })

	var once sync.Once
	started := make(chan struct{})
	spin := NewMemo(rt, "spin", func(qc *Ctx, k int) (int, error) {
		v, err := in.Get(qc, k)
		if err != nil {
			return 0, err
		}
		if v == 2 {
			return v, nil
		}
		once.Do(func() { close(started) })
		for {
			if err := qc.Check(); err != nil {
				return 0, err
			}
			time.Sleep(time.Millisecond)
		}
	}, nil)

	done := make(chan int, 1)
	errc := make(chan error, 1)
	go func() {
		var v int
		err := rt.Read(context.Background(), func(qc *Ctx) error {
			var err error
			v, err = spin.Fetch(qc, 0)
			return err
		})
		errc <- err
		done <- v
	}()

	<-started
	rt.Write(func(rev Revision) { in.Set(rev, 0, 2) })

	require.NoError(t, <-errc)
	require.Equal(t, 2, <-done)
	require.Equal(t, 1, count(rt.Metrics().Cancellations, "spin"))
	_, verified, ok := spin.Stamp(0)
	require.True(t, ok)
	require.Equal(t, rt.Revision(), verified)
}

func TestContextCancellation(t *testing.T) {
	rt := NewRuntime(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := rt.Read(ctx, func(qc *Ctx) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	m := NewMemo(rt, "stop", func(qc *Ctx, k int) (int, error) {
		cancel()
		return 0, qc.Check()
	}, nil)
	err = rt.Read(ctx, func(qc *Ctx) error {
		_, err := m.Fetch(qc, 1)
		return err
	})
	require.ErrorIs(t, err, context.Canceled)
	_, _, ok := m.Stamp(1)
	require.False(t, ok, "a cancelled execution must not be committed")
}

func TestCycleIsReported(t *testing.T) {
	rt := NewRuntime(Options{})
	var self *Memo[int, int]
	self = NewMemo(rt, "self", func(qc *Ctx, k int) (int, error) {
		return self.Fetch(qc, k)
	}, nil)
	err := rt.Read(context.Background(), func(qc *Ctx) error {
		_, err := self.Fetch(qc, 1)
		return err
	})
	require.ErrorIs(t, err, ErrCycle)
}

func TestStatsCountReadsAndRevisions(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, Stats{Revision: 1}, f.rt.Stats())

	f.set("a", 1)
	err := f.rt.Read(context.Background(), func(qc *Ctx) error {
		st := f.rt.Stats()
		require.Equal(t, Revision(2), st.Revision)
		require.Equal(t, 1, st.Reads)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 0, f.rt.Stats().Reads)
}
