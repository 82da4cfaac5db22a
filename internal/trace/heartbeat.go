package trace

import (
	"strconv"
	"sync"
	"time"
)

// StateFunc reports state attached to every heartbeat, such as the database
// revision and the number of reads in flight.
type StateFunc func() map[string]string

// Heartbeat emits KindHeartbeat events at a fixed interval. Heartbeats
// that keep coming while no span ends point at a stuck query.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the ticker goroutine. It returns nil when t is
// disabled or interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration, state StateFunc) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, interval, state)
	return h
}

func (h *Heartbeat) loop(t Tracer, interval time.Duration, state StateFunc) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for beat := 1; ; beat++ {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			ev := &Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    goroutineID(),
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
			}
			if state != nil {
				ev.Extra = state()
			}
			if ev.Extra == nil {
				ev.Extra = make(map[string]string, 1)
			}
			ev.Extra["uptime"] = now.Sub(start).Truncate(time.Millisecond).String()
			t.Emit(ev)
		}
	}
}

// Stop ends the goroutine and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
