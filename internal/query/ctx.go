package query

import (
	"context"
	"fmt"
	"sync"
)

// Ctx is the handle a query body uses to read inputs and other queries.
// Reads made through it are recorded as dependencies of the running
// query. A Ctx may be shared by goroutines spawned from one query body.
type Ctx struct {
	ctx   context.Context
	rt    *Runtime
	rev   Revision
	frame *frame
}

// frame is one executing query on the active stack.
type frame struct {
	owner  any
	key    any
	parent *frame

	mu   sync.Mutex
	deps []dependency
}

// dependency re-checks one recorded read. changedAfter brings the
// dependency up to date at qc's revision and reports whether its value
// changed after since.
type dependency interface {
	changedAfter(qc *Ctx, since Revision) (bool, error)
}

// Context returns the context of the read.
func (qc *Ctx) Context() context.Context { return qc.ctx }

// Revision returns the revision the read runs against.
func (qc *Ctx) Revision() Revision { return qc.rev }

// Check returns ErrCancelled when the read should unwind. Long query
// bodies may call it between steps.
func (qc *Ctx) Check() error {
	if err := qc.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if qc.rt.cancelRequested() {
		return fmt.Errorf("%w: pending write", ErrCancelled)
	}
	return nil
}

func (qc *Ctx) record(d dependency) {
	f := qc.frame
	if f == nil {
		return
	}
	f.mu.Lock()
	f.deps = append(f.deps, d)
	f.mu.Unlock()
}

// active reports whether (owner, key) is already executing on this stack.
func (qc *Ctx) active(owner, key any) bool {
	for f := qc.frame; f != nil; f = f.parent {
		if f.owner == owner && f.key == key {
			return true
		}
	}
	return false
}

// child returns a Ctx whose reads are recorded for a new execution of
// (owner, key).
func (qc *Ctx) child(ctx context.Context, owner, key any) *Ctx {
	return &Ctx{
		ctx:   ctx,
		rt:    qc.rt,
		rev:   qc.rev,
		frame: &frame{owner: owner, key: key, parent: qc.frame},
	}
}

func (f *frame) collect() []dependency {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deps
}
