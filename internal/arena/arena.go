// Package arena provides append-only, handle-indexed storage for tree nodes.
//
// Every arena belongs to an Owner. An ID remembers the owner that issued it,
// so an ID never compares equal to an ID of another arena instance and
// dereferencing it against a foreign arena panics. Indices are dense and
// 1-based; the zero ID means "no node".
package arena

import (
	"fmt"
	"sync/atomic"

	"fortio.org/safecast"
)

// Owner identifies one aggregate of arenas (one tree).
type Owner uint32

var lastOwner atomic.Uint32

// NewOwner returns an owner that has never been issued before.
func NewOwner() Owner {
	return Owner(lastOwner.Add(1))
}

// ID is a handle into an Arena.
type ID struct {
	owner Owner
	index uint32
}

// IsValid reports whether the ID refers to a node.
func (id ID) IsValid() bool { return id.index != 0 }

// Index returns the raw 1-based index. Only meaningful together with the owner.
func (id ID) Index() uint32 { return id.index }

// Owner returns the owner that issued the ID.
func (id ID) Owner() Owner { return id.owner }

// Less orders IDs of the same arena by allocation order.
func (id ID) Less(other ID) bool { return id.index < other.index }

func (id ID) String() string {
	if !id.IsValid() {
		return "none"
	}
	return fmt.Sprintf("%d@%d", id.index, id.owner)
}

type Arena[T any] struct {
	owner Owner
	data  []T
}

// New creates an arena bound to owner. capHint is the initial capacity; zero is allowed.
func New[T any](owner Owner, capHint uint) *Arena[T] {
	return &Arena[T]{
		owner: owner,
		data:  make([]T, 0, capHint),
	}
}

// Alloc appends value and returns its handle (1-based).
func (a *Arena[T]) Alloc(value T) ID {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena: too many nodes: %w", err))
	}
	return ID{owner: a.owner, index: n}
}

// Get returns the record for id. Using an ID from another arena or an
// index that was never allocated is an internal bug and panics.
func (a *Arena[T]) Get(id ID) *T {
	if id.owner != a.owner {
		panic(fmt.Sprintf("arena: handle %s used with arena of owner %d", id, a.owner))
	}
	if id.index == 0 || int(id.index) > len(a.data) {
		panic(fmt.Sprintf("arena: handle %s out of range (len %d)", id, len(a.data)))
	}
	return &a.data[id.index-1]
}

// Owner returns the owner stamped on every ID this arena issues.
func (a *Arena[T]) Owner() Owner { return a.owner }

// Slice returns the records in allocation order. READONLY.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}

// IDs returns the handles of all records in allocation order.
func (a *Arena[T]) IDs() []ID {
	out := make([]ID, len(a.data))
	for i := range a.data {
		out[i] = ID{owner: a.owner, index: uint32(i + 1)}
	}
	return out
}
