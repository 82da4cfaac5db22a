package arena

import "slices"

// SideTable stores optional per-node metadata keyed by IDs of one owner.
// Absent entries read as the zero value with ok == false.
type SideTable[V any] struct {
	owner Owner
	data  []V
	set   []bool
}

// NewSideTable creates an empty side table for IDs issued to owner.
func NewSideTable[V any](owner Owner) *SideTable[V] {
	return &SideTable[V]{owner: owner}
}

// Set records v for id.
func (s *SideTable[V]) Set(id ID, v V) {
	if !id.IsValid() {
		return
	}
	if id.owner != s.owner {
		panic("arena: side table keyed by foreign handle " + id.String())
	}
	i := int(id.index - 1)
	for len(s.data) <= i {
		var zero V
		s.data = append(s.data, zero)
		s.set = append(s.set, false)
	}
	s.data[i] = v
	s.set[i] = true
}

// Get returns the value recorded for id. Absence is not an error.
func (s *SideTable[V]) Get(id ID) (V, bool) {
	var zero V
	if s == nil || !id.IsValid() {
		return zero, false
	}
	if id.owner != s.owner {
		panic("arena: side table keyed by foreign handle " + id.String())
	}
	i := int(id.index - 1)
	if i >= len(s.data) || !s.set[i] {
		return zero, false
	}
	return s.data[i], true
}

// Len returns the number of recorded entries.
func (s *SideTable[V]) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, ok := range s.set {
		if ok {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (s *SideTable[V]) Clear() {
	s.data = nil
	s.set = nil
}

// Rebind returns a copy of s keyed by owner. It is only sound when owner's
// arena holds, index for index, the same nodes as the arena s was built
// for, as with two structurally equal trees.
func (s *SideTable[V]) Rebind(owner Owner) *SideTable[V] {
	if s == nil {
		return NewSideTable[V](owner)
	}
	return &SideTable[V]{
		owner: owner,
		data:  slices.Clone(s.data),
		set:   slices.Clone(s.set),
	}
}
