package arena

import (
	"strings"
	"testing"
)

func TestAllocIsAppendOnlyAndStable(t *testing.T) {
	a := New[string](NewOwner(), 0)

	first := a.Alloc("first")
	firstPtr := a.Get(first)
	ids := []ID{first}
	for i := 0; i < 1000; i++ {
		ids = append(ids, a.Alloc("n"))
	}

	if *a.Get(first) != "first" {
		t.Fatalf("record changed after later allocations: %q", *a.Get(first))
	}
	if *firstPtr != "first" {
		t.Fatal("pointer obtained before growth must still read the original data")
	}
	for i := 1; i < len(ids); i++ {
		if !ids[i-1].Less(ids[i]) {
			t.Fatalf("handles must increase monotonically: %v !< %v", ids[i-1], ids[i])
		}
	}
	if a.Len() != 1001 {
		t.Errorf("Len() = %d", a.Len())
	}
}

func TestHandlesFromDifferentOwnersNeverEqual(t *testing.T) {
	a := New[int](NewOwner(), 4)
	b := New[int](NewOwner(), 4)

	ha := a.Alloc(7)
	hb := b.Alloc(7)
	if ha.Index() != hb.Index() {
		t.Fatalf("expected identical raw indices, got %d and %d", ha.Index(), hb.Index())
	}
	if ha == hb {
		t.Fatal("handles from different arenas must not compare equal")
	}
}

func TestForeignHandlePanics(t *testing.T) {
	a := New[int](NewOwner(), 4)
	b := New[int](NewOwner(), 4)
	hb := b.Alloc(1)
	a.Alloc(1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "arena:") {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	a.Get(hb)
}

func TestZeroAndOutOfRangePanic(t *testing.T) {
	a := New[int](NewOwner(), 0)
	for _, id := range []ID{{}, {owner: a.Owner(), index: 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Get(%v) should panic", id)
				}
			}()
			a.Get(id)
		}()
	}
}

func TestSideTable(t *testing.T) {
	owner := NewOwner()
	a := New[int](owner, 0)
	x := a.Alloc(1)
	y := a.Alloc(2)

	st := NewSideTable[string](owner)
	if _, ok := st.Get(x); ok {
		t.Fatal("empty table must report absence")
	}
	st.Set(y, "why")
	if v, ok := st.Get(y); !ok || v != "why" {
		t.Errorf("Get(y) = %q, %v", v, ok)
	}
	if _, ok := st.Get(x); ok {
		t.Error("x was never set")
	}
	if st.Len() != 1 {
		t.Errorf("Len() = %d", st.Len())
	}
	st.Clear()
	if _, ok := st.Get(y); ok {
		t.Error("cleared table must be empty")
	}

	var nilTable *SideTable[string]
	if _, ok := nilTable.Get(x); ok {
		t.Error("nil table must report absence")
	}
}

func TestSideTableRebind(t *testing.T) {
	a := New[int](NewOwner(), 0)
	b := New[int](NewOwner(), 0)
	xa, xb := a.Alloc(1), b.Alloc(1)

	st := NewSideTable[string](a.Owner())
	st.Set(xa, "x")
	rb := st.Rebind(b.Owner())
	if v, ok := rb.Get(xb); !ok || v != "x" {
		t.Fatalf("rebound Get = %q, %v", v, ok)
	}
	rb.Set(xb, "changed")
	if v, _ := st.Get(xa); v != "x" {
		t.Errorf("Rebind must copy, original now %q", v)
	}

	var nilTable *SideTable[string]
	if nilTable.Rebind(b.Owner()).Len() != 0 {
		t.Error("rebinding nil yields an empty table")
	}
}
