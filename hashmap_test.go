// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockbuster_test

import (
	"fmt"
	"testing"

	"github.com/smercer10/blockbuster"
)

// =============================================================================
// Map - Basic Operations
// =============================================================================

// TestMapInsertGet verifies the insert/get round trip and the
// insert-if-absent contract.
func TestMapInsertGet(t *testing.T) {
	m := blockbuster.NewMap[string, int](8)

	if !m.Insert("a", 1) {
		t.Fatal("Insert(a): got false, want true")
	}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a): got (%d, %v), want (1, true)", v, ok)
	}

	// Duplicate insert fails and leaves the existing entry untouched.
	if m.Insert("a", 2) {
		t.Fatal("Insert(a) duplicate: got true, want false")
	}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) after duplicate insert: got (%d, %v), want (1, true)", v, ok)
	}

	if _, ok := m.Get("missing"); ok {
		t.Fatal("Get(missing): got true, want false")
	}
}

// TestMapRemove verifies removal and absence reporting.
func TestMapRemove(t *testing.T) {
	m := blockbuster.NewMap[string, int](8)

	m.Insert("a", 1)
	m.Insert("b", 2)

	if !m.Remove("a") {
		t.Fatal("Remove(a): got false, want true")
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("Get(a) after remove: got true, want false")
	}
	if m.Remove("a") {
		t.Fatal("Remove(a) twice: got true, want false")
	}
	if m.Remove("missing") {
		t.Fatal("Remove(missing): got true, want false")
	}

	// Unrelated entries survive.
	if v, ok := m.Get("b"); !ok || v != 2 {
		t.Fatalf("Get(b): got (%d, %v), want (2, true)", v, ok)
	}
}

// TestMapReinsertAfterRemove verifies that a removed key can be inserted
// again and found past its tombstone.
func TestMapReinsertAfterRemove(t *testing.T) {
	m := blockbuster.NewMap[string, int](8)

	m.Insert("k", 1)
	m.Remove("k")

	if !m.Insert("k", 2) {
		t.Fatal("Insert(k) after remove: got false, want true")
	}
	if v, ok := m.Get("k"); !ok || v != 2 {
		t.Fatalf("Get(k): got (%d, %v), want (2, true)", v, ok)
	}
}

// TestMapLenCap tracks the advisory counters.
func TestMapLenCap(t *testing.T) {
	m := blockbuster.NewMap[int, int](8)

	if m.Len() != 0 {
		t.Fatalf("Len on new map: got %d, want 0", m.Len())
	}
	if m.Cap() != 8 {
		t.Fatalf("Cap: got %d, want 8", m.Cap())
	}

	m.Insert(1, 1)
	m.Insert(2, 2)
	if m.Len() != 2 {
		t.Fatalf("Len after 2 inserts: got %d, want 2", m.Len())
	}
	if m.Len() > m.Cap() {
		t.Fatalf("Len %d exceeds Cap %d", m.Len(), m.Cap())
	}

	m.Remove(1)
	if m.Len() != 1 {
		t.Fatalf("Len after remove: got %d, want 1", m.Len())
	}
}

// TestMapCapacityRounding verifies power-of-2 rounding at construction.
func TestMapCapacityRounding(t *testing.T) {
	if got := blockbuster.NewMap[int, int](5).Cap(); got != 8 {
		t.Fatalf("NewMap(5).Cap() = %d, want 8", got)
	}
	if got := blockbuster.NewMap[int, int](8).Cap(); got != 8 {
		t.Fatalf("NewMap(8).Cap() = %d, want 8", got)
	}
}

// TestMapPanicsOnTinyCapacity verifies the fail-fast construction check.
func TestMapPanicsOnTinyCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewMap(1): expected panic")
		}
	}()
	blockbuster.NewMap[int, int](1)
}

// =============================================================================
// Map - Growth
// =============================================================================

// TestMapGrowth verifies that a map with initial capacity 8 doubles when
// the 5th insert pushes occupancy past half, and that every previously
// inserted key stays retrievable.
func TestMapGrowth(t *testing.T) {
	m := blockbuster.NewMap[int, int](8)

	for i := range 5 {
		if !m.Insert(i, i*10) {
			t.Fatalf("Insert(%d): got false, want true", i)
		}
	}

	if m.Cap() != 16 {
		t.Fatalf("Cap after growth: got %d, want 16", m.Cap())
	}
	for i := range 5 {
		if v, ok := m.Get(i); !ok || v != i*10 {
			t.Fatalf("Get(%d) after growth: got (%d, %v), want (%d, true)", i, v, ok, i*10)
		}
	}
	if m.Len() != 5 {
		t.Fatalf("Len after growth: got %d, want 5", m.Len())
	}
}

// TestMapGrowthChain inserts far past the initial capacity so the table
// doubles several times, then verifies the full contents.
func TestMapGrowthChain(t *testing.T) {
	const n = 1000
	m := blockbuster.NewMap[int, string](4)

	for i := range n {
		if !m.Insert(i, fmt.Sprintf("v%d", i)) {
			t.Fatalf("Insert(%d): got false, want true", i)
		}
	}

	if m.Cap() < n {
		t.Fatalf("Cap after %d inserts: got %d, want >= %d", n, m.Cap(), n)
	}
	// Capacity is always a power of 2.
	if c := m.Cap(); c&(c-1) != 0 {
		t.Fatalf("Cap %d is not a power of 2", c)
	}
	for i := range n {
		if v, ok := m.Get(i); !ok || v != fmt.Sprintf("v%d", i) {
			t.Fatalf("Get(%d): got (%q, %v), want (%q, true)", i, v, ok, fmt.Sprintf("v%d", i))
		}
	}
	if m.Len() != n {
		t.Fatalf("Len: got %d, want %d", m.Len(), n)
	}
}

// TestMapGrowthDropsTombstones verifies that removed keys stay absent
// across growth while live keys survive.
func TestMapGrowthDropsTombstones(t *testing.T) {
	m := blockbuster.NewMap[int, int](8)

	for i := range 4 {
		m.Insert(i, i)
	}
	m.Remove(0)
	m.Remove(2)

	// Push the map through growth.
	for i := 4; i < 32; i++ {
		m.Insert(i, i)
	}

	if _, ok := m.Get(0); ok {
		t.Fatal("Get(0): removed key resurrected by growth")
	}
	if _, ok := m.Get(2); ok {
		t.Fatal("Get(2): removed key resurrected by growth")
	}
	if v, ok := m.Get(1); !ok || v != 1 {
		t.Fatalf("Get(1): got (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := m.Get(3); !ok || v != 3 {
		t.Fatalf("Get(3): got (%d, %v), want (3, true)", v, ok)
	}
}

// =============================================================================
// Map - Key Types
// =============================================================================

type pairKey struct {
	a, b int
}

// TestMapStructKeys verifies that any comparable type works as a key.
func TestMapStructKeys(t *testing.T) {
	m := blockbuster.NewMap[pairKey, string](8)

	if !m.Insert(pairKey{1, 2}, "x") {
		t.Fatal("Insert({1,2}): got false, want true")
	}
	if m.Insert(pairKey{1, 2}, "y") {
		t.Fatal("Insert({1,2}) duplicate: got true, want false")
	}
	if v, ok := m.Get(pairKey{1, 2}); !ok || v != "x" {
		t.Fatalf("Get({1,2}): got (%q, %v), want (%q, true)", v, ok, "x")
	}
	if _, ok := m.Get(pairKey{2, 1}); ok {
		t.Fatal("Get({2,1}): got true, want false")
	}
}

// TestMapPointerValues verifies pointer values survive growth intact.
func TestMapPointerValues(t *testing.T) {
	m := blockbuster.NewMap[int, *pairKey](4)

	ptrs := make([]*pairKey, 20)
	for i := range ptrs {
		ptrs[i] = &pairKey{a: i}
		m.Insert(i, ptrs[i])
	}

	for i := range ptrs {
		v, ok := m.Get(i)
		if !ok || v != ptrs[i] {
			t.Fatalf("Get(%d): got (%p, %v), want (%p, true)", i, v, ok, ptrs[i])
		}
	}
}
