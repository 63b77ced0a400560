// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockbuster

import (
	"hash/maphash"
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Map is a lock-free multi-producer multi-consumer hash map.
//
// The map is an open-addressing table with linear probing. Each cell
// carries an atomic state word; state transitions are the concurrency
// control for the cell:
//
//	empty → writing    an inserter claimed the cell (CAS)
//	writing → full     key/value published (release store)
//	full → deleted     a remover tombstoned the cell (CAS)
//
// Deleted cells are never reused; probe chains skip them and terminate at
// the first empty cell. An inserter that observes occupancy above half
// capacity builds a double-capacity table, migrates live entries, and
// atomically republishes the table pointer. Capacity is always a power of
// two and never shrinks.
//
// Superseded tables stay readable for goroutines that captured them
// before the swap; the garbage collector reclaims each one when its last
// reader drops the reference.
//
// Insert is insert-if-absent: a duplicate key fails without overwriting.
// Use distinct maps or value-level synchronization for update semantics.
type Map[K comparable, V any] struct {
	_     pad
	table atomic.Pointer[table[K, V]]
	_     pad
	seed  maphash.Seed
}

// NewMap creates a new Map with the given initial capacity.
// Capacity rounds up to the next power of 2.
// Panics if capacity < 2.
func NewMap[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 2 {
		panic("blockbuster: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	m := &Map[K, V]{seed: maphash.MakeSeed()}
	m.table.Store(newTable[K, V](n))
	return m
}

// Insert adds a key-value pair to the map.
// Returns true if the pair was inserted, false if the key already exists
// (the existing entry is left untouched).
func (m *Map[K, V]) Insert(key K, value V) bool {
	h := maphash.Comparable(m.seed, key)
	sw := spin.Wait{}
	for {
		t := m.table.Load()
		switch t.insert(h, key, value) {
		case insertOK:
			if t.size.LoadRelaxed() > int64(t.capacity/2) {
				m.grow(t)
			}
			return true
		case insertDup:
			return false
		case insertFull:
			// Every cell was probed without finding a slot. Growth drops
			// tombstones and doubles capacity; the whole insert retries
			// against the successor table.
			m.grow(t)
		case insertRetry:
			// Growth in flight sealed the probed cell; wait for the
			// table swap, then retry.
			for m.table.Load() == t {
				sw.Once()
			}
			sw.Reset()
		}
	}
}

// Get retrieves the value for key.
// Returns (value, true) if found, (zero-value, false) otherwise.
func (m *Map[K, V]) Get(key K) (V, bool) {
	h := maphash.Comparable(m.seed, key)
	return m.table.Load().get(h, key)
}

// Remove deletes the entry for key.
// Returns true if the key was found and removed, false otherwise
// (including when another remover wins the race for the same cell).
func (m *Map[K, V]) Remove(key K) bool {
	h := maphash.Comparable(m.seed, key)
	sw := spin.Wait{}
	for {
		t := m.table.Load()
		removed, retry := t.remove(h, key)
		if !retry {
			return removed
		}
		// The entry migrated to the successor table; wait for the swap,
		// then remove it there.
		for m.table.Load() == t {
			sw.Once()
		}
		sw.Reset()
	}
}

// Len returns an advisory snapshot of the entry count.
// Unfenced against concurrent mutation.
func (m *Map[K, V]) Len() int {
	n := m.table.Load().size.LoadRelaxed()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the capacity of the current table.
// Unfenced against concurrent growth.
func (m *Map[K, V]) Cap() int {
	return int(m.table.Load().capacity)
}

// grow replaces old with a table of double capacity, migrating every live
// entry. Exactly one goroutine grows a given table generation; the
// election loser waits for the winner's pointer swap so its caller
// retries against the successor.
func (m *Map[K, V]) grow(old *table[K, V]) {
	if m.table.Load() != old {
		return
	}
	sw := spin.Wait{}
	if !old.growing.CompareAndSwapAcqRel(0, 1) {
		for m.table.Load() == old {
			sw.Once()
		}
		return
	}

	next := newTable[K, V](old.capacity * 2)
	for i := range old.cells {
		c := &old.cells[i]
	scan:
		for {
			switch c.state.LoadAcquire() {
			case cellEmpty:
				// Seal the cell so no late insert can land behind the scan.
				if c.state.CompareAndSwapAcqRel(cellEmpty, cellSealed) {
					break scan
				}
			case cellWriting:
				// An inserter owns the cell and will publish full shortly.
				sw.Once()
			case cellFull:
				h := maphash.Comparable(m.seed, c.key)
				next.insert(h, c.key, c.value)
				if c.state.CompareAndSwapAcqRel(cellFull, cellMoved) {
					break scan
				}
				// A remover tombstoned the cell between copy and mark.
				// The successor table is still private, so undo the copy.
				next.remove(h, c.key)
			default: // deleted
				break scan
			}
		}
		sw.Reset()
	}
	m.table.Store(next)
}

// Cell states. The migration states are set only by a table's elected
// grower: sealed marks a cell that was empty when the scan passed it,
// moved marks a copied entry that is still readable in the old table.
const (
	cellEmpty uint64 = iota
	cellWriting
	cellFull
	cellDeleted
	cellSealed
	cellMoved
)

type cell[K comparable, V any] struct {
	state atomix.Uint64
	key   K
	value V
	_     padShort // Pad to cache line
}

// table is one generation of the map's backing storage. Immutable in
// shape after construction; only cell contents and counters mutate.
type table[K comparable, V any] struct {
	_        pad
	size     atomix.Int64
	_        pad
	growing  atomix.Uint64
	_        pad
	cells    []cell[K, V]
	mask     uint64
	capacity uint64
}

func newTable[K comparable, V any](capacity uint64) *table[K, V] {
	return &table[K, V]{
		cells:    make([]cell[K, V], capacity),
		mask:     capacity - 1,
		capacity: capacity,
	}
}

type insertResult int

const (
	insertOK    insertResult = iota
	insertDup                // key already present in a full cell
	insertFull               // probe exhausted the whole table
	insertRetry              // hit a sealed cell; table is being replaced
)

func (t *table[K, V]) insert(h uint64, key K, value V) insertResult {
	idx := h & t.mask
	for i := uint64(0); i < t.capacity; i++ {
		c := &t.cells[(idx+i)&t.mask]
		st := c.state.LoadAcquire()

		if st == cellEmpty {
			if c.state.CompareAndSwapAcqRel(cellEmpty, cellWriting) {
				c.key = key
				c.value = value
				c.state.StoreRelease(cellFull)
				t.size.Add(1)
				return insertOK
			}
			st = c.state.LoadAcquire()
		}
		// Keys of full/moved cells are stable: published before the state
		// and never rewritten.
		if (st == cellFull || st == cellMoved) && c.key == key {
			return insertDup
		}
		if st == cellSealed {
			return insertRetry
		}
		// writing, deleted, or another key: keep probing.
	}
	return insertFull
}

func (t *table[K, V]) get(h uint64, key K) (V, bool) {
	idx := h & t.mask
	for i := uint64(0); i < t.capacity; i++ {
		c := &t.cells[(idx+i)&t.mask]
		st := c.state.LoadAcquire()

		if (st == cellFull || st == cellMoved) && c.key == key {
			return c.value, true
		}
		// An empty cell ends every probe chain that could hold the key:
		// insert never claims a slot past an empty cell. Sealed cells
		// were empty when sealed and keep that property.
		if st == cellEmpty || st == cellSealed {
			var zero V
			return zero, false
		}
	}
	var zero V
	return zero, false
}

// remove tombstones the cell holding key. retry reports that the entry
// has migrated to the successor table and must be removed there instead.
func (t *table[K, V]) remove(h uint64, key K) (removed, retry bool) {
	idx := h & t.mask
	for i := uint64(0); i < t.capacity; i++ {
		c := &t.cells[(idx+i)&t.mask]
		st := c.state.LoadAcquire()

		switch {
		case st == cellFull && c.key == key:
			if c.state.CompareAndSwapAcqRel(cellFull, cellDeleted) {
				t.size.Add(-1)
				return true, false
			}
			if c.state.LoadAcquire() == cellMoved {
				return false, true
			}
			// Another remover won the race.
			return false, false
		case st == cellMoved && c.key == key:
			return false, true
		case st == cellEmpty || st == cellSealed:
			return false, false
		}
	}
	return false, false
}
