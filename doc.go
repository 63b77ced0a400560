// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blockbuster provides lock-free concurrent container primitives:
// bounded FIFO ring buffers and a growable hash map.
//
// The package offers three independent structures, each usable standalone:
//
//   - SPSC: Single-Producer Single-Consumer bounded ring buffer
//   - MPMC: Multi-Producer Multi-Consumer bounded ring buffer
//   - Map: Multi-Producer Multi-Consumer open-addressing hash map
//
// None of the three uses mutexes or condition variables; all coordination
// is via atomic loads/stores with explicit memory ordering and CAS retry
// loops. No operation ever blocks or sleeps.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q := blockbuster.NewSPSC[Event](1024)
//	q := blockbuster.NewMPMC[*Request](4096)
//	m := blockbuster.NewMap[string, int](64)
//
// Builder API auto-selects the queue algorithm based on constraints:
//
//	q := blockbuster.Build[Event](blockbuster.New(1024).SingleProducer().SingleConsumer()) // → SPSC
//	q := blockbuster.Build[Event](blockbuster.New(1024))                                   // → MPMC
//
// # Basic Usage
//
// Both queues share the same non-blocking interface:
//
//	q := blockbuster.NewMPMC[int](1024)
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if blockbuster.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if blockbuster.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// The hash map follows the Go map idiom; absence is not an error:
//
//	m := blockbuster.NewMap[string, int](64)
//	m.Insert("answer", 42)      // false if the key already exists
//	v, ok := m.Get("answer")    // ok == false if absent
//	m.Remove("answer")          // false if absent
//
// Callers needing blocking behavior wrap the failed operation in a retry
// loop with backoff:
//
//	backoff := iox.Backoff{}
//	for q.Enqueue(&item) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// # Capacity
//
// Capacity rounds up to the next power of 2; minimum capacity is 2 and
// constructors panic below that. An SPSC buffer of capacity n holds at
// most n-1 elements (one slot stays empty so cursor equality means
// empty); an MPMC buffer holds the full n.
//
// # Ordering Guarantees
//
// A value enqueued at logical position p is visible to the dequeue of
// position p: the store publishing the slot's ready marker uses release
// ordering and the matching load uses acquire ordering. FIFO order is
// preserved per logical position across all producers combined. A map
// entry becomes visible to readers only after its cell's writing→full
// transition is published with release ordering.
//
// # Advisory Accessors
//
// Len, Empty, and Full are unfenced snapshots. Under concurrent mutation
// they may be stale by the time they return and must be treated as
// heuristics. For SPSC, Empty and Full are exact only on the consumer and
// producer goroutine respectively. Map.Len and Map.Cap read the current
// table without synchronizing against in-flight growth.
//
// # Map Growth
//
// Any inserting goroutine that observes occupancy above half capacity
// builds a double-capacity table, migrates live entries, and atomically
// republishes the table pointer. Readers that captured the old table keep
// reading it consistently; the garbage collector reclaims superseded
// tables once the last such reader drops its reference. Capacity doubles
// exactly and never shrinks.
//
// # Race Detection
//
// Go's race detector cannot observe happens-before edges established
// through atomic memory orderings on separate variables, so it reports
// false positives for these algorithms. Concurrent tests that rely on
// cross-variable acquire-release ordering are skipped under -race via the
// RaceEnabled constant; examples that would trip it carry //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions in CAS retry loops.
package blockbuster
