// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockbuster

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// SPSC is a single-producer single-consumer bounded ring buffer.
//
// Cursors are stored wrapped to the buffer size and one slot is always
// kept empty: cursor equality means empty, so a buffer of capacity n
// holds at most n-1 elements. The producer publishes each payload with a
// release store of the new tail; the consumer pairs it with an acquire
// load, establishing the happens-before edge from payload write to
// payload read.
//
// The producer additionally caches the consumer's head index and
// refreshes it only when the buffer looks full (and vice versa for the
// consumer), reducing cross-core cache line traffic.
//
// Memory: O(capacity) with minimal per-slot overhead
type SPSC[T any] struct {
	_          pad
	head       atomix.Uint64 // Consumer reads from here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	buffer     []T
	mask       uint64
}

// NewSPSC creates a new SPSC queue.
// Capacity rounds up to the next power of 2; usable storage is capacity-1.
// Panics if capacity < 2.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 2 {
		panic("blockbuster: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &SPSC[T]{
		buffer: make([]T, n),
		mask:   n - 1,
	}
}

// Enqueue adds an element to the queue (producer only).
// Returns ErrWouldBlock if the queue is full.
func (q *SPSC[T]) Enqueue(elem *T) error {
	tail := q.tail.LoadRelaxed()
	next := (tail + 1) & q.mask
	if next == q.cachedHead {
		q.cachedHead = q.head.LoadAcquire()
		if next == q.cachedHead {
			return ErrWouldBlock
		}
	}

	q.buffer[tail] = *elem
	q.tail.StoreRelease(next)
	return nil
}

// Dequeue removes and returns an element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *SPSC[T]) Dequeue() (T, error) {
	head := q.head.LoadRelaxed()
	if head == q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head == q.cachedTail {
			var zero T
			return zero, ErrWouldBlock
		}
	}

	elem := q.buffer[head]
	var zero T
	q.buffer[head] = zero
	q.head.StoreRelease((head + 1) & q.mask)
	return elem, nil
}

// Empty reports whether the queue looked empty.
// Exact only on the consumer goroutine; advisory elsewhere.
func (q *SPSC[T]) Empty() bool {
	return q.head.LoadRelaxed() == q.tail.LoadRelaxed()
}

// Full reports whether the queue looked full.
// Exact only on the producer goroutine; advisory elsewhere.
func (q *SPSC[T]) Full() bool {
	return (q.tail.LoadRelaxed()+1)&q.mask == q.head.LoadRelaxed()
}

// Len returns an advisory snapshot of the element count.
func (q *SPSC[T]) Len() int {
	return int((q.tail.LoadRelaxed() - q.head.LoadRelaxed()) & q.mask)
}

// Cap returns the queue capacity. Usable storage is Cap()-1.
func (q *SPSC[T]) Cap() int {
	return int(q.mask + 1)
}

// SPSCPtr is a SPSC queue for unsafe.Pointer values.
// Useful for zero-copy pointer passing between goroutines.
type SPSCPtr struct {
	_          pad
	head       atomix.Uint64
	_          pad
	cachedTail uint64
	_          pad
	tail       atomix.Uint64
	_          pad
	cachedHead uint64
	_          pad
	buffer     []unsafe.Pointer
	mask       uint64
}

// NewSPSCPtr creates a new SPSC queue for unsafe.Pointer values.
// Capacity rounds up to the next power of 2; usable storage is capacity-1.
// Panics if capacity < 2.
func NewSPSCPtr(capacity int) *SPSCPtr {
	if capacity < 2 {
		panic("blockbuster: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &SPSCPtr{
		buffer: make([]unsafe.Pointer, n),
		mask:   n - 1,
	}
}

// Enqueue adds an element (producer only).
func (q *SPSCPtr) Enqueue(elem unsafe.Pointer) error {
	tail := q.tail.LoadRelaxed()
	next := (tail + 1) & q.mask
	if next == q.cachedHead {
		q.cachedHead = q.head.LoadAcquire()
		if next == q.cachedHead {
			return ErrWouldBlock
		}
	}
	// Pointer arithmetic avoids slice bounds checking in hot path.
	// Equivalent to q.buffer[tail] = elem
	*(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.buffer)), int(tail)*ptrSize)) = elem
	q.tail.StoreRelease(next)
	return nil
}

// Dequeue removes and returns an element (consumer only).
func (q *SPSCPtr) Dequeue() (unsafe.Pointer, error) {
	head := q.head.LoadRelaxed()
	if head == q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head == q.cachedTail {
			return nil, ErrWouldBlock
		}
	}
	// Pointer arithmetic avoids slice bounds checking in hot path.
	// Equivalent to elem := q.buffer[head]
	elem := *(*unsafe.Pointer)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(q.buffer)), int(head)*ptrSize))
	q.head.StoreRelease((head + 1) & q.mask)
	return elem, nil
}

// Empty reports whether the queue looked empty.
// Exact only on the consumer goroutine; advisory elsewhere.
func (q *SPSCPtr) Empty() bool {
	return q.head.LoadRelaxed() == q.tail.LoadRelaxed()
}

// Full reports whether the queue looked full.
// Exact only on the producer goroutine; advisory elsewhere.
func (q *SPSCPtr) Full() bool {
	return (q.tail.LoadRelaxed()+1)&q.mask == q.head.LoadRelaxed()
}

// Len returns an advisory snapshot of the element count.
func (q *SPSCPtr) Len() int {
	return int((q.tail.LoadRelaxed() - q.head.LoadRelaxed()) & q.mask)
}

// Cap returns the queue capacity. Usable storage is Cap()-1.
func (q *SPSCPtr) Cap() int {
	return int(q.mask + 1)
}
