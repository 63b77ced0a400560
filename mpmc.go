// Copyright 2026 the blockbuster authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockbuster

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a multi-producer multi-consumer bounded ring buffer.
//
// Each slot carries a sequence counter encoding its state relative to a
// logical position pos:
//
//	seq == pos              ready for the producer of pos
//	seq == pos+1            ready for the consumer of pos
//	seq == pos+capacity     consumed; next reusable at pos+capacity
//
// Producers and consumers reserve distinct slots by CAS on a shared
// ticket cursor; a lost CAS re-reads the cursor and retries against a
// possibly different slot. Contention is resolved purely by CAS retry,
// never by locking. The sequence validation provides full ABA safety and
// preserves FIFO order per logical position across all producers combined.
//
// Memory: n slots (16+ bytes per slot)
type MPMC[T any] struct {
	_          pad
	enqueuePos atomix.Uint64 // Producer ticket cursor
	_          pad
	dequeuePos atomix.Uint64 // Consumer ticket cursor
	_          pad
	buffer     []mpmcSlot[T]
	mask       uint64
	capacity   uint64
}

type mpmcSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewMPMC creates a new MPMC queue.
// Capacity rounds up to the next power of 2.
// Panics if capacity < 2.
func NewMPMC[T any](capacity int) *MPMC[T] {
	if capacity < 2 {
		panic("blockbuster: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMC[T]{
		buffer:   make([]mpmcSlot[T], n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock immediately if the queue is full; a CAS lost to
// another producer retries against the re-read cursor.
func (q *MPMC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		pos := q.enqueuePos.LoadAcquire()
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if q.enqueuePos.CompareAndSwapAcqRel(pos, pos+1) {
				slot.data = *elem
				slot.seq.StoreRelease(pos + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) immediately if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		pos := q.dequeuePos.LoadAcquire()
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if q.dequeuePos.CompareAndSwapAcqRel(pos, pos+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(pos + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Empty reports whether the queue looked empty.
// Unfenced cursor snapshot; advisory under concurrent mutation.
func (q *MPMC[T]) Empty() bool {
	return int64(q.enqueuePos.LoadRelaxed()-q.dequeuePos.LoadRelaxed()) <= 0
}

// Full reports whether the queue looked full.
// Unfenced cursor snapshot; advisory under concurrent mutation.
func (q *MPMC[T]) Full() bool {
	return q.enqueuePos.LoadRelaxed()-q.dequeuePos.LoadRelaxed() >= q.capacity
}

// Len returns an advisory snapshot of the element count,
// clamped to [0, Cap].
func (q *MPMC[T]) Len() int {
	d := int64(q.enqueuePos.LoadRelaxed() - q.dequeuePos.LoadRelaxed())
	if d < 0 {
		return 0
	}
	if d > int64(q.capacity) {
		return int(q.capacity)
	}
	return int(d)
}

// Cap returns the queue capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}

// MPMCPtr is an MPMC queue for unsafe.Pointer values.
// Useful for zero-copy pointer passing between goroutines.
type MPMCPtr struct {
	_          pad
	enqueuePos atomix.Uint64
	_          pad
	dequeuePos atomix.Uint64
	_          pad
	buffer     []mpmcPtrSlot
	mask       uint64
	capacity   uint64
}

type mpmcPtrSlot struct {
	seq  atomix.Uint64
	data unsafe.Pointer
	_    padShort // Pad to cache line
}

// NewMPMCPtr creates a new MPMC queue for unsafe.Pointer values.
// Capacity rounds up to the next power of 2.
// Panics if capacity < 2.
func NewMPMCPtr(capacity int) *MPMCPtr {
	if capacity < 2 {
		panic("blockbuster: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	q := &MPMCPtr{
		buffer:   make([]mpmcPtrSlot, n),
		mask:     n - 1,
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock immediately if the queue is full.
func (q *MPMCPtr) Enqueue(elem unsafe.Pointer) error {
	sw := spin.Wait{}
	for {
		pos := q.enqueuePos.LoadAcquire()
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			if q.enqueuePos.CompareAndSwapAcqRel(pos, pos+1) {
				slot.data = elem
				slot.seq.StoreRelease(pos + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (nil, ErrWouldBlock) immediately if the queue is empty.
func (q *MPMCPtr) Dequeue() (unsafe.Pointer, error) {
	sw := spin.Wait{}
	for {
		pos := q.dequeuePos.LoadAcquire()
		slot := &q.buffer[pos&q.mask]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			if q.dequeuePos.CompareAndSwapAcqRel(pos, pos+1) {
				elem := slot.data
				slot.data = nil
				slot.seq.StoreRelease(pos + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			return nil, ErrWouldBlock
		}
		sw.Once()
	}
}

// Empty reports whether the queue looked empty.
// Unfenced cursor snapshot; advisory under concurrent mutation.
func (q *MPMCPtr) Empty() bool {
	return int64(q.enqueuePos.LoadRelaxed()-q.dequeuePos.LoadRelaxed()) <= 0
}

// Full reports whether the queue looked full.
// Unfenced cursor snapshot; advisory under concurrent mutation.
func (q *MPMCPtr) Full() bool {
	return q.enqueuePos.LoadRelaxed()-q.dequeuePos.LoadRelaxed() >= q.capacity
}

// Len returns an advisory snapshot of the element count,
// clamped to [0, Cap].
func (q *MPMCPtr) Len() int {
	d := int64(q.enqueuePos.LoadRelaxed() - q.dequeuePos.LoadRelaxed())
	if d < 0 {
		return 0
	}
	if d > int64(q.capacity) {
		return int(q.capacity)
	}
	return int(d)
}

// Cap returns the queue capacity.
func (q *MPMCPtr) Cap() int {
	return int(q.capacity)
}
