// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"container/list"
)

// waker marks a parked task runnable. Waking never runs the task
// synchronously; it only schedules it for the next scheduling point.
type waker interface {
	wake()
}

// wakeEntry is one suspended task waiting to be woken up in a
// channel-side wakeup queue.
type wakeEntry struct {
	task waker
	ch   *channel
	q    *waitQueue
	// elem is non-nil while the entry is linked into q. A waker
	// clears it on dequeue; release checks it again so unlinking
	// stays idempotent when the task detaches on its own.
	elem *list.Element
}

// unlink removes the entry from its wakeup queue. Safe to call after a
// waker has already dequeued it.
func (e *wakeEntry) unlink() {
	if e.elem == nil {
		return
	}
	e.q.tasks.Remove(e.elem)
	e.elem = nil
}

// release is the resume epilogue: detach from the queue, drop the
// waiter reference, and free the channel if this was the last waiter
// holding a closed channel alive.
func (e *wakeEntry) release() {
	e.unlink()
	e.ch.waiters--
	e.ch.cleanupIfPossible()
}

// waitQueue is a FIFO list of suspended tasks waiting for a
// channel-side condition. Each channel owns one per direction.
type waitQueue struct {
	tasks list.List
}

// park appends a new wakeup entry for t and counts it as a waiter.
// The caller suspends after parking; the entry's release must run when
// the task is next driven.
func (q *waitQueue) park(t waker, ch *channel) *wakeEntry {
	e := &wakeEntry{task: t, ch: ch, q: q}
	e.elem = q.tasks.PushBack(e)
	ch.waiters++
	return e
}

// wakeOne pops the FIFO head and marks that task runnable.
// No-op on an empty queue. The waiter count is not touched here; it
// drops when the woken task actually resumes and releases its entry.
func (q *waitQueue) wakeOne() {
	front := q.tasks.Front()
	if front == nil {
		return
	}
	e := front.Value.(*wakeEntry)
	q.tasks.Remove(front)
	e.elem = nil
	e.task.wake()
}

// wakeAll pops and wakes every queued entry in FIFO order.
func (q *waitQueue) wakeAll() {
	for q.tasks.Len() > 0 {
		q.wakeOne()
	}
}

// channel is a bounded FIFO ring buffer of integers plus its two
// wakeup queues. Reachable from the bus slot table while open; a
// closed channel survives only on the zombie list, and only while
// waiters > 0.
type channel struct {
	limit int
	buf   []uint32
	head  int
	tail  int
	size  int

	closed  bool
	waiters int

	senders   waitQueue
	receivers waitQueue

	// zombie is non-nil while linked into the bus zombie list.
	zombie *list.Element
	bus    *Bus
	index  Handle
}

func (ch *channel) hasSpace() bool {
	return ch.size < ch.limit
}

func (ch *channel) hasData() bool {
	return ch.size > 0
}

func (ch *channel) push(v uint32) {
	ch.buf[ch.tail] = v
	ch.tail = (ch.tail + 1) % ch.limit
	ch.size++
}

func (ch *channel) pop() uint32 {
	v := ch.buf[ch.head]
	ch.head = (ch.head + 1) % ch.limit
	ch.size--
	return v
}

// cleanupIfPossible destroys the channel once it is closed and the
// last waiter has detached. This is the only place a zombie channel is
// freed outside of bus-wide teardown.
func (ch *channel) cleanupIfPossible() {
	if !ch.closed || ch.waiters != 0 {
		return
	}
	if ch.zombie != nil {
		ch.bus.zombies.Remove(ch.zombie)
		ch.zombie = nil
	}
	ch.buf = nil
}
