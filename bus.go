// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"container/list"
	"errors"
)

// Handle addresses one channel slot on a [Bus]. Handles are small
// non-negative integers; the lowest free index is always reused first,
// so a handle may refer to a different channel after close and reopen.
type Handle = int

// ErrNoChannel reports that a handle does not resolve to an open
// channel, or that a broadcast found no open channel at all.
var ErrNoChannel = errors.New("cbus: no channel")

// Bus is the registry owning all channels, addressed by [Handle].
// A non-nil slot at index i always holds a channel whose own index
// field equals i. Closed channels that still have suspended waiters
// stay reachable through the zombie list until the last waiter leaves.
//
// A Bus and everything on it belong to a single cooperative-scheduling
// domain; exactly one goroutine may touch it.
type Bus struct {
	slots   []*channel
	zombies list.List
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Open allocates a channel with the given ring-buffer capacity and
// returns its handle. The lowest free slot index is reused; the slot
// table grows only when no free slot exists.
//
// Capacity 0 is legal: the ring buffer is never allocated and the
// channel can never accept data, so every send attempt reports
// would-block until the channel is closed.
func (b *Bus) Open(capacity int) Handle {
	if capacity < 0 {
		panic("cbus: negative channel capacity")
	}
	index := -1
	for i, s := range b.slots {
		if s == nil {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(b.slots)
		b.slots = append(b.slots, nil)
	}
	ch := &channel{limit: capacity, bus: b, index: index}
	if capacity > 0 {
		ch.buf = make([]uint32, capacity)
	}
	b.slots[index] = ch
	return index
}

// Close marks the channel closed and removes it from the slot table,
// so no new operation can resolve the handle. Buffered, not-yet-
// delivered data becomes permanently unreachable: closing discards
// in-flight data rather than draining it.
//
// Every task suspended on either of the channel's wakeup queues is
// woken so it can observe the closure and fail with [ErrNoChannel] on
// retry. If no task was waiting the channel is destroyed immediately;
// otherwise it lingers as a zombie until the last woken waiter
// detaches.
//
// Returns [ErrNoChannel] if the handle does not resolve.
func (b *Bus) Close(h Handle) error {
	ch := b.lookup(h)
	if ch == nil {
		return ErrNoChannel
	}
	ch.closed = true
	b.slots[h] = nil
	ch.senders.wakeAll()
	ch.receivers.wakeAll()
	if ch.waiters == 0 {
		ch.buf = nil
		return nil
	}
	// Defer freeing until all waiters leave their queues.
	if ch.zombie == nil {
		ch.zombie = b.zombies.PushBack(ch)
	}
	return nil
}

// Destroy tears down the bus: every channel still in the slot table,
// then every channel still on the zombie list, then the table itself.
// No task may be suspended on the bus at this point; a residual waiter
// is a caller error, not handled gracefully. The bus must not be used
// afterwards.
func (b *Bus) Destroy() {
	for _, ch := range b.slots {
		if ch == nil {
			continue
		}
		ch.buf = nil
	}
	for e := b.zombies.Front(); e != nil; e = b.zombies.Front() {
		ch := e.Value.(*channel)
		b.zombies.Remove(e)
		ch.zombie = nil
		ch.buf = nil
	}
	b.slots = nil
}

// Channels returns the number of currently open channels.
func (b *Bus) Channels() int {
	n := 0
	for _, ch := range b.slots {
		if ch != nil {
			n++
		}
	}
	return n
}

// Zombies returns the number of closed channels kept alive by
// suspended waiters.
func (b *Bus) Zombies() int {
	return b.zombies.Len()
}

// Len returns the current occupancy of the channel's ring buffer.
// The value is exact: the bus is single-threaded by contract.
func (b *Bus) Len(h Handle) (int, error) {
	ch := b.lookup(h)
	if ch == nil {
		return 0, ErrNoChannel
	}
	return ch.size, nil
}

// Cap returns the fixed ring-buffer capacity of the channel.
func (b *Bus) Cap(h Handle) (int, error) {
	ch := b.lookup(h)
	if ch == nil {
		return 0, ErrNoChannel
	}
	return ch.limit, nil
}

// lookup resolves a handle to its open channel, or nil.
func (b *Bus) lookup(h Handle) *channel {
	if h < 0 || h >= len(b.slots) {
		return nil
	}
	return b.slots[h]
}
