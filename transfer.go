// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/iox"
)

// TrySend pushes one value into the channel's ring buffer.
// Non-blocking: returns [code.hybscloud.com/iox.ErrWouldBlock] when
// the buffer is at capacity, [ErrNoChannel] when the handle does not
// resolve. A new item may unblock one receiver.
func (b *Bus) TrySend(h Handle, v uint32) error {
	ch := b.lookup(h)
	if ch == nil {
		return ErrNoChannel
	}
	if !ch.hasSpace() {
		return iox.ErrWouldBlock
	}
	ch.push(v)
	ch.receivers.wakeOne()
	return nil
}

// TryRecv pops one value from the channel's ring buffer.
// Non-blocking: returns [code.hybscloud.com/iox.ErrWouldBlock] when
// the buffer is empty, [ErrNoChannel] when the handle does not
// resolve. A freed slot may unblock one sender.
func (b *Bus) TryRecv(h Handle) (uint32, error) {
	ch := b.lookup(h)
	if ch == nil {
		return 0, ErrNoChannel
	}
	if !ch.hasData() {
		return 0, iox.ErrWouldBlock
	}
	v := ch.pop()
	ch.senders.wakeOne()
	return v, nil
}

// TryBroadcast pushes one value into every open channel, all or
// nothing. If any open channel currently lacks space it returns
// [code.hybscloud.com/iox.ErrWouldBlock] without mutating anything;
// no channel is partially written. Returns [ErrNoChannel] when the
// bus has zero open channels. On success one receiver per channel may
// be unblocked.
func (b *Bus) TryBroadcast(v uint32) error {
	open := 0
	for _, ch := range b.slots {
		if ch == nil {
			continue
		}
		open++
		if !ch.hasSpace() {
			return iox.ErrWouldBlock
		}
	}
	if open == 0 {
		return ErrNoChannel
	}
	for _, ch := range b.slots {
		if ch == nil {
			continue
		}
		ch.push(v)
		ch.receivers.wakeOne()
	}
	return nil
}

// TrySendBatch pushes items from data until the buffer is full or the
// input is exhausted, returning how many were pushed. Partial success
// is not an error; [code.hybscloud.com/iox.ErrWouldBlock] is returned
// only when no space exists at all. An arbitrary number of items
// became available, so every receiver is woken.
func (b *Bus) TrySendBatch(h Handle, data []uint32) (int, error) {
	ch := b.lookup(h)
	if ch == nil {
		return 0, ErrNoChannel
	}
	if !ch.hasSpace() {
		return 0, iox.ErrWouldBlock
	}
	sent := 0
	for sent < len(data) && ch.hasSpace() {
		ch.push(data[sent])
		sent++
	}
	ch.receivers.wakeAll()
	return sent, nil
}

// TryRecvBatch pops up to len(buf) items into buf, returning how many
// were popped. [code.hybscloud.com/iox.ErrWouldBlock] is returned only
// when the buffer is empty. Exactly one sender is woken, even when the
// batch freed several slots; the asymmetry with TrySendBatch's
// wake-all is a deliberate property of the protocol.
func (b *Bus) TryRecvBatch(h Handle, buf []uint32) (int, error) {
	ch := b.lookup(h)
	if ch == nil {
		return 0, ErrNoChannel
	}
	if !ch.hasData() {
		return 0, iox.ErrWouldBlock
	}
	recvd := 0
	for recvd < len(buf) && ch.hasData() {
		buf[recvd] = ch.pop()
		recvd++
	}
	ch.senders.wakeOne()
	return recvd, nil
}
