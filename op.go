// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// busDispatcher is the structural interface for bus operations.
// DispatchBus is non-blocking: it returns iox.ErrWouldBlock at the
// transfer boundary when the ring buffer cannot make progress, leaving
// the suspension unconsumed for retry. Any other failure is delivered
// in-band as a Left resumption, so the protocol observes it and the
// retry loop propagates instead of suspending.
//
// parkQueue names the wakeup queue a blocked task should suspend on:
// the channel's send- or recv-side queue depending on the operation's
// direction. A nil channel means no valid wait target exists right now
// and the dispatch should simply be retried.
type busDispatcher interface {
	DispatchBus(b *Bus) (kont.Resumed, error)
	parkQueue(b *Bus) (*channel, *waitQueue)
}

// Pre-boxed Resumed values for dispatch results. The Either values are
// non-zero-size, so boxing into Resumed (any) allocates without
// pre-allocation. ErrNoChannel is the only non-transient failure a
// transfer primitive can produce.
var (
	okUnit        kont.Resumed = kont.Right[error](struct{}{})
	noChannelUnit kont.Resumed = kont.Left[error, struct{}](ErrNoChannel)
	noChannelU32  kont.Resumed = kont.Left[error, uint32](ErrNoChannel)
	noChannelInt  kont.Resumed = kont.Left[error, int](ErrNoChannel)
)

// Send is the effect operation for sending one value on a channel.
// Perform(Send{Channel: h, Value: v}) resumes with Either[error, struct{}].
type Send struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Channel Handle
	Value   uint32
}

// DispatchBus handles Send on the bus.
// Non-blocking: returns iox.ErrWouldBlock if the ring buffer is full.
func (s Send) DispatchBus(b *Bus) (kont.Resumed, error) {
	err := b.TrySend(s.Channel, s.Value)
	if err == nil {
		return okUnit, nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return noChannelUnit, nil
}

func (s Send) parkQueue(b *Bus) (*channel, *waitQueue) {
	ch := b.lookup(s.Channel)
	if ch == nil {
		return nil, nil
	}
	return ch, &ch.senders
}

// Recv is the effect operation for receiving one value from a channel.
// Perform(Recv{Channel: h}) resumes with Either[error, uint32].
type Recv struct {
	kont.Phantom[kont.Either[error, uint32]]
	Channel Handle
}

// DispatchBus handles Recv on the bus.
// Non-blocking: returns iox.ErrWouldBlock if the ring buffer is empty.
func (r Recv) DispatchBus(b *Bus) (kont.Resumed, error) {
	v, err := b.TryRecv(r.Channel)
	if err == nil {
		return kont.Right[error](v), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return noChannelU32, nil
}

func (r Recv) parkQueue(b *Bus) (*channel, *waitQueue) {
	ch := b.lookup(r.Channel)
	if ch == nil {
		return nil, nil
	}
	return ch, &ch.receivers
}

// Broadcast is the effect operation for writing one value to every
// open channel, atomically across channels.
// Perform(Broadcast{Value: v}) resumes with Either[error, struct{}].
type Broadcast struct {
	kont.Phantom[kont.Either[error, struct{}]]
	Value uint32
}

// DispatchBus handles Broadcast on the bus.
// Non-blocking: returns iox.ErrWouldBlock if any open channel
// currently lacks space, with nothing written.
func (o Broadcast) DispatchBus(b *Bus) (kont.Resumed, error) {
	err := b.TryBroadcast(o.Value)
	if err == nil {
		return okUnit, nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return noChannelUnit, nil
}

// parkQueue picks the send queue of any currently-full channel: a
// broadcast cannot proceed until every full channel drains, so any
// such channel is a valid proxy wait target.
func (o Broadcast) parkQueue(b *Bus) (*channel, *waitQueue) {
	for _, ch := range b.slots {
		if ch != nil && !ch.hasSpace() {
			return ch, &ch.senders
		}
	}
	return nil, nil
}

// SendBatch is the effect operation for pushing a batch of values.
// Perform(SendBatch{Channel: h, Values: data}) resumes with
// Either[error, int] carrying the count actually pushed, which may be
// less than len(Values).
type SendBatch struct {
	kont.Phantom[kont.Either[error, int]]
	Channel Handle
	Values  []uint32
}

// DispatchBus handles SendBatch on the bus.
// Non-blocking: returns iox.ErrWouldBlock only when no space exists.
func (s SendBatch) DispatchBus(b *Bus) (kont.Resumed, error) {
	n, err := b.TrySendBatch(s.Channel, s.Values)
	if err == nil {
		return kont.Right[error](n), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return noChannelInt, nil
}

func (s SendBatch) parkQueue(b *Bus) (*channel, *waitQueue) {
	ch := b.lookup(s.Channel)
	if ch == nil {
		return nil, nil
	}
	return ch, &ch.senders
}

// RecvBatch is the effect operation for popping a batch of values into
// Buf. Perform(RecvBatch{Channel: h, Buf: buf}) resumes with
// Either[error, int] carrying the count popped into Buf.
type RecvBatch struct {
	kont.Phantom[kont.Either[error, int]]
	Channel Handle
	Buf     []uint32
}

// DispatchBus handles RecvBatch on the bus.
// Non-blocking: returns iox.ErrWouldBlock only when the buffer is empty.
func (r RecvBatch) DispatchBus(b *Bus) (kont.Resumed, error) {
	n, err := b.TryRecvBatch(r.Channel, r.Buf)
	if err == nil {
		return kont.Right[error](n), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return noChannelInt, nil
}

func (r RecvBatch) parkQueue(b *Bus) (*channel, *waitQueue) {
	ch := b.lookup(r.Channel)
	if ch == nil {
		return nil, nil
	}
	return ch, &ch.receivers
}
