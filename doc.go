// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cbus provides a cooperative-scheduling message bus: a dynamic set of
// bounded ring-buffered channels that cooperatively scheduled tasks use to
// exchange unsigned integers, with atomic broadcast-to-all-channels and
// batched multi-item transfer.
//
// # Architecture
//
//   - Registry: [New] creates a [Bus] owning a sparse, reusable table of channel slots addressed by [Handle]. Closed channels with suspended waiters survive on a zombie list until the last waiter detaches.
//   - Non-blocking: [Bus.TrySend], [Bus.TryRecv], [Bus.TryBroadcast], [Bus.TrySendBatch], [Bus.TryRecvBatch] return [code.hybscloud.com/iox.ErrWouldBlock] when the ring buffer cannot make progress, and [ErrNoChannel] when the handle no longer resolves.
//   - Blocking: bus operations are effect operations on [code.hybscloud.com/kont]; an [Executor] drives task protocols, parking them on per-channel FIFO wakeup queues at the would-block boundary and retrying after a matching transfer or closure wakes them.
//   - Atomicity: [Bus.TryBroadcast] is all-or-nothing across every open channel; no channel is partially written.
//
// # API Topologies
//
//   - Operations: [Send], [Recv], [Broadcast], [SendBatch], [RecvBatch].
//   - Cont-world: [SendBind], [RecvBind], [BroadcastBind], [SendBatchBind], [RecvBatchBind].
//   - Expr-world: Zero-allocation variants like [ExprSendBind], [ExprRecvBind], etc. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop] and [ExprLoop] for trampoline-based iterative protocols.
//
// # Integration
//
//   - Scheduling: [NewExecutor], [Spawn], [SpawnExpr] run protocols as cooperative tasks; [Executor.RunUntilIdle] and [Executor.Run] drive the FIFO run queue. [Submit] and [SubmitExpr] inject protocols from other goroutines through a bounded MPSC inbox.
//   - Stepping: [Step] and [Advance] evaluate computations one effect at a time, making them easy to integrate with a proactor loop.
//
// All bus and executor state is confined to a single cooperative-scheduling
// domain: exactly one goroutine drives it. Only Submit and SubmitExpr may be
// called from other goroutines.
//
// # Example
//
//	b := cbus.New()
//	ch := b.Open(4)
//	ex := cbus.NewExecutor(b)
//	producer := cbus.Spawn(ex, cbus.SendBind(ch, 42, func(err error) kont.Eff[error] {
//		return kont.Pure(err)
//	}))
//	consumer := cbus.Spawn(ex, cbus.RecvBind(ch, func(v uint32, err error) kont.Eff[uint32] {
//		return kont.Pure(v)
//	}))
//	ex.Run()
//	_, _ = producer.Result(), consumer.Result() // nil, 42
package cbus
