// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// inboxCapacity bounds the cross-goroutine submission queue.
// 64 absorbs submission bursts while keeping the MPSC ring small;
// Submit reports would-block past that and the caller retries.
const inboxCapacity = 64

// runnable is a task the executor can drive.
type runnable interface {
	waker
	run(ex *Executor)
}

// Executor drives cooperative tasks over one Bus. Exactly one task
// runs at a time; a task yields only by suspending at a would-block
// boundary, so bus state needs no locking while the executor runs.
//
// The run queue is strict FIFO: waking pushes to the tail, the
// scheduler pops from the head.
type Executor struct {
	bus   *Bus
	runq  []runnable
	live  int
	inbox lfq.Queue[runnable]
}

// NewExecutor creates an executor for one bus domain.
func NewExecutor(bus *Bus) *Executor {
	return &Executor{bus: bus, inbox: lfq.NewMPSC[runnable](inboxCapacity)}
}

// Bus returns the bus this executor drives.
func (ex *Executor) Bus() *Bus {
	return ex.bus
}

// Task is one cooperative computation spawned on an [Executor].
// Its protocol runs when the executor drives it; the result is
// available once Done reports true.
type Task[R any] struct {
	ex      *Executor
	serial  Serial
	expr    kont.Expr[R]
	susp    *kont.Suspension[R]
	entry   *wakeEntry
	result  R
	started bool
	done    bool
}

// Serial returns the serial number assigned to this task.
func (t *Task[R]) Serial() Serial {
	return t.serial
}

// Done reports whether the task's protocol ran to completion.
func (t *Task[R]) Done() bool {
	return t.done
}

// Result returns the protocol's result. Zero until Done.
func (t *Task[R]) Result() R {
	return t.result
}

// wake pushes the task onto its executor's run-queue tail.
func (t *Task[R]) wake() {
	t.ex.runq = append(t.ex.runq, t)
}

// run drives the task until it completes or parks. Each retry
// dispatches the suspended operation from scratch, so a closed channel
// is observed as ErrNoChannel on the re-resolve rather than stale
// success: a wake is a hint to retry, never a guarantee.
func (t *Task[R]) run(ex *Executor) {
	if e := t.entry; e != nil {
		// Resume epilogue for the park that suspended us.
		t.entry = nil
		e.release()
	}
	if !t.started {
		t.started = true
		t.result, t.susp = kont.StepExpr(t.expr)
		t.expr = kont.Expr[R]{}
	}
	for t.susp != nil {
		op, ok := t.susp.Op().(busDispatcher)
		if !ok {
			panic("cbus: unhandled effect in Executor")
		}
		v, err := op.DispatchBus(ex.bus)
		if err != nil {
			ch, q := op.parkQueue(ex.bus)
			if ch == nil {
				// No wait target (broadcast raced with a close);
				// dispatch again.
				continue
			}
			t.entry = q.park(t, ch)
			return
		}
		t.result, t.susp = t.susp.Resume(v)
	}
	t.done = true
	ex.live--
}

// Spawn enqueues a Cont-world protocol as a new task. Nothing runs
// until the executor is driven.
func Spawn[R any](ex *Executor, protocol kont.Eff[R]) *Task[R] {
	return SpawnExpr(ex, kont.Reify(protocol))
}

// SpawnExpr enqueues an Expr-world protocol as a new task. Nothing
// runs until the executor is driven.
func SpawnExpr[R any](ex *Executor, protocol kont.Expr[R]) *Task[R] {
	t := &Task[R]{ex: ex, serial: nextSerial(), expr: protocol}
	ex.live++
	ex.runq = append(ex.runq, t)
	return t
}

// Submit enqueues a Cont-world protocol from any goroutine through the
// bounded MPSC inbox. Returns iox.ErrWouldBlock when the inbox is
// full; retry later. The returned task must not be inspected until the
// driving goroutine reports it done.
func Submit[R any](ex *Executor, protocol kont.Eff[R]) (*Task[R], error) {
	return SubmitExpr(ex, kont.Reify(protocol))
}

// SubmitExpr enqueues an Expr-world protocol from any goroutine
// through the bounded MPSC inbox.
func SubmitExpr[R any](ex *Executor, protocol kont.Expr[R]) (*Task[R], error) {
	t := &Task[R]{ex: ex, serial: nextSerial(), expr: protocol}
	var r runnable = t
	if err := ex.inbox.Enqueue(&r); err != nil {
		return nil, err
	}
	return t, nil
}

// adopt drains the submission inbox into the run queue.
func (ex *Executor) adopt() bool {
	adopted := false
	for {
		r, err := ex.inbox.Dequeue()
		if err != nil {
			return adopted
		}
		ex.live++
		ex.runq = append(ex.runq, r)
		adopted = true
	}
}

// RunUntilIdle drives tasks until the run queue and the inbox are both
// empty, then returns the number of live tasks still suspended on
// wakeup queues. Deterministic: no waiting is involved, so it is the
// natural probe for "who is parked" after a sequence of operations.
func (ex *Executor) RunUntilIdle() int {
	for {
		for len(ex.runq) > 0 {
			r := ex.runq[0]
			ex.runq = ex.runq[1:]
			r.run(ex)
		}
		if !ex.adopt() {
			return ex.live
		}
	}
}

// Run drives tasks until every spawned and submitted task completes.
// When all remaining tasks are suspended, the inbox is polled with
// adaptive backoff (iox.Backoff) so a producer submitted from another
// goroutine can unpark them. A protocol set that can never progress
// spins in backoff.
func (ex *Executor) Run() {
	var bo iox.Backoff
	for {
		progress := false
		for len(ex.runq) > 0 {
			r := ex.runq[0]
			ex.runq = ex.runq[1:]
			r.run(ex)
			progress = true
		}
		if ex.adopt() {
			continue
		}
		if ex.live == 0 {
			return
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
}
