// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus_test

import (
	"errors"
	"slices"
	"testing"

	"code.hybscloud.com/cbus"
	"code.hybscloud.com/kont"
)

func TestExprProducerConsumer(t *testing.T) {
	b := cbus.New()
	h := b.Open(1)
	ex := cbus.NewExecutor(b)

	producer := cbus.ExprLoop(uint32(0), func(i uint32) kont.Expr[kont.Either[uint32, error]] {
		if i == 5 {
			return kont.ExprReturn(kont.Right[uint32, error](nil))
		}
		return cbus.ExprSendBind(h, i, func(err error) kont.Expr[kont.Either[uint32, error]] {
			if err != nil {
				return kont.ExprReturn(kont.Right[uint32, error](err))
			}
			return kont.ExprReturn(kont.Left[uint32, error](i + 1))
		})
	})
	consumer := cbus.ExprLoop(recvOutcome{}, func(st recvOutcome) kont.Expr[kont.Either[recvOutcome, recvOutcome]] {
		if len(st.vals) == 5 {
			return kont.ExprReturn(kont.Right[recvOutcome](st))
		}
		return cbus.ExprRecvBind(h, func(v uint32, err error) kont.Expr[kont.Either[recvOutcome, recvOutcome]] {
			if err != nil {
				st.err = err
				return kont.ExprReturn(kont.Right[recvOutcome](st))
			}
			st.vals = append(st.vals, v)
			return kont.ExprReturn(kont.Left[recvOutcome, recvOutcome](st))
		})
	})

	p := cbus.SpawnExpr(ex, producer)
	c := cbus.SpawnExpr(ex, consumer)
	if left := ex.RunUntilIdle(); left != 0 {
		t.Fatalf("suspended tasks got %d, want 0", left)
	}
	if err := p.Result(); err != nil {
		t.Fatalf("producer got %v, want nil", err)
	}
	out := c.Result()
	if out.err != nil || !slices.Equal(out.vals, []uint32{0, 1, 2, 3, 4}) {
		t.Fatalf("consumer got %v, want [0 1 2 3 4]", out)
	}
}

func TestExprBatchStepping(t *testing.T) {
	b := cbus.New()
	h := b.Open(4)

	sender := cbus.ExprSendBatchBind(h, []uint32{1, 2, 3}, func(n int, err error) kont.Expr[int] {
		if err != nil {
			return kont.ExprReturn(-1)
		}
		return kont.ExprReturn(n)
	})
	n, susp := cbus.Step[int](sender)
	if susp == nil {
		t.Fatal("expected suspension for SendBatch")
	}
	if op, ok := susp.Op().(cbus.SendBatch); !ok || len(op.Values) != 3 {
		t.Fatalf("expected SendBatch with 3 values, got %T", susp.Op())
	}
	n, susp, err := cbus.Advance(b, susp)
	if err != nil || susp != nil {
		t.Fatalf("Advance got (%v, %v)", susp, err)
	}
	if n != 3 {
		t.Fatalf("batch count got %d, want 3", n)
	}

	buf := make([]uint32, 2)
	receiver := cbus.ExprRecvBatchBind(h, buf, func(n int, err error) kont.Expr[int] {
		if err != nil {
			return kont.ExprReturn(-1)
		}
		return kont.ExprReturn(n)
	})
	m, susp2 := cbus.Step[int](receiver)
	if susp2 == nil {
		t.Fatal("expected suspension for RecvBatch")
	}
	m, susp2, err = cbus.Advance(b, susp2)
	if err != nil || susp2 != nil {
		t.Fatalf("Advance got (%v, %v)", susp2, err)
	}
	if m != 2 || !slices.Equal(buf, []uint32{1, 2}) {
		t.Fatalf("got count %d buf %v, want 2 [1 2]", m, buf)
	}
	if occ, _ := b.Len(h); occ != 1 {
		t.Fatalf("Len got %d, want 1", occ)
	}
}

func TestExprBroadcastBindStepping(t *testing.T) {
	b := cbus.New()
	h0 := b.Open(1)
	h1 := b.Open(1)

	bc := cbus.ExprBroadcastBind(7, func(err error) kont.Expr[error] {
		return kont.ExprReturn(err)
	})
	_, susp := cbus.Step[error](bc)
	if susp == nil {
		t.Fatal("expected suspension for Broadcast")
	}
	if op, ok := susp.Op().(cbus.Broadcast); !ok || op.Value != 7 {
		t.Fatalf("expected Broadcast{7}, got %T", susp.Op())
	}
	result, susp, err := cbus.Advance(b, susp)
	if err != nil || susp != nil {
		t.Fatalf("Advance got (%v, %v)", susp, err)
	}
	if result != nil {
		t.Fatalf("broadcast got %v, want nil", result)
	}
	for _, h := range []cbus.Handle{h0, h1} {
		if v, err := b.TryRecv(h); err != nil || v != 7 {
			t.Fatalf("TryRecv(%d) got (%d, %v), want (7, nil)", h, v, err)
		}
	}
}

func TestExprLoopCompletesWithoutEffect(t *testing.T) {
	countdown := cbus.ExprLoop(3, func(i int) kont.Expr[kont.Either[int, string]] {
		if i == 0 {
			return kont.ExprReturn(kont.Right[int]("done"))
		}
		return kont.ExprReturn(kont.Left[int, string](i - 1))
	})
	result, susp := cbus.Step[string](countdown)
	if susp != nil {
		t.Fatal("pure loop should complete without suspension")
	}
	if result != "done" {
		t.Fatalf("got %q, want %q", result, "done")
	}
}

func TestReifyReflectRoundTrip(t *testing.T) {
	b := cbus.New()
	h := b.Open(1)
	ex := cbus.NewExecutor(b)

	expr := cbus.Reify(sendOne(h, 21))
	back := cbus.Reflect(expr)
	task := cbus.Spawn(ex, back)
	if left := ex.RunUntilIdle(); left != 0 {
		t.Fatalf("suspended tasks got %d, want 0", left)
	}
	if err := task.Result(); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if v, err := b.TryRecv(h); err != nil || v != 21 {
		t.Fatalf("TryRecv got (%d, %v), want (21, nil)", v, err)
	}
}

func TestExprErrorInBand(t *testing.T) {
	b := cbus.New()
	ex := cbus.NewExecutor(b)
	task := cbus.SpawnExpr(ex, cbus.ExprSendBind(42, 1, func(err error) kont.Expr[error] {
		return kont.ExprReturn(err)
	}))
	ex.RunUntilIdle()
	if !errors.Is(task.Result(), cbus.ErrNoChannel) {
		t.Fatalf("got %v, want ErrNoChannel", task.Result())
	}
}
