// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/kont"
)

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

func errBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(error) kont.Expr[B])
	e := current.(kont.Either[error, struct{}])
	err, _ := e.GetLeft()
	result := f(err)
	return kont.Erased(result.Value), result.Frame
}

// ExprSendBind sends a value and passes the outcome to f in Go style.
// Fuses ExprPerform(Send{...}) + ExprBind + Either unpacking.
func ExprSendBind[B any](h Handle, v uint32, f func(error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = errBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send{Channel: h, Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(uint32, error) kont.Expr[B])
	e := current.(kont.Either[error, uint32])
	var result kont.Expr[B]
	if err, ok := e.GetLeft(); ok {
		result = f(0, err)
	} else {
		v, _ := e.GetRight()
		result = f(v, nil)
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives a value and passes (value, error) to f in Go style.
// Fuses ExprPerform(Recv{...}) + ExprBind + Either unpacking.
func ExprRecvBind[B any](h Handle, f func(uint32, error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv{Channel: h}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprBroadcastBind broadcasts a value and passes the outcome to f in
// Go style. Fuses ExprPerform(Broadcast{...}) + ExprBind + Either unpacking.
func ExprBroadcastBind[B any](v uint32, f func(error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = errBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Broadcast{Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func countBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(int, error) kont.Expr[B])
	e := current.(kont.Either[error, int])
	var result kont.Expr[B]
	if err, ok := e.GetLeft(); ok {
		result = f(0, err)
	} else {
		n, _ := e.GetRight()
		result = f(n, nil)
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprSendBatchBind pushes a batch and passes (count, error) to f in
// Go style. Fuses ExprPerform(SendBatch{...}) + ExprBind + Either unpacking.
func ExprSendBatchBind[B any](h Handle, data []uint32, f func(int, error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = countBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = SendBatch{Channel: h, Values: data}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprRecvBatchBind pops a batch into buf and passes (count, error) to
// f in Go style. Fuses ExprPerform(RecvBatch{...}) + ExprBind + Either unpacking.
func ExprRecvBatchBind[B any](h Handle, buf []uint32, f func(int, error) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = countBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = RecvBatch{Channel: h, Buf: buf}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
