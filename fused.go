// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/kont"
)

// SendBind sends a value and passes the outcome to f in Go style.
// f receives nil on success or ErrNoChannel once the channel is gone.
// Fuses Perform(Send{...}) + Bind + Either unpacking.
func SendBind[B any](h Handle, v uint32, f func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Send{Channel: h, Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[B] {
		err, _ := e.GetLeft()
		return f(err)
	})
}

// RecvBind receives a value and passes (value, error) to f in Go style.
// Fuses Perform(Recv{...}) + Bind + Either unpacking.
func RecvBind[B any](h Handle, f func(uint32, error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv{Channel: h}), func(e kont.Either[error, uint32]) kont.Eff[B] {
		if err, ok := e.GetLeft(); ok {
			return f(0, err)
		}
		v, _ := e.GetRight()
		return f(v, nil)
	})
}

// BroadcastBind broadcasts a value to every open channel and passes
// the outcome to f in Go style.
// Fuses Perform(Broadcast{...}) + Bind + Either unpacking.
func BroadcastBind[B any](v uint32, f func(error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Broadcast{Value: v}), func(e kont.Either[error, struct{}]) kont.Eff[B] {
		err, _ := e.GetLeft()
		return f(err)
	})
}

// SendBatchBind pushes a batch and passes (count, error) to f in Go
// style. The count may be less than len(data); partial success is not
// an error. Fuses Perform(SendBatch{...}) + Bind + Either unpacking.
func SendBatchBind[B any](h Handle, data []uint32, f func(int, error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(SendBatch{Channel: h, Values: data}), func(e kont.Either[error, int]) kont.Eff[B] {
		if err, ok := e.GetLeft(); ok {
			return f(0, err)
		}
		n, _ := e.GetRight()
		return f(n, nil)
	})
}

// RecvBatchBind pops a batch into buf and passes (count, error) to f
// in Go style. Fuses Perform(RecvBatch{...}) + Bind + Either unpacking.
func RecvBatchBind[B any](h Handle, buf []uint32, f func(int, error) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(RecvBatch{Channel: h, Buf: buf}), func(e kont.Either[error, int]) kont.Eff[B] {
		if err, ok := e.GetLeft(); ok {
			return f(0, err)
		}
		n, _ := e.GetRight()
		return f(n, nil)
	})
}
