// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus_test

import (
	"code.hybscloud.com/cbus"
	"code.hybscloud.com/kont"
)

// recvOutcome carries what a receiving protocol saw: the values in
// arrival order and the first error, if any.
type recvOutcome struct {
	vals []uint32
	err  error
}

// sendOne sends a single value and results in the send error (nil on
// success).
func sendOne(h cbus.Handle, v uint32) kont.Eff[error] {
	return cbus.SendBind(h, v, func(err error) kont.Eff[error] {
		return kont.Pure(err)
	})
}

// recvOne receives a single value.
func recvOne(h cbus.Handle) kont.Eff[recvOutcome] {
	return cbus.RecvBind(h, func(v uint32, err error) kont.Eff[recvOutcome] {
		if err != nil {
			return kont.Pure(recvOutcome{err: err})
		}
		return kont.Pure(recvOutcome{vals: []uint32{v}})
	})
}

// broadcastOne broadcasts a single value and results in the error.
func broadcastOne(v uint32) kont.Eff[error] {
	return cbus.BroadcastBind(v, func(err error) kont.Eff[error] {
		return kont.Pure(err)
	})
}

// sendAll sends vals in order, stopping at the first error.
func sendAll(h cbus.Handle, vals []uint32) kont.Eff[error] {
	return cbus.Loop(0, func(i int) kont.Eff[kont.Either[int, error]] {
		if i == len(vals) {
			return kont.Pure(kont.Right[int, error](nil))
		}
		return cbus.SendBind(h, vals[i], func(err error) kont.Eff[kont.Either[int, error]] {
			if err != nil {
				return kont.Pure(kont.Right[int, error](err))
			}
			return kont.Pure(kont.Left[int, error](i + 1))
		})
	})
}

// recvN receives n values, stopping early on error.
func recvN(h cbus.Handle, n int) kont.Eff[recvOutcome] {
	return cbus.Loop(recvOutcome{vals: make([]uint32, 0, n)}, func(st recvOutcome) kont.Eff[kont.Either[recvOutcome, recvOutcome]] {
		if len(st.vals) == n {
			return kont.Pure(kont.Right[recvOutcome](st))
		}
		return cbus.RecvBind(h, func(v uint32, err error) kont.Eff[kont.Either[recvOutcome, recvOutcome]] {
			if err != nil {
				st.err = err
				return kont.Pure(kont.Right[recvOutcome](st))
			}
			st.vals = append(st.vals, v)
			return kont.Pure(kont.Left[recvOutcome, recvOutcome](st))
		})
	})
}
