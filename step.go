// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a bus protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended bus operation once.
// DispatchBus is non-blocking: it returns iox.ErrWouldBlock when the
// ring buffer cannot make progress (the transfer boundary).
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion. On iox.ErrWouldBlock, the
// suspension is unconsumed and may be retried after the channel drains
// or fills. A handle that no longer resolves is not an error here: the
// protocol is resumed with ErrNoChannel in-band and decides itself.
func Advance[R any](b *Bus, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	op, ok := susp.Op().(busDispatcher)
	if !ok {
		panic("cbus: unhandled effect in Advance")
	}
	v, err := op.DispatchBus(b)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
