// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cbus_test

import (
	"testing"

	"code.hybscloud.com/cbus"
	"code.hybscloud.com/kont"
)

func TestTaskSerialMonotonic(t *testing.T) {
	b := cbus.New()
	ex := cbus.NewExecutor(b)

	t1 := cbus.Spawn(ex, kont.Pure(0))
	t2 := cbus.Spawn(ex, kont.Pure(0))
	t3 := cbus.Spawn(ex, kont.Pure(0))

	if t1.Serial() >= t2.Serial() {
		t.Fatalf("serials not increasing: %d >= %d", t1.Serial(), t2.Serial())
	}
	if t2.Serial() >= t3.Serial() {
		t.Fatalf("serials not increasing: %d >= %d", t2.Serial(), t3.Serial())
	}
}

func TestTaskStateBeforeAndAfterRun(t *testing.T) {
	b := cbus.New()
	ex := cbus.NewExecutor(b)

	task := cbus.Spawn(ex, kont.Pure(uint32(7)))
	if task.Done() {
		t.Fatal("task done before the executor was driven")
	}
	if v := task.Result(); v != 0 {
		t.Fatalf("Result before run got %d, want zero", v)
	}
	ex.RunUntilIdle()
	if !task.Done() {
		t.Fatal("task not done after RunUntilIdle")
	}
	if v := task.Result(); v != 7 {
		t.Fatalf("Result got %d, want 7", v)
	}
}
