// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cartpole

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
)

func TestNewCartPoleComposition(t *testing.T) {
	w := physics.NewWorld()
	cfg := DefaultConfig()
	cp := New(w, mathf.Zero, cfg)

	if w.Boxes[cp.CartIndex].Type != physics.Kinematic {
		t.Errorf("cart type = %v, want Kinematic", w.Boxes[cp.CartIndex].Type)
	}
	if w.Cylinders[cp.PoleIndex].Type != physics.Dynamic {
		t.Errorf("pole type = %v, want Dynamic", w.Cylinders[cp.PoleIndex].Type)
	}
	if len(w.RevoluteJoints) != 1 {
		t.Fatalf("revolute joints = %d, want 1", len(w.RevoluteJoints))
	}
}

func TestCartPoleInitialAngleMatchesConfig(t *testing.T) {
	w := physics.NewWorld()
	cfg := DefaultConfig()
	cp := New(w, mathf.Zero, cfg)

	got := cp.PoleAngle()
	if diff := absf32(got - cfg.InitialAngle); diff > 1e-4 {
		t.Errorf("pole angle = %g, want %g (diff %g)", got, cfg.InitialAngle, diff)
	}
}

func TestCartPoleCheckFailurePositionLimit(t *testing.T) {
	w := physics.NewWorld()
	cfg := DefaultConfig()
	cp := New(w, mathf.Zero, cfg)

	w.Boxes[cp.CartIndex].Position.X = cfg.PositionLimit + 1
	if !cp.CheckFailure() {
		t.Error("expected failure once cart exceeds position limit")
	}
	if !cp.Failed() {
		t.Error("expected Failed() to latch true after CheckFailure")
	}
}

func TestCartPoleReset(t *testing.T) {
	w := physics.NewWorld()
	cfg := DefaultConfig()
	cp := New(w, mathf.Zero, cfg)

	w.Boxes[cp.CartIndex].Position.X = 10
	w.Boxes[cp.CartIndex].Velocity.X = 5
	cp.failed = true

	cp.Reset()

	if cp.Failed() {
		t.Error("expected Failed() false after Reset")
	}
	if w.Boxes[cp.CartIndex].Velocity.X != 0 {
		t.Errorf("cart velocity.X = %g after reset, want 0", w.Boxes[cp.CartIndex].Velocity.X)
	}
}

func TestBatchRejectsOversizedLine(t *testing.T) {
	w := physics.NewWorld()
	cfg := DefaultConfig()
	cfg.PositionLimit = 1

	if _, err := NewBatch(w, 100, 1, cfg); err == nil {
		t.Error("expected an error for a batch that exceeds PositionLimit")
	}
}

func TestBatchStatesLength(t *testing.T) {
	w := physics.NewWorld()
	batch, err := NewBatch(w, 3, 2, DefaultConfig())
	if err != nil {
		t.Fatalf("NewBatch: %v", err)
	}
	if got := len(batch.States()); got != 3 {
		t.Errorf("len(States()) = %d, want 3", got)
	}
}
