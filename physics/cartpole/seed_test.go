// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cartpole

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
	"github.com/ridgeback/kinetic/physics/builder"
)

// TestCartPoleSeedScenario is seed scenario 7: a CartPole with initial pole
// angle 0.1 rad, no applied force, and ground friction 0.8 should keep its
// cart nearly stationary while the pole continues falling over 1 second.
func TestCartPoleSeedScenario(t *testing.T) {
	w := physics.NewWorld(physics.TimeStep(1.0 / 60.0))
	groundMaterial := physics.DefaultMaterial()
	groundMaterial.Friction = 0.8
	groundIdx := builder.AddPlane(w, mathf.NewVec3(0, 1, 0), 0, 0, 0)
	w.Planes[groundIdx].Material = groundMaterial

	cfg := DefaultConfig()
	cfg.InitialAngle = 0.1
	cp := New(w, mathf.Zero, cfg)

	startX := w.Boxes[cp.CartIndex].Position.X
	startAngle := cp.PoleAngle()

	steps := int(1.0 / w.Dt)
	for i := 0; i < steps; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if drift := absf32(w.Boxes[cp.CartIndex].Position.X - startX); drift >= 1e-3 {
		t.Errorf("cart drifted %g m, want < 1e-3", drift)
	}

	angleGrowth := absf32(cp.PoleAngle()) - absf32(startAngle)
	if angleGrowth < 0.05 {
		t.Errorf("pole angle magnitude grew by %g rad, want >= 0.05", angleGrowth)
	}
}

// TestCartStabilityZeroForce is the cart-stability quantified invariant:
// with the cart Kinematic and no applied force, its position must drift by
// less than 1e-3 m over 1 s simulated, even while the revolute joint pulls
// on it from the falling pole.
func TestCartStabilityZeroForce(t *testing.T) {
	w := physics.NewWorld(physics.TimeStep(1.0 / 60.0))
	cp := New(w, mathf.Zero, DefaultConfig())

	start := w.Boxes[cp.CartIndex].Position
	steps := int(1.0 / w.Dt)
	for i := 0; i < steps; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if drift := w.Boxes[cp.CartIndex].Position.Sub(start).Len(); drift >= 1e-3 {
		t.Errorf("cart drifted %g m with zero applied force, want < 1e-3", drift)
	}
}

// TestRevoluteJointRigidity is the revolute-joint-rigidity quantified
// invariant: over 2 s simulated, the cart-side and pole-side anchor points
// of the CartPole's revolute joint never separate by more than 1e-2 m.
func TestRevoluteJointRigidity(t *testing.T) {
	w := physics.NewWorld(physics.TimeStep(1.0 / 60.0))
	cp := New(w, mathf.Zero, DefaultConfig())

	steps := int(2.0 / w.Dt)
	for i := 0; i < steps; i++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		cart := &w.Boxes[cp.CartIndex]
		pole := &w.Cylinders[cp.PoleIndex]
		joint := w.RevoluteJoints[cp.JointIndex]

		anchorOnCart := cart.Orientation.RotateVec3(joint.LocalAnchorA).Add(cart.Position)
		anchorOnPole := pole.Orientation.RotateVec3(joint.LocalAnchorB).Add(pole.Position)

		if sep := anchorOnCart.Sub(anchorOnPole).Len(); sep >= 1e-2 {
			t.Fatalf("step %d: anchor separation = %g, want < 1e-2", i, sep)
		}
	}
}
