// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
)

func TestRollingResistanceDampsAtSixtyHz(t *testing.T) {
	dt := float32(1.0 / 60.0)
	vel := mathf.NewVec3(10, 0, 0)
	got := applyRollingResistance(vel, dt)
	want := vel.Scale(0.99)
	if diff := got.Sub(want).Len(); diff > 1e-4 {
		t.Errorf("damped velocity = %v, want %v", got, want)
	}
}

func TestRollingResistanceSnapsToZeroBelowThreshold(t *testing.T) {
	dt := float32(1.0 / 60.0)
	vel := mathf.NewVec3(1e-4, 0, 0)
	if got := applyRollingResistance(vel, dt); got != mathf.Zero {
		t.Errorf("applyRollingResistance(%v) = %v, want zero", vel, got)
	}
}

func TestRollingResistanceFactorNeverNegative(t *testing.T) {
	if got := rollingResistanceFactor(10); got < 0 {
		t.Errorf("rollingResistanceFactor(10) = %g, want >= 0", got)
	}
}

func TestQuatNormWithinTolerance(t *testing.T) {
	if !quatNormWithinTolerance(mathf.QuatIdentity) {
		t.Error("identity quaternion should be within tolerance")
	}
	denormalized := mathf.Quat{X: 0, Y: 0, Z: 0, W: 2}
	if quatNormWithinTolerance(denormalized) {
		t.Error("norm-2 quaternion should not be within tolerance")
	}
}

func TestSpheresOverlap(t *testing.T) {
	a := &Sphere{Position: mathf.Zero, Radius: 1}
	b := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1}
	if !spheresOverlap(a, b, 0) {
		t.Error("expected overlap at distance 1.5 with combined radius 2")
	}
	if spheresOverlap(a, b, 0.6) {
		t.Error("expected no overlap once slop exceeds the actual penetration")
	}
}
