// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
)

func TestInvMassByBodyType(t *testing.T) {
	cases := []struct {
		bodyType BodyType
		mass     float32
		want     float32
	}{
		{Dynamic, 2, 0.5},
		{Static, 2, 0},
		{Kinematic, 2, 0},
		{Dynamic, 0, 0},
	}
	for _, c := range cases {
		if got := invMass(c.bodyType, c.mass); got != c.want {
			t.Errorf("invMass(%v, %g) = %g, want %g", c.bodyType, c.mass, got, c.want)
		}
	}
}

func TestSphereMassScalesWithVolume(t *testing.T) {
	m1 := SphereMass(1, 1)
	m2 := SphereMass(2, 1)
	// Volume scales with r^3, so doubling the radius must octuple the mass.
	if diff := absf32(m2 - m1*8); diff > 1e-3 {
		t.Errorf("SphereMass(2,1) = %g, want ~%g (8x SphereMass(1,1)=%g)", m2, m1*8, m1)
	}
}

func TestBoxMassDensity(t *testing.T) {
	half := mathf.NewVec3(1, 2, 3)
	got := BoxMass(half, 2)
	want := float32(8 * 1 * 2 * 3 * 2)
	if got != want {
		t.Errorf("BoxMass = %g, want %g", got, want)
	}
}

func TestCylinderMassDoublesWithDensity(t *testing.T) {
	m1 := CylinderMass(1, 2, 1)
	m2 := CylinderMass(1, 2, 2)
	if diff := absf32(m2 - m1*2); diff > 1e-3 {
		t.Errorf("CylinderMass(...,2) = %g, want 2x CylinderMass(...,1)=%g", m2, m1)
	}
}

func TestPlaneBasisOrthonormal(t *testing.T) {
	p := &Plane{Normal: mathf.NewVec3(0, 1, 0)}
	u, v := p.Basis()
	if diff := absf32(u.Dot(p.Normal)); diff > 1e-5 {
		t.Errorf("u.Dot(normal) = %g, want ~0", diff)
	}
	if diff := absf32(v.Dot(p.Normal)); diff > 1e-5 {
		t.Errorf("v.Dot(normal) = %g, want ~0", diff)
	}
	if diff := absf32(u.Dot(v)); diff > 1e-5 {
		t.Errorf("u.Dot(v) = %g, want ~0", diff)
	}
}
