// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
)

func TestSolveSphereCylinderContactMovesSphereOnly(t *testing.T) {
	cyl := &Cylinder{Position: mathf.Zero, Orientation: mathf.QuatIdentity, Radius: 1, HalfHeight: 2, Mass: 1, Type: Static}
	sphere := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1, Mass: 1, Type: Dynamic}

	cylPosBefore := cyl.Position
	c := Contact{A: BodyRef{SphereBody, 0}, B: BodyRef{CylinderBody, 0}, Normal: mathf.NewVec3(1, 0, 0), Depth: 0.5, Friction: 0, Restitution: 0}
	solveSphereCylinderContact(c, sphere, cyl)

	if cyl.Position != cylPosBefore {
		t.Errorf("cylinder moved to %v, want unchanged (ad-hoc solve only moves the sphere)", cyl.Position)
	}
	if diff := absf32(sphere.Position.X - 2.0); diff > 1e-5 {
		t.Errorf("sphere.Position.X = %g, want 2 (pushed out by the full depth)", sphere.Position.X)
	}
}

func TestSolveSphereCylinderContactStaticSphereUnaffected(t *testing.T) {
	cyl := &Cylinder{Position: mathf.Zero, Orientation: mathf.QuatIdentity, Radius: 1, HalfHeight: 2, Mass: 1, Type: Static}
	sphere := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1, Mass: 1, Type: Static}

	c := Contact{A: BodyRef{SphereBody, 0}, B: BodyRef{CylinderBody, 0}, Normal: mathf.NewVec3(1, 0, 0), Depth: 0.5}
	solveSphereCylinderContact(c, sphere, cyl)

	if sphere.Position != mathf.NewVec3(1.5, 0, 0) {
		t.Errorf("static sphere moved to %v, want unchanged", sphere.Position)
	}
}
