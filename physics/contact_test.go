// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	"github.com/ridgeback/kinetic/internal/mathf"
)

func TestSphereSphereContactDepthAndNormal(t *testing.T) {
	a := &Sphere{Position: mathf.NewVec3(0, 0, 0), Radius: 1, Material: DefaultMaterial()}
	b := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1, Material: DefaultMaterial()}

	contacts := sphereSphereContact(BodyRef{SphereBody, 0}, BodyRef{SphereBody, 1}, a, b)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	c := contacts[0]
	if diff := absf32(c.Depth - 0.5); diff > 1e-5 {
		t.Errorf("depth = %g, want 0.5", c.Depth)
	}
	if diff := c.Normal.Sub(mathf.NewVec3(-1, 0, 0)).Len(); diff > 1e-5 {
		t.Errorf("normal = %v, want (-1,0,0)", c.Normal)
	}
}

func TestSphereSphereContactNoOverlap(t *testing.T) {
	a := &Sphere{Position: mathf.NewVec3(0, 0, 0), Radius: 1}
	b := &Sphere{Position: mathf.NewVec3(3, 0, 0), Radius: 1}
	if contacts := sphereSphereContact(BodyRef{SphereBody, 0}, BodyRef{SphereBody, 1}, a, b); contacts != nil {
		t.Errorf("expected no contact, got %v", contacts)
	}
}

func TestSpherePlaneContactSlopEngagesBeforePenetration(t *testing.T) {
	material := DefaultMaterial()
	material.Restitution = 0.5
	plane := &Plane{Normal: mathf.NewVec3(0, 1, 0), Material: material}
	// Signed distance = 0.02*radius, inside the 5% slop band but not
	// geometrically penetrating.
	sphere := &Sphere{Position: mathf.NewVec3(0, 1.02, 0), Radius: 1, Material: material}

	contacts := spherePlaneContact(BodyRef{SphereBody, 0}, sphere, BodyRef{PlaneBody, 0}, plane)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if contacts[0].Restitution != 0 {
		t.Errorf("restitution = %g, want 0 (slop band, not truly penetrating)", contacts[0].Restitution)
	}
	if contacts[0].Depth != 0 {
		t.Errorf("depth = %g, want 0 (slop band, not truly penetrating)", contacts[0].Depth)
	}
}

func TestSpherePlaneContactFiniteExtentRejectsOutside(t *testing.T) {
	plane := &Plane{Normal: mathf.NewVec3(0, 1, 0), ExtentU: 1, ExtentV: 1, Material: DefaultMaterial()}
	sphere := &Sphere{Position: mathf.NewVec3(10, 0.5, 0), Radius: 1, Material: DefaultMaterial()}
	if contacts := spherePlaneContact(BodyRef{SphereBody, 0}, sphere, BodyRef{PlaneBody, 0}, plane); contacts != nil {
		t.Errorf("expected no contact outside plane extents, got %v", contacts)
	}
}

func TestBoxPlaneContact(t *testing.T) {
	plane := &Plane{Normal: mathf.NewVec3(0, 1, 0), Material: DefaultMaterial()}
	box := &Box{Position: mathf.NewVec3(0, 0.5, 0), Orientation: mathf.QuatIdentity, HalfExtents: mathf.NewVec3(1, 1, 1), Material: DefaultMaterial()}

	contacts := boxPlaneContact(BodyRef{BoxBody, 0}, box, BodyRef{PlaneBody, 0}, plane)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if diff := absf32(contacts[0].Depth - 0.5); diff > 1e-5 {
		t.Errorf("depth = %g, want 0.5", contacts[0].Depth)
	}
}

func TestCylinderPlaneContact(t *testing.T) {
	plane := &Plane{Normal: mathf.NewVec3(0, 1, 0), Material: DefaultMaterial()}
	cyl := &Cylinder{Position: mathf.NewVec3(0, 0.8, 0), Orientation: mathf.QuatIdentity, Radius: 0.5, HalfHeight: 1, Material: DefaultMaterial()}

	contacts := cylinderPlaneContact(BodyRef{CylinderBody, 0}, cyl, BodyRef{PlaneBody, 0}, plane)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if diff := absf32(contacts[0].Depth - 0.2); diff > 1e-5 {
		t.Errorf("depth = %g, want 0.2", contacts[0].Depth)
	}
}

func TestSphereCylinderContactSide(t *testing.T) {
	cyl := &Cylinder{Position: mathf.Zero, Orientation: mathf.QuatIdentity, Radius: 1, HalfHeight: 2, Material: DefaultMaterial()}
	sphere := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1, Material: DefaultMaterial()}

	contacts := sphereCylinderContact(BodyRef{SphereBody, 0}, sphere, BodyRef{CylinderBody, 0}, cyl)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if diff := absf32(contacts[0].Depth - 0.5); diff > 1e-5 {
		t.Errorf("depth = %g, want 0.5", contacts[0].Depth)
	}
}

func TestSphereBoxContactOutsideFace(t *testing.T) {
	box := &Box{Position: mathf.Zero, Orientation: mathf.QuatIdentity, HalfExtents: mathf.NewVec3(1, 1, 1), Material: DefaultMaterial()}
	sphere := &Sphere{Position: mathf.NewVec3(1.5, 0, 0), Radius: 1, Material: DefaultMaterial()}

	contacts := sphereBoxContact(BodyRef{SphereBody, 0}, sphere, BodyRef{BoxBody, 0}, box)
	if len(contacts) != 1 {
		t.Fatalf("len(contacts) = %d, want 1", len(contacts))
	}
	if diff := absf32(contacts[0].Depth - 0.5); diff > 1e-5 {
		t.Errorf("depth = %g, want 0.5", contacts[0].Depth)
	}
}
