// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "github.com/ridgeback/kinetic/internal/mathf"

// World owns every rigid body and constraint in one simulation and is the
// sole mutator of its own state: Step (and the AddXxx-style helpers
// packages like physics/builder append through) must only ever be called
// from one goroutine at a time. See SPEC_FULL.md §5.
type World struct {
	Spheres   []Sphere
	Boxes     []Box
	Cylinders []Cylinder
	Planes    []Plane

	DistanceJoints  []DistanceJoint
	RevoluteJoints  []RevoluteJoint
	PrismaticJoints []PrismaticJoint
	BallJoints      []BallJoint
	FixedJoints     []FixedJoint

	Gravity          mathf.Vec3
	Dt               float32
	SolverIterations int
	Grid             *SpatialGrid
}

// Option configures a World at construction, the same functional-option
// pattern the teacher's config.go uses for vu.Title/vu.Size.
type Option func(*World)

// Gravity overrides the default (0,-9.81,0) gravity vector.
func Gravity(v mathf.Vec3) Option { return func(w *World) { w.Gravity = v } }

// TimeStep overrides the default 1/60s step duration.
func TimeStep(dt float32) Option { return func(w *World) { w.Dt = dt } }

// GridBounds overrides the default broad-phase grid region and cell size.
func GridBounds(min, max mathf.Vec3, cellSize float32) Option {
	return func(w *World) { w.Grid = NewSpatialGrid(min, max, cellSize) }
}

// SolverIterations overrides the default single PBD contact-solve pass
// with n iterations; spec.md §4.6 stage 4 permits n >= 1.
func SolverIterations(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.SolverIterations = n
		}
	}
}

// NewWorld returns a World with spec.md §3's default global parameters
// (gravity (0,-9.81,0), dt left to the caller's step cadence at 1/60s, grid
// bounds (-50,-10,-50)..(50,90,50) with cell size 4), as overridden by opts.
func NewWorld(opts ...Option) *World {
	w := &World{
		Gravity:          mathf.NewVec3(0, -9.81, 0),
		Dt:               1.0 / 60.0,
		SolverIterations: 1,
		Grid:             NewSpatialGrid(mathf.NewVec3(-50, -10, -50), mathf.NewVec3(50, 90, 50), 4),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step advances the simulation by one Dt, running stages 1-8 of spec.md
// §4.6 in order. It returns ErrNoSpheres if the world holds no sphere, box,
// or cylinder at all; bodies of any BodyType count.
func (w *World) Step() error {
	if !w.hasDynamicBody() {
		return ErrNoSpheres
	}

	w.integrate()

	gridBodies := w.collectGridBodies()
	w.Grid.Update(gridBodies)
	pairs := w.Grid.Pairs()

	contacts := w.narrowPhase(pairs)

	iterations := w.SolverIterations
	if iterations < 1 {
		iterations = 1
	}
	for iter := 0; iter < iterations; iter++ {
		for _, c := range contacts {
			solveContactPBD(c, w.contactBodyFor(c.A), w.contactBodyFor(c.B))
		}
	}
	w.applyRollingResistanceTo(contacts)

	for _, j := range w.DistanceJoints {
		posA, posB := w.positionPtr(j.A), w.positionPtr(j.B)
		if posA != nil && posB != nil {
			solveDistanceJointPBD(posA, posB, j.RestLength)
		}
	}

	w.solveOtherJoints()
	w.solveSphereCylinderAdHoc()
	w.enforceInvariants()

	return nil
}

func (w *World) hasDynamicBody() bool {
	return len(w.Spheres) > 0 || len(w.Boxes) > 0 || len(w.Cylinders) > 0
}

func (w *World) integrate() {
	for i := range w.Spheres {
		s := &w.Spheres[i]
		if s.Type == Static {
			continue
		}
		if s.Type == Dynamic {
			accel := w.Gravity
			if s.Mass > 0 {
				accel = accel.Add(s.Force.Scale(1 / s.Mass))
			}
			s.Velocity = s.Velocity.Add(accel.Scale(w.Dt))
		}
		s.PrevPosition = s.Position
		s.Position = s.Position.Add(s.Velocity.Scale(w.Dt))
		s.Orientation = s.Orientation.IntegrateAngularVelocity(s.AngVelocity, w.Dt)
		s.Force = mathf.Zero
	}
	for i := range w.Boxes {
		b := &w.Boxes[i]
		if b.Type == Static {
			continue
		}
		if b.Type == Dynamic {
			b.Velocity = b.Velocity.Add(w.Gravity.Scale(w.Dt))
		}
		b.Position = b.Position.Add(b.Velocity.Scale(w.Dt))
		b.Orientation = b.Orientation.IntegrateAngularVelocity(b.AngVelocity, w.Dt)
	}
	for i := range w.Cylinders {
		c := &w.Cylinders[i]
		if c.Type == Static {
			continue
		}
		if c.Type == Dynamic {
			c.Velocity = c.Velocity.Add(w.Gravity.Scale(w.Dt))
		}
		c.Position = c.Position.Add(c.Velocity.Scale(w.Dt))
		c.Orientation = c.Orientation.IntegrateAngularVelocity(c.AngVelocity, w.Dt)
	}
}

func (w *World) collectGridBodies() []gridBody {
	var bodies []gridBody
	for i := range w.Spheres {
		if w.Spheres[i].Type != Static {
			bodies = append(bodies, gridBody{Ref: BodyRef{SphereBody, i}, Pos: w.Spheres[i].Position})
		}
	}
	for i := range w.Boxes {
		if w.Boxes[i].Type != Static {
			bodies = append(bodies, gridBody{Ref: BodyRef{BoxBody, i}, Pos: w.Boxes[i].Position})
		}
	}
	// Cylinders are deliberately excluded: sphere-cylinder pairs are
	// resolved ad-hoc in stage 7 rather than through the broad phase (see
	// solveSphereCylinderAdHoc), and cylinder-cylinder/box-cylinder pairing
	// is out of scope.
	return bodies
}

// narrowPhase dispatches each broad-phase pair to the matching stage-3
// geometry rule. Sphere-cylinder pairs never appear here (cylinders are
// never added to the grid); box-box and cylinder-cylinder pairs are out of
// scope and produce no contacts.
func (w *World) narrowPhase(pairs [][2]BodyRef) []Contact {
	var contacts []Contact
	for _, pr := range pairs {
		a, b := pr[0], pr[1]
		switch {
		case a.Kind == SphereBody && b.Kind == SphereBody:
			contacts = append(contacts, sphereSphereContact(a, b, &w.Spheres[a.Index], &w.Spheres[b.Index])...)
		case a.Kind == SphereBody && b.Kind == BoxBody:
			contacts = append(contacts, sphereBoxContact(a, &w.Spheres[a.Index], b, &w.Boxes[b.Index])...)
		case a.Kind == BoxBody && b.Kind == SphereBody:
			contacts = append(contacts, sphereBoxContact(b, &w.Spheres[b.Index], a, &w.Boxes[a.Index])...)
		}
	}
	for pi := range w.Planes {
		p := &w.Planes[pi]
		pref := BodyRef{PlaneBody, pi}
		for si := range w.Spheres {
			contacts = append(contacts, spherePlaneContact(BodyRef{SphereBody, si}, &w.Spheres[si], pref, p)...)
		}
		for bi := range w.Boxes {
			contacts = append(contacts, boxPlaneContact(BodyRef{BoxBody, bi}, &w.Boxes[bi], pref, p)...)
		}
		for ci := range w.Cylinders {
			contacts = append(contacts, cylinderPlaneContact(BodyRef{CylinderBody, ci}, &w.Cylinders[ci], pref, p)...)
		}
	}
	return contacts
}

// contactBodyFor resolves a BodyRef into the view solveContactPBD needs.
func (w *World) contactBodyFor(ref BodyRef) contactBody {
	switch ref.Kind {
	case SphereBody:
		s := &w.Spheres[ref.Index]
		cb := contactBody{Pos: &s.Position, Vel: s.Velocity, InvMass: s.InvMass()}
		if s.Type == Dynamic {
			cb.VelOut = &s.Velocity
		}
		return cb
	case BoxBody:
		b := &w.Boxes[ref.Index]
		cb := contactBody{Pos: &b.Position, Vel: b.Velocity, InvMass: b.InvMass()}
		if b.Type == Dynamic {
			cb.VelOut = &b.Velocity
		}
		return cb
	case CylinderBody:
		c := &w.Cylinders[ref.Index]
		cb := contactBody{Pos: &c.Position, Vel: c.Velocity, InvMass: c.InvMass()}
		if c.Type == Dynamic {
			cb.VelOut = &c.Velocity
		}
		return cb
	default: // PlaneBody
		return contactBody{}
	}
}

func (w *World) positionPtr(ref BodyRef) *mathf.Vec3 {
	switch ref.Kind {
	case SphereBody:
		return &w.Spheres[ref.Index].Position
	case BoxBody:
		return &w.Boxes[ref.Index].Position
	case CylinderBody:
		return &w.Cylinders[ref.Index].Position
	default:
		return nil
	}
}

func (w *World) orientationOf(ref BodyRef) mathf.Quat {
	switch ref.Kind {
	case SphereBody:
		return w.Spheres[ref.Index].Orientation
	case BoxBody:
		return w.Boxes[ref.Index].Orientation
	case CylinderBody:
		return w.Cylinders[ref.Index].Orientation
	default:
		return mathf.QuatIdentity
	}
}

func (w *World) invMassOf(ref BodyRef) float32 {
	switch ref.Kind {
	case SphereBody:
		return w.Spheres[ref.Index].InvMass()
	case BoxBody:
		return w.Boxes[ref.Index].InvMass()
	case CylinderBody:
		return w.Cylinders[ref.Index].InvMass()
	default:
		return 0
	}
}

// applyRollingResistanceTo implements SPEC_FULL.md §4.6's rolling
// resistance supplement: every dynamic body that touched a plane this step
// has its linear velocity damped once. Body-body contacts do not damp.
func (w *World) applyRollingResistanceTo(contacts []Contact) {
	touched := make(map[BodyRef]bool, len(contacts))
	for _, c := range contacts {
		if c.B.Kind == PlaneBody {
			touched[c.A] = true
		}
	}
	for ref := range touched {
		switch ref.Kind {
		case SphereBody:
			s := &w.Spheres[ref.Index]
			if s.Type == Dynamic {
				s.Velocity = applyRollingResistance(s.Velocity, w.Dt)
			}
		case BoxBody:
			b := &w.Boxes[ref.Index]
			if b.Type == Dynamic {
				b.Velocity = applyRollingResistance(b.Velocity, w.Dt)
			}
		case CylinderBody:
			c := &w.Cylinders[ref.Index]
			if c.Type == Dynamic {
				c.Velocity = applyRollingResistance(c.Velocity, w.Dt)
			}
		}
	}
}

func (w *World) solveOtherJoints() {
	for _, j := range w.RevoluteJoints {
		w.solveAnchorJoint(j.A, j.LocalAnchorA, j.B, j.LocalAnchorB)
	}
	for _, j := range w.PrismaticJoints {
		w.solveAnchorJoint(j.A, j.LocalAnchorA, j.B, j.LocalAnchorB)
	}
	for _, j := range w.BallJoints {
		w.solveAnchorJoint(j.A, j.LocalAnchorA, j.B, j.LocalAnchorB)
	}
	for _, j := range w.FixedJoints {
		w.solveAnchorJoint(j.A, j.RelativePosition, j.B, mathf.Zero)
	}
}

func (w *World) solveAnchorJoint(a BodyRef, localAnchorA mathf.Vec3, b BodyRef, localAnchorB mathf.Vec3) {
	posA, posB := w.positionPtr(a), w.positionPtr(b)
	if posA == nil || posB == nil {
		return
	}
	solveAnchorConstraint(
		posA, w.orientationOf(a), w.invMassOf(a), localAnchorA,
		posB, w.orientationOf(b), w.invMassOf(b), localAnchorB,
	)
}

// solveSphereCylinderAdHoc implements spec.md §4.6 stage 7: every
// sphere-cylinder pair is tested and resolved directly (O(n*m), not via the
// broad phase), with position correction applied to the sphere only.
func (w *World) solveSphereCylinderAdHoc() {
	for si := range w.Spheres {
		s := &w.Spheres[si]
		for ci := range w.Cylinders {
			c := &w.Cylinders[ci]
			contacts := sphereCylinderContact(BodyRef{SphereBody, si}, s, BodyRef{CylinderBody, ci}, c)
			for _, contact := range contacts {
				solveSphereCylinderContact(contact, s, c)
			}
		}
	}
}

// enforceInvariants renormalizes every orientation quaternion, a cheap
// safety net for spec.md §4.6 stage 8's "||q|| within 1e-3 of 1" invariant
// (IntegrateAngularVelocity already renormalizes, so this is idempotent in
// the common case and only matters if a caller writes an orientation
// directly between steps).
func (w *World) enforceInvariants() {
	for i := range w.Spheres {
		w.Spheres[i].Orientation = w.Spheres[i].Orientation.Unit()
	}
	for i := range w.Boxes {
		w.Boxes[i].Orientation = w.Boxes[i].Orientation.Unit()
	}
	for i := range w.Cylinders {
		w.Cylinders[i].Orientation = w.Cylinders[i].Orientation.Unit()
	}
}
