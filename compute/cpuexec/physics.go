// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

// sphereContactInputSize is the per-sphere byte size DetectContactsSphere
// and DetectContactsBox read from their "bodies" binding: just the two
// fields narrow-phase needs, not the full SphereGPU integration layout.
const sphereContactInputSize = 16

type sphereContactInput struct {
	Pos    mathf.Vec3
	Radius float32
}

func readSphereContactInput(src []byte) sphereContactInput {
	return sphereContactInput{Pos: mathf.Vec3FromBytes(src[0:12]), Radius: mathf.GetF32(src[12:16])}
}

// dispatchIntegrateBodies applies semi-implicit Euler integration and
// quaternion renormalization to every sphere in the "spheres" binding,
// followed by the cheap y=0 ground clamp this kernel-level path uses (the
// CPU physics step supersedes this with real Plane collisions, see
// physics.World.Step). External force is per-sphere (fx, fz); this
// kernel-level path has no per-sphere mass field in its wire layout so it
// applies force directly rather than dividing by mass — a simplification
// of the full step's `force/mass` rule, acceptable because this path only
// ever backs the GPU executor's reference ground-clamp behavior, not the
// authoritative CPU step.
func dispatchIntegrateBodies(bindings []compute.BufferView) ([][]byte, error) {
	spheres, params, forces := bindings[0], bindings[1], bindings[2]
	n := len(spheres.Data) / compute.SphereGPUSize
	if len(spheres.Data)%compute.SphereGPUSize != 0 {
		return nil, compute.NewShapeMismatch("integrate_bodies: spheres binding is not a whole number of spheres")
	}
	if len(params.Data) != compute.PhysParamsSize {
		return nil, compute.NewShapeMismatch("integrate_bodies: params must be a PhysParams uniform")
	}
	if len(forces.Data) != n*8 {
		return nil, compute.NewShapeMismatch("integrate_bodies: forces must hold an (fx,fz) pair per sphere")
	}
	p := compute.PhysParamsFromBytes(params.Data)
	result := make([]byte, len(spheres.Data))
	for i := 0; i < n; i++ {
		off := i * compute.SphereGPUSize
		s := compute.SphereGPUFromBytes(spheres.Data[off:])
		fx := mathf.GetF32(forces.Data[i*8:])
		fz := mathf.GetF32(forces.Data[i*8+4:])
		force := mathf.NewVec3(fx, 0, fz)
		s.Vel = s.Vel.Add(p.Gravity.Add(force).Scale(p.Dt))
		s.Pos = s.Pos.Add(s.Vel.Scale(p.Dt))
		s.Orient = s.Orient.IntegrateAngularVelocity(s.AngVel, p.Dt)
		if s.Pos.Y < 0 {
			s.Pos.Y = 0
			s.Vel.Y = 0
		}
		s.PutBytes(result[off:])
	}
	return [][]byte{result}, nil
}

// dispatchDetectContactsSphere generates sphere-sphere contacts for every
// pair in "bodies", writing up to len(contacts.Data)/ContactGPUSize
// entries into the preallocated "contacts" binding (unused trailing
// entries are left zeroed, which decodes to a zero-depth contact that
// Stage 3's "non-positive depth discarded" rule ignores).
func dispatchDetectContactsSphere(bindings []compute.BufferView) ([][]byte, error) {
	bodies, contacts := bindings[0], bindings[1]
	n := len(bodies.Data) / sphereContactInputSize
	if len(bodies.Data)%sphereContactInputSize != 0 {
		return nil, compute.NewShapeMismatch("detect_contacts_sphere: bodies binding is not a whole number of spheres")
	}
	capacity := len(contacts.Data) / compute.ContactGPUSize
	spheres := make([]sphereContactInput, n)
	for i := range spheres {
		spheres[i] = readSphereContactInput(bodies.Data[i*sphereContactInputSize:])
	}
	result := make([]byte, len(contacts.Data))
	slot := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := spheres[j].Pos.Sub(spheres[i].Pos)
			dist := d.Len()
			overlap := spheres[i].Radius + spheres[j].Radius - dist
			if overlap <= 0 {
				continue
			}
			var normalI mathf.Vec3
			if dist > 1e-8 {
				normalI = d.Scale(-1 / dist)
			} else {
				normalI = mathf.NewVec3(1, 0, 0)
			}
			if slot+2 > capacity {
				return nil, compute.NewShapeMismatch("detect_contacts_sphere: contacts binding too small for pair count")
			}
			half := overlap / 2
			compute.ContactGPU{BodyIndex: uint32(i), Normal: normalI, Depth: half}.PutBytes(result[slot*compute.ContactGPUSize:])
			slot++
			compute.ContactGPU{BodyIndex: uint32(j), Normal: normalI.Scale(-1), Depth: half}.PutBytes(result[slot*compute.ContactGPUSize:])
			slot++
		}
	}
	return [][]byte{result}, nil
}

// dispatchDetectContactsBox generates sphere-box contacts between every
// sphere in "bodies" and the single box described by the "box" uniform,
// using the closest-point-on-box rule from physics.World.Step's Stage 3.
func dispatchDetectContactsBox(bindings []compute.BufferView) ([][]byte, error) {
	bodies, boxBinding, contacts := bindings[0], bindings[1], bindings[2]
	n := len(bodies.Data) / sphereContactInputSize
	if len(bodies.Data)%sphereContactInputSize != 0 {
		return nil, compute.NewShapeMismatch("detect_contacts_box: bodies binding is not a whole number of spheres")
	}
	if len(boxBinding.Data) != compute.BoxUniformSize {
		return nil, compute.NewShapeMismatch("detect_contacts_box: box must be a BoxUniform")
	}
	box := compute.BoxUniformFromBytes(boxBinding.Data)
	capacity := len(contacts.Data) / compute.ContactGPUSize
	result := make([]byte, len(contacts.Data))
	slot := 0
	for i := 0; i < n; i++ {
		s := readSphereContactInput(bodies.Data[i*sphereContactInputSize:])
		local := s.Pos.Sub(box.Center)
		clamp := func(v, lo, hi float32) float32 {
			if v < lo {
				return lo
			}
			if v > hi {
				return hi
			}
			return v
		}
		closest := mathf.NewVec3(
			clamp(local.X, -box.HalfExtents.X, box.HalfExtents.X),
			clamp(local.Y, -box.HalfExtents.Y, box.HalfExtents.Y),
			clamp(local.Z, -box.HalfExtents.Z, box.HalfExtents.Z),
		)
		toSphere := local.Sub(closest)
		dist := toSphere.Len()
		var normal mathf.Vec3
		var depth float32
		if dist < 1e-8 {
			// Center inside the box: separate along the nearest face.
			dx := box.HalfExtents.X - absf32(local.X)
			dy := box.HalfExtents.Y - absf32(local.Y)
			dz := box.HalfExtents.Z - absf32(local.Z)
			switch {
			case dx <= dy && dx <= dz:
				normal = mathf.NewVec3(signf32(local.X), 0, 0)
				depth = dx + s.Radius
			case dy <= dx && dy <= dz:
				normal = mathf.NewVec3(0, signf32(local.Y), 0)
				depth = dy + s.Radius
			default:
				normal = mathf.NewVec3(0, 0, signf32(local.Z))
				depth = dz + s.Radius
			}
		} else if dist < s.Radius {
			normal = toSphere.Scale(1 / dist)
			depth = s.Radius - dist
		} else {
			continue
		}
		if slot >= capacity {
			return nil, compute.NewShapeMismatch("detect_contacts_box: contacts binding too small for contact count")
		}
		compute.ContactGPU{BodyIndex: uint32(i), Normal: normal, Depth: depth}.PutBytes(result[slot*compute.ContactGPUSize:])
		slot++
	}
	return [][]byte{result}, nil
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func signf32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// dispatchSolveContactsPBD applies the position-only correction
// `p_body += normal * depth` for each contact in the "contacts" binding,
// against the sphere positions in "bodies". This is the reference's
// unweighted single-body correction; physics.World.Step's own mass-weighted
// two-body solve (Stage 4) is a host-side refinement layered on top for the
// CPU path, consistent with spec's design note that GPU and CPU paths may
// diverge below test tolerance.
func dispatchSolveContactsPBD(bindings []compute.BufferView) ([][]byte, error) {
	bodies, contacts, _ := bindings[0], bindings[1], bindings[2]
	n := len(bodies.Data) / compute.SphereGPUSize
	if len(bodies.Data)%compute.SphereGPUSize != 0 {
		return nil, compute.NewShapeMismatch("solve_contacts_pbd: bodies binding is not a whole number of spheres")
	}
	if len(contacts.Data)%compute.ContactGPUSize != 0 {
		return nil, compute.NewShapeMismatch("solve_contacts_pbd: contacts binding is not a whole number of contacts")
	}
	result := make([]byte, len(bodies.Data))
	copy(result, bodies.Data)
	numContacts := len(contacts.Data) / compute.ContactGPUSize
	for c := 0; c < numContacts; c++ {
		contact := compute.ContactGPUFromBytes(contacts.Data[c*compute.ContactGPUSize:])
		if contact.Depth <= 0 {
			continue
		}
		idx := int(contact.BodyIndex)
		if idx < 0 || idx >= n {
			return nil, compute.NewShapeMismatch("solve_contacts_pbd: contact body index out of bounds")
		}
		off := idx * compute.SphereGPUSize
		s := compute.SphereGPUFromBytes(result[off:])
		s.Pos = s.Pos.Add(contact.Normal.Scale(contact.Depth))
		s.PutBytes(result[off:])
	}
	return [][]byte{result}, nil
}

// dispatchSolveJointsPBD projects each distance joint to its rest length
// with a symmetric, unweighted position split, per the reference rule.
func dispatchSolveJointsPBD(bindings []compute.BufferView) ([][]byte, error) {
	bodies, joints, _ := bindings[0], bindings[1], bindings[2]
	n := len(bodies.Data) / compute.SphereGPUSize
	if len(bodies.Data)%compute.SphereGPUSize != 0 {
		return nil, compute.NewShapeMismatch("solve_joints_pbd: bodies binding is not a whole number of spheres")
	}
	if len(joints.Data)%compute.DistanceJointGPUSize != 0 {
		return nil, compute.NewShapeMismatch("solve_joints_pbd: joints binding is not a whole number of distance joints")
	}
	result := make([]byte, len(bodies.Data))
	copy(result, bodies.Data)
	numJoints := len(joints.Data) / compute.DistanceJointGPUSize
	for j := 0; j < numJoints; j++ {
		joint := compute.DistanceJointGPUFromBytes(joints.Data[j*compute.DistanceJointGPUSize:])
		ia, ib := int(joint.BodyA), int(joint.BodyB)
		if ia < 0 || ia >= n || ib < 0 || ib >= n {
			return nil, compute.NewShapeMismatch("solve_joints_pbd: joint body index out of bounds")
		}
		sa := compute.SphereGPUFromBytes(result[ia*compute.SphereGPUSize:])
		sb := compute.SphereGPUFromBytes(result[ib*compute.SphereGPUSize:])
		d := sb.Pos.Sub(sa.Pos)
		l := d.Len()
		if l > 0 {
			dir := d.Scale(1 / l)
			correction := dir.Scale((l - joint.RestLength) * 0.5)
			sa.Pos = sa.Pos.Add(correction)
			sb.Pos = sb.Pos.Sub(correction)
		}
		sa.PutBytes(result[ia*compute.SphereGPUSize:])
		sb.PutBytes(result[ib*compute.SphereGPUSize:])
	}
	return [][]byte{result}, nil
}
