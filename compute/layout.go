// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package compute

import "github.com/ridgeback/kinetic/internal/mathf"

// The structs in this file are the wire layouts §6 of the binary-layouts
// contract fixes so the CPU and GPU executors never drift: both cpuexec and
// gpuexec, and the physics package that builds the bindings, encode/decode
// through these same helpers rather than hand-rolling offsets per call
// site.

// SphereGPUSize is the byte size of the GPU sphere layout: pos+pad,
// vel+pad, orientation (4 f32, no pad needed — already 16 bytes), angvel+pad.
const SphereGPUSize = 64

// SphereGPU is one dynamic/kinematic/static sphere body in wire form.
type SphereGPU struct {
	Pos    mathf.Vec3
	Vel    mathf.Vec3
	Orient mathf.Quat
	AngVel mathf.Vec3
}

// PutBytes writes s into dst[0:SphereGPUSize].
func (s SphereGPU) PutBytes(dst []byte) {
	s.Pos.PutBytes(dst[0:12])
	// dst[12:16] pad, left zero.
	s.Vel.PutBytes(dst[16:28])
	// dst[28:32] pad, left zero.
	s.Orient.PutBytes(dst[32:48])
	s.AngVel.PutBytes(dst[48:60])
	// dst[60:64] pad, left zero.
}

// SphereGPUFromBytes reads a SphereGPU from src[0:SphereGPUSize].
func SphereGPUFromBytes(src []byte) SphereGPU {
	return SphereGPU{
		Pos:    mathf.Vec3FromBytes(src[0:12]),
		Vel:    mathf.Vec3FromBytes(src[16:28]),
		Orient: mathf.QuatFromBytes(src[32:48]),
		AngVel: mathf.Vec3FromBytes(src[48:60]),
	}
}

// PhysParamsSize is the byte size of the PhysParams uniform: gravity at
// 0:12, pad at 12:16, dt at 16:20, and trailing pad rounding the struct up
// to a 16-byte-aligned 32 bytes.
const PhysParamsSize = 32

// PhysParams is the per-step uniform shared by every physics kernel.
type PhysParams struct {
	Gravity mathf.Vec3
	Dt      float32
}

// PutBytes writes p into dst[0:PhysParamsSize].
func (p PhysParams) PutBytes(dst []byte) {
	p.Gravity.PutBytes(dst[0:12])
	mathf.PutF32(dst[16:20], p.Dt)
	// dst[12:16] and dst[20:32] pad, left zero.
}

// PhysParamsFromBytes reads a PhysParams from src[0:PhysParamsSize].
func PhysParamsFromBytes(src []byte) PhysParams {
	return PhysParams{
		Gravity: mathf.Vec3FromBytes(src[0:12]),
		Dt:      mathf.GetF32(src[16:20]),
	}
}

// DistanceJointGPUSize is the byte size of one distance joint binding.
const DistanceJointGPUSize = 16

// DistanceJointGPU is one distance constraint in wire form.
type DistanceJointGPU struct {
	BodyA, BodyB uint32
	RestLength   float32
}

func (j DistanceJointGPU) PutBytes(dst []byte) {
	mathf.PutU32(dst[0:4], j.BodyA)
	mathf.PutU32(dst[4:8], j.BodyB)
	mathf.PutF32(dst[8:12], j.RestLength)
	// dst[12:16] pad.
}

func DistanceJointGPUFromBytes(src []byte) DistanceJointGPU {
	return DistanceJointGPU{
		BodyA:      mathf.GetU32(src[0:4]),
		BodyB:      mathf.GetU32(src[4:8]),
		RestLength: mathf.GetF32(src[8:12]),
	}
}

// ContactGPUSize is the byte size of one sphere-sphere contact binding.
const ContactGPUSize = 32

// ContactGPU is one narrow-phase contact in wire form, authored at
// half-depth for sphere-sphere contacts (one per participating body).
type ContactGPU struct {
	BodyIndex uint32
	Normal    mathf.Vec3
	Depth     float32
}

func (c ContactGPU) PutBytes(dst []byte) {
	mathf.PutU32(dst[0:4], c.BodyIndex)
	c.Normal.PutBytes(dst[4:16])
	mathf.PutF32(dst[16:20], c.Depth)
	// dst[20:32] pad.
}

func ContactGPUFromBytes(src []byte) ContactGPU {
	return ContactGPU{
		BodyIndex: mathf.GetU32(src[0:4]),
		Normal:    mathf.Vec3FromBytes(src[4:16]),
		Depth:     mathf.GetF32(src[16:20]),
	}
}

// BoxUniformSize is the byte size of the box-collision uniform.
const BoxUniformSize = 32

// BoxUniform carries a box's world-space AABB center and half-extents for
// DetectContactsBox.
type BoxUniform struct {
	Center      mathf.Vec3
	HalfExtents mathf.Vec3
}

func (b BoxUniform) PutBytes(dst []byte) {
	b.Center.PutBytes(dst[0:12])
	b.HalfExtents.PutBytes(dst[16:28])
	// dst[12:16] and dst[28:32] pad.
}

func BoxUniformFromBytes(src []byte) BoxUniform {
	return BoxUniform{
		Center:      mathf.Vec3FromBytes(src[0:12]),
		HalfExtents: mathf.Vec3FromBytes(src[16:28]),
	}
}
