// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"context"
	"testing"

	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

func f32Bytes(vs ...float32) []byte {
	buf := make([]byte, len(vs)*4)
	for i, v := range vs {
		mathf.PutF32(buf[i*4:], v)
	}
	return buf
}

func decodeF32(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = mathf.GetF32(data[i*4:])
	}
	return out
}

func almostEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestAddKernelSeedScenario(t *testing.T) {
	exec := New()
	a := f32Bytes(1, -2, 0, 3.5, -0.5)
	b := f32Bytes(0.5, 2, -1, -0.5, 10)
	out := make([]byte, len(a))
	config := f32Bytes(0)
	bindings := []compute.BufferView{
		compute.NewBufferView(a, []int{5}, 4),
		compute.NewBufferView(b, []int{5}, 4),
		compute.NewBufferView(out, []int{5}, 4),
		compute.NewBufferView(config, []int{1}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.Add, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := []float32{1.5, 0, -1, 3, 9.5}
	got := decodeF32(result[0])
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-6) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestMatMulSeedScenario(t *testing.T) {
	exec := New()
	a := f32Bytes(1, 2, 3, 4, 5, 6)
	b := f32Bytes(7, 8, 9, 10, 11, 12)
	out := make([]byte, 4*4)
	config := make([]byte, 12)
	mathf.PutU32(config[0:], 2)
	mathf.PutU32(config[4:], 3)
	mathf.PutU32(config[8:], 2)
	bindings := []compute.BufferView{
		compute.NewBufferView(a, []int{2, 3}, 4),
		compute.NewBufferView(b, []int{3, 2}, 4),
		compute.NewBufferView(out, []int{2, 2}, 4),
		compute.NewBufferView(config, []int{3}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.MatMul, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := []float32{58, 64, 139, 154}
	got := decodeF32(result[0])
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-4) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestScatterAddSeedScenario(t *testing.T) {
	exec := New()
	values := f32Bytes(1, 2, 3)
	indices := make([]byte, 12)
	mathf.PutU32(indices[0:], 1)
	mathf.PutU32(indices[4:], 0)
	mathf.PutU32(indices[8:], 3)
	accumulator := f32Bytes(0, 0, 0, 0, 0)
	bindings := []compute.BufferView{
		compute.NewBufferView(values, []int{3}, 4),
		compute.NewBufferView(indices, []int{3}, 4),
		compute.NewBufferView(accumulator, []int{5}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.ScatterAdd, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := []float32{2, 1, 0, 3, 0}
	got := decodeF32(result[0])
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-6) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestScatterAddOutOfBoundsIndex(t *testing.T) {
	exec := New()
	values := f32Bytes(1)
	indices := make([]byte, 4)
	mathf.PutU32(indices, 10)
	accumulator := f32Bytes(0, 0)
	bindings := []compute.BufferView{
		compute.NewBufferView(values, []int{1}, 4),
		compute.NewBufferView(indices, []int{1}, 4),
		compute.NewBufferView(accumulator, []int{2}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	if _, err := exec.Dispatch(context.Background(), compute.ScatterAdd, bindings, [3]uint32{1, 1, 1}); err == nil {
		t.Fatal("expected a shape-mismatch error for an out-of-bounds index")
	}
}

func TestSegmentedReduceSumSeedScenario(t *testing.T) {
	exec := New()
	data := f32Bytes(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	starts := make([]byte, 12)
	mathf.PutU32(starts[0:], 0)
	mathf.PutU32(starts[4:], 3)
	mathf.PutU32(starts[8:], 7)
	out := make([]byte, 12)
	bindings := []compute.BufferView{
		compute.NewBufferView(data, []int{10}, 4),
		compute.NewBufferView(starts, []int{3}, 4),
		compute.NewBufferView(out, []int{3}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.SegmentedReduceSum, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	want := []float32{6, 22, 27}
	got := decodeF32(result[0])
	for i := range want {
		if !almostEqual(got[i], want[i], 1e-6) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestSegmentedReduceSumSingleSegmentMatchesReduceSum(t *testing.T) {
	exec := New()
	data := f32Bytes(1, 2, 3, 4, 5)
	starts := make([]byte, 4)
	mathf.PutU32(starts, 0)
	segOut := make([]byte, 4)
	bindings := []compute.BufferView{
		compute.NewBufferView(data, []int{5}, 4),
		compute.NewBufferView(starts, []int{1}, 4),
		compute.NewBufferView(segOut, []int{1}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	segResult, err := exec.Dispatch(context.Background(), compute.SegmentedReduceSum, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("segmented dispatch failed: %v", err)
	}
	reduceOut := make([]byte, 4)
	reduceBindings := []compute.BufferView{
		compute.NewBufferView(data, []int{5}, 4),
		compute.NewBufferView(reduceOut, []int{1}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	reduceResult, err := exec.Dispatch(context.Background(), compute.ReduceSum, reduceBindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("reduce dispatch failed: %v", err)
	}
	if !almostEqual(decodeF32(segResult[0])[0], decodeF32(reduceResult[0])[0], 1e-6) {
		t.Errorf("segmented reduce with starts=[0] should equal reduce_sum: %v vs %v", segResult, reduceResult)
	}
}

func TestClampAppliesMaxThenMin(t *testing.T) {
	exec := New()
	value := f32Bytes(5)
	lo := f32Bytes(10)
	hi := f32Bytes(1)
	out := make([]byte, 4)
	bindings := []compute.BufferView{
		compute.NewBufferView(value, []int{1}, 4),
		compute.NewBufferView(lo, []int{1}, 4),
		compute.NewBufferView(hi, []int{1}, 4),
		compute.NewBufferView(out, []int{1}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.Clamp, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	// max(5, 10) = 10, then min(10, 1) = 1.
	if got := decodeF32(result[0])[0]; !almostEqual(got, 1, 1e-6) {
		t.Errorf("clamp with lo>hi: got %v want 1", got)
	}
}

func TestIntegrateBodiesGroundClamp(t *testing.T) {
	exec := New()
	sphere := compute.SphereGPU{Pos: mathf.NewVec3(0, 0.001, 0), Vel: mathf.NewVec3(0, -5, 0), Orient: mathf.QuatIdentity}
	spheres := make([]byte, compute.SphereGPUSize)
	sphere.PutBytes(spheres)
	params := make([]byte, compute.PhysParamsSize)
	compute.PhysParams{Gravity: mathf.NewVec3(0, -9.81, 0), Dt: 0.01}.PutBytes(params)
	forces := make([]byte, 8)
	bindings := []compute.BufferView{
		compute.NewBufferView(spheres, []int{1}, compute.SphereGPUSize),
		compute.NewBufferView(params, []int{1}, compute.PhysParamsSize),
		compute.NewBufferView(forces, []int{1}, 8),
	}
	result, err := exec.Dispatch(context.Background(), compute.IntegrateBodies, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	got := compute.SphereGPUFromBytes(result[0])
	if got.Pos.Y != 0 || got.Vel.Y != 0 {
		t.Errorf("ground clamp should zero y position and velocity, got pos=%v vel=%v", got.Pos, got.Vel)
	}
}

func TestSolveContactsPBDIdempotentOnNonPenetrating(t *testing.T) {
	exec := New()
	sphere := compute.SphereGPU{Pos: mathf.NewVec3(0, 5, 0), Orient: mathf.QuatIdentity}
	spheres := make([]byte, compute.SphereGPUSize)
	sphere.PutBytes(spheres)
	// A single contact with non-positive depth must be a no-op.
	contact := compute.ContactGPU{BodyIndex: 0, Normal: mathf.NewVec3(0, 1, 0), Depth: 0}
	contacts := make([]byte, compute.ContactGPUSize)
	contact.PutBytes(contacts)
	params := make([]byte, compute.PhysParamsSize)
	bindings := []compute.BufferView{
		compute.NewBufferView(spheres, []int{1}, compute.SphereGPUSize),
		compute.NewBufferView(contacts, []int{1}, compute.ContactGPUSize),
		compute.NewBufferView(params, []int{1}, compute.PhysParamsSize),
	}
	result1, err := exec.Dispatch(context.Background(), compute.SolveContactsPBD, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	bindings[0] = compute.NewBufferView(result1[0], []int{1}, compute.SphereGPUSize)
	result2, err := exec.Dispatch(context.Background(), compute.SolveContactsPBD, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("second dispatch failed: %v", err)
	}
	a := compute.SphereGPUFromBytes(result1[0])
	b := compute.SphereGPUFromBytes(result2[0])
	if !a.Pos.Aeq(b.Pos, 1e-6) {
		t.Errorf("repeated solve on non-penetrating contact changed position: %v -> %v", a.Pos, b.Pos)
	}
}

func TestSolveJointsPBDConvergesByHalf(t *testing.T) {
	exec := New()
	a := compute.SphereGPU{Pos: mathf.NewVec3(0, 0, 0), Orient: mathf.QuatIdentity}
	b := compute.SphereGPU{Pos: mathf.NewVec3(3, 0, 0), Orient: mathf.QuatIdentity}
	spheres := make([]byte, 2*compute.SphereGPUSize)
	a.PutBytes(spheres[0:])
	b.PutBytes(spheres[compute.SphereGPUSize:])
	joint := compute.DistanceJointGPU{BodyA: 0, BodyB: 1, RestLength: 1}
	joints := make([]byte, compute.DistanceJointGPUSize)
	joint.PutBytes(joints)
	params := make([]byte, compute.PhysParamsSize)
	bindings := []compute.BufferView{
		compute.NewBufferView(spheres, []int{2}, compute.SphereGPUSize),
		compute.NewBufferView(joints, []int{1}, compute.DistanceJointGPUSize),
		compute.NewBufferView(params, []int{1}, compute.PhysParamsSize),
	}
	result, err := exec.Dispatch(context.Background(), compute.SolveJointsPBD, bindings, [3]uint32{1, 1, 1})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	newA := compute.SphereGPUFromBytes(result[0][0:])
	newB := compute.SphereGPUFromBytes(result[0][compute.SphereGPUSize:])
	newLen := newB.Pos.Sub(newA.Pos).Len()
	if diff := newLen - joint.RestLength; diff < -1e-3 || diff > 1e-3 {
		t.Errorf("single pass should fully converge a symmetric unweighted split: got length %v", newLen)
	}
}

func TestZeroWorkgroupsSucceedsWithEmptyOutput(t *testing.T) {
	exec := New()
	a := f32Bytes(1, 2)
	b := f32Bytes(3, 4)
	out := make([]byte, 8)
	bindings := []compute.BufferView{
		compute.NewBufferView(a, []int{2}, 4),
		compute.NewBufferView(b, []int{2}, 4),
		compute.NewBufferView(out, []int{2}, 4),
		compute.NewBufferView(nil, []int{0}, 4),
	}
	result, err := exec.Dispatch(context.Background(), compute.Add, bindings, [3]uint32{0, 1, 1})
	if err != nil {
		t.Fatalf("zero workgroups should succeed, got %v", err)
	}
	if len(result[0]) != len(out) {
		t.Errorf("expected empty output sized to the out binding, got %d bytes", len(result[0]))
	}
}
