// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"math/rand"

	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

// dispatchExpandInstances repeats in instanceCount times into out, the
// shape-preserving broadcast the out-of-scope ML collaborator uses to
// stage one buffer across a batch of instances. config holds a single
// u32: instanceCount.
func dispatchExpandInstances(bindings []compute.BufferView) ([][]byte, error) {
	in, out, config := bindings[0], bindings[1], bindings[2]
	if len(config.Data) < 4 {
		return nil, compute.NewShapeMismatch("expand_instances: config must hold instance_count u32")
	}
	instances := int(mathf.GetU32(config.Data))
	result := make([]byte, len(out.Data))
	if len(result) != len(in.Data)*instances {
		return nil, compute.NewShapeMismatch("expand_instances: out must hold instance_count copies of in")
	}
	for i := 0; i < instances; i++ {
		copy(result[i*len(in.Data):], in.Data)
	}
	return [][]byte{result}, nil
}

// dispatchRngNormal fills out with standard-normal samples drawn from a
// seed supplied in config (a single u32), for the ML collaborator's
// weight-initialization use case. Determinism across calls with the same
// seed matters more than cryptographic quality here.
func dispatchRngNormal(bindings []compute.BufferView) ([][]byte, error) {
	out, config := bindings[0], bindings[1]
	if len(config.Data) < 4 {
		return nil, compute.NewShapeMismatch("rng_normal: config must hold seed u32")
	}
	seed := mathf.GetU32(config.Data)
	n := f32Count(out.Data)
	result := make([]byte, len(out.Data))
	src := rand.New(rand.NewSource(int64(seed)))
	for i := 0; i < n; i++ {
		writeF32(result, i, float32(src.NormFloat64()))
	}
	return [][]byte{result}, nil
}

// dispatchAddBroadcast adds the single scalar in b to every element of a.
func dispatchAddBroadcast(bindings []compute.BufferView) ([][]byte, error) {
	a, bScalar, out := bindings[0], bindings[1], bindings[2]
	if len(bScalar.Data) != f32Size {
		return nil, compute.NewShapeMismatch("add_broadcast: b must hold a single f32")
	}
	scalar := readF32(bScalar.Data, 0)
	n := f32Count(a.Data)
	result := make([]byte, len(out.Data))
	if len(result) != len(a.Data) {
		return nil, compute.NewShapeMismatch("add_broadcast: out must share byte length with a")
	}
	for i := 0; i < n; i++ {
		writeF32(result, i, readF32(a.Data, i)+scalar)
	}
	return [][]byte{result}, nil
}
