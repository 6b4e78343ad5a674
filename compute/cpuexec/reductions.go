// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

func dispatchReduce(kernel compute.Kernel, bindings []compute.BufferView) ([][]byte, error) {
	in, out := bindings[0], bindings[1]
	n := f32Count(in.Data)
	if len(out.Data) != f32Size {
		return nil, compute.NewShapeMismatch("reduce: out must hold a single f32")
	}
	var result float32
	switch kernel {
	case compute.ReduceSum, compute.ReduceMean:
		var sum float32
		for i := 0; i < n; i++ {
			sum += readF32(in.Data, i)
		}
		if kernel == compute.ReduceMean {
			if n == 0 {
				result = 0
			} else {
				result = sum / float32(n)
			}
		} else {
			result = sum
		}
	case compute.ReduceMax:
		for i := 0; i < n; i++ {
			v := readF32(in.Data, i)
			if i == 0 || v > result {
				result = v
			}
		}
	}
	buf := make([]byte, f32Size)
	mathf.PutF32(buf, result)
	return [][]byte{buf}, nil
}

// dispatchSegmentedReduceSum sums in over the half-open ranges implied by
// segment_starts: segment i spans [starts[i], starts[i+1]), or
// [starts[i], len(in)) for the last segment.
func dispatchSegmentedReduceSum(bindings []compute.BufferView) ([][]byte, error) {
	in, starts, out := bindings[0], bindings[1], bindings[2]
	n := f32Count(in.Data)
	s := len(starts.Data) / 4
	result := make([]byte, len(out.Data))
	if len(result) != s*f32Size {
		return nil, compute.NewShapeMismatch("segmented_reduce_sum: out must hold one f32 per segment")
	}
	for i := 0; i < s; i++ {
		start := int(mathf.GetU32(starts.Data[i*4:]))
		end := n
		if i+1 < s {
			end = int(mathf.GetU32(starts.Data[(i+1)*4:]))
		}
		if start < 0 || end > n || start > end {
			return nil, compute.NewShapeMismatch("segmented_reduce_sum: segment range out of bounds")
		}
		var sum float32
		for j := start; j < end; j++ {
			sum += readF32(in.Data, j)
		}
		writeF32(result, i, sum)
	}
	return [][]byte{result}, nil
}
