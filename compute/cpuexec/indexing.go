// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"fmt"

	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

// dispatchScatterAdd computes accumulator[indices[i]] += values[i] for each
// i, strictly left to right — the order this module's reference
// implementation commits to (the GPU executor makes no such promise).
func dispatchScatterAdd(bindings []compute.BufferView) ([][]byte, error) {
	values, indices, accumulator := bindings[0], bindings[1], bindings[2]
	n := f32Count(values.Data)
	if len(indices.Data)/4 != n {
		return nil, compute.NewShapeMismatch("scatter_add: values and indices must have the same length")
	}
	accLen := f32Count(accumulator.Data)
	result := make([]byte, len(accumulator.Data))
	copy(result, accumulator.Data)
	for i := 0; i < n; i++ {
		idx := int(mathf.GetU32(indices.Data[i*4:]))
		if idx < 0 || idx >= accLen {
			return nil, compute.NewShapeMismatch(fmt.Sprintf("scatter_add: index %d out of bounds for accumulator of length %d", idx, accLen))
		}
		writeF32(result, idx, readF32(result, idx)+readF32(values.Data, i))
	}
	return [][]byte{result}, nil
}

// dispatchGather computes out[i] = source[indices[i]].
func dispatchGather(bindings []compute.BufferView) ([][]byte, error) {
	source, indices, out := bindings[0], bindings[1], bindings[2]
	srcLen := f32Count(source.Data)
	n := len(indices.Data) / 4
	if srcLen == 0 && n > 0 {
		return nil, compute.NewShapeMismatch("gather: empty source with non-empty indices")
	}
	result := make([]byte, len(out.Data))
	if len(result) != n*f32Size {
		return nil, compute.NewShapeMismatch("gather: out must hold one f32 per index")
	}
	for i := 0; i < n; i++ {
		idx := int(mathf.GetU32(indices.Data[i*4:]))
		if idx < 0 || idx >= srcLen {
			return nil, compute.NewShapeMismatch(fmt.Sprintf("gather: index %d out of bounds for source of length %d", idx, srcLen))
		}
		writeF32(result, i, readF32(source.Data, idx))
	}
	return [][]byte{result}, nil
}
