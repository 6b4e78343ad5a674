// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package cpuexec

import (
	"github.com/ridgeback/kinetic/compute"
	"github.com/ridgeback/kinetic/internal/mathf"
)

// dispatchMatMul computes C = A*B for row-major A[M,K], B[K,N], C[M,N].
func dispatchMatMul(bindings []compute.BufferView) ([][]byte, error) {
	a, b, out, config := bindings[0], bindings[1], bindings[2], bindings[3]
	if len(config.Data) != 12 {
		return nil, compute.NewShapeMismatch("matmul: config must be (M,K,N) u32")
	}
	m := int(mathf.GetU32(config.Data[0:]))
	k := int(mathf.GetU32(config.Data[4:]))
	n := int(mathf.GetU32(config.Data[8:]))
	if f32Count(a.Data) != m*k {
		return nil, compute.NewShapeMismatch("matmul: A does not match M*K")
	}
	if f32Count(b.Data) != k*n {
		return nil, compute.NewShapeMismatch("matmul: B does not match K*N")
	}
	result := make([]byte, len(out.Data))
	if len(result) != m*n*f32Size {
		return nil, compute.NewShapeMismatch("matmul: out does not match M*N")
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for p := 0; p < k; p++ {
				sum += readF32(a.Data, i*k+p) * readF32(b.Data, p*n+j)
			}
			writeF32(result, i*n+j, sum)
		}
	}
	return [][]byte{result}, nil
}
