// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package mathf

import (
	"encoding/binary"
	"math"
)

// putF32 writes x as a little-endian f32 into dst[0:4].
func putF32(dst []byte, x float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(x))
}

// getF32 reads a little-endian f32 from src[0:4].
func getF32(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}

// PutU32 writes x as a little-endian u32 into dst[0:4].
func PutU32(dst []byte, x uint32) { binary.LittleEndian.PutUint32(dst, x) }

// GetU32 reads a little-endian u32 from src[0:4].
func GetU32(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }

// PutF32 writes x as a little-endian f32 into dst[0:4]. Exported wrapper
// around putF32 for callers outside this package that build raw binding
// bytes (compute/cpuexec, compute/gpuexec).
func PutF32(dst []byte, x float32) { putF32(dst, x) }

// GetF32 reads a little-endian f32 from src[0:4].
func GetF32(src []byte) float32 { return getF32(src) }
