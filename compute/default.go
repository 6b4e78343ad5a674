// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package compute

import "log/slog"

// backendOpener is satisfied by gpuexec.New; injected via RegisterGPUBackend
// so this leaf package never imports compute/gpuexec directly (gpuexec
// already imports compute for the Kernel/BufferView contract, and a
// straight import the other way would cycle).
var gpuOpener func() (Backend, error)

// cpuOpener is satisfied by cpuexec.New, wired the same way.
var cpuOpener func() Backend

// RegisterGPUBackend wires the GPU executor's constructor into
// DefaultBackend. Called once by compute/gpuexec's init, so any program
// that imports compute/gpuexec (a blank import is enough) registers it; the
// registration-at-init pattern gpuexec's pipeline cache itself avoids
// needing because Kernel is a closed enum — here the indirection exists
// only to break the import cycle, not to add dynamism to the kernel set.
func RegisterGPUBackend(open func() (Backend, error)) { gpuOpener = open }

// RegisterCPUBackend wires the CPU executor's constructor. Always called
// by compute/cpuexec's init so DefaultBackendCPU works even if the GPU
// package is never imported.
func RegisterCPUBackend(open func() Backend) { cpuOpener = open }

// DefaultBackend tries the registered GPU backend first; on any error
// (no adapter, compile failure, or no GPU backend registered at all) it
// logs at slog.Warn and falls back to the CPU backend.
func DefaultBackend() Backend {
	if gpuOpener != nil {
		if b, err := gpuOpener(); err == nil {
			return b
		} else {
			slog.Warn("gpu backend unavailable, falling back to cpu", "error", err)
		}
	}
	return DefaultBackendCPU()
}

// DefaultBackendCPU returns the CPU backend directly, for tests and
// headless CI that want to skip GPU probing altogether.
func DefaultBackendCPU() Backend {
	if cpuOpener == nil {
		panic("compute: no CPU backend registered; import compute/cpuexec")
	}
	return cpuOpener()
}

// UseCPU is an alias for DefaultBackendCPU kept for call sites that read
// more naturally as an explicit escape hatch than as "the default".
func UseCPU() Backend { return DefaultBackendCPU() }
