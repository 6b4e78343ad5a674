// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package gpuexec

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/ridgeback/kinetic/compute"
)

// getOrCreatePipeline returns the cached pipeline for kernel, compiling and
// inserting one on first use. The insert path re-checks the map after
// acquiring the write lock: a bare read-miss-then-insert has a TOCTOU
// window where two goroutines both miss the cache for the same kernel and
// both compile a pipeline, leaking the loser's GPU resources.
func (e *Executor) getOrCreatePipeline(kernel compute.Kernel) (*pipelineEntry, error) {
	e.mu.RLock()
	entry, ok := e.pipeline[kernel]
	e.mu.RUnlock()
	if ok {
		return entry, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.pipeline[kernel]; ok {
		return entry, nil
	}

	entry, err := e.compilePipeline(kernel)
	if err != nil {
		return nil, err
	}
	e.pipeline[kernel] = entry
	return entry, nil
}

func (e *Executor) compilePipeline(kernel compute.Kernel) (*pipelineEntry, error) {
	source, ok := wgslSource[kernel]
	if !ok {
		return nil, fmt.Errorf("gpuexec: no WGSL source registered for kernel %s", kernel)
	}

	module, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  kernel.String(),
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: compiling %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, kernel.BindingCount())
	for i := range entries {
		var bufType gputypes.BufferBindingType
		switch kernel.BindingRole(i) {
		case compute.ReadStorage:
			bufType = gputypes.BufferBindingTypeReadOnlyStorage
		case compute.ReadWriteStorage:
			bufType = gputypes.BufferBindingTypeStorage
		case compute.Uniform:
			bufType = gputypes.BufferBindingTypeUniform
		}
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bufType},
		}
	}

	layout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   kernel.String() + "-bgl",
		Entries: entries,
	})
	if err != nil {
		e.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("gpuexec: %w: bind group layout for %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	pipelineLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            kernel.String() + "-pl",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		e.device.DestroyBindGroupLayout(layout)
		e.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("gpuexec: %w: pipeline layout for %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	pipeline, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  kernel.String() + "-pipeline",
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: kernel.EntryPoint(),
		},
	})
	if err != nil {
		e.device.DestroyPipelineLayout(pipelineLayout)
		e.device.DestroyBindGroupLayout(layout)
		e.device.DestroyShaderModule(module)
		return nil, fmt.Errorf("gpuexec: %w: compute pipeline for %s: %v", compute.ErrBackendUnavailable, kernel, err)
	}

	return &pipelineEntry{
		module:          module,
		bindGroupLayout: layout,
		pipelineLayout:  pipelineLayout,
		pipeline:        pipeline,
	}, nil
}
