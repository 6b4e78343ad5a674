// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package gpuexec is the wgpu-backed implementation of every kernel in
// compute.Kernel, built against github.com/gogpu/wgpu/hal and
// github.com/gogpu/gputypes — the same HAL surface exercised end to end by
// the pack's Vulkan compute integration test. One hal.Device/hal.Queue pair
// is opened at construction and reused for the executor's lifetime; a
// pipeline is compiled once per kernel and cached.
package gpuexec

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/ridgeback/kinetic/compute"
)

// Executor dispatches kernels on a single opened GPU device.
type Executor struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	mu       sync.RWMutex
	pipeline map[compute.Kernel]*pipelineEntry
}

type pipelineEntry struct {
	module         hal.ShaderModule
	bindGroupLayout hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.ComputePipeline
}

// New opens a GPU adapter and device, applying opts, and returns an
// Executor ready to dispatch. It returns compute.ErrBackendUnavailable
// wrapped with context when no adapter, device, or instance can be
// obtained — callers fall back to cpuexec.New, mirroring the
// `#[cfg(feature = "gpu")]` split this module's default backend selector
// implements.
func New(opts ...Option) (*Executor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	instance, err := hal.NewInstance(&hal.InstanceDescriptor{Backends: cfg.backends})
	if err != nil {
		return nil, fmt.Errorf("gpuexec: %w: creating instance: %v", compute.ErrBackendUnavailable, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpuexec: %w: no adapters found", compute.ErrBackendUnavailable)
	}
	open, err := adapters[0].Adapter.Open(0, adapters[0].Capabilities.Limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpuexec: %w: opening device: %v", compute.ErrBackendUnavailable, err)
	}

	return &Executor{
		instance: instance,
		device:   open.Device,
		queue:    open.Queue,
		pipeline: make(map[compute.Kernel]*pipelineEntry),
	}, nil
}

// Name identifies this backend in log lines.
func (e *Executor) Name() string { return "gpu" }

func init() {
	compute.RegisterGPUBackend(func() (compute.Backend, error) { return New() })
}

// Close waits for outstanding work and releases the device and instance.
// Cached pipelines are released along with the device that owns them.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, entry := range e.pipeline {
		e.device.DestroyComputePipeline(entry.pipeline)
		e.device.DestroyPipelineLayout(entry.pipelineLayout)
		e.device.DestroyBindGroupLayout(entry.bindGroupLayout)
		e.device.DestroyShaderModule(entry.module)
		delete(e.pipeline, k)
	}
	if err := e.device.WaitIdle(); err != nil {
		return fmt.Errorf("gpuexec: waiting idle: %w", err)
	}
	e.device.Destroy()
	e.instance.Destroy()
	return nil
}
