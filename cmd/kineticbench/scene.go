// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridgeback/kinetic/internal/mathf"
	"github.com/ridgeback/kinetic/physics"
	"github.com/ridgeback/kinetic/physics/builder"
)

// vec3 is the YAML-friendly [x, y, z] encoding of a mathf.Vec3.
type vec3 [3]float32

func (v vec3) toVec3() mathf.Vec3 { return mathf.NewVec3(v[0], v[1], v[2]) }

// sceneBody describes one rigid body; Kind selects which of Radius/
// HalfExtents/HalfHeight apply.
type sceneBody struct {
	Kind        string  `yaml:"kind"` // sphere | box | cylinder | plane
	Position    vec3    `yaml:"position"`
	Velocity    vec3    `yaml:"velocity"`
	Radius      float32 `yaml:"radius,omitempty"`
	HalfExtents vec3    `yaml:"half_extents,omitempty"`
	HalfHeight  float32 `yaml:"half_height,omitempty"`
	Density     float32 `yaml:"density,omitempty"`
}

// sceneFile is the top-level -scene document: a flat list of bodies plus
// global parameter overrides, loaded with gopkg.in/yaml.v3 the same way the
// teacher's scene graph was declaratively configured.
type sceneFile struct {
	Gravity          vec3        `yaml:"gravity"`
	TimeStep         float32     `yaml:"time_step"`
	SolverIterations int         `yaml:"solver_iterations"`
	Bodies           []sceneBody `yaml:"bodies"`
}

func loadScene(path string) (*physics.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kineticbench: reading scene: %w", err)
	}

	var sf sceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("kineticbench: parsing scene: %w", err)
	}

	opts := []physics.Option{}
	if sf.TimeStep > 0 {
		opts = append(opts, physics.TimeStep(sf.TimeStep))
	}
	if sf.SolverIterations > 0 {
		opts = append(opts, physics.SolverIterations(sf.SolverIterations))
	}
	if sf.Gravity != (vec3{}) {
		opts = append(opts, physics.Gravity(sf.Gravity.toVec3()))
	}

	w := physics.NewWorld(opts...)
	for _, b := range sf.Bodies {
		switch b.Kind {
		case "sphere":
			material := physics.DefaultMaterial()
			if b.Density > 0 {
				material.Density = b.Density
			}
			builder.AddSphereWithMaterial(w, b.Position.toVec3(), b.Velocity.toVec3(), b.Radius, material)
		case "box":
			builder.AddBox(w, b.Position.toVec3(), b.HalfExtents.toVec3(), b.Velocity.toVec3())
		case "cylinder":
			builder.AddCylinder(w, b.Position.toVec3(), b.Radius, b.HalfHeight, b.Velocity.toVec3())
		case "plane":
			builder.AddPlane(w, b.Position.toVec3().Unit(), 0, 0, 0)
		default:
			return nil, fmt.Errorf("kineticbench: unknown body kind %q", b.Kind)
		}
	}
	return w, nil
}

// defaultScene builds a small built-in scene (five spheres in a staggered
// diagonal column, dropped onto a ground plane) used when -scene is not
// given.
func defaultScene() *physics.World {
	w := physics.NewWorld()
	builder.AddPlane(w, mathf.NewVec3(0, 1, 0), 0, 0, 0)
	for i := 0; i < 5; i++ {
		pos := mathf.NewVec3(float32(i)*0.3-0.6, 2+float32(i)*1.1, 0)
		builder.AddSphere(w, pos, mathf.Zero, 0.5)
	}
	return w
}
