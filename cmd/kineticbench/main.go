// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command kineticbench runs a physics.World for a fixed number of steps and
// reports step timing and a few invariant checks, without opening a window
// or touching a renderer — a plain stdlib-flag CLI in the same spirit as
// gazed-vu's eg examples runner.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	steps := flag.Int("steps", 300, "number of physics steps to run")
	scenePath := flag.String("scene", "", "path to a scene YAML file (built-in scene if empty)")
	flag.Parse()

	var world *worldRunner
	if *scenePath != "" {
		w, err := loadScene(*scenePath)
		if err != nil {
			log.Fatal(err)
		}
		world = newWorldRunner(w)
	} else {
		world = newWorldRunner(defaultScene())
	}

	start := time.Now()
	for i := 0; i < *steps; i++ {
		if err := world.w.Step(); err != nil {
			log.Fatalf("step %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("ran %d steps in %s (%.2f us/step)\n", *steps, elapsed, float64(elapsed.Microseconds())/float64(*steps))
	world.reportInvariants()
}
