// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import "errors"

// ErrNoSpheres is returned by World.Step when asked to step a world with no
// body of any primitive kind (sphere, box, or cylinder), whatever its
// BodyType. The name is kept from the single-sphere prototype spec.md
// generalizes from; the check itself covers all three kinds, per
// SPEC_FULL.md §7.
var ErrNoSpheres = errors.New("physics: world has no dynamic bodies to step")
