// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package gpuexec

import "github.com/gogpu/gputypes"

// Option configures a New call, the same functional-options shape used
// throughout this module's configuration surface.
type Option func(*config)

type config struct {
	backends gputypes.Backends
}

func defaultConfig() config {
	return config{backends: gputypes.BackendsAll}
}

// PreferBackend restricts adapter enumeration to the given backend bitmask
// (e.g. gputypes.BackendsVulkan), letting tests pin a specific backend
// instead of accepting whatever the platform default would pick.
func PreferBackend(b gputypes.Backends) Option {
	return func(c *config) { c.backends = b }
}
