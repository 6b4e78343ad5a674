// Copyright © 2024 Ridgeback Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"log/slog"

	"github.com/ridgeback/kinetic/internal/mathf"
)

// gridBody is one entry SpatialGrid.Update places into a cell: which body
// (by kind+index) and where its center currently is.
type gridBody struct {
	Ref BodyRef
	Pos mathf.Vec3
}

// SpatialGrid is the uniform cartesian broad phase of spec.md §3: a fixed
// axis-aligned region divided into CellSize cubes, each holding the refs of
// the bodies whose center currently falls inside it. Bodies whose center
// leaves [Min,Max) are dropped from pairing entirely (they still integrate
// normally; see spec.md §4.6 stage 2).
type SpatialGrid struct {
	Min, Max mathf.Vec3
	CellSize float32

	cells map[gridCell][]gridBody
}

type gridCell struct{ x, y, z int32 }

// NewSpatialGrid returns an empty grid over [min,max) with the given cell
// size. cellSize <= 0 is replaced with 1 to avoid a divide-by-zero in Update.
func NewSpatialGrid(min, max mathf.Vec3, cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		slog.Warn("spatial grid cell size must be positive, defaulting to 1", "cell_size", cellSize)
		cellSize = 1
	}
	return &SpatialGrid{Min: min, Max: max, CellSize: cellSize}
}

func (g *SpatialGrid) cellOf(p mathf.Vec3) gridCell {
	return gridCell{
		x: int32(math32Floor((p.X - g.Min.X) / g.CellSize)),
		y: int32(math32Floor((p.Y - g.Min.Y) / g.CellSize)),
		z: int32(math32Floor((p.Z - g.Min.Z) / g.CellSize)),
	}
}

func (g *SpatialGrid) inBounds(p mathf.Vec3) bool {
	return p.X >= g.Min.X && p.X < g.Max.X &&
		p.Y >= g.Min.Y && p.Y < g.Max.Y &&
		p.Z >= g.Min.Z && p.Z < g.Max.Z
}

// Update rebuilds cell occupancy from scratch in O(len(bodies)), the
// rebuild-every-step strategy spec.md §4.6 stage 2 calls for. Bodies outside
// [Min,Max) are silently omitted, matching the "invariant" in spec.md §3.
func (g *SpatialGrid) Update(bodies []gridBody) {
	if g.cells == nil {
		g.cells = make(map[gridCell][]gridBody, len(bodies))
	} else {
		for k := range g.cells {
			delete(g.cells, k)
		}
	}
	for _, b := range bodies {
		if !g.inBounds(b.Pos) {
			continue
		}
		cell := g.cellOf(b.Pos)
		g.cells[cell] = append(g.cells[cell], b)
	}
}

// Pairs returns every unordered pair of body refs that co-occupy at least
// one cell, deduplicated. Pair order within the returned slice is not
// significant, but each pair (a,b) is emitted with a consistent a-before-b
// ordering by (Kind, Index) so callers can use it as a set key if needed.
func (g *SpatialGrid) Pairs() [][2]BodyRef {
	seen := make(map[[2]BodyRef]bool)
	var pairs [][2]BodyRef
	for _, occupants := range g.cells {
		for i := 0; i < len(occupants); i++ {
			for j := i + 1; j < len(occupants); j++ {
				pair := orderedPair(occupants[i].Ref, occupants[j].Ref)
				if pair[0] == pair[1] || seen[pair] {
					continue
				}
				seen[pair] = true
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}

func orderedPair(a, b BodyRef) [2]BodyRef {
	if a.Kind < b.Kind || (a.Kind == b.Kind && a.Index < b.Index) {
		return [2]BodyRef{a, b}
	}
	return [2]BodyRef{b, a}
}

// math32Floor avoids importing math just for Floor on a single float32 call
// site; kept here rather than in physics_util.go since it is only ever used
// by cell indexing.
func math32Floor(x float32) float32 {
	i := float32(int32(x))
	if x < 0 && i != x {
		return i - 1
	}
	return i
}
