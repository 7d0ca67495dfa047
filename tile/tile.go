// SPDX-License-Identifier: Unlicense OR MIT

// Package tile partitions an image into rectangular tiles and provides the
// atomic work-stealing-style claim cursor (Work) and the master-only
// tile assignment table.
package tile

import "sync/atomic"

// Tile is a rectangular subregion of the output image.
type Tile struct {
	X, Y   int
	TW, TH int
}

// Plan partitions a width x height image into tiles of size x size
// (the final row/column may be smaller), covering [0,width)x[0,height)
// exactly once with no overlap.
func Plan(width, height, size int) []Tile {
	if size <= 0 {
		size = width
	}
	var tiles []Tile
	for y := 0; y < height; y += size {
		th := size
		if y+th > height {
			th = height - y
		}
		for x := 0; x < width; x += size {
			tw := size
			if x+tw > width {
				tw = width - x
			}
			tiles = append(tiles, Tile{X: x, Y: y, TW: tw, TH: th})
		}
	}
	return tiles
}

// Work is the tile plan's atomic claim cursor: each render thread does
// curr = atomic_fetch_add(tile_finished, 1); if curr >= tile_count, exit.
type Work struct {
	Tiles    []Tile
	finished atomic.Uint32
	rayCount atomic.Uint64
}

// NewWork builds a Work over the given tiles.
func NewWork(tiles []Tile) *Work {
	return &Work{Tiles: tiles}
}

// Claim atomically advances the cursor and returns the next tile to render.
// ok is false once every tile has been claimed.
func (w *Work) Claim() (idx int, t Tile, ok bool) {
	curr := w.finished.Add(1) - 1
	if int(curr) >= len(w.Tiles) {
		return 0, Tile{}, false
	}
	return int(curr), w.Tiles[curr], true
}

// Finished returns the current claim cursor value. Every Claim advances
// the cursor, including the ones that find no tile left, so once a render
// completes the value is at least tile_count and usually above it.
func (w *Work) Finished() uint32 { return w.finished.Load() }

// TileCount returns the total number of tiles.
func (w *Work) TileCount() int { return len(w.Tiles) }

// AddRays adds n to the telemetry ray counter. Relaxed ordering is
// sufficient: no memory is published via this counter.
func (w *Work) AddRays(n uint64) { w.rayCount.Add(n) }

// RayCount returns the telemetry ray counter.
func (w *Work) RayCount() uint64 { return w.rayCount.Load() }

// AssignmentStatus is the per-tile state machine the master tracks.
type AssignmentStatus int

const (
	Unassigned AssignmentStatus = iota
	InFlight
	Completed
)

// Assignment is one row of the master-only TileAssignment table.
type Assignment struct {
	Tile             Tile
	Status           AssignmentStatus
	AssignedWorkerID string // worker_id of the HTTP claimant; empty for tiles the master's own threads render, which never update this table
}
