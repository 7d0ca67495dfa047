// SPDX-License-Identifier: Unlicense OR MIT

package pathtrace

import (
	"golang.org/x/sync/errgroup"

	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/tile"
	"github.com/rayforge/raybun/vmath"
)

// RenderTile shades every pixel of t directly into st.Image, seeding a
// fresh per-goroutine RNG from baseSeed ⊕ threadID ⊕ tileID. A tile's
// pixels are reproducible for a fixed base seed when the same thread ID
// renders it; with several threads, which thread claims which tile varies
// from run to run, so multi-threaded images are not bit-reproducible.
func RenderTile(sc *scene.Scene, st *scene.State, t tile.Tile, tileID, threadID int, baseSeed uint32) uint64 {
	rng := vmath.NewRNG(baseSeed ^ uint32(threadID) ^ uint32(tileID))
	var rays uint64
	for y := t.Y; y < t.Y+t.TH; y++ {
		for x := t.X; x < t.X+t.TW; x++ {
			c := PixelSample(sc, x, y, st.SamplesPerPixel, st.MaxDepth, rng)
			st.Image[y*st.Width+x] = PackARGB(c)
			rays += uint64(st.SamplesPerPixel)
		}
	}
	return rays
}

// RenderLocal runs the tile loop across numThreads goroutines, each
// repeatedly claiming the next tile from work until none remain. This is
// the local thread pool both the standalone driver and the master's own
// in-process workers use.
//
// Orchestration follows cmd/gogio's concurrent-build pattern
// (golang.org/x/sync/errgroup fanning out a bounded set of goroutines and
// joining them); the render kernel itself never returns an error, so every
// goroutine always reports nil.
func RenderLocal(sc *scene.Scene, st *scene.State, work *tile.Work, numThreads int, baseSeed uint32) {
	if numThreads < 1 {
		numThreads = 1
	}
	var g errgroup.Group
	for thread := 0; thread < numThreads; thread++ {
		thread := thread
		g.Go(func() error {
			for {
				tileID, t, ok := work.Claim()
				if !ok {
					return nil
				}
				rays := RenderTile(sc, st, t, tileID, thread, baseSeed)
				work.AddRays(rays)
			}
		})
	}
	_ = g.Wait() // render kernel is pure CPU; no goroutine ever returns an error
}
