// SPDX-License-Identifier: Unlicense OR MIT

package pathtrace

import (
	"testing"

	"github.com/rayforge/raybun/tile"
)

func TestRenderLocalFillsEveryPixel(t *testing.T) {
	sc, st := loadScene(t, redSphereScene)
	work := tile.NewWork(tile.Plan(st.Width, st.Height, 16))

	RenderLocal(sc, st, work, 4, 1234)

	if int(work.Finished()) < work.TileCount() {
		t.Fatalf("Finished() = %d, want >= %d", work.Finished(), work.TileCount())
	}
	for i, px := range st.Image {
		if px>>24 != 0xFF {
			t.Fatalf("pixel %d alpha = %x, want ff", i, px>>24)
		}
	}
}

func TestSingleThreadRenderLocalReproducibleUnderSameSeed(t *testing.T) {
	sc1, st1 := loadScene(t, redSphereScene)
	sc2, st2 := loadScene(t, redSphereScene)

	work1 := tile.NewWork(tile.Plan(st1.Width, st1.Height, 16))
	work2 := tile.NewWork(tile.Plan(st2.Width, st2.Height, 16))

	RenderLocal(sc1, st1, work1, 1, 42)
	RenderLocal(sc2, st2, work2, 1, 42)

	for i := range st1.Image {
		if st1.Image[i] != st2.Image[i] {
			t.Fatalf("pixel %d differs between two single-threaded runs with the same seed: %08x vs %08x", i, st1.Image[i], st2.Image[i])
		}
	}
}
