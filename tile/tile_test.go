// SPDX-License-Identifier: Unlicense OR MIT

package tile

import (
	"sync"
	"testing"
)

func TestPlanCoversImageExactlyOnceNoOverlap(t *testing.T) {
	width, height, size := 37, 29, 8
	tiles := Plan(width, height, size)

	covered := make([]int, width*height)
	for _, tl := range tiles {
		for y := tl.Y; y < tl.Y+tl.TH; y++ {
			for x := tl.X; x < tl.X+tl.TW; x++ {
				covered[y*width+x]++
			}
		}
	}
	for i, c := range covered {
		if c != 1 {
			t.Fatalf("pixel %d covered %d times, want exactly 1", i, c)
		}
	}
}

func TestClaimIsMonotonicAndExhaustive(t *testing.T) {
	tiles := Plan(16, 16, 4)
	w := NewWork(tiles)

	var wg sync.WaitGroup
	claimed := make([]int32, len(tiles))
	var mu sync.Mutex

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx, _, ok := w.Claim()
				if !ok {
					return
				}
				mu.Lock()
				claimed[idx]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if w.Finished() < uint32(len(tiles)) {
		t.Fatalf("Finished() = %d, want >= %d", w.Finished(), len(tiles))
	}
	for i, c := range claimed {
		if c != 1 {
			t.Errorf("tile %d claimed %d times, want exactly 1", i, c)
		}
	}
}

func TestClaimReturnsFalseOnceExhausted(t *testing.T) {
	w := NewWork(Plan(4, 4, 4))
	_, _, ok := w.Claim()
	if !ok {
		t.Fatal("expected first claim to succeed")
	}
	if _, _, ok := w.Claim(); ok {
		t.Fatal("expected second claim on a 1-tile plan to fail")
	}
}
