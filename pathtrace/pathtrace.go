// SPDX-License-Identifier: Unlicense OR MIT

// Package pathtrace implements the recursive ray_colour function and the
// per-pixel sample integration.
package pathtrace

import (
	"math"

	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/vmath"
)

// Background is the fixed dark-grey miss colour.
var Background = vmath.Colour{X: 0.1, Y: 0.1, Z: 0.1}

// RayColour implements the recursive trace: hit test, look up the
// material, let it emit and/or scatter, and recurse on the scattered ray
// until it misses or depth is exhausted.
func RayColour(r geom.Ray, sc *scene.Scene, depth int, rng *vmath.RNG) vmath.Colour {
	if depth <= 0 {
		return vmath.Colour{}
	}

	var rec geom.HitRecord
	if !sc.Hit(r, geom.TMinEpsilon, float32(math.Inf(1)), &rec) {
		return Background
	}

	mat := sc.Materials[rec.MatIndex]
	emission := mat.Emission()

	emitted, attenuation, scattered := mat.Scatter(rng, r, rec)
	if !emitted {
		return emission
	}

	return emission.Add(attenuation.MulVec(RayColour(scattered, sc, depth-1, rng)))
}

// PixelSample integrates spp samples for output pixel (px,py) using
// sc.Camera over scene sc, jittering within the pixel and, when the
// camera has a defocus disk, sampling the lens.
func PixelSample(sc *scene.Scene, px, py, spp, maxDepth int, rng *vmath.RNG) vmath.Colour {
	var sum vmath.Colour
	for s := 0; s < spp; s++ {
		jx := rng.Float32() - 0.5
		jy := rng.Float32() - 0.5
		var du, dv float32
		if sc.Camera.DefocusAngle > 0 {
			disk := rng.InUnitDisk()
			du, dv = disk.X, disk.Y
		}
		r := sc.Camera.Ray(px, py, jx, jy, du, dv)
		sum = sum.Add(RayColour(r, sc, maxDepth, rng))
	}
	return sum.Mul(1 / float32(spp))
}

// PackARGB gamma-encodes (γ=2, i.e. sqrt per channel), clamps to [0,1] and
// packs colour into ARGB32 with alpha=255.
func PackARGB(c vmath.Colour) uint32 {
	enc := func(f float32) uint32 {
		if f < 0 {
			f = 0
		}
		g := float32(math.Sqrt(float64(f)))
		if g > 1 {
			g = 1
		}
		return uint32(g*255 + 0.5)
	}
	r := enc(c.X)
	g := enc(c.Y)
	b := enc(c.Z)
	return 0xFF<<24 | r<<16 | g<<8 | b
}
