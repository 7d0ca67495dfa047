// SPDX-License-Identifier: Unlicense OR MIT

package vmath

import "math"

// RNG is a xorshift32 generator, one instance per rendering goroutine. It
// is deliberately not safe for concurrent use: every tile-loop worker owns
// its own RNG seeded from (base ⊕ goroutine id ⊕ tile id), never shared.
type RNG struct {
	state uint32
}

// NewRNG seeds a generator. A zero seed is nudged to a fixed non-zero value
// since xorshift is fixed at zero forever otherwise.
func NewRNG(seed uint32) *RNG {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return &RNG{state: seed}
}

// Uint32 returns the next raw xorshift32 output.
func (r *RNG) Uint32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float32 returns a uniform value in [0,1).
func (r *RNG) Float32() float32 {
	return float32(r.Uint32()>>8) / float32(1<<24)
}

// Range returns a uniform value in [lo,hi).
func (r *RNG) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*r.Float32()
}

// UnitVector returns a uniformly distributed point on the unit sphere, via
// rejection sampling inside the unit cube.
func (r *RNG) UnitVector() Vec3 {
	for {
		p := Vec3{r.Range(-1, 1), r.Range(-1, 1), r.Range(-1, 1)}
		lsq := p.LengthSquared()
		if lsq > 1e-20 && lsq <= 1 {
			return p.Mul(1 / float32(math.Sqrt(float64(lsq))))
		}
	}
}

// InUnitDisk returns a uniformly distributed point inside the unit disk in
// the XY plane (Z=0), used for thin-lens defocus sampling.
func (r *RNG) InUnitDisk() Vec3 {
	for {
		p := Vec3{r.Range(-1, 1), r.Range(-1, 1), 0}
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// OnHemisphere returns a random unit vector in the hemisphere around
// normal. Unused by the Lambertian model described in the spec (which
// biases toward the normal via normal+UnitVector), kept for material
// variants that want a flat hemispherical scatter.
func (r *RNG) OnHemisphere(normal Vec3) Vec3 {
	v := r.UnitVector()
	if v.Dot(normal) > 0 {
		return v
	}
	return v.Neg()
}
