// SPDX-License-Identifier: Unlicense OR MIT

// Package material implements the four material variants (Lambertian,
// Metal, Dielectric, Emissive) and the scatter function the path tracer
// calls on every bounce.
package material

import (
	"math"

	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/vmath"
)

// Material is the tagged-union interface every variant satisfies. Emissive
// is the one variant that never scatters; Scatter returns emitted=false
// for it and the caller adds Emission separately.
type Material interface {
	// Scatter computes the bounce for a ray hitting this material. It
	// returns whether a scattered ray was produced, the attenuation to
	// apply to whatever colour that ray returns, and the scattered ray
	// itself (meaningless when emitted is false).
	Scatter(rng *vmath.RNG, rayIn geom.Ray, rec geom.HitRecord) (emitted bool, attenuation vmath.Colour, scattered geom.Ray)

	// Emission returns the material's self-emitted colour; zero for every
	// variant but Emissive.
	Emission() vmath.Colour
}

// Lambertian always scatters, attenuating by Albedo.
type Lambertian struct {
	Albedo vmath.Colour
}

func (m Lambertian) Scatter(rng *vmath.RNG, rayIn geom.Ray, rec geom.HitRecord) (bool, vmath.Colour, geom.Ray) {
	dir := rec.Normal.Add(rng.UnitVector())
	if dir.NearZero() {
		dir = rec.Normal
	}
	return true, m.Albedo, geom.NewRay(rec.Point, dir)
}

func (m Lambertian) Emission() vmath.Colour { return vmath.Colour{} }

// Metal reflects with a random perturbation scaled by Fuzz, rejecting the
// scatter when the perturbed ray points back into the surface.
type Metal struct {
	Albedo vmath.Colour
	Fuzz   float32
}

func (m Metal) Scatter(rng *vmath.RNG, rayIn geom.Ray, rec geom.HitRecord) (bool, vmath.Colour, geom.Ray) {
	reflected := rayIn.Direction.Unit().Reflect(rec.Normal)
	dir := reflected.Unit().Add(rng.UnitVector().Mul(m.Fuzz))
	if dir.Dot(rec.Normal) <= 0 {
		return false, vmath.Colour{}, geom.Ray{}
	}
	return true, m.Albedo, geom.NewRay(rec.Point, dir)
}

func (m Metal) Emission() vmath.Colour { return vmath.Colour{} }

// Dielectric refracts or reflects per Snell's law with Schlick
// reflectance.
type Dielectric struct {
	EtaiOverEtat float32
}

func (m Dielectric) Scatter(rng *vmath.RNG, rayIn geom.Ray, rec geom.HitRecord) (bool, vmath.Colour, geom.Ray) {
	eta := m.EtaiOverEtat
	if rec.FrontFace {
		eta = 1 / m.EtaiOverEtat
	}

	unitDir := rayIn.Direction.Unit()
	cosTheta := float32(math.Min(float64(unitDir.Neg().Dot(rec.Normal)), 1))
	sinTheta := float32(math.Sqrt(float64(1 - cosTheta*cosTheta)))

	var dir vmath.Vec3
	if eta*sinTheta > 1 || schlick(cosTheta, eta) > rng.Float32() {
		dir = unitDir.Reflect(rec.Normal)
	} else {
		dir = unitDir.Refract(rec.Normal, eta)
	}

	attenuation := vmath.Colour{X: 1, Y: 1, Z: 1}
	return true, attenuation, geom.NewRay(rec.Point, dir)
}

func (m Dielectric) Emission() vmath.Colour { return vmath.Colour{} }

// schlick computes the Schlick approximation of Fresnel reflectance:
// R0=((1−η)/(1+η))²; R=R0+(1−R0)(1−cosθ)⁵.
func schlick(cosTheta, eta float32) float32 {
	r0 := (1 - eta) / (1 + eta)
	r0 = r0 * r0
	return r0 + (1-r0)*pow5(1-cosTheta)
}

func pow5(x float32) float32 {
	x2 := x * x
	return x2 * x2 * x
}

// Emissive never scatters; it contributes Emission on hit.
type Emissive struct {
	Colour vmath.Colour
}

func (m Emissive) Scatter(rng *vmath.RNG, rayIn geom.Ray, rec geom.HitRecord) (bool, vmath.Colour, geom.Ray) {
	return false, vmath.Colour{}, geom.Ray{}
}

func (m Emissive) Emission() vmath.Colour { return m.Colour }
