// SPDX-License-Identifier: Unlicense OR MIT

// Package vmath implements the float32 vector algebra, RNG and sampling
// primitives the renderer builds on: 3D and 2D vectors, a per-goroutine
// xorshift32 generator, and the unit-sphere/unit-disk samplers the path
// tracer and camera need.
package vmath

import "math"

// Vec3 is a three dimensional vector or point. The renderer never
// distinguishes the two at the type level; callers know which is meant from
// context, matching the source material's convention.
type Vec3 struct {
	X, Y, Z float32
}

// Colour is an alias used where a Vec3 is carrying linear RGB rather than a
// spatial quantity.
type Colour = Vec3

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Mul returns v scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// MulVec returns the component-wise (Hadamard) product of v and w, used to
// attenuate a ray colour by a material's albedo.
func (v Vec3) MulVec(w Vec3) Vec3 {
	return Vec3{v.X * w.X, v.Y * w.Y, v.Z * w.Z}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns v·w.
func (v Vec3) Dot(w Vec3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns v×w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// LengthSquared returns ‖v‖².
func (v Vec3) LengthSquared() float32 {
	return v.Dot(v)
}

// Length returns ‖v‖.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Unit returns v normalised to unit length. The zero vector is returned
// unchanged rather than dividing by zero.
func (v Vec3) Unit() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// NearZero reports whether every component is close enough to zero that
// treating v as degenerate (e.g. a Lambertian scatter direction that
// cancelled the normal) is safe.
func (v Vec3) NearZero() bool {
	const eps = 1e-8
	return float32(math.Abs(float64(v.X))) < eps &&
		float32(math.Abs(float64(v.Y))) < eps &&
		float32(math.Abs(float64(v.Z))) < eps
}

// Reflect returns v reflected about normal n (n must be unit length).
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract returns the refraction of unit vector v across the surface with
// unit normal n, given the ratio of indices of refraction etaiOverEtat.
// Total internal reflection must be ruled out by the caller (Schlick +
// sinTheta check) before calling this.
func (v Vec3) Refract(n Vec3, etaiOverEtat float32) Vec3 {
	cosTheta := float32(math.Min(float64(v.Neg().Dot(n)), 1))
	rOutPerp := v.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-float32(math.Sqrt(math.Abs(float64(1 - rOutPerp.LengthSquared())))))
	return rOutPerp.Add(rOutParallel)
}

// Clamp clamps every component to [lo, hi].
func (v Vec3) Clamp(lo, hi float32) Vec3 {
	clamp1 := func(f float32) float32 {
		if f < lo {
			return lo
		}
		if f > hi {
			return hi
		}
		return f
	}
	return Vec3{clamp1(v.X), clamp1(v.Y), clamp1(v.Z)}
}
