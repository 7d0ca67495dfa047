// SPDX-License-Identifier: Unlicense OR MIT

// Package geom implements the geometric primitives, the ray/primitive
// intersection algebra, and the axis-aligned bounding boxes the BVH is
// built from.
package geom

import "github.com/rayforge/raybun/vmath"

// Ray is an origin and an un-normalised direction. inv_dir is cached so the
// BVH slab test can multiply instead of divide on every traversal step.
type Ray struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
	InvDir    vmath.Vec3
}

// NewRay builds a Ray and precomputes InvDir. Components of Direction that
// are exactly zero produce +Inf/-Inf reciprocals, which is intentional: the
// slab test's min/max comparisons handle infinities correctly without a
// branch.
func NewRay(origin, direction vmath.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		InvDir: vmath.Vec3{
			X: 1 / direction.X,
			Y: 1 / direction.Y,
			Z: 1 / direction.Z,
		},
	}
}

// At returns the point origin + t*direction.
func (r Ray) At(t float32) vmath.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// HitRecord is filled in by a primitive's Hit on success.
type HitRecord struct {
	Point     vmath.Vec3
	Normal    vmath.Vec3 // oriented so Normal·ray.Direction < 0
	T         float32
	UV        vmath.Vec2
	FrontFace bool
	MatIndex  int
}

// SetFaceNormal orients rec.Normal to face against the incoming ray and
// records whether the geometric hit was a front face: front-face iff that
// dot was already negative for the geometric normal.
func (rec *HitRecord) SetFaceNormal(r Ray, outwardNormal vmath.Vec3) {
	rec.FrontFace = r.Direction.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}

// TMinEpsilon is the shadow-acne mitigation floor every top-level trace
// uses for tmin.
const TMinEpsilon = 0.001
