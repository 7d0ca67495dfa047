// SPDX-License-Identifier: Unlicense OR MIT

package geom

import (
	"math"

	"github.com/rayforge/raybun/vmath"
)

const planeEpsilon = 1e-8

// Plane is an infinite plane. It has no finite AABB and is excluded from
// the BVH; Scene keeps planes in a side list traversed after BVH
// traversal.
type Plane struct {
	Normal   vmath.Vec3 // unit
	Point    vmath.Vec3
	D        float32 // Normal·Point, cached
	Material int
}

// NewPlane builds a Plane from a unit normal and a point on it.
func NewPlane(normal, point vmath.Vec3, material int) Plane {
	n := normal.Unit()
	return Plane{Normal: n, Point: point, D: n.Dot(point), Material: material}
}

// Hit implements the standard plane test: parallel rays (|n·d|<ε) miss;
// otherwise solve t=(d_plane − n·o)/(n·d).
func (p Plane) Hit(r Ray, tmin, tmax float32, rec *HitRecord) bool {
	denom := p.Normal.Dot(r.Direction)
	if float32(math.Abs(float64(denom))) < planeEpsilon {
		return false
	}
	t := (p.D - p.Normal.Dot(r.Origin)) / denom
	if t <= tmin || t >= tmax {
		return false
	}
	rec.T = t
	rec.Point = r.At(t)
	rec.SetFaceNormal(r, p.Normal)
	rec.UV = vmath.Vec2{}
	rec.MatIndex = p.Material
	return true
}

// MatIndex returns the material index.
func (p Plane) MatIndex() int { return p.Material }
