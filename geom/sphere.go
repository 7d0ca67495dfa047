// SPDX-License-Identifier: Unlicense OR MIT

package geom

import (
	"math"

	"github.com/rayforge/raybun/vmath"
)

// Sphere is a solid sphere primitive.
type Sphere struct {
	Center   vmath.Vec3
	Radius   float32
	Material int
}

// Hit solves ‖o+t·d−c‖²=r² in half-discriminant form.
func (s Sphere) Hit(r Ray, tmin, tmax float32, rec *HitRecord) bool {
	oc := s.Center.Sub(r.Origin)
	a := r.Direction.LengthSquared()
	h := r.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius
	disc := h*h - a*c
	if disc < 0 {
		return false
	}
	sqrtd := float32(math.Sqrt(float64(disc)))

	root := (h - sqrtd) / a
	if root <= tmin || root >= tmax {
		root = (h + sqrtd) / a
		if root <= tmin || root >= tmax {
			return false
		}
	}

	rec.T = root
	rec.Point = r.At(root)
	outwardNormal := rec.Point.Sub(s.Center).Mul(1 / s.Radius)
	rec.SetFaceNormal(r, outwardNormal)
	rec.UV = sphereUV(outwardNormal)
	rec.MatIndex = s.Material
	return true
}

func sphereUV(p vmath.Vec3) vmath.Vec2 {
	theta := float32(math.Acos(float64(-p.Y)))
	phi := float32(math.Atan2(float64(-p.Z), float64(p.X))) + math.Pi
	return vmath.Vec2{X: phi / (2 * math.Pi), Y: theta / math.Pi}
}

// Bounds returns the AABB tangent to the sphere on every face.
func (s Sphere) Bounds() AABB {
	r := vmath.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return NewAABB(s.Center.Sub(r), s.Center.Add(r))
}

// MatIndex returns the material index.
func (s Sphere) MatIndex() int { return s.Material }
