// SPDX-License-Identifier: Unlicense OR MIT

package geom

import (
	"math"

	"github.com/rayforge/raybun/vmath"
)

const triangleEpsilon = 1e-8

// Vertex carries position, normal and UV, so Hit can either
// barycentric-interpolate shading normals or fall back to the flat face
// normal when a vertex normal is the zero vector (i.e. the loader never
// supplied one).
type Vertex struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
	UV       vmath.Vec2
}

// Triangle is a single triangle primitive, Möller-Trumbore ready: E1, E2
// are precomputed edge vectors.
type Triangle struct {
	V1, V2, V3 Vertex
	E1, E2     vmath.Vec3
	Material   int
}

// NewTriangle builds a Triangle and precomputes its edge vectors.
func NewTriangle(v1, v2, v3 Vertex, material int) Triangle {
	return Triangle{
		V1: v1, V2: v2, V3: v3,
		E1:       v2.Position.Sub(v1.Position),
		E2:       v3.Position.Sub(v1.Position),
		Material: material,
	}
}

// Hit implements Möller-Trumbore.
func (t Triangle) Hit(r Ray, tmin, tmax float32, rec *HitRecord) bool {
	pvec := r.Direction.Cross(t.E2)
	det := t.E1.Dot(pvec)
	if float32(math.Abs(float64(det))) < triangleEpsilon {
		return false
	}
	invDet := 1 / det

	tvec := r.Origin.Sub(t.V1.Position)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return false
	}

	qvec := tvec.Cross(t.E1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return false
	}

	tt := t.E2.Dot(qvec) * invDet
	if tt <= tmin || tt >= tmax {
		return false
	}

	rec.T = tt
	rec.Point = r.At(tt)
	rec.UV = vmath.Vec2{X: u, Y: v}
	rec.MatIndex = t.Material

	outwardNormal := t.shadingNormal(u, v)
	rec.SetFaceNormal(r, outwardNormal)
	return true
}

// shadingNormal barycentric-interpolates the per-vertex normals when all
// three are non-zero, otherwise falls back to the flat face normal E1×E2.
func (t Triangle) shadingNormal(u, v float32) vmath.Vec3 {
	if t.V1.Normal.NearZero() || t.V2.Normal.NearZero() || t.V3.Normal.NearZero() {
		return t.E1.Cross(t.E2).Unit()
	}
	w := 1 - u - v
	n := t.V1.Normal.Mul(w).Add(t.V2.Normal.Mul(u)).Add(t.V3.Normal.Mul(v))
	return n.Unit()
}

// Bounds returns the union AABB of the three vertices.
func (t Triangle) Bounds() AABB {
	box := NewAABB(t.V1.Position, t.V2.Position)
	return Union(box, NewAABB(t.V3.Position, t.V3.Position))
}

// MatIndex returns the material index.
func (t Triangle) MatIndex() int { return t.Material }
