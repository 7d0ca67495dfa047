// SPDX-License-Identifier: Unlicense OR MIT

package geom

import (
	"math"

	"github.com/rayforge/raybun/vmath"
)

// Quad is a parallelogram primitive spanned by two edge vectors U, V from
// Corner. W is the cached (U×V)/‖U×V‖² basis vector enabling an O(1)
// barycentric test.
type Quad struct {
	Corner   vmath.Vec3
	U, V     vmath.Vec3
	Normal   vmath.Vec3
	D        float32
	W        vmath.Vec3
	Material int
}

// NewQuad builds a Quad, deriving Normal, D and W from Corner, u, v.
func NewQuad(corner, u, v vmath.Vec3, material int) Quad {
	n := u.Cross(v)
	unitNormal := n.Unit()
	return Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   unitNormal,
		D:        unitNormal.Dot(corner),
		W:        n.Mul(1 / n.LengthSquared()),
		Material: material,
	}
}

// Hit implements the standard quad test: a plane test followed by
// expressing the hit point in the (u,v) basis via W.
func (q Quad) Hit(r Ray, tmin, tmax float32, rec *HitRecord) bool {
	denom := q.Normal.Dot(r.Direction)
	if float32(math.Abs(float64(denom))) < planeEpsilon {
		return false
	}
	t := (q.D - q.Normal.Dot(r.Origin)) / denom
	if t <= tmin || t >= tmax {
		return false
	}

	intersection := r.At(t)
	planarHit := intersection.Sub(q.Corner)
	alpha := planarHit.Cross(q.V).Dot(q.W)
	beta := q.U.Cross(planarHit).Dot(q.W)
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return false
	}

	rec.T = t
	rec.Point = intersection
	rec.UV = vmath.Vec2{X: alpha, Y: beta}
	rec.MatIndex = q.Material
	rec.SetFaceNormal(r, q.Normal)
	return true
}

// Bounds returns the AABB of the quad's four corners, padded by NewAABB
// when the quad is planar with an axis.
func (q Quad) Bounds() AABB {
	opposite := q.Corner.Add(q.U).Add(q.V)
	box1 := NewAABB(q.Corner, opposite)
	box2 := NewAABB(q.Corner.Add(q.U), q.Corner.Add(q.V))
	return Union(box1, box2)
}

// MatIndex returns the material index.
func (q Quad) MatIndex() int { return q.Material }

// Box expands an axis-aligned box spanning corners a,b into the six Quads
// that bound it.
func Box(a, b vmath.Vec3, material int) []Quad {
	min := vmath.Vec3{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
	max := vmath.Vec3{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}

	dx := vmath.Vec3{X: max.X - min.X}
	dy := vmath.Vec3{Y: max.Y - min.Y}
	dz := vmath.Vec3{Z: max.Z - min.Z}

	return []Quad{
		NewQuad(vmath.Vec3{X: min.X, Y: min.Y, Z: max.Z}, dx, dy, material),                       // front
		NewQuad(vmath.Vec3{X: max.X, Y: min.Y, Z: max.Z}, dz.Neg(), dy, material),                  // right
		NewQuad(vmath.Vec3{X: max.X, Y: min.Y, Z: min.Z}, dx.Neg(), dy, material),                  // back
		NewQuad(vmath.Vec3{X: min.X, Y: min.Y, Z: min.Z}, dz, dy, material),                        // left
		NewQuad(vmath.Vec3{X: min.X, Y: max.Y, Z: max.Z}, dx, dz.Neg(), material),                  // top
		NewQuad(vmath.Vec3{X: min.X, Y: min.Y, Z: min.Z}, dx, dz, material),                        // bottom
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
