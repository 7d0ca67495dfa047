// SPDX-License-Identifier: Unlicense OR MIT

package vmath

// Vec2 is a two dimensional vector, used for texture coordinates and the
// barycentric (u,v) pairs triangles and quads fill into a HitRecord.
type Vec2 struct {
	X, Y float32
}

// Add returns v+w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Sub returns v-w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

// Mul returns v scaled by s.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}
