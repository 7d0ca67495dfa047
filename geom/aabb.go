// SPDX-License-Identifier: Unlicense OR MIT

package geom

import "github.com/rayforge/raybun/vmath"

// minDelta pads a degenerate (zero-thickness) axis so the slab test never
// divides a t-interval down to exactly zero width.
const minDelta = 1e-4

// AABB is an axis-aligned bounding box. The invariant Max >= Min holds on
// every axis once NewAABB has padded degenerate axes.
type AABB struct {
	Min, Max vmath.Vec3
}

// NewAABB builds an AABB from two corner points in arbitrary order,
// padding any axis thinner than minDelta.
func NewAABB(a, b vmath.Vec3) AABB {
	box := AABB{
		Min: vmath.Vec3{X: min32(a.X, b.X), Y: min32(a.Y, b.Y), Z: min32(a.Z, b.Z)},
		Max: vmath.Vec3{X: max32(a.X, b.X), Y: max32(a.Y, b.Y), Z: max32(a.Z, b.Z)},
	}
	return box.padded()
}

func (b AABB) padded() AABB {
	pad := func(lo, hi float32) (float32, float32) {
		if hi-lo < minDelta {
			d := (minDelta - (hi - lo)) / 2
			return lo - d, hi + d
		}
		return lo, hi
	}
	b.Min.X, b.Max.X = pad(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = pad(b.Min.Y, b.Max.Y)
	b.Min.Z, b.Max.Z = pad(b.Min.Z, b.Max.Z)
	return b
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		Min: vmath.Vec3{X: min32(a.Min.X, b.Min.X), Y: min32(a.Min.Y, b.Min.Y), Z: min32(a.Min.Z, b.Min.Z)},
		Max: vmath.Vec3{X: max32(a.Max.X, b.Max.X), Y: max32(a.Max.Y, b.Max.Y), Z: max32(a.Max.Z, b.Max.Z)},
	}
}

// Contains reports whether o lies within b on every axis, within tol — used
// by the BVH-union invariant test.
func (b AABB) Contains(o AABB, tol float32) bool {
	return o.Min.X >= b.Min.X-tol && o.Max.X <= b.Max.X+tol &&
		o.Min.Y >= b.Min.Y-tol && o.Max.Y <= b.Max.Y+tol &&
		o.Min.Z >= b.Min.Z-tol && o.Max.Z <= b.Max.Z+tol
}

// AxisMin returns the box's minimum coordinate on the given axis (0=X,
// 1=Y, 2=Z), used by the BVH build to sort primitives along the split axis.
func (b AABB) AxisMin(axis int) float32 {
	switch axis {
	case 0:
		return b.Min.X
	case 1:
		return b.Min.Y
	default:
		return b.Min.Z
	}
}

// LongestAxis returns the axis (0,1,2) of greatest extent.
func (b AABB) LongestAxis() int {
	ex := b.Max.X - b.Min.X
	ey := b.Max.Y - b.Min.Y
	ez := b.Max.Z - b.Min.Z
	if ex > ey && ex > ez {
		return 0
	}
	if ey > ez {
		return 1
	}
	return 2
}

// Hit implements the slab method: for each axis, compute the entry/exit
// parametric distance, swap to ensure t0<=t1, and tighten the running
// [tmin,tmax] interval. A miss on any axis collapses the interval.
func (b AABB) Hit(r Ray, tmin, tmax float32) bool {
	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, invd float32
		switch axis {
		case 0:
			lo, hi, origin, invd = b.Min.X, b.Max.X, r.Origin.X, r.InvDir.X
		case 1:
			lo, hi, origin, invd = b.Min.Y, b.Max.Y, r.Origin.Y, r.InvDir.Y
		default:
			lo, hi, origin, invd = b.Min.Z, b.Max.Z, r.Origin.Z, r.InvDir.Z
		}
		t0 := (lo - origin) * invd
		t1 := (hi - origin) * invd
		if invd < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax <= tmin {
			return false
		}
	}
	return true
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
