// SPDX-License-Identifier: Unlicense OR MIT

// Package camera derives the pinhole-plus-thin-lens viewport vectors from
// a small configuration struct.
package camera

import (
	"math"

	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/vmath"
)

// Config is the camera's user-facing configuration.
type Config struct {
	Position      vmath.Vec3
	LookAt        vmath.Vec3 // treated as a point, never normalised
	Up            vmath.Vec3
	FovRadians    float32
	AspectRatio   float32
	DefocusAngle  float32 // radians; 0 disables the defocus disk
	FocusDist     float32
}

// Camera holds the derived viewport tuple every tile-loop worker samples
// from: pixel00, Δu, Δv, and (when defocus is enabled) the defocus disk
// basis. This tuple must be bit-identical across master and worker for a
// given scene.
type Camera struct {
	Origin          vmath.Vec3
	Pixel00         vmath.Vec3
	DeltaU, DeltaV  vmath.Vec3
	DefocusAngle    float32
	DefocusDiskU    vmath.Vec3
	DefocusDiskV    vmath.Vec3
}

// New derives a Camera from cfg and the output image dimensions.
func New(cfg Config, width, height int) Camera {
	forward := cfg.LookAt.Sub(cfg.Position).Unit()
	right := forward.Cross(cfg.Up).Unit()
	up := right.Cross(forward)

	viewportH := 2 * float32(math.Tan(float64(cfg.FovRadians)/2)) * cfg.FocusDist
	viewportW := cfg.AspectRatio * viewportH

	vu := right.Mul(viewportW)
	vv := up.Neg().Mul(viewportH)

	deltaU := vu.Mul(1 / float32(width))
	deltaV := vv.Mul(1 / float32(height))

	topLeft := cfg.Position.
		Add(forward.Mul(cfg.FocusDist)).
		Sub(vu.Mul(0.5)).
		Sub(vv.Mul(0.5))
	pixel00 := topLeft.Add(deltaU.Add(deltaV).Mul(0.5))

	defocusRadius := cfg.FocusDist * float32(math.Tan(float64(cfg.DefocusAngle)/2))

	return Camera{
		Origin:       cfg.Position,
		Pixel00:      pixel00,
		DeltaU:       deltaU,
		DeltaV:       deltaV,
		DefocusAngle: cfg.DefocusAngle,
		DefocusDiskU: right.Mul(defocusRadius),
		DefocusDiskV: up.Mul(defocusRadius),
	}
}

// Ray produces the primary ray for pixel (px,py), jittered within the
// pixel by (jx,jy) in [-0.5,0.5) and, if defocus is enabled, with the
// origin offset into the defocus disk by (du,dv) drawn from the unit disk.
func (c Camera) Ray(px, py int, jx, jy float32, du, dv float32) geom.Ray {
	pixelCenter := c.Pixel00.
		Add(c.DeltaU.Mul(float32(px) + jx)).
		Add(c.DeltaV.Mul(float32(py) + jy))

	origin := c.Origin
	if c.DefocusAngle > 0 {
		origin = origin.Add(c.DefocusDiskU.Mul(du)).Add(c.DefocusDiskV.Mul(dv))
	}

	return geom.NewRay(origin, pixelCenter.Sub(origin))
}
