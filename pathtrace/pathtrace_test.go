// SPDX-License-Identifier: Unlicense OR MIT

package pathtrace

import (
	"testing"

	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/vmath"
)

const redSphereScene = `{
 "config": {"width": 64, "height": 64, "samples_per_pixel": 1, "max_depth": 2},
 "camera": {"position": [0,0,0], "look_at": [0,0,-1], "up": [0,1,0], "fov": 60,
            "aspect_ratio": "1/1", "defocus_angle": 0, "focus_dist": 3},
 "materials": [{"type": "lambertian", "albedo": [1,0,0]}],
 "objects": {"sphere": [{"center": [0,0,-3], "radius": 1, "material": 0}]}
}`

func loadScene(t *testing.T, raw string) (*scene.Scene, *scene.State) {
	t.Helper()
	sc, st, err := scene.Load([]byte(raw))
	if err != nil {
		t.Fatalf("scene.Load: %v", err)
	}
	return sc, st
}

func TestRedSphereCenterPixelIsReddish(t *testing.T) {
	sc, st := loadScene(t, redSphereScene)
	rng := vmath.NewRNG(1)
	c := PixelSample(sc, st.Width/2, st.Height/2, st.SamplesPerPixel, st.MaxDepth, rng)
	packed := PackARGB(c)
	red := (packed >> 16) & 0xFF
	if red <= 51 { // > 0.2 in gamma-encoded [0,255]
		t.Errorf("expected center pixel red channel > 51 (R>0.2), got %d (packed=%08x)", red, packed)
	}
}

func TestBackgroundPixelMatchesGammaEncodedGrey(t *testing.T) {
	sc, st := loadScene(t, redSphereScene)
	rng := vmath.NewRNG(1)
	// corner pixel should miss the sphere entirely
	c := PixelSample(sc, 0, 0, st.SamplesPerPixel, st.MaxDepth, rng)
	packed := PackARGB(c)
	r := int((packed >> 16) & 0xFF)
	if r < 78 || r > 86 { // gamma(0.1) ≈ 0.316 -> ~80.7/255
		t.Errorf("corner pixel red channel = %d, want ~81", r)
	}
}

func TestMaxDepthZeroReturnsBlackImmediately(t *testing.T) {
	sc, _ := loadScene(t, redSphereScene)
	r := sc.Camera.Ray(0, 0, 0, 0, 0, 0)
	rng := vmath.NewRNG(1)
	c := RayColour(r, sc, 0, rng)
	if c != (vmath.Colour{}) {
		t.Errorf("depth 0 should return black, got %v", c)
	}
}

func TestSceneWithoutPrimitivesIsAllBackground(t *testing.T) {
	raw := `{
 "config": {"width": 4, "height": 4, "samples_per_pixel": 1, "max_depth": 2},
 "camera": {"position": [0,0,0], "look_at": [0,0,-1], "up": [0,1,0], "fov": 60,
            "aspect_ratio": "1/1", "defocus_angle": 0, "focus_dist": 3},
 "materials": [], "objects": {}}`
	sc, st := loadScene(t, raw)
	rng := vmath.NewRNG(1)
	for y := 0; y < st.Height; y++ {
		for x := 0; x < st.Width; x++ {
			c := PixelSample(sc, x, y, st.SamplesPerPixel, st.MaxDepth, rng)
			if c != Background {
				t.Fatalf("pixel (%d,%d) = %v, want background %v", x, y, c, Background)
			}
		}
	}
}

func TestSamplesPerPixelOneProducesValidImage(t *testing.T) {
	sc, st := loadScene(t, redSphereScene)
	rng := vmath.NewRNG(1)
	for y := 0; y < st.Height; y += 8 {
		for x := 0; x < st.Width; x += 8 {
			c := PixelSample(sc, x, y, 1, st.MaxDepth, rng)
			packed := PackARGB(c)
			if packed>>24 != 0xFF {
				t.Fatalf("alpha channel must be 255, got %08x", packed)
			}
		}
	}
}

func TestPackARGBClampsAndEncodesAlpha(t *testing.T) {
	packed := PackARGB(vmath.Colour{X: 2, Y: -1, Z: 0.25})
	if packed>>24 != 0xFF {
		t.Errorf("alpha = %x, want ff", packed>>24)
	}
	r := (packed >> 16) & 0xFF
	g := (packed >> 8) & 0xFF
	if r != 255 {
		t.Errorf("overbright channel should clamp to 255, got %d", r)
	}
	if g != 0 {
		t.Errorf("negative channel should clamp to 0, got %d", g)
	}
}

func TestRayColourMissReturnsBackground(t *testing.T) {
	sc, _ := loadScene(t, redSphereScene)
	r := geom.NewRay(vmath.Vec3{}, vmath.Vec3{X: 1, Y: 1, Z: 1})
	rng := vmath.NewRNG(1)
	if got := RayColour(r, sc, 4, rng); got != Background {
		t.Errorf("miss should return background, got %v", got)
	}
}
