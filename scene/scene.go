// SPDX-License-Identifier: Unlicense OR MIT

package scene

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rayforge/raybun/bvh"
	"github.com/rayforge/raybun/camera"
	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/internal/rerr"
	"github.com/rayforge/raybun/material"
	"github.com/rayforge/raybun/vmath"
)

// Scene is the immutable-after-load geometry + material + camera bundle.
// BVHRoot covers every finite primitive; Planes holds the infinite
// primitives excluded from it, traversed as a side list after the BVH.
type Scene struct {
	Materials []material.Material
	BVHRoot   *bvh.Node
	Planes    []geom.Plane
	Camera    camera.Camera

	SceneJSON string // canonical minified text, as served by GET /api/scene
	SceneCRC  uint32 // CRC-32 of SceneJSON's bytes
}

// State is the per-render mutable buffer and sampling configuration.
// Image is written exclusively by the tile loop.
type State struct {
	Width, Height   int
	SamplesPerPixel int
	MaxDepth        int
	Image           []uint32 // packed ARGB, row-major, len == Width*Height
}

// NewState allocates a zeroed image buffer sized for width x height.
func NewState(width, height, samplesPerPixel, maxDepth int) *State {
	return &State{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samplesPerPixel,
		MaxDepth:        maxDepth,
		Image:           make([]uint32, width*height),
	}
}

// Load parses raw scene JSON bytes into a Scene and State. SceneError
// conditions (bad material index, negative radius, degenerate quad) are
// logged and the offending entity is skipped, except for an invalid
// material entry, which is logged and replaced by a black Lambertian so
// later material indices keep their meaning; everything else is a
// ConfigError and aborts the load.
func Load(data []byte) (*Scene, *State, error) {
	js, err := parse(data)
	if err != nil {
		return nil, nil, err
	}

	if js.Config.Width <= 0 || js.Config.Height <= 0 {
		return nil, nil, &rerr.ConfigError{Msg: "config.width and config.height must be positive"}
	}
	if js.Config.SamplesPerPixel <= 0 {
		return nil, nil, &rerr.ConfigError{Msg: "config.samples_per_pixel must be positive"}
	}

	materials := make([]material.Material, 0, len(js.Materials))
	for i, jm := range js.Materials {
		m, err := parseMaterial(jm)
		if err != nil {
			log.Printf("scene: material %d: %v, substituting black lambertian", i, err)
			m = material.Lambertian{}
		}
		materials = append(materials, m)
	}
	validMat := func(idx int) bool { return idx >= 0 && idx < len(materials) }

	var prims []geom.Primitive
	var planes []geom.Plane

	for _, s := range js.Objects.Sphere {
		if s.Radius <= 0 {
			log.Printf("scene: sphere with non-positive radius %v skipped", s.Radius)
			continue
		}
		if !validMat(s.Material) {
			log.Printf("scene: sphere material index %d out of range, skipped", s.Material)
			continue
		}
		prims = append(prims, geom.Sphere{Center: v3(s.Center), Radius: s.Radius, Material: s.Material})
	}

	for _, p := range js.Objects.Plane {
		if !validMat(p.Material) {
			log.Printf("scene: plane material index %d out of range, skipped", p.Material)
			continue
		}
		planes = append(planes, geom.NewPlane(v3(p.Normal), v3(p.Point), p.Material))
	}

	for _, q := range js.Objects.Quad {
		if !validMat(q.Material) {
			log.Printf("scene: quad material index %d out of range, skipped", q.Material)
			continue
		}
		quad := geom.NewQuad(v3(q.Corner), v3(q.U), v3(q.V), q.Material)
		if quad.Normal.NearZero() {
			log.Printf("scene: degenerate quad (collinear u,v) skipped")
			continue
		}
		prims = append(prims, quad)
	}

	for _, t := range js.Objects.Triangle {
		if !validMat(t.Material) {
			log.Printf("scene: triangle material index %d out of range, skipped", t.Material)
			continue
		}
		tri := geom.NewTriangle(vertexFromJSON(t.V1), vertexFromJSON(t.V2), vertexFromJSON(t.V3), t.Material)
		if tri.E1.Cross(tri.E2).NearZero() {
			log.Printf("scene: degenerate (collinear) triangle skipped")
			continue
		}
		prims = append(prims, tri)
	}

	for _, b := range js.Objects.Boxes {
		if !validMat(b.Material) {
			log.Printf("scene: box material index %d out of range, skipped", b.Material)
			continue
		}
		for _, q := range geom.Box(v3(b.A), v3(b.B), b.Material) {
			prims = append(prims, q)
		}
	}

	for _, m := range js.Objects.Models {
		if !validMat(m.Material) {
			log.Printf("scene: model material index %d out of range, skipped", m.Material)
			continue
		}
		tris, err := loadModel(m.File, v3(m.Position), m.Scale, m.Material)
		if err != nil {
			log.Printf("scene: model %q: %v, skipped", m.File, err)
			continue
		}
		prims = append(prims, tris...)
	}

	bvhRoot := bvh.Build(prims)

	camCfg := camera.Config{
		Position:     v3(js.Camera.Position),
		LookAt:       v3(js.Camera.LookAt),
		Up:           v3(js.Camera.Up),
		FovRadians:   degToRad(js.Camera.FovDeg),
		DefocusAngle: degToRad(js.Camera.DefocusAngle),
		FocusDist:    js.Camera.FocusDist,
	}
	if js.Camera.AspectRatio != "" {
		ar, err := parseAspectRatio(js.Camera.AspectRatio)
		if err != nil {
			return nil, nil, &rerr.ConfigError{Msg: "camera.aspect_ratio", Err: err}
		}
		camCfg.AspectRatio = ar
	} else {
		camCfg.AspectRatio = float32(js.Config.Width) / float32(js.Config.Height)
	}
	if camCfg.FocusDist == 0 {
		camCfg.FocusDist = cfgDefaultFocusDist(camCfg)
	}

	cam := camera.New(camCfg, js.Config.Width, js.Config.Height)

	canonical, err := minify(data)
	if err != nil {
		return nil, nil, &rerr.ConfigError{Msg: "re-minifying scene JSON", Err: err}
	}

	sc := &Scene{
		Materials: materials,
		BVHRoot:   bvhRoot,
		Planes:    planes,
		Camera:    cam,
		SceneJSON: canonical,
		SceneCRC:  crc32.ChecksumIEEE([]byte(canonical)),
	}
	st := NewState(js.Config.Width, js.Config.Height, js.Config.SamplesPerPixel, js.Config.MaxDepth)
	return sc, st, nil
}

func cfgDefaultFocusDist(cfg camera.Config) float32 {
	return cfg.LookAt.Sub(cfg.Position).Length()
}

func vertexFromJSON(v jsonTriVertex) geom.Vertex {
	return geom.Vertex{
		Position: v3(v.Position),
		Normal:   v3(v.Normal),
		UV:       vmath.Vec2{X: v.UV[0], Y: v.UV[1]},
	}
}

// minify re-encodes raw scene JSON through json.Compact so SceneJSON /
// SceneCRC are independent of the source file's whitespace.
func minify(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Hit tests ray r against the full scene: the BVH first, then the
// infinite-plane side list, keeping the nearest hit overall.
func (s *Scene) Hit(r geom.Ray, tmin, tmax float32, rec *geom.HitRecord) bool {
	hitAnything := false
	closest := tmax

	if s.BVHRoot != nil {
		var bvhRec geom.HitRecord
		if s.BVHRoot.Hit(r, tmin, closest, &bvhRec) {
			hitAnything = true
			closest = bvhRec.T
			*rec = bvhRec
		}
	}

	for _, p := range s.Planes {
		var pRec geom.HitRecord
		if p.Hit(r, tmin, closest, &pRec) {
			hitAnything = true
			closest = pRec.T
			*rec = pRec
		}
	}

	return hitAnything
}

// loadModel implements a minimal OBJ `v`/`f` subset: enough to expand a
// models[] entry into triangles without pulling in a full OBJ/MTL parser.
// Any other OBJ directive is ignored; a missing or unreadable file is a
// SceneError, recovered by the caller.
func loadModel(path string, translate vmath.Vec3, scale float32, material int) ([]geom.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &rerr.SceneError{Msg: fmt.Sprintf("opening model file: %v", err)}
	}
	defer f.Close()

	var verts []vmath.Vec3
	var tris []geom.Primitive

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			p, err := parseVec3Fields(fields[1:4])
			if err != nil {
				continue
			}
			verts = append(verts, p.Mul(scale).Add(translate))
		case "f":
			if len(fields) < 4 {
				continue
			}
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// faces may carry v/vt/vn; only the vertex index matters here
				tok = strings.SplitN(tok, "/", 2)[0]
				i, err := strconv.Atoi(tok)
				if err != nil {
					continue
				}
				if i < 0 {
					i = len(verts) + i + 1
				}
				idx = append(idx, i-1)
			}
			for i := 1; i+1 < len(idx); i++ {
				a, b, c := idx[0], idx[i], idx[i+1]
				if a < 0 || a >= len(verts) || b < 0 || b >= len(verts) || c < 0 || c >= len(verts) {
					continue
				}
				tri := geom.NewTriangle(
					geom.Vertex{Position: verts[a]},
					geom.Vertex{Position: verts[b]},
					geom.Vertex{Position: verts[c]},
					material,
				)
				tris = append(tris, tri)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &rerr.SceneError{Msg: fmt.Sprintf("reading model file: %v", err)}
	}
	return tris, nil
}

func parseVec3Fields(f []string) (vmath.Vec3, error) {
	var v vmath.Vec3
	x, err := strconv.ParseFloat(f[0], 32)
	if err != nil {
		return v, err
	}
	y, err := strconv.ParseFloat(f[1], 32)
	if err != nil {
		return v, err
	}
	z, err := strconv.ParseFloat(f[2], 32)
	if err != nil {
		return v, err
	}
	return vmath.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}, nil
}
