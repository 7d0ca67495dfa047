// SPDX-License-Identifier: Unlicense OR MIT

// Package scene parses the external scene JSON schema into a Scene
// (geometry + materials + BVH) and a State (image buffer + sampling
// parameters), and implements box/model expansion and minimal OBJ
// loading.
//
// The schema is plain nested objects and arrays with no custom framing,
// so stdlib encoding/json handles decoding directly; nothing here needs
// streaming or schema validation beyond what Go's struct tags already do.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/rayforge/raybun/internal/rerr"
	"github.com/rayforge/raybun/material"
	"github.com/rayforge/raybun/vmath"
)

type jsonConfig struct {
	Width           int `json:"width"`
	Height          int `json:"height"`
	SamplesPerPixel int `json:"samples_per_pixel"`
	MaxDepth        int `json:"max_depth"`
}

type jsonCamera struct {
	Position     [3]float32 `json:"position"`
	LookAt       [3]float32 `json:"look_at"`
	Up           [3]float32 `json:"up"`
	FovDeg       float32    `json:"fov"`
	AspectRatio  string     `json:"aspect_ratio"`
	DefocusAngle float32    `json:"defocus_angle"`
	FocusDist    float32    `json:"focus_dist"`
}

type jsonMaterial struct {
	Type    string     `json:"type"`
	Albedo  [3]float32 `json:"albedo"`
	Fuzz    float32    `json:"fuzz"`
	Eta     float32    `json:"etai_over_eta"`
	Emitted [3]float32 `json:"emission"`
}

type jsonSphere struct {
	Center   [3]float32 `json:"center"`
	Radius   float32    `json:"radius"`
	Material int        `json:"material"`
}

type jsonPlane struct {
	Normal   [3]float32 `json:"normal"`
	Point    [3]float32 `json:"point"`
	Material int        `json:"material"`
}

type jsonQuad struct {
	Corner   [3]float32 `json:"corner"`
	U        [3]float32 `json:"u"`
	V        [3]float32 `json:"v"`
	Material int        `json:"material"`
}

type jsonTriVertex struct {
	Position [3]float32 `json:"position"`
	Normal   [3]float32 `json:"normal"`
	UV       [2]float32 `json:"uv"`
}

type jsonTriangleWire struct {
	V1       jsonTriVertex `json:"v1"`
	V2       jsonTriVertex `json:"v2"`
	V3       jsonTriVertex `json:"v3"`
	Material int           `json:"material"`
}

type jsonBox struct {
	A        [3]float32 `json:"a"`
	B        [3]float32 `json:"b"`
	Material int        `json:"material"`
}

type jsonModel struct {
	File     string     `json:"file"`
	Position [3]float32 `json:"position"`
	Scale    float32    `json:"scale"`
	Material int        `json:"material"`
}

type jsonObjects struct {
	Sphere   []jsonSphere       `json:"sphere"`
	Plane    []jsonPlane        `json:"plane"`
	Quad     []jsonQuad         `json:"quad"`
	Triangle []jsonTriangleWire `json:"triangle"`
	Boxes    []jsonBox          `json:"boxes"`
	Models   []jsonModel        `json:"models"`
}

type jsonScene struct {
	Config    jsonConfig     `json:"config"`
	Camera    jsonCamera     `json:"camera"`
	Materials []jsonMaterial `json:"materials"`
	Objects   jsonObjects    `json:"objects"`
}

func v3(a [3]float32) vmath.Vec3 { return vmath.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func parseAspectRatio(s string) (float32, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("aspect_ratio %q must be num/den", s)
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return 0, err
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("invalid aspect_ratio denominator in %q", s)
	}
	return float32(num / den), nil
}

func parseMaterial(jm jsonMaterial) (material.Material, error) {
	switch jm.Type {
	case "lambertian":
		return material.Lambertian{Albedo: v3(jm.Albedo)}, nil
	case "metal":
		return material.Metal{Albedo: v3(jm.Albedo), Fuzz: clamp01(jm.Fuzz)}, nil
	case "dielectric":
		if jm.Eta == 0 {
			return nil, &rerr.SceneError{Msg: "dielectric material missing etai_over_eta"}
		}
		return material.Dielectric{EtaiOverEtat: jm.Eta}, nil
	case "emissive":
		return material.Emissive{Colour: v3(jm.Emitted)}, nil
	default:
		return nil, &rerr.SceneError{Msg: fmt.Sprintf("unknown material type %q", jm.Type)}
	}
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func degToRad(deg float32) float32 {
	const pi = 3.14159265358979323846
	return deg * pi / 180
}

// parse decodes raw scene JSON into the intermediate jsonScene shape,
// without building the BVH yet (that happens in Load, once materials are
// validated and all primitives collected).
func parse(data []byte) (jsonScene, error) {
	var js jsonScene
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&js); err != nil {
		// Unknown fields warn-and-skip rather than a hard failure: retry
		// without the strict decoder so extra fields are ignored.
		log.Printf("scene: unrecognised field(s) in scene JSON, continuing: %v", err)
		var lenient jsonScene
		if err2 := json.Unmarshal(data, &lenient); err2 != nil {
			return jsonScene{}, &rerr.ConfigError{Msg: "malformed scene JSON", Err: err2}
		}
		return lenient, nil
	}
	return js, nil
}
