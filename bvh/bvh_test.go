// SPDX-License-Identifier: Unlicense OR MIT

package bvh

import (
	"math/rand"
	"testing"

	"github.com/rayforge/raybun/geom"
	"github.com/rayforge/raybun/vmath"
)

func randomSpheres(n int) []geom.Primitive {
	r := rand.New(rand.NewSource(1))
	prims := make([]geom.Primitive, n)
	for i := range prims {
		prims[i] = geom.Sphere{
			Center:   vmath.Vec3{X: float32(r.Float64()*20 - 10), Y: float32(r.Float64()*20 - 10), Z: float32(r.Float64()*20 - 10)},
			Radius:   0.5,
			Material: 0,
		}
	}
	return prims
}

func TestBuildAABBUnionInvariant(t *testing.T) {
	var check func(n *Node)
	check = func(n *Node) {
		if n == nil || n.Leaf != nil {
			return
		}
		if n.Left != nil && !n.Box.Contains(n.Left.Box, 1e-4) {
			t.Errorf("parent box %v does not contain left child %v", n.Box, n.Left.Box)
		}
		if n.Right != nil && !n.Box.Contains(n.Right.Box, 1e-4) {
			t.Errorf("parent box %v does not contain right child %v", n.Box, n.Right.Box)
		}
		check(n.Left)
		check(n.Right)
	}
	root := Build(randomSpheres(200))
	check(root)
}

func TestBuildDegenerateSplitTerminates(t *testing.T) {
	// every sphere in the exact same spot: longest-axis split still must
	// terminate (leaves of size <= 2).
	prims := make([]geom.Primitive, 5)
	for i := range prims {
		prims[i] = geom.Sphere{Center: vmath.Vec3{}, Radius: 1}
	}
	root := Build(prims)
	if root == nil {
		t.Fatal("expected non-nil root")
	}
}

func TestBVHEquivalentToLinearScan(t *testing.T) {
	prims := randomSpheres(100)
	root := Build(append([]geom.Primitive(nil), prims...))

	linearHit := func(r geom.Ray) (geom.HitRecord, bool) {
		var best geom.HitRecord
		hitAny := false
		closest := float32(1e9)
		for _, p := range prims {
			var rec geom.HitRecord
			if p.Hit(r, geom.TMinEpsilon, closest, &rec) {
				hitAny = true
				closest = rec.T
				best = rec
			}
		}
		return best, hitAny
	}

	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		dir := vmath.Vec3{X: float32(rnd.Float64()*2 - 1), Y: float32(rnd.Float64()*2 - 1), Z: float32(rnd.Float64()*2 - 1)}
		r := geom.NewRay(vmath.Vec3{}, dir)

		var bvhRec geom.HitRecord
		bvhHit := root.Hit(r, geom.TMinEpsilon, 1e9, &bvhRec)
		linRec, linHit := linearHit(r)

		if bvhHit != linHit {
			t.Fatalf("iteration %d: bvh hit=%v linear hit=%v", i, bvhHit, linHit)
		}
		if bvhHit && (bvhRec.T < linRec.T-1e-3 || bvhRec.T > linRec.T+1e-3) {
			t.Fatalf("iteration %d: bvh t=%v linear t=%v", i, bvhRec.T, linRec.T)
		}
	}
}

func TestEmptyBuildReturnsNil(t *testing.T) {
	if Build(nil) != nil {
		t.Fatal("expected nil root for empty primitive list")
	}
}
