// SPDX-License-Identifier: Unlicense OR MIT

// Package bvh builds and traverses a top-down, longest-axis bounding
// volume hierarchy over the scene's primitives.
package bvh

import (
	"sort"

	"github.com/rayforge/raybun/geom"
)

// Node is a BVH node: either a leaf wrapping a single primitive, a
// two-primitive leaf, or an interior node with two children. All nodes
// carry their own AABB so traversal never has to recompute a union.
type Node struct {
	Box   geom.AABB
	Leaf  geom.Primitive // non-nil for a single-primitive leaf
	Left  *Node
	Right *Node // non-nil together with Left for both two-leaf and interior nodes
}

// Build constructs a BVH over prims[start:end]: union the slice's boxes,
// split on the longest axis, sort by AABB min on that axis, recurse on the
// median-split halves. Leaves of size 1 return the primitive directly;
// leaves of size 2 skip sorting and become a two-child interior node.
//
// prims is mutated in place by the sort; callers that need the original
// slice order should pass a copy.
func Build(prims []geom.Primitive) *Node {
	if len(prims) == 0 {
		return nil
	}
	return build(prims, 0, len(prims))
}

func build(prims []geom.Primitive, start, end int) *Node {
	count := end - start

	if count == 1 {
		return &Node{Box: prims[start].Bounds(), Leaf: prims[start]}
	}

	box := prims[start].Bounds()
	for i := start + 1; i < end; i++ {
		box = geom.Union(box, prims[i].Bounds())
	}

	if count == 2 {
		return &Node{
			Box:   box,
			Left:  &Node{Box: prims[start].Bounds(), Leaf: prims[start]},
			Right: &Node{Box: prims[start+1].Bounds(), Leaf: prims[start+1]},
		}
	}

	axis := box.LongestAxis()
	slice := prims[start:end]
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].Bounds().AxisMin(axis) < slice[j].Bounds().AxisMin(axis)
	})

	mid := start + count/2
	return &Node{
		Box:   box,
		Left:  build(prims, start, mid),
		Right: build(prims, mid, end),
	}
}

// Hit traverses the BVH with the usual slab-method recursion: on an AABB
// hit, recurse left then right, tightening the right call's tmax to the
// left hit's distance so the nearer intersection always wins.
func (n *Node) Hit(r geom.Ray, tmin, tmax float32, rec *geom.HitRecord) bool {
	if n == nil || !n.Box.Hit(r, tmin, tmax) {
		return false
	}

	if n.Leaf != nil {
		return n.Leaf.Hit(r, tmin, tmax, rec)
	}

	hitLeft := n.Left.Hit(r, tmin, tmax, rec)
	rightTMax := tmax
	if hitLeft {
		rightTMax = rec.T
	}
	hitRight := n.Right.Hit(r, tmin, rightTMax, rec)

	return hitLeft || hitRight
}
