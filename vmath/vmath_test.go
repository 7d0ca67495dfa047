// SPDX-License-Identifier: Unlicense OR MIT

package vmath

import "testing"

func TestVec3Algebra(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -1, 2}

	if got := a.Add(b); got != (Vec3{5, 1, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Dot(b); got != 1*4+2*-1+3*2 {
		t.Errorf("Dot = %v", got)
	}
	cross := a.Cross(b)
	if cross.Dot(a) > 1e-4 || cross.Dot(b) > 1e-4 {
		t.Errorf("cross not orthogonal: %v", cross)
	}
}

func TestVec3Unit(t *testing.T) {
	v := Vec3{3, 4, 0}.Unit()
	if l := v.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("unit length = %v", l)
	}
	if z := (Vec3{}).Unit(); z != (Vec3{}) {
		t.Errorf("unit of zero vector should stay zero, got %v", z)
	}
}

func TestReflectReflectsAboutNormal(t *testing.T) {
	incoming := Vec3{1, -1, 0}.Unit()
	normal := Vec3{0, 1, 0}
	out := incoming.Reflect(normal)
	if out.Dot(normal) <= 0 {
		t.Errorf("reflected ray should point away from surface, got %v", out)
	}
}

func TestRNGDeterministicForSeed(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("same seed diverged at iteration %d", i)
		}
	}
}

func TestRNGZeroSeedIsNudged(t *testing.T) {
	r := NewRNG(0)
	// must not get stuck returning 0 forever
	seenNonZero := false
	for i := 0; i < 10; i++ {
		if r.Uint32() != 0 {
			seenNonZero = true
		}
	}
	if !seenNonZero {
		t.Fatal("zero seed produced only zeros")
	}
}

func TestUnitVectorIsUnitLength(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 50; i++ {
		v := r.UnitVector()
		if l := v.Length(); l < 0.99 || l > 1.01 {
			t.Errorf("UnitVector length = %v", l)
		}
	}
}

func TestInUnitDiskStaysInPlaneAndRadius(t *testing.T) {
	r := NewRNG(11)
	for i := 0; i < 50; i++ {
		p := r.InUnitDisk()
		if p.Z != 0 {
			t.Errorf("disk sample left the XY plane: %v", p)
		}
		if p.LengthSquared() >= 1 {
			t.Errorf("disk sample outside unit disk: %v", p)
		}
	}
}

func TestClamp(t *testing.T) {
	v := Vec3{-1, 0.5, 2}.Clamp(0, 1)
	if v != (Vec3{0, 0.5, 1}) {
		t.Errorf("Clamp = %v", v)
	}
}
