package math

import (
	"testing"
)

func TestVec2InRect(t *testing.T) {
	min := Vec2{0.25, 0.5}
	max := Vec2{0.5, 1}
	if !(Vec2{0.3, 0.75}).InRect(min, max) {
		t.Error("expected point inside rect")
	}
	if (Vec2{0.6, 0.75}).InRect(min, max) {
		t.Error("expected point outside rect")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 0, -4}
	if got, want := a.Min(b), (Vec3{1, 0, -4}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, -2}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 0, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}
