package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float64(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Mul(t *testing.T) {
	a := Vec2{2, 3}
	b := Vec2{4, 5}
	got := a.Mul(b)
	want := Vec2{8, 15}
	if got != want {
		t.Errorf("Vec2.Mul() = %v, want %v", got, want)
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

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3Mod(t *testing.T) {
	v := Vec3{513, -1, 512}
	got := v.Mod(512)
	want := Vec3{1, 511, 0}
	if got != want {
		t.Errorf("Vec3.Mod() = %v, want %v", got, want)
	}
}

func TestMat4Translate(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("Translate().TransformVec3() = %v, want %v", got, want)
	}
}

func TestMat4Mul(t *testing.T) {
	m := Translate(1, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformVec3(Vec3{1, 1, 1})
	want := Vec3{3, 2, 2}
	if got != want {
		t.Errorf("Mat4.Mul() transform = %v, want %v", got, want)
	}
}
