package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkRayTriangle(b *testing.B) {
	r := NewRay(V3(0.2, 0.2, 5), V3(0, 0, -1))
	a, c, d := V3(-1, -1, 0), V3(1, -1, 0), V3(0, 1, 0)

	for b.Loop() {
		_, _ = r.IntersectTriangle(a, c, d)
	}
}

func BenchmarkRayAABB(b *testing.B) {
	r := NewRay(V3(0, 0, 5), V3(0.01, 0.02, -1))
	box := NewAABB(V3(-1, -1, -1), V3(1, 1, 1))

	for b.Loop() {
		_, _ = r.IntersectAABB(box)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view := LookAt(V3(0, 1.5, 300), Zero3(), Up())
	proj := Perspective(75*math.Pi/180, 1.333, 0.1, 1000)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
