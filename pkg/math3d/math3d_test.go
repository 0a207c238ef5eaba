package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestMat4InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"rotate scale translate", Translate(V3(4, 5, 6)).Mul(RotateY(0.7)).Mul(Scale(V3(2, 3, 0.5)))},
		{"perspective", Perspective(math.Pi/3, 4.0/3.0, 0.1, 100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, ok := tc.m.Inverse()
			if !ok {
				t.Fatal("expected invertible matrix")
			}
			if got := tc.m.Mul(inv); !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("m * inv(m) = %v, want identity", got)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	_, ok := Scale(V3(1, 0, 1)).Inverse()
	if ok {
		t.Error("expected singular matrix to report !ok")
	}
}

func TestMat4Decompose(t *testing.T) {
	wantT := V3(1, 2, 3)
	wantR := QuatAxisAngle(V3(0, 1, 1), 0.8)
	wantS := V3(2, 0.5, 4)

	m := Translate(wantT).Mul(wantR.Mat4()).Mul(Scale(wantS))
	gotT, gotR, gotS := m.Decompose()

	if !gotT.ApproxEqual(wantT, eps) {
		t.Errorf("translation = %v, want %v", gotT, wantT)
	}
	if !gotS.ApproxEqual(wantS, eps) {
		t.Errorf("scale = %v, want %v", gotS, wantS)
	}
	rebuilt := Translate(gotT).Mul(gotR.Mat4()).Mul(Scale(gotS))
	if !rebuilt.ApproxEqual(m, 1e-9) {
		t.Errorf("rebuilt matrix %v differs from %v", rebuilt, m)
	}
}

func TestQuatMatchesRotateY(t *testing.T) {
	for _, angle := range []float64{0, 0.3, math.Pi / 2, math.Pi, 5} {
		q := QuatAxisAngle(Up(), angle)
		if !q.Mat4().ApproxEqual(RotateY(angle), 1e-12) {
			t.Errorf("quaternion rotation for %v differs from RotateY", angle)
		}
	}
}

func TestAABB(t *testing.T) {
	box := EmptyAABB()
	if !box.IsEmpty() {
		t.Fatal("EmptyAABB should be empty")
	}
	if box.MaxDim() != 0 {
		t.Errorf("empty MaxDim = %v, want 0", box.MaxDim())
	}

	box = box.Extend(V3(-1, -2, -3)).Extend(V3(1, 2, 3))
	if !box.Center().ApproxEqual(Zero3(), eps) {
		t.Errorf("center = %v, want origin", box.Center())
	}
	if box.MaxDim() != 6 {
		t.Errorf("MaxDim = %v, want 6", box.MaxDim())
	}

	moved := box.Transform(Translate(V3(10, 0, 0)))
	if !moved.Min.ApproxEqual(V3(9, -2, -3), eps) || !moved.Max.ApproxEqual(V3(11, 2, 3), eps) {
		t.Errorf("translated box = %v", moved)
	}

	rotated := NewAABB(V3(-1, -1, -2), V3(1, 1, 2)).Transform(RotateY(math.Pi / 2))
	if !rotated.Size().ApproxEqual(V3(4, 2, 2), 1e-9) {
		t.Errorf("rotated size = %v, want (4, 2, 2)", rotated.Size())
	}

	if u := box.Union(EmptyAABB()); u != box {
		t.Errorf("union with empty changed box: %v", u)
	}
}

func TestRayIntersectAABB(t *testing.T) {
	box := NewAABB(V3(-1, -1, -1), V3(1, 1, 1))

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		distT float64
	}{
		{"straight on", NewRay(V3(0, 0, 5), V3(0, 0, -1)), true, 4},
		{"miss above", NewRay(V3(0, 3, 5), V3(0, 0, -1)), false, 0},
		{"pointing away", NewRay(V3(0, 0, 5), V3(0, 0, 1)), false, 0},
		{"from inside", NewRay(V3(0, 0, 0), V3(1, 0, 0)), true, 1},
		{"parallel outside slab", NewRay(V3(2, 0, 5), V3(0, 0, -1)), false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, hit := tc.ray.IntersectAABB(box)
			if hit != tc.hit {
				t.Fatalf("hit = %v, want %v", hit, tc.hit)
			}
			if hit && math.Abs(d-tc.distT) > eps {
				t.Errorf("t = %v, want %v", d, tc.distT)
			}
		})
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	a, b, c := V3(-1, -1, 0), V3(1, -1, 0), V3(0, 1, 0)

	tests := []struct {
		name string
		ray  Ray
		hit  bool
	}{
		{"front", NewRay(V3(0, 0, 5), V3(0, 0, -1)), true},
		{"back side", NewRay(V3(0, 0, -5), V3(0, 0, 1)), true},
		{"outside edge", NewRay(V3(0.9, 0.9, 5), V3(0, 0, -1)), false},
		{"parallel", NewRay(V3(0, 0, 5), V3(1, 0, 0)), false},
		{"behind origin", NewRay(V3(0, 0, 5), V3(0, 0, 1)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, hit := tc.ray.IntersectTriangle(a, b, c)
			if hit != tc.hit {
				t.Fatalf("hit = %v, want %v", hit, tc.hit)
			}
			if hit && math.Abs(d-5) > eps {
				t.Errorf("t = %v, want 5", d)
			}
		})
	}
}
