package render

import (
	"math"
	"testing"

	"github.com/taigrr/turntable/pkg/math3d"
)

func TestCameraFOVDegrees(t *testing.T) {
	cam := NewCamera()
	cam.SetFOVDegrees(75)

	if math.Abs(cam.FOV-75*math.Pi/180) > 1e-12 {
		t.Errorf("FOV = %v rad, want %v", cam.FOV, 75*math.Pi/180)
	}
	if math.Abs(cam.FOVDegrees()-75) > 1e-9 {
		t.Errorf("FOVDegrees() = %v, want 75", cam.FOVDegrees())
	}
}

func TestCameraRay(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(4.0 / 3.0)
	cam.SetPosition(math3d.V3(0, 0, 10))
	cam.LookAt(math3d.Zero3())

	t.Run("centre points at target", func(t *testing.T) {
		ray := cam.Ray(math3d.V2(0, 0))
		want := math3d.V3(0, 0, -1)
		if !ray.Direction.ApproxEqual(want, 1e-9) {
			t.Errorf("direction = %v, want %v", ray.Direction, want)
		}
		// Origin sits on the near plane.
		if math.Abs(ray.Origin.Z-(10-cam.Near)) > 1e-6 {
			t.Errorf("origin z = %v, want %v", ray.Origin.Z, 10-cam.Near)
		}
	})

	t.Run("edges follow the field of view", func(t *testing.T) {
		ray := cam.Ray(math3d.V2(0, 1))
		half := cam.FOV / 2
		angle := math.Atan2(ray.Direction.Y, -ray.Direction.Z)
		if math.Abs(angle-half) > 1e-6 {
			t.Errorf("top edge angle = %v, want %v", angle, half)
		}

		ray = cam.Ray(math3d.V2(1, 0))
		wantX := math.Tan(half) * cam.AspectRatio
		gotX := ray.Direction.X / -ray.Direction.Z
		if math.Abs(gotX-wantX) > 1e-6 {
			t.Errorf("right edge slope = %v, want %v", gotX, wantX)
		}
	})
}

func TestCameraRayRoundTrip(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(2)
	cam.SetPosition(math3d.V3(0, 1.5, 30))
	cam.LookAt(math3d.Zero3())

	world := math3d.V3(2, -1, 3)
	sx, sy, _, ok := cam.WorldToScreen(world, 200, 100)
	if !ok {
		t.Fatal("point should be visible")
	}

	ndc := math3d.V2(sx/200*2-1, -(sy/100)*2+1)
	ray := cam.Ray(ndc)
	toPoint := world.Sub(ray.Origin).Normalize()
	if !toPoint.ApproxEqual(ray.Direction, 1e-6) {
		t.Errorf("ray %v does not pass through %v", ray.Direction, world)
	}
}

func TestCameraProjectionInvalidation(t *testing.T) {
	cam := NewCamera()
	before := cam.ProjectionMatrix()

	cam.SetAspectRatio(1)
	after := cam.ProjectionMatrix()
	if before == after {
		t.Error("projection should change with aspect ratio")
	}

	cam.SetFar(50)
	cam.UpdateProjection()
	if cam.ProjectionMatrix() != math3d.Perspective(cam.FOV, 1, cam.Near, 50) {
		t.Error("UpdateProjection should use the current clip planes")
	}
}
