// Package picking finds the model surface under a pointer.
package picking

import (
	"image"
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/scene"
)

// Rect is the on-screen rectangle of the canvas in pointer coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// RectFrom converts an integer rectangle, such as a terminal cell area.
func RectFrom(r image.Rectangle) Rect {
	return Rect{
		Left:   float64(r.Min.X),
		Top:    float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether (x, y) lies inside or on the edge of r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Left+r.Width &&
		y >= r.Top && y <= r.Top+r.Height
}

// NDC maps a pointer position to normalized device coordinates: [-1, 1] on
// both axes with Y pointing up.
func (r Rect) NDC(x, y float64) math3d.Vec2 {
	return math3d.V2(
		(x-r.Left)/r.Width*2-1,
		-((y-r.Top)/r.Height)*2+1,
	)
}

// CellPoint returns the pointer position of the centre of a terminal cell.
func CellPoint(col, row int) (x, y float64) {
	return float64(col) + 0.5, float64(row) + 0.5
}

// Result describes the nearest surface under the pointer.
type Result struct {
	Hit      bool
	Distance float64     // Along the ray from the near plane
	Point    math3d.Vec3 // World-space hit point
	Node     *scene.Node // Node owning the hit mesh
	Face     int         // Triangle index within the mesh
}

// Pick casts a ray from cam through the pointer at (x, y) and returns the
// nearest intersection with model or any of its descendants. A pointer outside
// rect, an empty rect, or a nil model is a miss.
func Pick(x, y float64, rect Rect, cam *render.Camera, model *scene.Node) Result {
	if model == nil || cam == nil || rect.Empty() || !rect.Contains(x, y) {
		return Result{}
	}
	return Cast(cam.Ray(rect.NDC(x, y)), model)
}

// Cast intersects ray with every mesh under model. Triangles are tested from
// both sides.
func Cast(ray math3d.Ray, model *scene.Node) Result {
	best := Result{Distance: math.Inf(1)}
	if model == nil {
		return Result{}
	}

	model.Walk(func(n *scene.Node, world math3d.Mat4) bool {
		mesh := n.Mesh
		if mesh == nil {
			return true
		}
		if near, hit := ray.IntersectAABB(mesh.Bounds().Transform(world)); !hit || near > best.Distance {
			return true
		}

		for i := 0; i < mesh.TriangleCount(); i++ {
			f := mesh.GetFace(i)
			a, _ := mesh.GetVertex(f[0])
			b, _ := mesh.GetVertex(f[1])
			c, _ := mesh.GetVertex(f[2])

			t, hit := ray.IntersectTriangle(world.MulVec3(a), world.MulVec3(b), world.MulVec3(c))
			if hit && t < best.Distance {
				best = Result{Hit: true, Distance: t, Node: n, Face: i}
			}
		}
		return true
	})

	if !best.Hit {
		return Result{}
	}
	best.Point = ray.At(best.Distance)
	return best
}
