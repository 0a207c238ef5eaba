// Package framing centres a loaded model on the origin and moves the camera
// back far enough to fit it in view.
package framing

import (
	"errors"
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/scene"
)

// DefaultPadding leaves a margin around the model.
const DefaultPadding = 1.2

// ErrEmptyBounds is returned for a model without measurable geometry.
var ErrEmptyBounds = errors.New("model has no geometry to frame")

// Result describes a completed framing.
type Result struct {
	Center   math3d.Vec3 // World-space centre before the model was moved
	Size     math3d.Vec3 // Extent along each axis
	MaxDim   float64     // Largest extent
	Distance float64     // Camera Z after framing
}

// Distance returns how far from the origin a camera with vertical field of
// view fov (radians) must stand for an object maxDim across to fit, scaled by
// padding.
func Distance(maxDim, fov, padding float64) float64 {
	return (maxDim / 2) / math.Tan(fov/2) * padding
}

// FarDistance returns a far plane distance that keeps a model maxDim across,
// centred on the origin, in front of the far plane of a camera at pos. It is
// measured from the camera itself, so a camera off the Z axis is covered.
func FarDistance(pos math3d.Vec3, maxDim float64) float64 {
	return pos.Len() + maxDim
}

// Frame moves model so its bounds are centred on the origin and places cam at
// the fitting distance along Z, aimed at the origin. The camera's X and Y are
// kept. The far plane is pushed past the back of the model.
//
// On ErrEmptyBounds neither the model nor the camera is changed.
func Frame(model *scene.Node, cam *render.Camera, padding float64) (Result, error) {
	if model == nil {
		return Result{}, ErrEmptyBounds
	}
	box := model.Bounds()
	maxDim := box.MaxDim()
	if box.IsEmpty() || maxDim == 0 {
		return Result{}, ErrEmptyBounds
	}
	if padding <= 0 {
		padding = DefaultPadding
	}

	center := box.Center()
	model.Position = model.Position.Sub(center)

	z := Distance(maxDim, cam.FOV, padding)
	cam.SetPosition(math3d.V3(cam.Position.X, cam.Position.Y, z))
	cam.LookAt(math3d.Zero3())
	cam.SetFar(FarDistance(cam.Position, maxDim))
	cam.UpdateProjection()

	return Result{
		Center:   center,
		Size:     box.Size(),
		MaxDim:   maxDim,
		Distance: z,
	}, nil
}
