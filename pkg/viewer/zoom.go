package viewer

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Zoom limits relative to the framed camera distance.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// zoom eases the camera distance toward a target with a critically damped
// spring.
type zoom struct {
	spring harmonica.Spring
	base   float64 // Framed distance
	target float64
	z      float64
	vel    float64
}

func newZoom(fps int) *zoom {
	return &zoom{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// reset snaps to distance and makes it the new base.
func (z *zoom) reset(distance float64) {
	z.base, z.target, z.z, z.vel = distance, distance, distance, 0
}

func (z *zoom) scale(factor float64) {
	z.target = math.Max(z.base*MinZoom, math.Min(z.base*MaxZoom, z.target*factor))
}

// step moves one frame toward the target and reports whether the distance
// changed.
func (z *zoom) step() bool {
	if z.z == z.target && z.vel == 0 {
		return false
	}
	z.z, z.vel = z.spring.Update(z.z, z.vel, z.target)
	if math.Abs(z.z-z.target) < 1e-6*z.base && math.Abs(z.vel) < 1e-6*z.base {
		z.z, z.vel = z.target, 0
	}
	return true
}
