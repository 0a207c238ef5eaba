package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// Lighting is an ambient term plus one directional light.
type Lighting struct {
	AmbientColor     Color
	AmbientIntensity float64

	DirectionalColor     Color
	DirectionalIntensity float64
	// Direction points from the scene toward the light.
	Direction math3d.Vec3
}

// DefaultLighting returns a dim grey ambient light at intensity 2 and a white
// directional light shining from (5, 5, 5).
func DefaultLighting() Lighting {
	return Lighting{
		AmbientColor:         RGB(0x40, 0x40, 0x40),
		AmbientIntensity:     2,
		DirectionalColor:     ColorWhite,
		DirectionalIntensity: 1,
		Direction:            math3d.V3(5, 5, 5).Normalize(),
	}
}

// Shade returns base lit by l for a surface with the given world normal.
// base components are linear in [0, 1].
func (l Lighting) Shade(base [4]float64, normal math3d.Vec3) Color {
	diffuse := math.Max(0, normal.Dot(l.Direction.Normalize())) * l.DirectionalIntensity

	channel := func(b float64, amb, dir uint8) uint8 {
		v := b * (float64(amb)/255*l.AmbientIntensity + float64(dir)/255*diffuse)
		return uint8(math.Round(clamp01(v) * 255))
	}

	return RGB(
		channel(base[0], l.AmbientColor.R, l.DirectionalColor.R),
		channel(base[1], l.AmbientColor.G, l.DirectionalColor.G),
		channel(base[2], l.AmbientColor.B, l.DirectionalColor.B),
	)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
