package math3d

// Vec2 represents a 2D vector, used for screen-space edges and normalized
// device coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// InNDC reports whether the point lies inside the [-1, 1] square.
func (a Vec2) InNDC() bool {
	return a.X >= -1 && a.X <= 1 && a.Y >= -1 && a.Y <= 1
}
