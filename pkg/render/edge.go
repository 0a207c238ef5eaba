package render

import (
	"math"

	"github.com/taigrr/turntable/pkg/math3d"
)

// edgeCoeffs returns A, B, C of the edge function A*x + B*y + C for the edge
// from (x0, y0) to (x1, y1). The function is zero on the edge and changes sign
// across it.
func edgeCoeffs(x0, y0, x1, y1 float64) (a, b, c float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

func edgeFunc(a, b, c, x, y float64) float64 {
	return a*x + b*y + c
}

// fillTriangle scan-converts a screen-space triangle. area2 is twice its
// signed area; a negative area flips the edge functions so back faces drawn
// with culling disabled fill the same way as front faces.
//
// Edge values step incrementally across each row, so no barycentric solve
// happens per pixel.
func (r *Rasterizer) fillTriangle(sv *[3]screenVertex, area2 float64) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge i is opposite vertex i.
	a0, b0, c0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	a1, b1, c1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	a2, b2, c2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	if area2 < 0 {
		a0, b0, c0 = -a0, -b0, -c0
		a1, b1, c1 = -a1, -b1, -c1
		a2, b2, c2 = -a2, -b2, -c2
		area2 = -area2
	}
	invArea := 1 / area2

	startX := float64(minX) + 0.5

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		w0 := edgeFunc(a0, b0, c0, startX, py)
		w1 := edgeFunc(a1, b1, c1, startX, py)
		w2 := edgeFunc(a2, b2, c2, startX, py)

		for x := minX; x <= maxX; x, w0, w1, w2 = x+1, w0+a0, w1+a1, w2+a2 {
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			bc := math3d.V3(w0*invArea, w1*invArea, w2*invArea)
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z < -1 || z > 1 {
				continue // Outside near/far
			}
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc))
		}
	}
}
