package render

import (
	"fmt"
	"image"
	"math"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/scene"
)

// MaxPixelDensity bounds supersampling; every displayed pixel costs
// density² rasterized pixels.
const MaxPixelDensity = 4

// Screen is a terminal screen that can present a finished frame.
type Screen interface {
	uv.Screen
	Display() error
}

// resizer is implemented by screens whose buffer must track the surface size.
type resizer interface {
	Resize(width, height int) error
}

// Surface renders a scene graph through a camera into a framebuffer and, when
// attached to a screen, draws the framebuffer to the terminal.
//
// Width and height are in display pixels: one terminal column is one pixel
// wide and one terminal row is two pixels high. The framebuffer holds
// width*density × height*density pixels.
type Surface struct {
	screen     Screen
	width      int
	height     int
	density    int
	fb         *Framebuffer
	rast       *Rasterizer
	Light      Lighting
	Background Color
}

// NewSurface creates a surface of the given display size. A nil screen gives
// a headless surface whose frames are only kept in the framebuffer.
func NewSurface(screen Screen, width, height int) *Surface {
	s := &Surface{
		screen:     screen,
		density:    1,
		fb:         NewFramebuffer(0, 0),
		Light:      DefaultLighting(),
		Background: ColorWhite,
	}
	s.rast = NewRasterizer(nil, s.fb)
	s.width, s.height = max(width, 0), max(height, 0)
	s.allocate()
	return s
}

// Resize sets the display size in pixels and reallocates the framebuffer.
// An attached screen that can be resized is set to the matching cell size;
// its error is returned with the surface already resized.
func (s *Surface) Resize(width, height int) error {
	s.width, s.height = max(width, 0), max(height, 0)
	s.allocate()
	if r, ok := s.screen.(resizer); ok {
		area := s.Area()
		if err := r.Resize(area.Dx(), area.Dy()); err != nil {
			return fmt.Errorf("resize screen to %dx%d: %w", area.Dx(), area.Dy(), err)
		}
	}
	return nil
}

func (s *Surface) allocate() {
	s.fb.Resize(s.width*s.density, s.height*s.density)
	s.rast.Resize()
}

// SetPixelDensity sets the supersampling factor. f is rounded to the nearest
// integer and clamped to [1, MaxPixelDensity]. The cell area does not depend
// on density, so only the framebuffer is reallocated.
func (s *Surface) SetPixelDensity(f float64) {
	d := int(math.Round(f))
	d = max(1, min(d, MaxPixelDensity))
	if d == s.density {
		return
	}
	s.density = d
	s.allocate()
}

// PixelDensity returns the current supersampling factor.
func (s *Surface) PixelDensity() int {
	return s.density
}

// Size returns the display size in pixels.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Framebuffer returns the backing framebuffer.
func (s *Surface) Framebuffer() *Framebuffer {
	return s.fb
}

// SetBackfaceCulling enables or disables dropping back-facing triangles.
func (s *Surface) SetBackfaceCulling(enabled bool) {
	s.rast.DisableBackfaceCulling = !enabled
}

// Stats returns the culling statistics of the last frame.
func (s *Surface) Stats() CullingStats {
	return s.rast.CullingStats
}

// Area returns the terminal cell rectangle the surface draws into.
func (s *Surface) Area() image.Rectangle {
	return image.Rect(0, 0, s.width, (s.height+1)/2)
}

// Render draws root through cam. A nil root renders only the background.
func (s *Surface) Render(root *scene.Node, cam *Camera) error {
	if s.fb.Width == 0 || s.fb.Height == 0 {
		return nil
	}

	s.fb.Clear(s.Background)
	s.rast.SetCamera(cam)
	s.rast.ClearDepth()
	s.rast.ResetCullingStats()

	if root != nil {
		root.Walk(func(n *scene.Node, world math3d.Mat4) bool {
			if n.Mesh != nil {
				s.rast.DrawMesh(n.Mesh, world, s.Light)
			}
			return true
		})
	}

	if s.screen == nil {
		return nil
	}
	s.fb.Draw(s.screen, s.Area(), s.density)
	return s.screen.Display()
}
