package render

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/scene"
)

// testScreen records presented frames.
type testScreen struct {
	uv.ScreenBuffer
	displays int
}

func (s *testScreen) Display() error {
	s.displays++
	return nil
}

// resizingScreen records resizes and can fail them.
type resizingScreen struct {
	testScreen
	cols, rows int
	err        error
}

func (s *resizingScreen) Resize(cols, rows int) error {
	s.cols, s.rows = cols, rows
	return s.err
}

func newTestScreen(cols, rows int) *testScreen {
	return &testScreen{ScreenBuffer: uv.NewScreenBuffer(cols, rows)}
}

func quadScene() *scene.Node {
	mesh := models.NewMesh("quad")
	n := math3d.V3(0, 0, 1)
	for _, p := range []math3d.Vec3{
		math3d.V3(-5, -5, 0), math3d.V3(5, -5, 0), math3d.V3(5, 5, 0), math3d.V3(-5, 5, 0),
	} {
		mesh.Vertices = append(mesh.Vertices, models.MeshVertex{Position: p, Normal: n})
	}
	mesh.Faces = []models.Face{{V: [3]int{0, 3, 2}}, {V: [3]int{0, 2, 1}}}
	mesh.CalculateBounds()

	root := scene.NewNode("root")
	child := scene.NewNode("quad")
	child.Mesh = mesh
	root.Add(child)
	return root
}

func testCamera(width, height int) *Camera {
	cam := NewCamera()
	cam.SetAspectRatio(float64(width) / float64(height))
	cam.SetPosition(math3d.V3(0, 0, 10))
	cam.LookAt(math3d.Zero3())
	return cam
}

func TestSurfaceResize(t *testing.T) {
	s := NewSurface(nil, 800, 600)
	if fb := s.Framebuffer(); fb.Width != 800 || fb.Height != 600 {
		t.Fatalf("framebuffer = %dx%d, want 800x600", fb.Width, fb.Height)
	}

	if err := s.Resize(400, 300); err != nil {
		t.Fatal(err)
	}
	if w, h := s.Size(); w != 400 || h != 300 {
		t.Errorf("Size() = %dx%d, want 400x300", w, h)
	}
	if fb := s.Framebuffer(); fb.Width != 400 || fb.Height != 300 {
		t.Errorf("framebuffer = %dx%d, want 400x300", fb.Width, fb.Height)
	}
}

func TestSurfaceResizesScreen(t *testing.T) {
	scr := &resizingScreen{testScreen: *newTestScreen(10, 5)}
	s := NewSurface(scr, 10, 10)

	if err := s.Resize(30, 21); err != nil {
		t.Fatal(err)
	}
	if scr.cols != 30 || scr.rows != 11 {
		t.Errorf("screen = %dx%d cells, want 30x11", scr.cols, scr.rows)
	}

	scr.err = errors.New("closed")
	if err := s.Resize(20, 20); !errors.Is(err, scr.err) {
		t.Errorf("err = %v, want the screen's error", err)
	}
	if fb := s.Framebuffer(); fb.Width != 20 || fb.Height != 20 {
		t.Errorf("framebuffer = %dx%d, want 20x20 even when the screen fails", fb.Width, fb.Height)
	}

	scr.cols = 0
	s.SetPixelDensity(2)
	if scr.cols != 0 {
		t.Error("changing density should not resize the screen")
	}
}

func TestSurfacePixelDensity(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{1, 1},
		{1.4, 1},
		{2, 2},
		{2.6, 3},
		{10, MaxPixelDensity},
	}

	for _, tc := range tests {
		s := NewSurface(nil, 40, 20)
		s.SetPixelDensity(tc.in)
		if got := s.PixelDensity(); got != tc.want {
			t.Errorf("SetPixelDensity(%v) -> %d, want %d", tc.in, got, tc.want)
		}
		fb := s.Framebuffer()
		if fb.Width != 40*tc.want || fb.Height != 20*tc.want {
			t.Errorf("density %d: framebuffer = %dx%d", tc.want, fb.Width, fb.Height)
		}
	}
}

func TestSurfaceArea(t *testing.T) {
	s := NewSurface(nil, 80, 47)
	if got, want := s.Area(), image.Rect(0, 0, 80, 24); got != want {
		t.Errorf("Area() = %v, want %v", got, want)
	}
}

func TestSurfaceRenderHeadless(t *testing.T) {
	s := NewSurface(nil, 80, 80)
	cam := testCamera(80, 80)

	t.Run("nil root renders background", func(t *testing.T) {
		if err := s.Render(nil, cam); err != nil {
			t.Fatal(err)
		}
		for _, c := range s.Framebuffer().Pixels {
			if c != s.Background {
				t.Fatalf("pixel %v, want background %v", c, s.Background)
			}
		}
	})

	t.Run("model covers the centre", func(t *testing.T) {
		if err := s.Render(quadScene(), cam); err != nil {
			t.Fatal(err)
		}
		if c := s.Framebuffer().GetPixel(40, 40); c == s.Background {
			t.Error("centre pixel should show the model")
		}
		if stats := s.Stats(); stats.MeshesDrawn != 1 {
			t.Errorf("MeshesDrawn = %d, want 1", stats.MeshesDrawn)
		}
	})

	t.Run("spinning changes the frame", func(t *testing.T) {
		root := quadScene()
		if err := s.Render(root, cam); err != nil {
			t.Fatal(err)
		}
		before := s.Framebuffer().GetPixel(40, 40)
		root.RotateY(1.2)
		if err := s.Render(root, cam); err != nil {
			t.Fatal(err)
		}
		if after := s.Framebuffer().GetPixel(40, 40); after == before {
			t.Error("rotating the model should change its shading")
		}
	})
}

func TestSurfaceRenderToScreen(t *testing.T) {
	scr := newTestScreen(20, 10)
	s := NewSurface(scr, 20, 20)
	s.SetPixelDensity(2)

	if err := s.Render(quadScene(), testCamera(20, 20)); err != nil {
		t.Fatal(err)
	}
	if scr.displays != 1 {
		t.Errorf("displays = %d, want 1", scr.displays)
	}
	cell := scr.CellAt(10, 5)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want a half block", cell)
	}
}

func TestSurfaceZeroSize(t *testing.T) {
	scr := newTestScreen(1, 1)
	s := NewSurface(scr, 0, 0)
	if err := s.Render(quadScene(), NewCamera()); err != nil {
		t.Fatal(err)
	}
	if scr.displays != 0 {
		t.Error("zero-size surface should not present")
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Clear(RGB(10, 20, 30))
	path := filepath.Join(t.TempDir(), "out.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

func TestFramebufferBlockAverage(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(0, 0, RGB(200, 0, 0))
	fb.SetPixel(1, 0, RGB(0, 200, 0))
	fb.SetPixel(0, 1, RGB(0, 0, 200))
	fb.SetPixel(1, 1, RGB(0, 0, 0))

	got := fb.BlockAverage(0, 0, 2)
	want := Color{R: 50, G: 50, B: 50, A: 255}
	if got != want {
		t.Errorf("BlockAverage = %v, want %v", got, want)
	}
	if fb.BlockAverage(5, 5, 2) != (Color{}) {
		t.Error("block outside the framebuffer should be transparent")
	}
}
