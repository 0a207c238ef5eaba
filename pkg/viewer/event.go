package viewer

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/turntable/pkg/picking"
)

// Event is an input the Driver applies to the Viewer.
type Event interface {
	event()
}

// ClickEvent is a primary-button click at pointer position (X, Y) inside Rect.
type ClickEvent struct {
	X, Y float64
	Rect picking.Rect
}

// ResizeEvent carries a new viewport.
type ResizeEvent struct {
	Viewport Viewport
}

// ZoomEvent scales the camera distance by Factor.
type ZoomEvent struct {
	Factor float64
}

// ResetEvent restores the initial orientation and distance.
type ResetEvent struct{}

// QuitEvent stops the driver.
type QuitEvent struct{}

func (ClickEvent) event()  {}
func (ResizeEvent) event() {}
func (ZoomEvent) event()   {}
func (ResetEvent) event()  {}
func (QuitEvent) event()   {}

// ZoomStep is the distance factor of one wheel notch.
const ZoomStep = 1.1

// InputMapper translates terminal events into viewer events. It tracks the
// terminal size so clicks can be placed on the canvas.
type InputMapper struct {
	PixelDensity float64
	cells        image.Rectangle
}

// NewInputMapper creates a mapper for a terminal of cols × rows cells.
func NewInputMapper(cols, rows int, density float64) *InputMapper {
	return &InputMapper{
		PixelDensity: density,
		cells:        image.Rect(0, 0, cols, rows),
	}
}

// Viewport returns the viewport covering the whole terminal. Each cell is one
// pixel wide and two pixels high.
func (m *InputMapper) Viewport() Viewport {
	return Viewport{
		Width:        m.cells.Dx(),
		Height:       m.cells.Dy() * 2,
		PixelDensity: m.PixelDensity,
	}
}

// Map converts ev. It returns false for events the viewer ignores.
func (m *InputMapper) Map(ev uv.Event) (Event, bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		m.cells = image.Rect(0, 0, ev.Width, ev.Height)
		return ResizeEvent{Viewport: m.Viewport()}, true

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c", "q"):
			return QuitEvent{}, true
		case ev.MatchString("r"):
			return ResetEvent{}, true
		// "+" cannot be matched by name since it separates modifiers.
		case ev.Text == "+" || ev.MatchString("="):
			return ZoomEvent{Factor: 1 / ZoomStep}, true
		case ev.MatchString("-", "_"):
			return ZoomEvent{Factor: ZoomStep}, true
		}

	case uv.MouseClickEvent:
		if ev.Button != uv.MouseLeft {
			return nil, false
		}
		x, y := picking.CellPoint(ev.X, ev.Y)
		return ClickEvent{X: x, Y: y, Rect: picking.RectFrom(m.cells)}, true

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			return ZoomEvent{Factor: 1 / ZoomStep}, true
		case uv.MouseWheelDown:
			return ZoomEvent{Factor: ZoomStep}, true
		}
	}
	return nil, false
}
