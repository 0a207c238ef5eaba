// Package viewer ties the loaded model, camera, rotation state machine and
// renderer together and drives them from a single event loop.
package viewer

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/framing"
	"github.com/taigrr/turntable/pkg/loader"
	"github.com/taigrr/turntable/pkg/picking"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/scene"
	"github.com/taigrr/turntable/pkg/spin"
)

var errNoModel = errors.New("loader returned no model")

// Renderer draws a scene graph through a camera.
type Renderer interface {
	Render(root *scene.Node, cam *render.Camera) error
	Resize(width, height int) error
	SetPixelDensity(f float64)
}

// Viewport is the display size in pixels and the supersampling factor.
type Viewport struct {
	Width        int
	Height       int
	PixelDensity float64
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Aspect returns width / height.
func (v Viewport) Aspect() float64 {
	return float64(v.Width) / float64(v.Height)
}

// Options configures a Viewer.
type Options struct {
	Padding float64 // Framing margin, see framing.Frame
	FPS     int     // Frame rate the zoom spring is tuned for
}

// Viewer owns all mutable view state. It is not safe for concurrent use; a
// Driver serialises access to it.
type Viewer struct {
	cam      *render.Camera
	renderer Renderer
	machine  *spin.Machine
	log      *zap.Logger
	opts     Options

	model    *scene.Node
	framed   framing.Result
	hasFrame bool
	viewport Viewport
	zoom     *zoom
	progress loader.Progress
	loadErr  error
}

// New creates a viewer. The camera keeps its provisional configuration until a
// model is loaded and framed.
func New(cam *render.Camera, r Renderer, m *spin.Machine, opts Options, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Padding <= 0 {
		opts.Padding = framing.DefaultPadding
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	return &Viewer{
		cam:      cam,
		renderer: r,
		machine:  m,
		log:      log.Named("viewer"),
		opts:     opts,
		zoom:     newZoom(opts.FPS),
	}
}

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *render.Camera { return v.cam }

// Machine returns the rotation state machine.
func (v *Viewer) Machine() *spin.Machine { return v.machine }

// Model returns the loaded model, or nil before a successful load.
func (v *Viewer) Model() *scene.Node { return v.model }

// Framing returns the last framing result and whether framing has run.
func (v *Viewer) Framing() (framing.Result, bool) { return v.framed, v.hasFrame }

// Viewport returns the last applied viewport.
func (v *Viewer) Viewport() Viewport { return v.viewport }

// Progress returns the last reported load progress.
func (v *Viewer) Progress() loader.Progress { return v.progress }

// LoadErr returns the load failure, if any.
func (v *Viewer) LoadErr() error { return v.loadErr }

// Loaded installs model as the loaded model and frames it.
func (v *Viewer) Loaded(model *scene.Node) {
	if model == nil {
		v.LoadFailed(errNoModel)
		return
	}
	v.model = model
	v.loadErr = nil
	v.hasFrame = false
	v.machine.Reset()

	res, err := framing.Frame(model, v.cam, v.opts.Padding)
	if err != nil {
		if errors.Is(err, framing.ErrEmptyBounds) {
			v.log.Warn("model has no geometry, framing skipped", zap.String("model", model.Name))
			return
		}
		v.log.Error("frame model", zap.Error(err))
		return
	}
	v.framed, v.hasFrame = res, true
	v.zoom.reset(res.Distance)

	stats := model.Stats()
	v.log.Info("model ready",
		zap.String("model", model.Name),
		zap.Int("nodes", stats.Nodes),
		zap.Int("triangles", stats.Triangles),
		zap.Float64("max_dim", res.MaxDim),
		zap.Float64("camera_z", res.Distance),
	)
}

// LoadFailed records a failed load. The viewer stays usable with no model.
func (v *Viewer) LoadFailed(err error) {
	v.loadErr = err
	fields := []zap.Field{zap.Error(err)}
	var le *loader.LoadError
	if errors.As(err, &le) {
		fields = append(fields, zap.String("path", le.Path))
	}
	v.log.Error("asset load failed", fields...)
}

// SetProgress records load progress.
func (v *Viewer) SetProgress(p loader.Progress) {
	v.progress = p
	v.log.Debug("loading",
		zap.Int64("loaded", p.Loaded),
		zap.Int64("total", p.Total),
	)
}

// Click picks at pointer position (x, y) within rect and feeds the result to
// the rotation state machine. Before a model is loaded every click misses.
func (v *Viewer) Click(x, y float64, rect picking.Rect) picking.Result {
	res := picking.Pick(x, y, rect, v.cam, v.model)
	v.machine.Click(res.Hit)
	return res
}

// Resize applies a new viewport. A viewport without area is ignored.
func (v *Viewer) Resize(vp Viewport) {
	if vp.Empty() {
		v.log.Debug("ignoring empty viewport", zap.Int("width", vp.Width), zap.Int("height", vp.Height))
		return
	}
	if vp.PixelDensity <= 0 {
		vp.PixelDensity = 1
	}
	v.viewport = vp
	v.cam.SetAspectRatio(vp.Aspect())
	v.cam.UpdateProjection()
	v.renderer.SetPixelDensity(vp.PixelDensity)
	if err := v.renderer.Resize(vp.Width, vp.Height); err != nil {
		v.log.Error("resize render surface", zap.Error(err))
	}
}

// Zoom scales the target camera distance by factor. Factors below one move
// the camera closer. It has no effect before framing.
func (v *Viewer) Zoom(factor float64) {
	if !v.hasFrame || factor <= 0 {
		return
	}
	v.zoom.scale(factor)
}

// Reset stops rotation, turns the model back to its loaded orientation and
// restores the framed camera distance.
func (v *Viewer) Reset() {
	v.machine.Reset()
	if v.model != nil {
		v.model.RotationY = 0
	}
	if v.hasFrame {
		v.zoom.reset(v.framed.Distance)
		v.applyZoom()
	}
}

// Tick advances one frame: the rotation, then the zoom spring, then a render.
func (v *Viewer) Tick(dt time.Duration) error {
	if v.model != nil && !v.machine.Idle() {
		v.machine.Tick(dt, v.model)
	}
	if v.hasFrame && v.zoom.step() {
		v.applyZoom()
	}
	return v.renderer.Render(v.model, v.cam)
}

func (v *Viewer) applyZoom() {
	z := v.zoom.z
	p := v.cam.Position
	p.Z = z
	v.cam.SetPosition(p)
	v.cam.SetFar(framing.FarDistance(p, v.framed.MaxDim))
}
