package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/config"
	"github.com/taigrr/turntable/pkg/math3d"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/spin"
)

// NewCamera returns the provisional camera described by cfg.
func NewCamera(cfg config.CameraConfig) *render.Camera {
	cam := render.NewCamera()
	cam.SetFOVDegrees(cfg.FOV)
	cam.SetClipPlanes(cfg.Near, cfg.Far)
	cam.SetPosition(math3d.V3(cfg.Position[0], cfg.Position[1], cfg.Position[2]))
	cam.LookAt(math3d.Zero3())
	return cam
}

// NewMachine builds the rotation state machine described by cfg.
func NewMachine(cfg config.SpinConfig, log *zap.Logger) (*spin.Machine, error) {
	strategy, err := spin.NewStrategy(cfg.Strategy, spin.Params{
		Revolution: cfg.Revolution,
		Duration:   cfg.Duration,
		Easing:     cfg.Easing,
	})
	if err != nil {
		return nil, fmt.Errorf("spin: %w", err)
	}
	return spin.NewMachine(strategy, spin.Options{
		Speed:        cfg.Speed,
		TimeScaled:   cfg.TimeScaled,
		ReferenceFPS: cfg.ReferenceFPS,
	}, log), nil
}

// Lighting converts the light section of cfg.
func Lighting(cfg config.LightConfig) (render.Lighting, error) {
	ambient, errA := render.ParseColor(cfg.AmbientColor)
	directional, errD := render.ParseColor(cfg.DirectionalColor)
	if err := errors.Join(errA, errD); err != nil {
		return render.Lighting{}, fmt.Errorf("light: %w", err)
	}
	dir := math3d.V3(cfg.Direction[0], cfg.Direction[1], cfg.Direction[2])
	if dir.Len() == 0 {
		return render.Lighting{}, errors.New("light: direction must not be zero")
	}
	return render.Lighting{
		AmbientColor:         ambient,
		AmbientIntensity:     cfg.AmbientIntensity,
		DirectionalColor:     directional,
		DirectionalIntensity: cfg.DirectionalIntensity,
		Direction:            dir.Normalize(),
	}, nil
}

// ConfigureSurface applies the display and light settings of cfg to s.
func ConfigureSurface(s *render.Surface, cfg *config.Config) error {
	bg, err := render.ParseColor(cfg.Display.Background)
	if err != nil {
		return fmt.Errorf("display.background: %w", err)
	}
	light, err := Lighting(cfg.Light)
	if err != nil {
		return err
	}
	s.Background = bg
	s.Light = light
	s.SetBackfaceCulling(cfg.Display.BackfaceCulling)
	s.SetPixelDensity(cfg.Display.PixelDensity)
	return nil
}

// FromConfig builds a viewer around r with the camera and rotation settings
// of cfg.
func FromConfig(cfg *config.Config, r Renderer, log *zap.Logger) (*Viewer, error) {
	m, err := NewMachine(cfg.Spin, log)
	if err != nil {
		return nil, err
	}
	return New(NewCamera(cfg.Camera), r, m, Options{
		Padding: cfg.Camera.Padding,
		FPS:     cfg.Display.FPS,
	}, log), nil
}
