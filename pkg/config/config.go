// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Strategy names accepted in spin.strategy.
const (
	StrategyTimed  = "timed"
	StrategyToggle = "toggle"
	StrategyEased  = "eased"
)

// Config holds all viewer settings.
type Config struct {
	Asset   AssetConfig   `yaml:"asset"`
	Camera  CameraConfig  `yaml:"camera"`
	Spin    SpinConfig    `yaml:"spin"`
	Display DisplayConfig `yaml:"display"`
	Light   LightConfig   `yaml:"light"`
	Logging LoggingConfig `yaml:"logging"`
}

// AssetConfig selects the model to load.
type AssetConfig struct {
	Path    string        `yaml:"path"`    // File path or http(s) URL
	Root    string        `yaml:"root"`    // Directory paths are resolved against
	Timeout time.Duration `yaml:"timeout"` // 0 means no timeout
}

// CameraConfig holds the provisional camera used until framing runs.
type CameraConfig struct {
	FOV      float64    `yaml:"fov"` // Vertical field of view in degrees
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
	Position [3]float64 `yaml:"position"`
	Padding  float64    `yaml:"padding"` // Framing margin multiplier
}

// SpinConfig configures the click-to-rotate behaviour.
type SpinConfig struct {
	Strategy     string        `yaml:"strategy"`      // timed, toggle or eased
	Speed        float64       `yaml:"speed"`         // Radians per frame
	Revolution   float64       `yaml:"revolution"`    // Radians per timed/eased spin
	TimeScaled   bool          `yaml:"time_scaled"`   // Scale speed by elapsed time
	ReferenceFPS float64       `yaml:"reference_fps"` // Frame rate speed is tuned for
	Duration     time.Duration `yaml:"duration"`      // Eased spin length
	Easing       string        `yaml:"easing"`        // Eased spin curve
}

// DisplayConfig holds rendering settings.
type DisplayConfig struct {
	FPS             int     `yaml:"fps"`
	Background      string  `yaml:"background"`
	PixelDensity    float64 `yaml:"pixel_density"`
	BackfaceCulling bool    `yaml:"backface_culling"`
}

// LightConfig describes the scene lighting.
type LightConfig struct {
	AmbientColor         string     `yaml:"ambient_color"`
	AmbientIntensity     float64    `yaml:"ambient_intensity"`
	DirectionalColor     string     `yaml:"directional_color"`
	DirectionalIntensity float64    `yaml:"directional_intensity"`
	Direction            [3]float64 `yaml:"direction"` // Toward the light
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"` // Empty means <config dir>/turntable.log
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Asset: AssetConfig{
			Path: "/model.gltf",
			Root: ".",
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{0, 1.5, 300},
			Padding:  1.2,
		},
		Spin: SpinConfig{
			Strategy:     StrategyTimed,
			Speed:        0.01,
			Revolution:   2 * math.Pi,
			ReferenceFPS: 60,
			Duration:     4 * time.Second,
			Easing:       "inOutCubic",
		},
		Display: DisplayConfig{
			FPS:             60,
			Background:      "#ffffff",
			PixelDensity:    1,
			BackfaceCulling: true,
		},
		Light: LightConfig{
			AmbientColor:         "#404040",
			AmbientIntensity:     2,
			DirectionalColor:     "#ffffff",
			DirectionalIntensity: 1,
			Direction:            [3]float64{5, 5, 5},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes must satisfy 0 < near < far, got %v, %v", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Padding <= 1 {
		errs = append(errs, fmt.Errorf("camera.padding must be greater than 1, got %v", c.Camera.Padding))
	}
	switch c.Spin.Strategy {
	case StrategyTimed, StrategyToggle, StrategyEased:
	default:
		errs = append(errs, fmt.Errorf("unknown spin.strategy %q", c.Spin.Strategy))
	}
	if c.Spin.Speed <= 0 {
		errs = append(errs, fmt.Errorf("spin.speed must be positive, got %v", c.Spin.Speed))
	}
	if c.Spin.Revolution <= 0 {
		errs = append(errs, fmt.Errorf("spin.revolution must be positive, got %v", c.Spin.Revolution))
	}
	if c.Spin.TimeScaled && c.Spin.ReferenceFPS <= 0 {
		errs = append(errs, fmt.Errorf("spin.reference_fps must be positive, got %v", c.Spin.ReferenceFPS))
	}
	if c.Spin.Strategy == StrategyEased && c.Spin.Duration <= 0 {
		errs = append(errs, fmt.Errorf("spin.duration must be positive, got %v", c.Spin.Duration))
	}
	if c.Display.FPS <= 0 {
		errs = append(errs, fmt.Errorf("display.fps must be positive, got %d", c.Display.FPS))
	}
	if c.Asset.Timeout < 0 {
		errs = append(errs, fmt.Errorf("asset.timeout must not be negative, got %v", c.Asset.Timeout))
	}
	return errors.Join(errs...)
}

// FrameInterval returns the time between frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Display.FPS)
}
