package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are command-line overrides. Only flags the user set are applied.
type Flags struct {
	fs *pflag.FlagSet

	root         string
	strategy     string
	speed        float64
	timeScaled   bool
	fps          int
	fov          float64
	background   string
	pixelDensity float64
	debug        bool
	logFile      string
	timeout      time.Duration
}

// RegisterFlags adds the override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.root, "root", "", "Directory asset paths are resolved against")
	fs.StringVar(&f.strategy, "spin", "", "Spin strategy: timed, toggle or eased")
	fs.Float64Var(&f.speed, "speed", 0, "Spin speed in radians per frame")
	fs.BoolVar(&f.timeScaled, "time-scaled", false, "Scale spin speed by elapsed time")
	fs.IntVar(&f.fps, "fps", 0, "Target frames per second")
	fs.Float64Var(&f.fov, "fov", 0, "Vertical field of view in degrees")
	fs.StringVar(&f.background, "bg", "", "Background color (#rrggbb or R,G,B)")
	fs.Float64Var(&f.pixelDensity, "density", 0, "Supersampling factor (1-4)")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path")
	fs.DurationVar(&f.timeout, "timeout", 0, "Asset load timeout, 0 for none")
	return f
}

// apply applies the changed flags to cfg.
func (f *Flags) apply(cfg *Config) {
	changed := f.fs.Changed
	if changed("root") {
		cfg.Asset.Root = f.root
	}
	if changed("spin") {
		cfg.Spin.Strategy = f.strategy
	}
	if changed("speed") {
		cfg.Spin.Speed = f.speed
	}
	if changed("time-scaled") {
		cfg.Spin.TimeScaled = f.timeScaled
	}
	if changed("fps") {
		cfg.Display.FPS = f.fps
	}
	if changed("fov") {
		cfg.Camera.FOV = f.fov
	}
	if changed("bg") {
		cfg.Display.Background = f.background
	}
	if changed("density") {
		cfg.Display.PixelDensity = f.pixelDensity
	}
	if changed("debug") && f.debug {
		cfg.Logging.Level = "debug"
	}
	if changed("log-file") {
		cfg.Logging.LogFile = f.logFile
	}
	if changed("timeout") {
		cfg.Asset.Timeout = f.timeout
	}
}
