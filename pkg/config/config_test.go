package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 1000 {
		t.Errorf("expected clip planes 0.1/1000, got %v/%v", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.Position != [3]float64{0, 1.5, 300} {
		t.Errorf("expected position (0, 1.5, 300), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Padding != 1.2 {
		t.Errorf("expected padding 1.2, got %v", cfg.Camera.Padding)
	}
	if cfg.Spin.Strategy != StrategyTimed {
		t.Errorf("expected timed strategy, got %s", cfg.Spin.Strategy)
	}
	if cfg.Spin.Speed != 0.01 {
		t.Errorf("expected speed 0.01, got %v", cfg.Spin.Speed)
	}
	if cfg.Spin.TimeScaled {
		t.Error("expected time scaling off by default")
	}
	if cfg.Display.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.Display.FPS)
	}
	if cfg.Asset.Timeout != 0 {
		t.Errorf("expected no load timeout, got %v", cfg.Asset.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
asset:
  path: models/trophy.glb
  timeout: 30s
camera:
  fov: 60
spin:
  strategy: toggle
  speed: 0.02
display:
  fps: 30
  background: "30,30,40"
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Asset.Path != "models/trophy.glb" {
		t.Errorf("asset path = %q", cfg.Asset.Path)
	}
	if cfg.Asset.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Asset.Timeout)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("fov = %v, want 60", cfg.Camera.FOV)
	}
	if cfg.Spin.Strategy != StrategyToggle || cfg.Spin.Speed != 0.02 {
		t.Errorf("spin = %+v", cfg.Spin)
	}
	if cfg.Display.FPS != 30 {
		t.Errorf("fps = %d, want 30", cfg.Display.FPS)
	}
	// Unset values keep their defaults.
	if cfg.Camera.Padding != 1.2 || cfg.Camera.Far != 1000 {
		t.Errorf("defaults lost: %+v", cfg.Camera)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("camera: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("display:\n  fps: 30\nspin:\n  speed: 0.05\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"--fps", "24", "--spin", "eased", "--debug", "--timeout", "5s"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Display.FPS != 24 {
		t.Errorf("fps = %d, want flag value 24", cfg.Display.FPS)
	}
	if cfg.Spin.Speed != 0.05 {
		t.Errorf("speed = %v, want file value 0.05 (flag not set)", cfg.Spin.Speed)
	}
	if cfg.Spin.Strategy != StrategyEased {
		t.Errorf("strategy = %q, want eased", cfg.Spin.Strategy)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Asset.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Asset.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }, "display.fps"},
		{"unknown strategy", func(c *Config) { c.Spin.Strategy = "wobble" }, "spin.strategy"},
		{"padding too small", func(c *Config) { c.Camera.Padding = 1 }, "camera.padding"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "clip planes"},
		{"negative speed", func(c *Config) { c.Spin.Speed = -1 }, "spin.speed"},
		{"eased without duration", func(c *Config) {
			c.Spin.Strategy = StrategyEased
			c.Spin.Duration = 0
		}, "spin.duration"},
		{"negative timeout", func(c *Config) { c.Asset.Timeout = -time.Second }, "asset.timeout"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention %s", err, tc.field)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Spin.Strategy = StrategyToggle
	cfg.Asset.Timeout = 10 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Spin.Strategy != StrategyToggle || loaded.Asset.Timeout != 10*time.Second {
		t.Errorf("round trip lost values: %+v %+v", loaded.Spin, loaded.Asset)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	cfg.Display.FPS = 50
	if got := cfg.FrameInterval(); got != 20*time.Millisecond {
		t.Errorf("FrameInterval() = %v, want 20ms", got)
	}
}

func TestLogPath(t *testing.T) {
	cfg := Default()
	if !strings.HasSuffix(cfg.LogPath(), "turntable.log") {
		t.Errorf("default LogPath() = %q", cfg.LogPath())
	}
	cfg.Logging.LogFile = "/tmp/x.log"
	if cfg.LogPath() != "/tmp/x.log" {
		t.Errorf("LogPath() = %q, want override", cfg.LogPath())
	}
}
