// turntable - Terminal glTF Turntable Viewer
// Loads a glTF/GLB model, frames it and spins it a full turn when clicked.
//
// Controls:
//
//	Click       - Spin the model (when the click lands on it)
//	Scroll, +/- - Zoom in/out
//	R           - Reset rotation and zoom
//	Esc, Q      - Quit
package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/turntable/pkg/config"
)

// app carries the flags shared by every command.
type app struct {
	configPath string
	flags      *config.Flags
}

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "turntable [model.gltf|model.glb|url]",
		Short: "Terminal glTF turntable viewer",
		Long: `turntable - Terminal glTF Turntable Viewer

Loads a glTF or GLB model, centres it in view and spins it one full turn
each time you click on it.

Controls:
  Click       - Spin the model
  Scroll, +/- - Zoom in/out
  R           - Reset rotation and zoom
  Esc, Q      - Quit`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Config file (default ./turntable.yaml or the user config dir)")
	a.flags = config.RegisterFlags(pf)

	cmd.AddCommand(newInfoCmd(a), newSnapshotCmd(a), newConfigCmd(a))
	return cmd
}

// loadConfig loads the configuration and applies the asset argument, if any.
// An absolute path on the command line is not resolved against the asset
// root.
func (a *app) loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(a.configPath, a.flags)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Asset.Path = args[0]
		if filepath.IsAbs(args[0]) {
			cfg.Asset.Root = string(filepath.Separator)
		}
	}
	return cfg, nil
}
