package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/turntable/pkg/config"
	"github.com/taigrr/turntable/pkg/framing"
	"github.com/taigrr/turntable/pkg/loader"
	"github.com/taigrr/turntable/pkg/logger"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/scene"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.gltf|model.glb|url>",
		Short: "Display model information",
		Long:  "Display node, mesh and triangle counts of a glTF model, its bounding box and the camera distance framing would choose.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			return runInfo(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

// loadModel loads the configured asset, logging to stderr.
func loadModel(ctx context.Context, cfg *config.Config) (*scene.Node, func() error, error) {
	log, closeLog := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Console: os.Stderr,
	})
	provider := loader.New(cfg.Asset.Root,
		loader.WithTimeout(cfg.Asset.Timeout),
		loader.WithLogger(log),
	)
	root, err := provider.Load(ctx, cfg.Asset.Path, nil)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return root, closeLog, nil
}

func runInfo(ctx context.Context, w io.Writer, cfg *config.Config) error {
	root, closeLog, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	stats := root.Stats()
	box := root.Bounds()

	fmt.Fprintf(w, "Model:      %s\n", root.Name)
	fmt.Fprintf(w, "Source:     %s\n", loader.Resolve(cfg.Asset.Root, cfg.Asset.Path))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Nodes:      %d\n", stats.Nodes)
	fmt.Fprintf(w, "Meshes:     %d\n", stats.Meshes)
	fmt.Fprintf(w, "Vertices:   %d\n", stats.Vertices)
	fmt.Fprintf(w, "Triangles:  %d\n", stats.Triangles)
	fmt.Fprintln(w)

	if box.IsEmpty() {
		fmt.Fprintln(w, "Bounds:     empty")
		return nil
	}
	size, center := box.Size(), box.Center()
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", box.Min.X, box.Min.Y, box.Min.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", box.Max.X, box.Max.Y, box.Max.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	fmt.Fprintf(w, "Camera Z:   %.3f\n", framing.Distance(box.MaxDim(), render.DegToRad(cfg.Camera.FOV), cfg.Camera.Padding))
	return nil
}
