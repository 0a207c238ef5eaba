package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/taigrr/turntable/pkg/config"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/viewer"
)

type snapshotOptions struct {
	output string
	width  int
	height int
	angle  float64
}

func newSnapshotCmd(a *app) *cobra.Command {
	opts := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot <model.gltf|model.glb|url>",
		Short: "Render a framed model to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args)
			if err != nil {
				return err
			}
			return runSnapshot(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "turntable.png", "Output PNG path")
	cmd.Flags().IntVar(&opts.width, "width", 640, "Image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 480, "Image height in pixels")
	cmd.Flags().Float64Var(&opts.angle, "angle", 0, "Y rotation in radians applied before rendering")
	return cmd
}

func runSnapshot(ctx context.Context, w io.Writer, cfg *config.Config, opts snapshotOptions) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("snapshot size must be positive, got %dx%d", opts.width, opts.height)
	}
	root, closeLog, err := loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	surface := render.NewSurface(nil, opts.width, opts.height)
	if err := viewer.ConfigureSurface(surface, cfg); err != nil {
		return err
	}
	v, err := viewer.FromConfig(cfg, surface, nil)
	if err != nil {
		return err
	}
	v.Resize(viewer.Viewport{Width: opts.width, Height: opts.height, PixelDensity: cfg.Display.PixelDensity})
	v.Loaded(root)
	root.RotateY(opts.angle)

	if err := v.Tick(0); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := surface.Framebuffer().SavePNG(opts.output); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %s (%dx%d)\n", opts.output, surface.Framebuffer().Width, surface.Framebuffer().Height)
	return nil
}
