package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/turntable/pkg/config"
	"github.com/taigrr/turntable/pkg/loader"
	"github.com/taigrr/turntable/pkg/logger"
	"github.com/taigrr/turntable/pkg/render"
	"github.com/taigrr/turntable/pkg/viewer"
)

// runView runs the interactive viewer until the user quits or a signal
// arrives. Logs go to the log file since the terminal is in use.
func runView(ctx context.Context, cfg *config.Config) error {
	log, closeLog := logger.New(logger.Options{
		Level: cfg.Logging.Level,
		File:  logger.DefaultFileConfig(cfg.LogPath()),
	})
	defer closeLog()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1000h") // Enable button-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1000l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	mapper := viewer.NewInputMapper(width, height, cfg.Display.PixelDensity)
	vp := mapper.Viewport()

	surface := render.NewSurface(term, vp.Width, vp.Height)
	if err := viewer.ConfigureSurface(surface, cfg); err != nil {
		return err
	}
	v, err := viewer.FromConfig(cfg, surface, log)
	if err != nil {
		return err
	}
	v.Resize(vp)

	provider := loader.New(cfg.Asset.Root,
		loader.WithTimeout(cfg.Asset.Timeout),
		loader.WithLogger(log),
	)
	events := make(chan viewer.Event, 16)
	drv := &viewer.Driver{
		Viewer:   v,
		Provider: provider,
		Asset:    cfg.Asset.Path,
		Events:   events,
		Interval: cfg.FrameInterval(),
		Log:      log,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return drv.Run(gctx)
	})
	g.Go(func() error {
		return pumpInput(gctx, term.Events(), mapper, events)
	})

	log.Info("viewer started",
		zap.String("asset", cfg.Asset.Path),
		zap.Int("cols", width),
		zap.Int("rows", height),
	)
	return g.Wait()
}

// pumpInput translates terminal events and forwards them to the driver.
func pumpInput(ctx context.Context, in <-chan uv.Event, m *viewer.InputMapper, out chan<- viewer.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-in:
			if !ok {
				return nil
			}
			e, ok := m.Map(ev)
			if !ok {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
