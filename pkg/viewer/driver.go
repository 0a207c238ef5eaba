package viewer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/loader"
	"github.com/taigrr/turntable/pkg/scene"
)

// maxFrameDelta caps the elapsed time passed to a frame after a stall.
const maxFrameDelta = 100 * time.Millisecond

// SceneProvider loads a model. loader.Provider implements it.
type SceneProvider interface {
	Load(ctx context.Context, path string, progress chan<- loader.Progress) (*scene.Node, error)
}

// Driver runs a Viewer's event loop. All viewer state is touched only from
// the loop goroutine; the asset load and the input source communicate with it
// over channels.
type Driver struct {
	Viewer   *Viewer
	Provider SceneProvider // May be nil to run without a model
	Asset    string
	Events   <-chan Event
	Interval time.Duration // Frame period
	Log      *zap.Logger
}

type loadResult struct {
	root *scene.Node
	err  error
}

// Handle controls a driver started with Start.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Stop cancels the loop and waits for it to exit.
func (h *Handle) Stop() error {
	h.cancel()
	<-h.done
	return h.err
}

// Done is closed when the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Start runs the loop on a new goroutine.
func (d *Driver) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.err = d.Run(ctx)
	}()
	return h
}

// Run loads the asset and processes events and frame ticks until ctx is
// cancelled or a QuitEvent arrives. The asset load is cancelled when Run
// returns.
func (d *Driver) Run(ctx context.Context) error {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("driver")

	interval := d.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	results := make(chan loadResult, 1)
	progress := make(chan loader.Progress, 16)
	if d.Provider != nil {
		wg.Go(func() {
			results <- d.load(ctx, progress)
		})
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	last := time.Now()
	events := d.Events

	for {
		select {
		case <-ctx.Done():
			return nil

		case res := <-results:
			if res.err != nil {
				if ctx.Err() != nil {
					return nil
				}
				d.Viewer.LoadFailed(res.err)
				continue
			}
			d.Viewer.Loaded(res.root)

		case p := <-progress:
			d.Viewer.SetProgress(p)

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if _, quit := ev.(QuitEvent); quit {
				log.Debug("quit requested")
				return nil
			}
			d.apply(ev, log)

		case <-timer.C:
			timer.Reset(interval)
			now := time.Now()
			dt := min(now.Sub(last), maxFrameDelta)
			last = now
			d.frame(dt, log)
		}
	}
}

func (d *Driver) apply(ev Event, log *zap.Logger) {
	switch ev := ev.(type) {
	case ClickEvent:
		res := d.Viewer.Click(ev.X, ev.Y, ev.Rect)
		if res.Hit {
			log.Debug("click hit", zap.String("node", res.Node.Name), zap.Float64("distance", res.Distance))
		}
	case ResizeEvent:
		d.Viewer.Resize(ev.Viewport)
	case ZoomEvent:
		d.Viewer.Zoom(ev.Factor)
	case ResetEvent:
		d.Viewer.Reset()
	}
}

// frame runs one tick. A failing or panicking frame is logged and the loop
// goes on.
func (d *Driver) frame(dt time.Duration, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("frame panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	if err := d.Viewer.Tick(dt); err != nil {
		log.Error("render frame", zap.Error(err))
	}
}

// load runs the provider. A panicking provider becomes a load failure so the
// viewer outlives a broken asset.
func (d *Driver) load(ctx context.Context, progress chan<- loader.Progress) (res loadResult) {
	defer func() {
		if r := recover(); r != nil {
			res = loadResult{err: &loader.LoadError{Path: d.Asset, Err: fmt.Errorf("provider panicked: %v", r)}}
		}
	}()
	root, err := d.Provider.Load(ctx, d.Asset, progress)
	return loadResult{root: root, err: err}
}
