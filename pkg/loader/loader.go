// Package loader loads a glTF asset into a scene graph.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/taigrr/turntable/pkg/logger"
	"github.com/taigrr/turntable/pkg/models"
	"github.com/taigrr/turntable/pkg/scene"
)

// Provider loads assets from disk or over http.
type Provider struct {
	// Root is the directory local asset paths are resolved against.
	Root string
	// Timeout bounds a whole load. Zero means no timeout.
	Timeout time.Duration
	// Reader controls mesh extraction.
	Reader *models.MeshReader

	client *http.Client
	log    *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the client used for remote assets.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithTimeout bounds each load.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// New creates a provider rooted at root.
func New(root string, opts ...Option) *Provider {
	p := &Provider{
		Root:   root,
		Reader: models.NewMeshReader(),
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logger.OrNop(p.log).Named("loader")
	return p
}

// Load reads the asset at assetPath and builds its scene graph. It returns
// exactly one outcome: a root node, or a *LoadError. Progress updates are
// sent on progress without blocking; progress may be nil and is not closed.
func (p *Provider) Load(ctx context.Context, assetPath string, progress chan<- Progress) (root *scene.Node, err error) {
	start := time.Now()
	resolved := Resolve(p.Root, assetPath)

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("asset decode panicked", zap.String("path", resolved), zap.Any("panic", r))
			root, err = nil, &LoadError{Path: assetPath, Err: fmt.Errorf("%w: %v", ErrMalformed, r)}
		}
	}()

	root, err = p.load(ctx, resolved, progress)
	if err != nil {
		return nil, &LoadError{Path: assetPath, Err: err}
	}

	stats := root.Stats()
	p.log.Debug("asset loaded",
		zap.String("path", resolved),
		zap.Int("nodes", stats.Nodes),
		zap.Int("meshes", stats.Meshes),
		zap.Int("triangles", stats.Triangles),
		zap.Duration("took", time.Since(start)),
	)
	return root, nil
}

func (p *Provider) load(ctx context.Context, resolved string, progress chan<- Progress) (*scene.Node, error) {
	if err := checkFormat(resolved); err != nil {
		return nil, err
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	rc, total, err := p.open(ctx, resolved)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := &countingReader{ctx: ctx, r: rc, total: total, progress: progress}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(cr).Decode(doc); err != nil {
		// Decoding wraps reader errors; surface cancellation as such.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	if cr.loaded != cr.reported {
		cr.report()
	}

	root, err := BuildScene(doc, baseName(resolved), p.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return root, nil
}

// checkFormat rejects extensions other than .gltf and .glb. Sources without
// an extension (common for URLs) are left to the decoder.
func checkFormat(resolved string) error {
	var ext string
	if isRemote(resolved) {
		u := resolved
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			u = u[:i]
		}
		ext = path.Ext(u)
	} else {
		ext = filepath.Ext(resolved)
	}
	switch strings.ToLower(ext) {
	case "", ".gltf", ".glb":
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func baseName(resolved string) string {
	if isRemote(resolved) {
		return path.Base(resolved)
	}
	return filepath.Base(resolved)
}

// IsCanceled reports whether err came from a cancelled or timed-out load.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
