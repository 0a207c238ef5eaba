package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Progress reports bytes read so far. Total is -1 when the size is unknown.
type Progress struct {
	Loaded int64
	Total  int64
}

// Fraction returns Loaded/Total, or -1 when Total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Loaded) / float64(p.Total)
}

// progressStep is how many bytes are read between progress reports.
const progressStep = 64 << 10

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Resolve maps an asset path to a file path or URL. Remote URLs are returned
// unchanged. Local paths, including ones starting with "/", are joined under
// root, which is how a static asset root serves them.
func Resolve(root, path string) string {
	if isRemote(path) {
		return path
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

// open returns a reader for the resolved source and its size (-1 if unknown).
func (p *Provider) open(ctx context.Context, resolved string) (io.ReadCloser, int64, error) {
	if isRemote(resolved) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
		if err != nil {
			return nil, 0, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, 0, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
		}
		return resp.Body, resp.ContentLength, nil
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%s is a directory", resolved)
	}
	return f, info.Size(), nil
}

// countingReader reports progress while reading and stops once ctx is done.
type countingReader struct {
	ctx      context.Context
	r        io.Reader
	total    int64
	loaded   int64
	reported int64
	progress chan<- Progress
}

func (c *countingReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.r.Read(b)
	c.loaded += int64(n)
	if c.loaded-c.reported >= progressStep || (err == io.EOF && c.loaded != c.reported) {
		c.report()
	}
	return n, err
}

// report sends the current count without blocking; a slow consumer only
// misses intermediate updates.
func (c *countingReader) report() {
	c.reported = c.loaded
	if c.progress == nil {
		return
	}
	select {
	case c.progress <- Progress{Loaded: c.loaded, Total: c.total}:
	default:
	}
}
