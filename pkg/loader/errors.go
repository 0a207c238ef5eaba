package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for files that are not glTF or GLB.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
	// ErrHTTPStatus is wrapped when a remote asset responds with a non-200 status.
	ErrHTTPStatus = errors.New("unexpected http status")
	// ErrMalformed is wrapped when a decoded document cannot be turned into
	// a scene.
	ErrMalformed = errors.New("malformed asset")
)

// LoadError is the single failure outcome of a load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
