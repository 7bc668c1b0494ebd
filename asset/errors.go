package asset

import (
	"errors"
	"fmt"
)

// ErrLoadFailed is the root of every asset load failure.
// Use errors.Is to detect it and errors.As with *LoadError for the source id.
var ErrLoadFailed = errors.New("asset: load failed")

// ErrUnsupportedScheme is returned by MuxFetcher for a source it cannot route.
var ErrUnsupportedScheme = errors.New("asset: unsupported source scheme")

// LoadError describes a failed fetch or decode of one source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: failed to load %s: %v", e.Source, e.Err)
}

// Unwrap returns both ErrLoadFailed and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Err}
}
