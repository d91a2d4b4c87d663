package core

import (
	"errors"
	"fmt"
)

// ErrMalformedScene is returned at construction time for scenes that cannot be
// rendered: no shapes, a camera with a non-finite basis, or invalid render sizes.
var ErrMalformedScene = errors.New("malformed scene")

// SceneLoadError reports a failure in the layer that produces scenes and render
// configuration (presets, config files). It wraps the underlying cause.
type SceneLoadError struct {
	Source string // Scene name or file path that failed to load
	Err    error
}

func (e *SceneLoadError) Error() string {
	return fmt.Sprintf("loading scene %q: %v", e.Source, e.Err)
}

func (e *SceneLoadError) Unwrap() error {
	return e.Err
}
