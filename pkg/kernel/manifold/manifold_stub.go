//go:build !manifold

// Package manifold meshes craft parts with the Manifold library. Without
// the manifold build tag only this stub is compiled, and hullcheck -kernel
// manifold reports that the backend is missing.
package manifold

import (
	"errors"

	"github.com/chazu/crafthull/pkg/kernel"
)

// New fails: the binary was built without -tags=manifold.
func New() (kernel.Kernel, error) {
	return nil, errors.New("manifold kernel not available: build with -tags=manifold")
}
