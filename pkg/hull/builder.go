package hull

import (
	"context"
	"fmt"
	"os"

	"github.com/chazu/crafthull/internal/worker"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
)

// Obtain fills h from the cache in dir when possible, otherwise builds it
// from instances and saves the result. Cache problems are logged and never
// fail the call. An empty dir disables the cache. It reports whether the
// hull came from the cache.
func Obtain(ctx context.Context, h *CraftHull, dir string, instances []kernel.Instance, root sdf.M44) (bool, error) {
	if dir != "" {
		if ok, _ := h.LoadHull(dir); ok {
			h.transform = root
			return true, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err := h.Build(instances, root); err != nil {
		return false, err
	}
	if dir != "" && !h.err {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warnf("cache directory: %v", err)
		} else if err := h.SaveHull(dir); err != nil {
			log.Warnf("%v", err)
		}
	}
	return false, nil
}

// Result is the outcome of a background build.
type Result struct {
	Hull     *CraftHull
	CacheHit bool
}

// Builder runs hull builds off the caller's goroutine. Starting a new build
// makes the result of any build still in flight stale.
type Builder struct {
	Dir     string
	Options Options

	runner *worker.Runner[Result]
}

// NewBuilder returns a builder caching in dir (empty for no cache).
func NewBuilder(dir string, opts Options) *Builder {
	return &Builder{Dir: dir, Options: opts, runner: worker.New[Result](0)}
}

// Build obtains the hull for the craft described by source.
func (b *Builder) Build(ctx context.Context, source string, instances []kernel.Instance, root sdf.M44) (Result, error) {
	res, err := b.runner.Run(ctx, func(ctx context.Context) (Result, error) {
		h := New(source, b.Options)
		hit, err := Obtain(ctx, h, b.Dir, instances, root)
		return Result{Hull: h, CacheHit: hit}, err
	})
	if err != nil {
		return Result{}, fmt.Errorf("hull: build: %w", err)
	}
	return res, nil
}
