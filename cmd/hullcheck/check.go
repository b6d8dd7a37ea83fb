package main

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chazu/crafthull/pkg/engine"
	"github.com/chazu/crafthull/pkg/hull"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/chazu/crafthull/pkg/kernel/manifold"
	"github.com/chazu/crafthull/pkg/kernel/sdfx"
	"github.com/chazu/crafthull/pkg/quickhull"
	"github.com/chazu/crafthull/pkg/tessellate"
)

// check hulls one input file and prints its statistics.
func check(path string, config Config, out io.Writer) error {
	if strings.HasSuffix(path, ".craft") {
		return checkCraft(path, config, out)
	}

	pc, err := readCloud(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s - %d points\n", path, pc.Len())

	opts := quickhull.Options{Strict: config.Strict}
	if config.Dump {
		opts.DumpDir = config.DumpDir
		opts.DumpPoints = true
	}
	eng := quickhull.New(pc, opts)
	start := time.Now()
	faces, err := eng.Hull()
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "    - %d faces %dms\n", faces.Len(), elapsed.Milliseconds())
	if n := eng.Warnings(); n > 0 {
		return fmt.Errorf("%d surface warnings", n)
	}
	return nil
}

func checkCraft(path string, config Config, out io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return errors.Join(errs...)
	}

	k, err := newKernel(config.Kernel)
	if err != nil {
		return err
	}
	instances, err := tessellate.Tessellate(c, k)
	if err != nil {
		return err
	}
	points := 0
	for _, inst := range instances {
		points += inst.Mesh.VertexCount()
	}
	fmt.Fprintf(out, "%s - %d parts %d points\n", path, len(c.Parts), points)

	opts := hull.DefaultOptions()
	opts.Strict = config.Strict
	opts.Kernel = config.Kernel
	if config.Dump {
		opts.DumpDir = config.DumpDir
	}
	h := hull.New(string(source), opts)
	start := time.Now()
	hit, err := hull.Obtain(context.Background(), h, config.CacheDir, instances, c.RootMatrix())
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	suffix := ""
	if hit {
		suffix = " (cached)"
	}
	fmt.Fprintf(out, "    - %d faces %dms%s\n", h.TriangleCount(), elapsed.Milliseconds(), suffix)
	if h.Error() {
		return errors.New("degenerate craft, box hull substituted")
	}
	return nil
}

func newKernel(name string) (kernel.Kernel, error) {
	if name == "manifold" {
		return manifold.New()
	}
	return sdfx.New(), nil
}

// readCloud loads a point cloud file, decompressing .gz files.
func readCloud(path string) (*quickhull.PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return quickhull.ReadPointCloud(r)
}
