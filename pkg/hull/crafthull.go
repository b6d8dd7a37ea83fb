// Package hull builds, caches and serves the convex hull of a whole craft.
//
// A CraftHull is keyed by a hash of the craft's description source and the
// build options. Its meshes live in the craft root's space, so a cached hull
// stays valid as long as the description does, wherever the craft is placed.
package hull

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chazu/crafthull/internal/logging"
	"github.com/chazu/crafthull/pkg/geom"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/chazu/crafthull/pkg/quickhull"
	"github.com/deadsy/sdfx/sdf"
	"golang.org/x/crypto/blake2b"
)

var log = logging.Named("CraftHull")

// DefaultMaxFaces caps the triangles per output mesh so a mesh never needs
// more than 65000 vertices even without sharing.
const DefaultMaxFaces = 21666

// minBoxExtent is the thinnest a fallback box may be on any axis.
const minBoxExtent = 10 * quickhull.Epsilon

// Options configures hull construction.
type Options struct {
	// MaxFaces is the triangle limit per output mesh.
	MaxFaces int

	// WeldTolerance merges input points closer than this before the hull
	// is built. Zero disables welding.
	WeldTolerance float64

	// Strict fails the build (and falls back to a box) on any surface
	// consistency warning.
	Strict bool

	// DumpDir receives per-iteration snapshots when set.
	DumpDir string

	// Kernel names the geometry backend that meshed the parts. Hulls from
	// different backends are cached apart.
	Kernel string
}

// DefaultOptions returns the options used by the service and CLI.
func DefaultOptions() Options {
	return Options{
		MaxFaces:      DefaultMaxFaces,
		WeldTolerance: 1e-4,
	}
}

// CraftHull is the convex hull of one craft description.
type CraftHull struct {
	sum  string
	opts Options

	meshes    []*kernel.Mesh
	bounds    sdf.Box3
	transform sdf.M44
	err       bool
}

// New returns a hull keyed by source. Nothing is built yet.
func New(source string, opts Options) *CraftHull {
	if opts.MaxFaces <= 0 {
		opts.MaxFaces = DefaultMaxFaces
	}
	h := &CraftHull{opts: opts, transform: sdf.Identity3d()}
	h.HashCraft(source)
	return h
}

// HashCraft sets the hull's key from the craft description source and the
// options that shape the result. DumpDir does not take part.
func (h *CraftHull) HashCraft(source string) {
	d, _ := blake2b.New256(nil)
	io.WriteString(d, source)
	fmt.Fprintf(d, "\x00kernel=%s max-faces=%d weld=%g strict=%t",
		h.opts.Kernel, h.opts.MaxFaces, h.opts.WeldTolerance, h.opts.Strict)
	h.sum = hex.EncodeToString(d.Sum(nil))
}

// Sum returns the hex content hash of the craft description.
func (h *CraftHull) Sum() string {
	return h.sum
}

// Meshes returns the hull meshes in root space.
func (h *CraftHull) Meshes() []*kernel.Mesh {
	return h.meshes
}

// Error reports whether the hull is a fallback box rather than a true hull.
func (h *CraftHull) Error() bool {
	return h.err
}

// Bounds returns the root-space box around the gathered points.
func (h *CraftHull) Bounds() sdf.Box3 {
	return h.bounds
}

// Transform returns the root's world transform at the time of the build.
func (h *CraftHull) Transform() sdf.M44 {
	return h.transform
}

// TriangleCount sums the triangles of every hull mesh.
func (h *CraftHull) TriangleCount() int {
	n := 0
	for _, m := range h.meshes {
		n += m.TriangleCount()
	}
	return n
}

// Build gathers every instance's vertices into root space and computes their
// convex hull. Degenerate or inconsistent input yields a box around the
// points instead, with Error set.
func (h *CraftHull) Build(instances []kernel.Instance, root sdf.M44) error {
	timer := time.Now()

	toRoot := root.Inverse()
	total := 0
	for _, inst := range instances {
		total += inst.Mesh.VertexCount()
	}
	log.Infof("BuildConvexHull %d verts to process", total)

	pc := quickhull.NewPointCloud(total)
	for _, inst := range instances {
		pc.AppendMesh(inst.Mesh.Vertices, toRoot.Mul(inst.Transform))
	}
	if h.opts.WeldTolerance > 0 {
		welded := pc.Weld(h.opts.WeldTolerance)
		log.Debugf("welded %d points down to %d", pc.Len(), welded.Len())
		pc = welded
	}

	h.transform = root
	h.bounds = pc.Bounds()
	h.err = false

	eng := quickhull.New(pc, quickhull.Options{Strict: h.opts.Strict, DumpDir: h.opts.DumpDir})
	faces, err := eng.Hull()
	switch {
	case errors.Is(err, quickhull.ErrDegenerate), errors.Is(err, quickhull.ErrNonManifold):
		log.Warnf("hull failed (%v), substituting bounding box", err)
		h.err = true
		if err := h.buildBox(h.bounds); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("hull: %w", err)
	default:
		log.Infof("BuildConvexHull %d hull faces", faces.Len())
		h.meshes = makeMeshes(pc, faces, h.opts.MaxFaces)
	}

	log.Infof("BuildConvexHull %dms", time.Since(timer).Milliseconds())
	return nil
}

// BuildBox replaces the hull with the 12-triangle hull of b. Flat or empty
// boxes are widened first.
func (h *CraftHull) BuildBox(b sdf.Box3) error {
	h.bounds = b
	return h.buildBox(b)
}

func (h *CraftHull) buildBox(b sdf.Box3) error {
	corners := geom.Corners(geom.Inflate(b, minBoxExtent))
	pc := quickhull.PointCloudOf(corners[:]...)
	faces, err := quickhull.New(pc, quickhull.Options{}).Hull()
	if err != nil {
		return fmt.Errorf("hull: box: %w", err)
	}
	h.meshes = makeMeshes(pc, faces, h.opts.MaxFaces)
	return nil
}
