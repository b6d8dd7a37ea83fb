// Package quickhull builds the convex hull of a 3-D point cloud.
//
// The hull is grown from an initial tetrahedron. Each open face keeps the
// points above it; the farthest of them becomes the next apex, the faces it
// can see are replaced by a fan of new faces around their boundary, and the
// freed points are handed to the new faces. Faces with nothing above them
// are final. All indices refer to the PointCloud the engine was created
// with.
package quickhull

import (
	"errors"
	"fmt"

	"github.com/chazu/crafthull/internal/logging"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var log = logging.Named("Quickhull")

var (
	// ErrDegenerate is returned when the points do not span three
	// dimensions: fewer than four points, or all of them (nearly) on one
	// line or plane.
	ErrDegenerate = errors.New("degenerate point set")

	// ErrNonManifold is returned in strict mode when the surface under
	// construction stops being a closed 2-manifold.
	ErrNonManifold = errors.New("non-manifold hull surface")
)

// Options tunes a hull run. The zero value is a quiet, lenient run.
type Options struct {
	// Strict turns surface consistency warnings into ErrNonManifold.
	Strict bool

	// DumpDir, when set, receives one snapshot file per iteration.
	DumpDir string

	// DumpPoints also writes the input cloud to DumpDir.
	DumpPoints bool
}

// Engine runs quickhull over one point cloud. It is not safe for
// concurrent use, but separate engines share nothing.
type Engine struct {
	points *PointCloud
	opts   Options

	conn       *Connectivity
	open       *FaceSet
	final      *FaceSet
	iterations int
	warnings   int
	dump       *dumper
}

// New returns an engine for pc. pc must not be modified while Hull runs.
func New(pc *PointCloud, opts Options) *Engine {
	return &Engine{points: pc, opts: opts}
}

// Iterations returns how many apex points the last run processed.
func (e *Engine) Iterations() int {
	return e.iterations
}

// Warnings returns how many surface problems the last run tolerated.
func (e *Engine) Warnings() int {
	return e.warnings
}

// Hull computes the convex hull and returns its faces, wound so that
// normals point outward.
func (e *Engine) Hull() (*FaceSet, error) {
	e.iterations = 0
	e.warnings = 0

	n := e.points.Len()
	if n < 4 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerate, n)
	}
	simplex, err := e.simplex()
	if err != nil {
		return nil, err
	}

	if e.opts.DumpDir != "" {
		e.dump = newDumper(e.opts.DumpDir)
		if e.opts.DumpPoints {
			e.dump.points(e.points)
		}
	}

	e.conn = NewConnectivity(simplex[:]...)
	e.open = NewFaceSet()
	e.final = NewFaceSet()

	for p := 0; p < n; p++ {
		for _, t := range simplex {
			if t.TryAddVisiblePoint(p) {
				break
			}
		}
	}
	for _, t := range simplex {
		e.place(t)
	}

	for e.open.Len() > 0 {
		f := e.open.Pop()
		p, ok := f.Farthest()
		if !ok {
			e.final.Add(f)
			continue
		}
		if err := e.expand(f, p); err != nil {
			return nil, err
		}
	}

	if e.dump != nil {
		e.dump.snapshot(e.points, e.open, e.final, -1, NewFaceSet(), nil)
	}
	if err := e.check(); err != nil {
		return nil, err
	}
	log.Debugf("hull of %d points: %d faces after %d iterations", n, e.final.Len(), e.iterations)
	return e.final, nil
}

// expand replaces the faces apex p is in front of with a fan around their
// horizon and redistributes their points. A horizon edge p lies against is
// not fanned; the face across it is split at p instead.
func (e *Engine) expand(f *Triangle, p int) error {
	e.iterations++

	lit := NewFaceSet()
	if missing := lit.Light(f, p, e.conn); missing > 0 {
		if err := e.problem(fmt.Errorf("%w: %d unconnected edges around %v", ErrNonManifold, missing, f)); err != nil {
			return err
		}
	}
	var orphans []int
	for _, t := range lit.faces {
		e.conn.Remove(t)
		orphans = append(orphans, t.visible...)
	}

	fresh := NewFaceSet()
	for _, h := range lit.HorizonEdges() {
		if h.A != p && h.B != p && h.Touches(e.points, p) {
			n := e.conn.Face(h.Reverse())
			if n == nil {
				if err := e.problem(fmt.Errorf("%w: no face across horizon edge %v", ErrNonManifold, h)); err != nil {
					return err
				}
			} else if halves, ok := e.halves(n, h.Reverse(), p); ok {
				orphans = append(orphans, e.split(n, halves, fresh)...)
				continue
			}
		}
		t := NewTriangle(e.points, h.A, h.B, p)
		fresh.Add(t)
		e.conn.Add(t)
	}
	if err := e.conn.takeErr(); err != nil {
		if err := e.problem(err); err != nil {
			return err
		}
	}

	created := fresh.Faces()
	for _, q := range orphans {
		if q == p {
			continue
		}
		for _, nt := range created {
			if nt.TryAddVisiblePoint(q) {
				break
			}
		}
	}
	for _, t := range created {
		e.place(t)
	}

	if e.dump != nil {
		e.dump.snapshot(e.points, e.open, e.final, p, lit, created)
	}
	return nil
}

// halves returns t cut in two at p, which lies next to t's edge side. The
// cut is refused unless p is in t's plane and both halves face the way t
// does.
func (e *Engine) halves(t *Triangle, side Edge, p int) ([2]*Triangle, bool) {
	var out [2]*Triangle
	if d := t.SignedDistance(p); d > planeTolerance || d < -planeTolerance {
		return out, false
	}
	var far int
	for _, v := range t.Vertices() {
		if v != side.A && v != side.B {
			far = v
		}
	}
	out[0] = NewTriangle(e.points, side.A, p, far)
	out[1] = NewTriangle(e.points, p, side.B, far)
	for _, half := range out {
		if half.Normal().Dot(t.Normal()) <= 0 {
			return out, false
		}
	}
	return out, true
}

// split replaces t with its halves. They go into fresh and t's claimed
// points are returned for redistribution.
func (e *Engine) split(t *Triangle, halves [2]*Triangle, fresh *FaceSet) []int {
	if t.owner != nil {
		t.owner.Remove(t)
	}
	e.conn.Remove(t)
	log.Debugf("splitting %v into %v and %v", t, halves[0], halves[1])
	for _, half := range halves {
		fresh.Add(half)
		e.conn.Add(half)
	}
	return t.visible
}

// check rejects a finished surface with a sliver face or with an input
// point more than Epsilon outside it.
func (e *Engine) check() error {
	for _, t := range e.final.faces {
		if t.Normal() == (v3.Vec{}) {
			return fmt.Errorf("%w: face %v has no area", ErrNonManifold, t)
		}
		for q := 0; q < e.points.Len(); q++ {
			if d := t.SignedDistance(q); d > Epsilon {
				return fmt.Errorf("%w: point %d is %g outside face %v", ErrNonManifold, q, d, t)
			}
		}
	}
	return nil
}

// place puts t on the work list if it has points to process, otherwise it
// is final.
func (e *Engine) place(t *Triangle) {
	if t.HasPoints() {
		e.open.Add(t)
	} else {
		e.final.Add(t)
	}
}

// problem records a surface inconsistency and returns it in strict mode.
func (e *Engine) problem(err error) error {
	e.warnings++
	if e.opts.Strict {
		return err
	}
	log.Warn(err)
	return nil
}

// simplex picks four well separated points and returns the tetrahedron
// over them with outward winding.
func (e *Engine) simplex() ([4]*Triangle, error) {
	var faces [4]*Triangle
	pc := e.points
	ext := e.extremes()

	a, b, best := ext[0], ext[1], 0.0
	for i := 0; i < len(ext); i++ {
		for j := i + 1; j < len(ext); j++ {
			d := pc.Point(ext[j]).Sub(pc.Point(ext[i])).Length2()
			if d > best {
				a, b, best = ext[i], ext[j], d
			}
		}
	}
	if best <= Epsilon*Epsilon {
		return faces, fmt.Errorf("%w: all points coincide", ErrDegenerate)
	}

	base := Edge{a, b}
	c, cd := farthestFromLine(pc, base, ext[:])
	if cd <= Epsilon*Epsilon {
		// The extremes can all sit on the base line while other points
		// do not.
		c, cd = farthestFromLine(pc, base, nil)
	}
	if cd <= Epsilon*Epsilon {
		return faces, fmt.Errorf("%w: points are colinear", ErrDegenerate)
	}

	plane := NewTriangle(pc, a, b, c)
	d, dd := -1, 0.0
	for p := 0; p < pc.Len(); p++ {
		dist := plane.SignedDistance(p)
		if dist*dist > dd*dd {
			d, dd = p, dist
		}
	}
	if d < 0 || dd*dd <= Epsilon*Epsilon {
		return faces, fmt.Errorf("%w: points are coplanar", ErrDegenerate)
	}
	if dd > 0 {
		b, c = c, b
	}

	faces[0] = NewTriangle(pc, a, b, c)
	faces[1] = NewTriangle(pc, a, d, b)
	faces[2] = NewTriangle(pc, a, c, d)
	faces[3] = NewTriangle(pc, c, b, d)
	return faces, nil
}

// extremes returns the indices of the min and max point along x, y and z.
func (e *Engine) extremes() [6]int {
	var ext [6]int
	pc := e.points
	for i := 1; i < pc.Len(); i++ {
		p := pc.Point(i)
		if p.X < pc.Point(ext[0]).X {
			ext[0] = i
		}
		if p.X > pc.Point(ext[1]).X {
			ext[1] = i
		}
		if p.Y < pc.Point(ext[2]).Y {
			ext[2] = i
		}
		if p.Y > pc.Point(ext[3]).Y {
			ext[3] = i
		}
		if p.Z < pc.Point(ext[4]).Z {
			ext[4] = i
		}
		if p.Z > pc.Point(ext[5]).Z {
			ext[5] = i
		}
	}
	return ext
}

// farthestFromLine returns the candidate with the greatest squared
// distance from edge's line. A nil candidate list searches every point.
func farthestFromLine(pc *PointCloud, edge Edge, candidates []int) (int, float64) {
	best, bestd := -1, 0.0
	check := func(p int) {
		if d := edge.DistanceToLine(pc, p); d > bestd {
			best, bestd = p, d
		}
	}
	if candidates == nil {
		for p := 0; p < pc.Len(); p++ {
			check(p)
		}
	} else {
		for _, p := range candidates {
			check(p)
		}
	}
	return best, bestd
}
