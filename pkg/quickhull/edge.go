package quickhull

import (
	"github.com/chazu/crafthull/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// onEdgeTolerance is the squared distance within which a point counts as
// lying on an edge.
const onEdgeTolerance = 1e-5

// Edge is a directed edge between two point indices. (A, B) and (B, A) are
// different edges; a closed surface holds each of its edges in both
// directions, one per adjacent face.
type Edge struct {
	A, B int
}

// Reverse returns the edge running the other way.
func (e Edge) Reverse() Edge {
	return Edge{A: e.B, B: e.A}
}

// Vector returns points[B] - points[A].
func (e Edge) Vector(pc *PointCloud) v3.Vec {
	return pc.Point(e.B).Sub(pc.Point(e.A))
}

// DistanceToLine is the squared distance of point p from the infinite line
// through the edge.
func (e Edge) DistanceToLine(pc *PointCloud, p int) float64 {
	return geom.LineDistance2(pc.Point(e.A), pc.Point(e.B), pc.Point(p))
}

// Touches reports whether p is one of the endpoints or sits on the segment.
func (e Edge) Touches(pc *PointCloud, p int) bool {
	if p == e.A || p == e.B {
		return true
	}
	a := pc.Point(e.A)
	v := e.Vector(pc)
	x := pc.Point(p).Sub(a)
	vv := v.Dot(v)
	if vv == 0 {
		return x.Dot(x) < onEdgeTolerance
	}
	t := x.Dot(v) / vv
	if t < 0 || t > 1 {
		return false
	}
	return e.DistanceToLine(pc, p) < onEdgeTolerance
}
