// Package geom holds the small set of vector helpers the hull code needs on
// top of sdfx's v3.Vec.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Normal returns the unit normal of triangle (a, b, c), computed as
// cross(b-a, c-b). A degenerate triangle yields the zero vector.
func Normal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(b))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// LineDistance2 returns the squared perpendicular distance of p from the
// infinite line through a and b. A zero-length line measures from a.
func LineDistance2(a, b, p v3.Vec) float64 {
	v := b.Sub(a)
	x := p.Sub(a)
	vv := v.Dot(v)
	if vv == 0 {
		return x.Dot(x)
	}
	xv := x.Dot(v)
	return (vv*x.Dot(x) - xv*xv) / vv
}

// PlaneDistance is the signed distance of p from the plane through origin
// with the given unit normal.
func PlaneDistance(origin, normal, p v3.Vec) float64 {
	return p.Sub(origin).Dot(normal)
}

// TransformPoints applies m to every point in place.
func TransformPoints(m sdf.M44, pts []v3.Vec) {
	for i := range pts {
		pts[i] = m.MulPosition(pts[i])
	}
}

// EulerDegrees builds a rotation from angles in degrees, applied about X
// first, then Y, then Z.
func EulerDegrees(x, y, z float64) sdf.M44 {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	return sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
}
