package quickhull

import (
	"fmt"

	"github.com/chazu/crafthull/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// Epsilon is how far above a face a point must be before the face
	// claims it. It also bounds how far outside the finished hull an input
	// point may lie.
	Epsilon = 1e-3

	// duplicateTolerance is the squared distance at which a point is
	// treated as the same position as a vertex.
	duplicateTolerance = 1e-6

	// planeTolerance absorbs rounding in plane tests, so points that are
	// coplanar with a face are neither in front of it nor behind it.
	planeTolerance = 1e-9
)

// Triangle is a hull face. Its vertices are fixed at creation; the list of
// points it can see grows during distribution.
type Triangle struct {
	pc      *PointCloud
	a, b, c int
	normal  v3.Vec

	visible []int
	highest int
	height  float64

	owner *FaceSet
	slot  int
}

// NewTriangle builds face (a, b, c) over pc. The normal follows the right
// hand rule for a -> b -> c.
func NewTriangle(pc *PointCloud, a, b, c int) *Triangle {
	return &Triangle{
		pc:      pc,
		a:       a,
		b:       b,
		c:       c,
		normal:  geom.Normal(pc.Point(a), pc.Point(b), pc.Point(c)),
		highest: -1,
	}
}

// Vertices returns the three vertex indices in winding order.
func (t *Triangle) Vertices() [3]int {
	return [3]int{t.a, t.b, t.c}
}

// Normal returns the unit outward normal, or the zero vector for a sliver.
func (t *Triangle) Normal() v3.Vec {
	return t.normal
}

// Edges returns the three directed edges (a,b), (b,c), (c,a).
func (t *Triangle) Edges() [3]Edge {
	return [3]Edge{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}}
}

// ReverseEdges returns the edges a neighbouring face holds: (b,a), (c,b), (a,c).
func (t *Triangle) ReverseEdges() [3]Edge {
	return [3]Edge{{t.b, t.a}, {t.c, t.b}, {t.a, t.c}}
}

// HasVertex reports whether p is one of the corners.
func (t *Triangle) HasVertex(p int) bool {
	return p == t.a || p == t.b || p == t.c
}

// SignedDistance is the distance of p above the face plane.
func (t *Triangle) SignedDistance(p int) float64 {
	return geom.PlaneDistance(t.pc.Point(t.a), t.normal, t.pc.Point(p))
}

// CanSee reports whether p is on or above the face plane. The face's own
// vertices are always visible.
func (t *Triangle) CanSee(p int) bool {
	return t.SignedDistance(p) >= 0
}

// InFront reports whether p is in front of the face plane rather than on
// or behind it. Only such faces are replaced when p joins the hull.
func (t *Triangle) InFront(p int) bool {
	return t.SignedDistance(p) > planeTolerance
}

// IsDuplicate reports whether p sits on top of one of the corners.
func (t *Triangle) IsDuplicate(p int) bool {
	q := t.pc.Point(p)
	for _, v := range t.Vertices() {
		if q.Sub(t.pc.Point(v)).Length2() < duplicateTolerance {
			return true
		}
	}
	return false
}

// TryAddVisiblePoint claims p if it lies more than Epsilon above the face.
func (t *Triangle) TryAddVisiblePoint(p int) bool {
	if t.HasVertex(p) || t.IsDuplicate(p) {
		return false
	}
	d := t.SignedDistance(p)
	if d <= Epsilon {
		return false
	}
	t.visible = append(t.visible, p)
	if t.highest < 0 || d > t.height {
		t.highest = p
		t.height = d
	}
	return true
}

// Visible returns the claimed points in the order they were added.
func (t *Triangle) Visible() []int {
	return t.visible
}

// HasPoints reports whether any point was claimed.
func (t *Triangle) HasPoints() bool {
	return len(t.visible) > 0
}

// Farthest returns the claimed point with the greatest height.
func (t *Triangle) Farthest() (int, bool) {
	return t.highest, t.highest >= 0
}

func (t *Triangle) String() string {
	return fmt.Sprintf("(%d %d %d)", t.a, t.b, t.c)
}
