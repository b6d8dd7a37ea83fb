package quickhull

import (
	"github.com/dhconnelly/rtreego"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// weldPoint is a kept point stored in the welding index.
type weldPoint struct {
	pos  v3.Vec
	rect rtreego.Rect
}

func (w *weldPoint) Bounds() rtreego.Rect {
	return w.rect
}

// Weld returns a new cloud in which points closer than tol to an earlier
// point are dropped. Part meshes share many coincident vertices; removing
// them keeps distribution cheap. A non-positive tol returns pc unchanged.
func (pc *PointCloud) Weld(tol float64) *PointCloud {
	if tol <= 0 || len(pc.points) == 0 {
		return pc
	}
	tree := rtreego.NewTree(3, 25, 50)
	out := NewPointCloud(len(pc.points))
	tol2 := tol * tol

	for _, p := range pc.points {
		query := rtreego.Point{p.X, p.Y, p.Z}
		dup := false
		for _, s := range tree.SearchIntersect(query.ToRect(tol)) {
			if s.(*weldPoint).pos.Sub(p).Length2() < tol2 {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		tree.Insert(&weldPoint{pos: p, rect: query.ToRect(tol / 2)})
		out.AddVertex(p)
	}
	return out
}
