package quickhull

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/chazu/crafthull/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// FaceSet is an unordered collection of triangles with stack-like Pop. A
// triangle lives in at most one set; adding it to another set takes it out
// of the first.
type FaceSet struct {
	faces []*Triangle
}

// NewFaceSet returns a set holding faces.
func NewFaceSet(faces ...*Triangle) *FaceSet {
	fs := &FaceSet{faces: make([]*Triangle, 0, len(faces))}
	for _, t := range faces {
		fs.Add(t)
	}
	return fs
}

// Len returns the number of faces.
func (fs *FaceSet) Len() int {
	return len(fs.faces)
}

// Contains reports whether t currently belongs to this set.
func (fs *FaceSet) Contains(t *Triangle) bool {
	return t.owner == fs
}

// Add moves t into the set.
func (fs *FaceSet) Add(t *Triangle) {
	if t.owner == fs {
		return
	}
	if t.owner != nil {
		t.owner.Remove(t)
	}
	t.owner = fs
	t.slot = len(fs.faces)
	fs.faces = append(fs.faces, t)
}

// Extend moves every face of other into fs, leaving other empty.
func (fs *FaceSet) Extend(other *FaceSet) {
	for other.Len() > 0 {
		fs.Add(other.faces[other.Len()-1])
	}
}

// Remove takes t out of the set. Removing a face the set does not hold is
// a no-op.
func (fs *FaceSet) Remove(t *Triangle) {
	if t.owner != fs {
		return
	}
	last := len(fs.faces) - 1
	if t.slot != last {
		moved := fs.faces[last]
		fs.faces[t.slot] = moved
		moved.slot = t.slot
	}
	fs.faces[last] = nil
	fs.faces = fs.faces[:last]
	t.owner = nil
	t.slot = 0
}

// Pop removes and returns the most recently placed face, or nil.
func (fs *FaceSet) Pop() *Triangle {
	if len(fs.faces) == 0 {
		return nil
	}
	t := fs.faces[len(fs.faces)-1]
	fs.Remove(t)
	return t
}

// Faces returns a snapshot of the set's faces.
func (fs *FaceSet) Faces() []*Triangle {
	return slices.Clone(fs.faces)
}

// Light grows fs from first across shared edges, adding every reachable
// face p is in front of. Faces coplanar with p stay unlit. first is added
// regardless. The return value counts
// edges with no neighbouring face, which only a broken surface has.
func (fs *FaceSet) Light(first *Triangle, p int, conn *Connectivity) int {
	missing := 0
	fs.Add(first)
	queue := []*Triangle{first}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, e := range t.ReverseEdges() {
			n := conn.Face(e)
			if n == nil {
				missing++
				log.Warnf("no face across edge %v of %v", e, t)
				continue
			}
			if fs.Contains(n) || !n.InFront(p) {
				continue
			}
			fs.Add(n)
			queue = append(queue, n)
		}
	}
	return missing
}

// HorizonEdges returns the directed edges of the set's faces whose reverse
// is not also in the set. For a connected lit region that is its boundary
// loop. The order follows the faces' order in the set.
func (fs *FaceSet) HorizonEdges() []Edge {
	var order []Edge
	pos := make(map[Edge]int)
	for _, t := range fs.faces {
		for _, e := range t.Edges() {
			if i, ok := pos[e.Reverse()]; ok {
				order[i] = Edge{-1, -1}
				delete(pos, e.Reverse())
				continue
			}
			pos[e] = len(order)
			order = append(order, e)
		}
	}
	return lo.Filter(order, func(e Edge, _ int) bool {
		return e.A >= 0
	})
}

// Vertices returns the sorted, unique point indices used by the faces.
func (fs *FaceSet) Vertices() []int {
	idx := lo.FlatMap(fs.faces, func(t *Triangle, _ int) []int {
		v := t.Vertices()
		return v[:]
	})
	idx = lo.Uniq(idx)
	slices.Sort(idx)
	return idx
}

// Bounds returns the box around the faces' vertices.
func (fs *FaceSet) Bounds() sdf.Box3 {
	if len(fs.faces) == 0 {
		return sdf.Box3{}
	}
	pc := fs.faces[0].pc
	return geom.Bounds(lo.Map(fs.Vertices(), func(i int, _ int) v3.Vec {
		return pc.Point(i)
	}))
}

// Write encodes the set as an int32 face count followed by, per face, the
// three vertices, the farthest visible point (-1 if none), the visible
// count and the visible points, all little-endian int32.
func (fs *FaceSet) Write(w io.Writer) error {
	return writeTriangles(w, fs.faces)
}

func writeTriangles(w io.Writer, faces []*Triangle) error {
	rec := []int32{int32(len(faces))}
	for _, t := range faces {
		rec = append(rec, int32(t.a), int32(t.b), int32(t.c), int32(t.highest), int32(len(t.visible)))
		for _, p := range t.visible {
			rec = append(rec, int32(p))
		}
	}
	if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
		return fmt.Errorf("write faces: %w", err)
	}
	return nil
}
