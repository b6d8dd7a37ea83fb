package geom

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Bounds returns the axis-aligned bounding box of points. An empty slice
// gives the zero box.
func Bounds(points []v3.Vec) sdf.Box3 {
	if len(points) == 0 {
		return sdf.Box3{}
	}
	b := sdf.Box3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Corners lists the eight corners of b. Bit 0 of the index selects X, bit 1
// selects Y and bit 2 selects Z (0 = Min, 1 = Max).
func Corners(b sdf.Box3) [8]v3.Vec {
	var c [8]v3.Vec
	for i := range c {
		p := b.Min
		if i&1 != 0 {
			p.X = b.Max.X
		}
		if i&2 != 0 {
			p.Y = b.Max.Y
		}
		if i&4 != 0 {
			p.Z = b.Max.Z
		}
		c[i] = p
	}
	return c
}

// Inflate widens every extent of b narrower than min, keeping the center.
func Inflate(b sdf.Box3, min float64) sdf.Box3 {
	grow := func(lo, hi float64) (float64, float64) {
		if hi-lo >= min {
			return lo, hi
		}
		mid := (lo + hi) / 2
		return mid - min/2, mid + min/2
	}
	b.Min.X, b.Max.X = grow(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = grow(b.Min.Y, b.Max.Y)
	b.Min.Z, b.Max.Z = grow(b.Min.Z, b.Max.Z)
	return b
}
