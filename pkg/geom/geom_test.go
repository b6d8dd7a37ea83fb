package geom

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func TestNormal(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c v3.Vec
		want    v3.Vec
	}{
		{"xy plane ccw", v3.Vec{}, v3.Vec{X: 1}, v3.Vec{Y: 1}, v3.Vec{Z: 1}},
		{"xy plane cw", v3.Vec{}, v3.Vec{Y: 1}, v3.Vec{X: 1}, v3.Vec{Z: -1}},
		{"scaled", v3.Vec{}, v3.Vec{X: 10}, v3.Vec{Y: 10}, v3.Vec{Z: 1}},
		{"colinear", v3.Vec{}, v3.Vec{X: 1}, v3.Vec{X: 2}, v3.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Normal(tt.a, tt.b, tt.c)
			assert.InDelta(t, tt.want.X, n.X, 1e-12)
			assert.InDelta(t, tt.want.Y, n.Y, 1e-12)
			assert.InDelta(t, tt.want.Z, n.Z, 1e-12)
		})
	}
}

func TestLineDistance2(t *testing.T) {
	a := v3.Vec{}
	b := v3.Vec{X: 2}
	assert.InDelta(t, 9.0, LineDistance2(a, b, v3.Vec{X: 5, Y: 3}), 1e-12)
	assert.InDelta(t, 0.0, LineDistance2(a, b, v3.Vec{X: -7}), 1e-12)
	assert.InDelta(t, 2.0, LineDistance2(a, b, v3.Vec{X: 1, Y: 1, Z: 1}), 1e-12)
	assert.InDelta(t, 3.0, LineDistance2(a, a, v3.Vec{X: 1, Y: 1, Z: 1}), 1e-12)
}

func TestPlaneDistance(t *testing.T) {
	o := v3.Vec{Z: 1}
	n := v3.Vec{Z: 1}
	assert.InDelta(t, 2.0, PlaneDistance(o, n, v3.Vec{X: 5, Z: 3}), 1e-12)
	assert.InDelta(t, -1.0, PlaneDistance(o, n, v3.Vec{}), 1e-12)
}

func TestBoundsAndCorners(t *testing.T) {
	pts := []v3.Vec{{X: 1, Y: -2, Z: 3}, {X: -1, Y: 4, Z: 0}, {X: 0, Y: 0, Z: 5}}
	b := Bounds(pts)
	assert.Equal(t, v3.Vec{X: -1, Y: -2, Z: 0}, b.Min)
	assert.Equal(t, v3.Vec{X: 1, Y: 4, Z: 5}, b.Max)

	c := Corners(b)
	assert.Equal(t, b.Min, c[0])
	assert.Equal(t, b.Max, c[7])
	assert.Equal(t, v3.Vec{X: 1, Y: -2, Z: 0}, c[1])
	assert.Equal(t, v3.Vec{X: -1, Y: 4, Z: 5}, c[6])

	assert.Equal(t, sdf.Box3{}, Bounds(nil))
}

func TestInflate(t *testing.T) {
	b := sdf.Box3{Min: v3.Vec{X: 0, Y: 0, Z: 2}, Max: v3.Vec{X: 4, Y: 0, Z: 2}}
	got := Inflate(b, 0.5)
	assert.Equal(t, 0.0, got.Min.X)
	assert.Equal(t, 4.0, got.Max.X)
	assert.InDelta(t, 0.5, got.Max.Y-got.Min.Y, 1e-12)
	assert.InDelta(t, 2.0, (got.Max.Z+got.Min.Z)/2, 1e-12)
}

func TestTransformPoints(t *testing.T) {
	pts := []v3.Vec{{X: 1}}
	m := sdf.Translate3d(v3.Vec{Y: 2}).Mul(sdf.RotateZ(math.Pi / 2))
	TransformPoints(m, pts)
	assert.InDelta(t, 0.0, pts[0].X, 1e-9)
	assert.InDelta(t, 3.0, pts[0].Y, 1e-9)
}

func TestEulerDegrees(t *testing.T) {
	p := EulerDegrees(0, 0, 90).MulPosition(v3.Vec{X: 1})
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 1, p.Y, 1e-9)

	p = EulerDegrees(90, 0, 0).MulPosition(v3.Vec{Y: 1})
	assert.InDelta(t, 1, p.Z, 1e-9)

	// X is applied before Z.
	p = EulerDegrees(90, 0, 90).MulPosition(v3.Vec{Y: 1})
	assert.InDelta(t, 1, p.Z, 1e-9)
}
