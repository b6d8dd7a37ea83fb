package quickhull

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
)

func TestEdgeReverse(t *testing.T) {
	e := Edge{3, 7}
	assert.Equal(t, Edge{7, 3}, e.Reverse())
	assert.Equal(t, e, e.Reverse().Reverse())
	assert.NotEqual(t, e, e.Reverse())
}

func TestEdgeGeometry(t *testing.T) {
	pc := PointCloudOf(
		v3.Vec{},
		v3.Vec{X: 4},
		v3.Vec{X: 2, Y: 3},
		v3.Vec{X: 2},
		v3.Vec{X: 6},
		v3.Vec{X: 2, Y: 0.001},
	)
	e := Edge{0, 1}

	assert.Equal(t, v3.Vec{X: 4}, e.Vector(pc))
	assert.Equal(t, v3.Vec{X: -4}, e.Reverse().Vector(pc))
	assert.InDelta(t, 9.0, e.DistanceToLine(pc, 2), 1e-12)
	assert.InDelta(t, 0.0, e.DistanceToLine(pc, 4), 1e-12)

	tests := []struct {
		name string
		p    int
		want bool
	}{
		{"endpoint", 1, true},
		{"midpoint", 3, true},
		{"near midpoint", 5, true},
		{"past end", 4, false},
		{"off line", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Touches(pc, tt.p))
		})
	}
}
