package kernel

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []float32
		indices   []uint32
		wantVerts int
		wantTris  int
	}{
		{"empty", nil, nil, 0, 0},
		{"one vertex", []float32{1, 2, 3}, nil, 1, 0},
		{"quad", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, []uint32{0, 1, 2, 2, 3, 0}, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices, Indices: tt.indices}
			assert.Equal(t, tt.wantVerts, m.VertexCount())
			assert.Equal(t, tt.wantTris, m.TriangleCount())
			assert.Equal(t, tt.wantVerts == 0, m.IsEmpty())
		})
	}
}

func TestMeshVertexAndBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, 2, 3, -1, 5, 0}}
	assert.Equal(t, v3.Vec{X: -1, Y: 5}, m.Vertex(1))
	b := m.Bounds()
	assert.Equal(t, v3.Vec{X: -1, Y: 2, Z: 0}, b.Min)
	assert.Equal(t, v3.Vec{X: 1, Y: 5, Z: 3}, b.Max)
}

func TestComputeNormals(t *testing.T) {
	// Two triangles of the z=0 plane wound counter-clockwise seen from +z.
	verts := []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}
	idx := []uint32{0, 1, 2, 2, 3, 0}
	n := ComputeNormals(verts, idx)
	require.Len(t, n, len(verts))
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0, n[i*3], 1e-6)
		assert.InDelta(t, 0, n[i*3+1], 1e-6)
		assert.InDelta(t, 1, n[i*3+2], 1e-6)
	}

	// An unreferenced vertex keeps a zero normal.
	n = ComputeNormals(append(verts, 5, 5, 5), idx)
	assert.Equal(t, []float32{0, 0, 0}, n[12:])
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	bb sdf.Box3
}

func (s *stubSolid) Bounds() sdf.Box3 {
	return s.bb
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	h := v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}
	return &stubSolid{bb: sdf.Box3{Min: h.MulScalar(-1), Max: h}}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Solid {
	return k.Box(2*radius, 2*radius, height)
}

func (k *stubKernel) Sphere(radius float64, _ int) Solid {
	return k.Box(2*radius, 2*radius, 2*radius)
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBounds(t *testing.T) {
	var k Kernel = &stubKernel{}
	b := k.Box(10, 20, 30).Bounds()
	assert.Equal(t, v3.Vec{X: -5, Y: -10, Z: -15}, b.Min)
	assert.Equal(t, v3.Vec{X: 5, Y: 10, Z: 15}, b.Max)

	m, err := k.ToMesh(k.Sphere(1, 8))
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
}
