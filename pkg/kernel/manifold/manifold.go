//go:build manifold

// Package manifold meshes craft parts with the Manifold library
// (https://github.com/elalish/manifold) through its C API. Manifold output is
// an exact polyhedron, so a craft hull built from it has flat faces where the
// parts do and far fewer points to process than a marching cubes mesh.
//
// Linking needs manifoldc under /usr/local; build with -tags=manifold.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/chazu/crafthull/internal/logging"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var log = logging.Named("Manifold")

var _ kernel.Kernel = (*Kernel)(nil)

// solid owns one C manifold. The finalizer frees it.
type solid struct {
	ptr *C.ManifoldManifold
}

// build allocates a manifold, lets fill set it up and wraps the result.
func build(fill func(alloc *C.ManifoldManifold) *C.ManifoldManifold) *solid {
	s := &solid{ptr: fill(C.manifold_alloc_manifold())}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*solid).ptr
}

// Bounds returns the solid's box. The hull fallback box starts from it.
func (s *solid) Bounds() sdf.Box3 {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)
	return sdf.Box3{
		Min: v3.Vec{
			X: float64(C.manifold_box_min_x(box)),
			Y: float64(C.manifold_box_min_y(box)),
			Z: float64(C.manifold_box_min_z(box)),
		},
		Max: v3.Vec{
			X: float64(C.manifold_box_max_x(box)),
			Y: float64(C.manifold_box_max_y(box)),
			Z: float64(C.manifold_box_max_z(box)),
		},
	}
}

// Kernel is the Manifold backend.
type Kernel struct{}

// New returns the Manifold backend.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	return build(func(a *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_cube(a, C.double(x), C.double(y), C.double(z), 1)
	})
}

// Cylinder is a segments-sided prism along Z, inscribed in the circle.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return build(func(a *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_cylinder(a, C.double(height), C.double(radius), C.double(radius), C.int(segments), 1)
	})
}

func (k *Kernel) Sphere(radius float64, segments int) kernel.Solid {
	return build(func(a *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_sphere(a, C.double(radius), C.int(segments))
	})
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return build(func(m *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_union(m, unwrap(a), unwrap(b))
	})
}

func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return build(func(m *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_difference(m, unwrap(a), unwrap(b))
	})
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return build(func(m *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_intersection(m, unwrap(a), unwrap(b))
	})
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return build(func(m *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_translate(m, unwrap(s), C.double(x), C.double(y), C.double(z))
	})
}

// Rotate takes Euler angles in degrees.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return build(func(m *C.ManifoldManifold) *C.ManifoldManifold {
		return C.manifold_rotate(m, unwrap(s), C.double(x), C.double(y), C.double(z))
	})
}

// ToMesh copies the solid's MeshGL out into a kernel.Mesh. MeshGL packs
// numProp floats per vertex, position first; the hull only needs the
// positions, so normals are recomputed from the triangles.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(gl)

	verts := int(C.manifold_meshgl_num_vert(gl))
	tris := int(C.manifold_meshgl_num_tri(gl))
	if verts == 0 || tris == 0 {
		return &kernel.Mesh{}, nil
	}
	stride := int(C.manifold_meshgl_num_prop(gl))

	props := make([]float32, verts*stride)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	indices := make([]uint32, tris*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), gl)

	positions := make([]float32, 0, verts*3)
	for i := 0; i < len(props); i += stride {
		positions = append(positions, props[i], props[i+1], props[i+2])
	}
	log.Debugf("meshed %d vertices, %d triangles", verts, tris)

	return &kernel.Mesh{
		Vertices: positions,
		Normals:  kernel.ComputeNormals(positions, indices),
		Indices:  indices,
	}, nil
}
