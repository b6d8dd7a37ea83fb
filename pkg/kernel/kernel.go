// Package kernel defines the abstract geometry kernel interface used to turn
// craft part shapes into triangle meshes. Implementations (sdfx, manifold)
// provide solid modeling and boolean operations behind this interface so the
// backend can be swapped without changing the rest of the system.
package kernel

import "github.com/deadsy/sdfx/sdf"

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() sdf.Box3
}

// Kernel is the abstract geometry kernel interface. All primitives are
// centered on the origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
