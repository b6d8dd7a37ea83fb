// Package tessellate walks a craft and produces triangle meshes using a
// geometry kernel. One mesh is produced per part, in the part's own space;
// the returned instance carries the part's world transform.
package tessellate

import (
	"fmt"

	"github.com/chazu/crafthull/pkg/craft"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
)

// Segments is the facet count requested for round primitives.
const Segments = 32

// Tessellate walks the craft and produces one instance per part using the
// provided geometry kernel. The tessellator is read-only and never mutates
// the craft.
func Tessellate(c *craft.Craft, k kernel.Kernel) ([]kernel.Instance, error) {
	if c == nil {
		return nil, nil
	}

	instances := make([]kernel.Instance, 0, len(c.Parts))
	for _, p := range c.Parts {
		mesh, err := partMesh(k, p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: part %q: %w", p.Name, err)
		}
		instances = append(instances, kernel.Instance{
			Mesh:      mesh,
			Transform: c.PartMatrix(p),
		})
	}
	return instances, nil
}

// World returns a copy of each instance's mesh with its transform applied,
// for consumers that want world-space geometry.
func World(instances []kernel.Instance) []*kernel.Mesh {
	out := make([]*kernel.Mesh, 0, len(instances))
	for _, inst := range instances {
		out = append(out, transformMesh(inst.Mesh, inst.Transform))
	}
	return out
}

func partMesh(k kernel.Kernel, p *craft.Part) (*kernel.Mesh, error) {
	// Raw point lists skip the kernel entirely.
	if pts, ok := p.Shape.(craft.Points); ok {
		mesh := &kernel.Mesh{PartName: p.Name}
		for _, v := range pts.Points {
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		}
		return mesh, nil
	}

	solid, err := walkShape(k, p.Shape)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}
	mesh.PartName = p.Name
	return mesh, nil
}

// walkShape recursively builds a kernel solid from a shape tree.
func walkShape(k kernel.Kernel, s craft.Shape) (kernel.Solid, error) {
	switch sh := s.(type) {
	case craft.Box:
		return k.Box(sh.Size.X, sh.Size.Y, sh.Size.Z), nil

	case craft.Cylinder:
		return k.Cylinder(sh.Height, sh.Radius, Segments), nil

	case craft.Sphere:
		return k.Sphere(sh.Radius, Segments), nil

	case craft.Union:
		return fold(k, sh.Shapes, k.Union)

	case craft.Intersection:
		return fold(k, sh.Shapes, k.Intersection)

	case craft.Difference:
		base, err := walkShape(k, sh.Base)
		if err != nil {
			return nil, err
		}
		sub, err := walkShape(k, sh.Sub)
		if err != nil {
			return nil, err
		}
		return k.Difference(base, sub), nil

	case craft.Translated:
		inner, err := walkShape(k, sh.Shape)
		if err != nil {
			return nil, err
		}
		return k.Translate(inner, sh.Offset.X, sh.Offset.Y, sh.Offset.Z), nil

	case craft.Rotated:
		inner, err := walkShape(k, sh.Shape)
		if err != nil {
			return nil, err
		}
		return k.Rotate(inner, sh.Angles.X, sh.Angles.Y, sh.Angles.Z), nil

	case craft.Points:
		return nil, fmt.Errorf("points cannot be combined with solids")

	default:
		return nil, fmt.Errorf("unsupported shape %T", s)
	}
}

func fold(k kernel.Kernel, shapes []craft.Shape, op func(a, b kernel.Solid) kernel.Solid) (kernel.Solid, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("empty shape list")
	}
	acc, err := walkShape(k, shapes[0])
	if err != nil {
		return nil, err
	}
	for _, s := range shapes[1:] {
		next, err := walkShape(k, s)
		if err != nil {
			return nil, err
		}
		acc = op(acc, next)
	}
	return acc, nil
}

func transformMesh(m *kernel.Mesh, xform sdf.M44) *kernel.Mesh {
	out := &kernel.Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Indices:  m.Indices,
		PartName: m.PartName,
	}
	for i := 0; i < m.VertexCount(); i++ {
		v := xform.MulPosition(m.Vertex(i))
		out.Vertices[i*3] = float32(v.X)
		out.Vertices[i*3+1] = float32(v.Y)
		out.Vertices[i*3+2] = float32(v.Z)
	}
	if len(m.Indices) > 0 {
		out.Normals = kernel.ComputeNormals(out.Vertices, out.Indices)
	}
	return out
}
