package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/crafthull/pkg/craft"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/chazu/crafthull/pkg/kernel/sdfx"
	"github.com/chazu/crafthull/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// newKernel returns a fresh, coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(16)
}

// makeCraft builds a craft from parts, failing the test on duplicates.
func makeCraft(t *testing.T, parts ...*craft.Part) *craft.Craft {
	t.Helper()
	c := craft.New("test")
	for _, p := range parts {
		if err := c.AddPart(p); err != nil {
			t.Fatalf("AddPart: %v", err)
		}
	}
	return c
}

func box(name string, x, y, z float64) *craft.Part {
	return &craft.Part{Name: name, Shape: craft.Box{Size: v3.Vec{X: x, Y: y, Z: z}}}
}

func TestSingleBox(t *testing.T) {
	c := makeCraft(t, box("body", 4, 2, 1))

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(insts))
	}

	m := insts[0].Mesh
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.PartName != "body" {
		t.Errorf("expected PartName %q, got %q", "body", m.PartName)
	}
	if m.TriangleCount() == 0 {
		t.Error("expected triangles")
	}
	if insts[0].Transform != c.PartMatrix(c.Parts[0]) {
		t.Error("instance transform should be the part's world matrix")
	}
}

func TestTwoParts(t *testing.T) {
	c := makeCraft(t, box("left", 1, 1, 1), box("right", 1, 1, 1))

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(insts))
	}
	if insts[0].Mesh.PartName != "left" || insts[1].Mesh.PartName != "right" {
		t.Errorf("parts out of order: %q, %q", insts[0].Mesh.PartName, insts[1].Mesh.PartName)
	}
}

func TestPartWithPlacement(t *testing.T) {
	p := box("body", 2, 2, 2)
	p.Position = v3.Vec{X: 10, Y: 5, Z: -3}
	c := makeCraft(t, p)

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}

	// The mesh stays local; the world copy carries the placement.
	local := insts[0].Mesh.Bounds().Center()
	if local.Length() > 0.5 {
		t.Errorf("local mesh should be centered, got %v", local)
	}

	world := tessellate.World(insts)[0]
	center := world.Bounds().Center()
	want := v3.Vec{X: 10, Y: 5, Z: -3}
	if center.Sub(want).Length() > 0.5 {
		t.Errorf("world centroid = %v, expected near %v", center, want)
	}
	if len(world.Normals) != len(world.Vertices) {
		t.Errorf("world mesh should carry normals, got %d for %d vertex floats", len(world.Normals), len(world.Vertices))
	}
}

func TestRootPlacement(t *testing.T) {
	c := makeCraft(t, box("body", 1, 1, 1))
	c.Root.Position = v3.Vec{Z: 100}

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	center := tessellate.World(insts)[0].Bounds().Center()
	if math.Abs(center.Z-100) > 0.5 {
		t.Errorf("root offset not applied, centroid Z = %.2f", center.Z)
	}
}

func TestCompositeShapes(t *testing.T) {
	ring := &craft.Part{Name: "ring", Shape: craft.Difference{
		Base: craft.Cylinder{Height: 1, Radius: 3},
		Sub:  craft.Cylinder{Height: 2, Radius: 2},
	}}
	cross := &craft.Part{Name: "cross", Shape: craft.Union{Shapes: []craft.Shape{
		craft.Box{Size: v3.Vec{X: 4, Y: 1, Z: 1}},
		craft.Rotated{Shape: craft.Box{Size: v3.Vec{X: 4, Y: 1, Z: 1}}, Angles: v3.Vec{Z: 90}},
	}}}
	lens := &craft.Part{Name: "lens", Shape: craft.Intersection{Shapes: []craft.Shape{
		craft.Sphere{Radius: 2},
		craft.Translated{Shape: craft.Sphere{Radius: 2}, Offset: v3.Vec{X: 1}},
	}}}
	c := makeCraft(t, ring, cross, lens)

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(insts) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(insts))
	}
	for _, inst := range insts {
		if inst.Mesh.IsEmpty() {
			t.Errorf("mesh %q should not be empty", inst.Mesh.PartName)
		}
	}
}

func TestPointsPart(t *testing.T) {
	pts := []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 5}, {X: 0.1, Y: 0, Z: 5}}
	c := makeCraft(t, &craft.Part{Name: "antenna", Shape: craft.Points{Points: pts}})

	insts, err := tessellate.Tessellate(c, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	m := insts[0].Mesh
	if m.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 0 {
		t.Errorf("points part should have no triangles, got %d", m.TriangleCount())
	}
}

func TestEmptyCraft(t *testing.T) {
	insts, err := tessellate.Tessellate(craft.New("empty"), newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(insts) != 0 {
		t.Fatalf("expected 0 instances, got %d", len(insts))
	}

	insts, err = tessellate.Tessellate(nil, newKernel())
	if err != nil || insts != nil {
		t.Fatalf("nil craft: got %v, %v", insts, err)
	}
}
