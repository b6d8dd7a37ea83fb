// Package craft models a composite object: named parts, each a shape
// placed somewhere relative to the craft's root. Hulls are built in root
// space, so moving the whole craft never invalidates one.
package craft

import (
	"errors"
	"fmt"

	"github.com/chazu/crafthull/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrDuplicatePart is returned when two parts share a name.
var ErrDuplicatePart = errors.New("duplicate part name")

// Placement positions something in its parent's space: scale, then rotate
// (Euler degrees), then translate. A zero Scale means unscaled.
type Placement struct {
	Position v3.Vec
	Rotation v3.Vec
	Scale    v3.Vec
}

// Matrix returns the placement as an affine transform.
func (p Placement) Matrix() sdf.M44 {
	scale := p.Scale
	if scale == (v3.Vec{}) {
		scale = v3.Vec{X: 1, Y: 1, Z: 1}
	}
	return sdf.Translate3d(p.Position).
		Mul(geom.EulerDegrees(p.Rotation.X, p.Rotation.Y, p.Rotation.Z)).
		Mul(sdf.Scale3d(scale))
}

// Part is one named piece of the craft.
type Part struct {
	Name  string
	Shape Shape
	Placement
}

// Craft is the full description of a composite object.
type Craft struct {
	Name string

	// Root places the craft in the world.
	Root Placement

	Parts []*Part
	index map[string]*Part
}

// New returns an empty craft.
func New(name string) *Craft {
	return &Craft{Name: name, Root: Placement{}, index: make(map[string]*Part)}
}

// AddPart appends p. Part names must be unique.
func (c *Craft) AddPart(p *Part) error {
	if c.index == nil {
		c.index = make(map[string]*Part)
	}
	if _, ok := c.index[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePart, p.Name)
	}
	c.index[p.Name] = p
	c.Parts = append(c.Parts, p)
	return nil
}

// Part returns the part named name, or nil.
func (c *Craft) Part(name string) *Part {
	return c.index[name]
}

// RootMatrix returns the world transform of the craft's root.
func (c *Craft) RootMatrix() sdf.M44 {
	return c.Root.Matrix()
}

// PartMatrix returns the world transform of p.
func (c *Craft) PartMatrix(p *Part) sdf.M44 {
	return c.RootMatrix().Mul(p.Matrix())
}

// Validate checks every part's shape.
func (c *Craft) Validate() error {
	for _, p := range c.Parts {
		if p.Shape == nil {
			return fmt.Errorf("part %q: no shape", p.Name)
		}
		if err := p.Shape.Validate(); err != nil {
			return fmt.Errorf("part %q: %w", p.Name, err)
		}
	}
	return nil
}
