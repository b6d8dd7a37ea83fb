package craft

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shape is the geometry of a part in the part's own space.
type Shape interface {
	// Validate reports dimensions no kernel can build.
	Validate() error
	shape()
}

// Box is an axis-aligned box centered on the origin.
type Box struct {
	Size v3.Vec
}

// Cylinder is a cylinder along Z centered on the origin.
type Cylinder struct {
	Height float64
	Radius float64
}

// Sphere is a sphere centered on the origin.
type Sphere struct {
	Radius float64
}

// Points is a raw vertex list used as-is, e.g. a hand-placed antenna
// outline. It is never meshed by a kernel.
type Points struct {
	Points []v3.Vec
}

// Union joins its shapes.
type Union struct {
	Shapes []Shape
}

// Difference removes Sub from Base.
type Difference struct {
	Base Shape
	Sub  Shape
}

// Intersection keeps what its shapes share.
type Intersection struct {
	Shapes []Shape
}

// Translated moves Shape by Offset.
type Translated struct {
	Shape  Shape
	Offset v3.Vec
}

// Rotated turns Shape by Euler angles in degrees.
type Rotated struct {
	Shape  Shape
	Angles v3.Vec
}

func (Box) shape()          {}
func (Cylinder) shape()     {}
func (Sphere) shape()       {}
func (Points) shape()       {}
func (Union) shape()        {}
func (Difference) shape()   {}
func (Intersection) shape() {}
func (Translated) shape()   {}
func (Rotated) shape()      {}

func (b Box) Validate() error {
	if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
		return fmt.Errorf("box: size must be positive, got %v", b.Size)
	}
	return nil
}

func (c Cylinder) Validate() error {
	if c.Height <= 0 || c.Radius <= 0 {
		return fmt.Errorf("cylinder: height and radius must be positive, got %g, %g", c.Height, c.Radius)
	}
	return nil
}

func (s Sphere) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("sphere: radius must be positive, got %g", s.Radius)
	}
	return nil
}

func (p Points) Validate() error {
	if len(p.Points) == 0 {
		return fmt.Errorf("points: empty point list")
	}
	return nil
}

func (u Union) Validate() error {
	return validateAll("union", u.Shapes)
}

func (d Difference) Validate() error {
	if d.Base == nil || d.Sub == nil {
		return fmt.Errorf("difference: needs two shapes")
	}
	if _, ok := d.Base.(Points); ok {
		return fmt.Errorf("difference: points cannot be used in booleans")
	}
	return validateAll("difference", []Shape{d.Base, d.Sub})
}

func (i Intersection) Validate() error {
	return validateAll("intersection", i.Shapes)
}

func (t Translated) Validate() error {
	if t.Shape == nil {
		return fmt.Errorf("translate: missing shape")
	}
	return t.Shape.Validate()
}

func (r Rotated) Validate() error {
	if r.Shape == nil {
		return fmt.Errorf("rotate: missing shape")
	}
	return r.Shape.Validate()
}

func validateAll(op string, shapes []Shape) error {
	if len(shapes) == 0 {
		return fmt.Errorf("%s: needs at least one shape", op)
	}
	for i, s := range shapes {
		if s == nil {
			return fmt.Errorf("%s: shape %d is missing", op, i)
		}
		if _, ok := s.(Points); ok {
			return fmt.Errorf("%s: points cannot be used in booleans", op)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: shape %d: %w", op, i, err)
		}
	}
	return nil
}
