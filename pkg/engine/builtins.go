package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/crafthull/pkg/craft"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms craft source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: fuel-tank -> fuel_tank
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a craft.Shape so shapes can be nested and passed to part.
type sexpShape struct {
	shape craft.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape %T)", s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpPart is returned by part so scripts can print or ignore it.
type sexpPart struct {
	name string
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.name)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a craft.Shape from a sexpShape.
func toShape(s zygo.Sexp) (craft.Shape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toShapes converts every argument to a shape.
func toShapes(args []zygo.Sexp) ([]craft.Shape, error) {
	shapes := make([]craft.Shape, 0, len(args))
	for i, a := range args {
		sh, err := toShape(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		shapes = append(shapes, sh)
	}
	return shapes, nil
}

// kwFloat reads an optional numeric keyword argument.
func kwFloat(pa kwArgs, key string, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// kwVec3 reads an optional vec3 keyword argument.
func kwVec3(pa kwArgs, key string) (v3.Vec, error) {
	v, ok := pa.kw[key]
	if !ok {
		return v3.Vec{}, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return v3.Vec{}, fmt.Errorf("%s: %w", key, err)
	}
	return vec, nil
}

// placement reads the :at, :rotate and :scale keywords.
func placement(pa kwArgs) (craft.Placement, error) {
	var pl craft.Placement
	var err error
	if pl.Position, err = kwVec3(pa, "at"); err != nil {
		return pl, err
	}
	if pl.Rotation, err = kwVec3(pa, "rotate"); err != nil {
		return pl, err
	}
	if pl.Scale, err = kwVec3(pa, "scale"); err != nil {
		return pl, err
	}
	return pl, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the craft description builtins into a zygomys
// environment. The builtins populate c during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *craft.Craft) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (box 2 1 0.5) or (box (vec3 2 1 0.5))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var size v3.Vec
		switch len(args) {
		case 1:
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = v
		case 3:
			var xyz [3]float64
			for i, a := range args {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: %c: %w", "xyz"[i], err)
				}
				xyz[i] = f
			}
			size = v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		default:
			return zygo.SexpNull, fmt.Errorf("box requires a vec3 or 3 numbers, got %d arguments", len(args))
		}
		return &sexpShape{shape: craft.Box{Size: size}}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 4 :radius 1.25)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := kwFloat(pa, "height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		r, err := kwFloat(pa, "radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpShape{shape: craft.Cylinder{Height: h, Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 2)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := kwFloat(pa, "radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpShape{shape: craft.Sphere{Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (points (vec3 0 0 0) (vec3 1 0 0) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			if list, err := sexpListToSlice(args[0]); err == nil {
				items = list
			}
		}
		pts := make([]v3.Vec, 0, len(items))
		for i, it := range items {
			v, err := toVec3(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("points: entry %d: %w", i+1, err)
			}
			pts = append(pts, v)
		}
		return &sexpShape{shape: craft.Points{Points: pts}}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (intersection a b ...), (difference a b)
	// -----------------------------------------------------------------------
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		shapes, err := toShapes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: %w", err)
		}
		return &sexpShape{shape: craft.Union{Shapes: shapes}}, nil
	})

	env.AddFunction("intersection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		shapes, err := toShapes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersection: %w", err)
		}
		return &sexpShape{shape: craft.Intersection{Shapes: shapes}}, nil
	})

	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("difference requires exactly 2 shapes, got %d", len(args))
		}
		shapes, err := toShapes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("difference: %w", err)
		}
		return &sexpShape{shape: craft.Difference{Base: shapes[0], Sub: shapes[1]}}, nil
	})

	// -----------------------------------------------------------------------
	// (translate shape (vec3 ...)), (rotate shape (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sh, v, err := shapeAndVec(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpShape{shape: craft.Translated{Shape: sh, Offset: v}}, nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sh, v, err := shapeAndVec(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &sexpShape{shape: craft.Rotated{Shape: sh, Angles: v}}, nil
	})

	// -----------------------------------------------------------------------
	// (part "tank" (cylinder ...) :at (vec3 0 0 2) :rotate (vec3 90 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a shape")
		}
		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}
		pl, err := placement(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}
		if err := c.AddPart(&craft.Part{Name: partName, Shape: sh, Placement: pl}); err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		return &sexpPart{name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (root :at (vec3 ...) :rotate (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("root", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pl, err := placement(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("root: %w", err)
		}
		c.Root = pl
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (craft "name")
	// -----------------------------------------------------------------------
	env.AddFunction("craft", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("craft requires a name argument")
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("craft: name: %w", err)
		}
		c.Name = n
		return zygo.SexpNull, nil
	})
}

// shapeAndVec parses the (op shape (vec3 ...)) argument form.
func shapeAndVec(args []zygo.Sexp) (craft.Shape, v3.Vec, error) {
	if len(args) != 2 {
		return nil, v3.Vec{}, fmt.Errorf("requires a shape and a vec3, got %d arguments", len(args))
	}
	sh, err := toShape(args[0])
	if err != nil {
		return nil, v3.Vec{}, err
	}
	v, err := toVec3(args[1])
	if err != nil {
		return nil, v3.Vec{}, err
	}
	return sh, v, nil
}
