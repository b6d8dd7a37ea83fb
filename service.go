// Package crafthull evaluates craft descriptions and returns their part
// meshes together with the craft's convex hull, ready to be serialized for
// a viewer or host.
package crafthull

import (
	"context"
	"fmt"

	"github.com/chazu/crafthull/internal/logging"
	"github.com/chazu/crafthull/pkg/engine"
	"github.com/chazu/crafthull/pkg/hull"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/chazu/crafthull/pkg/kernel/sdfx"
	"github.com/chazu/crafthull/pkg/tessellate"
)

var log = logging.Named("Service")

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

const (
	// HullColor is used for a true convex hull (moss green).
	HullColor = "#658B38"
	// HullErrorColor marks a fallback box hull.
	HullErrorColor = "#D0312D"
)

// Service runs the full source -> craft -> meshes -> hull pipeline.
type Service struct {
	engine  *engine.Engine
	kernel  kernel.Kernel
	builder *hull.Builder
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is everything one evaluation produces. Meshes are in world space.
type Result struct {
	Name       string          `json:"name"`
	Meshes     []MeshData      `json:"meshes"`
	Hull       []MeshData      `json:"hull"`
	Errors     []EvalErrorData `json:"errors"`
	Sum        string          `json:"sum"`
	Degenerate bool            `json:"degenerate"`
	CacheHit   bool            `json:"cacheHit"`
}

// NewService creates a Service with the sdfx kernel. Hulls are cached in
// cacheDir; an empty cacheDir disables the cache.
func NewService(cacheDir string) *Service {
	return NewServiceWith(sdfx.New(), cacheDir, hull.DefaultOptions())
}

// NewServiceWith creates a Service with an explicit kernel and hull options.
// An unnamed kernel is named after its type so its hulls are cached apart.
func NewServiceWith(k kernel.Kernel, cacheDir string, opts hull.Options) *Service {
	if opts.Kernel == "" {
		opts.Kernel = fmt.Sprintf("%T", k)
	}
	return &Service{
		engine:  engine.NewEngine(),
		kernel:  k,
		builder: hull.NewBuilder(cacheDir, opts),
	}
}

// Evaluate takes craft source and returns mesh data + errors.
func (s *Service) Evaluate(source string) Result {
	return s.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a context bounding the hull build.
func (s *Service) EvaluateContext(ctx context.Context, source string) Result {
	result := Result{
		Meshes: []MeshData{},
		Hull:   []MeshData{},
		Errors: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a craft.
	c, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Errorf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Name = c.Name

	// Step 2: Tessellate every part.
	instances, err := tessellate.Tessellate(c, s.kernel)
	if err != nil {
		log.Errorf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	for i, m := range tessellate.World(instances) {
		if len(m.Indices) == 0 {
			// Raw point parts only feed the hull.
			continue
		}
		result.Meshes = append(result.Meshes, meshData(m, colorPalette[i%len(colorPalette)]))
	}

	// Step 3: Obtain the hull, cached by source.
	built, err := s.builder.Build(ctx, source, instances, c.RootMatrix())
	if err != nil {
		log.Errorf("hull error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "hull failed: " + err.Error(),
		})
		return result
	}
	h := built.Hull
	result.Sum = h.Sum()
	result.Degenerate = h.Error()
	result.CacheHit = built.CacheHit

	color := HullColor
	if h.Error() {
		color = HullErrorColor
	}
	placed := make([]kernel.Instance, 0, len(h.Meshes()))
	for _, m := range h.Meshes() {
		placed = append(placed, kernel.Instance{Mesh: m, Transform: h.Transform()})
	}
	for _, m := range tessellate.World(placed) {
		result.Hull = append(result.Hull, meshData(m, color))
	}
	return result
}

func meshData(m *kernel.Mesh, color string) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
	}
}
