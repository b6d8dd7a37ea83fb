package quickhull

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/chazu/crafthull/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// maxFilePoints guards ReadPointCloud against garbage counts.
const maxFilePoints = 1 << 26

// PointCloud is the indexed list of positions a hull is built over. Faces
// and edges refer to points only by index, so the cloud must not change
// once hull construction starts.
type PointCloud struct {
	points []v3.Vec
}

// NewPointCloud returns an empty cloud with room for capacity points.
func NewPointCloud(capacity int) *PointCloud {
	return &PointCloud{points: make([]v3.Vec, 0, capacity)}
}

// PointCloudOf wraps the given points without copying.
func PointCloudOf(points ...v3.Vec) *PointCloud {
	return &PointCloud{points: points}
}

// Len returns the number of points.
func (pc *PointCloud) Len() int {
	return len(pc.points)
}

// Point returns the position of point i.
func (pc *PointCloud) Point(i int) v3.Vec {
	return pc.points[i]
}

// Points exposes the backing slice.
func (pc *PointCloud) Points() []v3.Vec {
	return pc.points
}

// AddVertex appends v and returns its index.
func (pc *PointCloud) AddVertex(v v3.Vec) int {
	pc.points = append(pc.points, v)
	return len(pc.points) - 1
}

// AppendMesh appends every vertex of a flat xyz vertex array after
// transforming it by m.
func (pc *PointCloud) AppendMesh(vertices []float32, m sdf.M44) {
	for i := 0; i+2 < len(vertices); i += 3 {
		v := v3.Vec{X: float64(vertices[i]), Y: float64(vertices[i+1]), Z: float64(vertices[i+2])}
		pc.points = append(pc.points, m.MulPosition(v))
	}
}

// Bounds returns the axis-aligned box around every point.
func (pc *PointCloud) Bounds() sdf.Box3 {
	return geom.Bounds(pc.points)
}

// Write stores the cloud as a little-endian int32 count followed by one
// float32 triple per point.
func (pc *PointCloud) Write(w io.Writer) error {
	buf := make([]float32, 0, 3*len(pc.points))
	for _, p := range pc.points {
		buf = append(buf, float32(p.X), float32(p.Y), float32(p.Z))
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(pc.points))); err != nil {
		return fmt.Errorf("write point count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return fmt.Errorf("write points: %w", err)
	}
	return nil
}

// ReadPointCloud decodes the format produced by Write.
func ReadPointCloud(r io.Reader) (*PointCloud, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read point count: %w", err)
	}
	if count < 0 || count > maxFilePoints {
		return nil, fmt.Errorf("read point count: invalid count %d", count)
	}
	buf := make([]float32, 3*int(count))
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read points: %w", err)
	}
	pc := NewPointCloud(int(count))
	for i := 0; i < len(buf); i += 3 {
		pc.AddVertex(v3.Vec{X: float64(buf[i]), Y: float64(buf[i+1]), Z: float64(buf[i+2])})
	}
	return pc, nil
}
