package hull

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/crafthull/pkg/geom"
	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const magic int32 = 0x31337001

// maxCacheCount bounds every count read from a cache file so a garbled
// header cannot trigger a huge allocation.
const maxCacheCount = 1 << 26

// ErrBadCache is returned for cache files that exist but cannot be used.
var ErrBadCache = errors.New("bad hull cache file")

// Path returns the cache file for this hull inside dir.
func (h *CraftHull) Path(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("CraftHull-%s.dat", h.sum))
}

// SaveHull writes the hull meshes to dir. The file is replaced atomically.
func (h *CraftHull) SaveHull(dir string) error {
	path := h.Path(dir)
	tmp, err := os.CreateTemp(dir, "CraftHull-*.tmp")
	if err != nil {
		return fmt.Errorf("hull: could not open %s for writing: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	w := bufio.NewWriter(tmp)
	if err := writeMeshes(w, h.meshes); err != nil {
		return fmt.Errorf("hull: writing %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("hull: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("hull: writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("hull: %w", err)
	}
	log.Debugf("saved %s", path)
	return nil
}

// LoadHull replaces the hull meshes with the ones cached in dir. It reports
// false with the reason when there is no usable cache file.
func (h *CraftHull) LoadHull(dir string) (bool, error) {
	path := h.Path(dir)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("%s does not exist", path)
		} else {
			log.Warnf("could not open %s", path)
		}
		return false, fmt.Errorf("hull: %w", err)
	}
	defer f.Close()

	meshes, err := readMeshes(bufio.NewReader(f))
	if err != nil {
		log.Warnf("%s: %v", path, err)
		return false, fmt.Errorf("hull: %s: %w", path, err)
	}

	h.meshes = meshes
	h.bounds = meshBounds(meshes)
	log.Debugf("loaded %s", path)
	return true, nil
}

func writeMeshes(w io.Writer, meshes []*kernel.Mesh) error {
	if err := binary.Write(w, binary.LittleEndian, [2]int32{magic, int32(len(meshes))}); err != nil {
		return err
	}
	for _, m := range meshes {
		tris := make([]int32, len(m.Indices))
		for i, idx := range m.Indices {
			tris[i] = int32(idx)
		}
		header := [2]int32{int32(m.VertexCount()), int32(len(tris))}
		if err := binary.Write(w, binary.LittleEndian, header); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, m.Vertices[:m.VertexCount()*3]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, tris); err != nil {
			return err
		}
	}
	return nil
}

func readMeshes(r io.Reader) ([]*kernel.Mesh, error) {
	var header [2]int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadCache, eof(err))
	}
	if header[0] != magic {
		return nil, fmt.Errorf("%w: incorrect magic number", ErrBadCache)
	}
	if header[1] < 0 || header[1] > maxCacheCount {
		return nil, fmt.Errorf("%w: %d meshes", ErrBadCache, header[1])
	}

	meshes := make([]*kernel.Mesh, 0, header[1])
	for i := 0; i < int(header[1]); i++ {
		m, err := readMesh(r)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		m.PartName = fmt.Sprintf("hull mesh.%d", i)
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func readMesh(r io.Reader) (*kernel.Mesh, error) {
	var counts [2]int32
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCache, eof(err))
	}
	numVerts, numTris := counts[0], counts[1]
	if numVerts < 0 || numTris < 0 || numVerts > maxCacheCount || numTris > maxCacheCount {
		return nil, fmt.Errorf("%w: counts %d %d", ErrBadCache, numVerts, numTris)
	}
	if numTris != (numVerts*2-4)*3 {
		log.Warnf("mis-match between verts and tris: %d %d", numVerts, numTris)
	}

	verts := make([]float32, numVerts*3)
	if err := binary.Read(r, binary.LittleEndian, verts); err != nil {
		return nil, fmt.Errorf("%w: vertices: %w", ErrBadCache, eof(err))
	}
	tris := make([]int32, numTris)
	if err := binary.Read(r, binary.LittleEndian, tris); err != nil {
		return nil, fmt.Errorf("%w: triangles: %w", ErrBadCache, eof(err))
	}

	indices := make([]uint32, numTris)
	for i, t := range tris {
		if t < 0 || t >= numVerts {
			return nil, fmt.Errorf("%w: index %d out of range", ErrBadCache, t)
		}
		indices[i] = uint32(t)
	}
	return &kernel.Mesh{
		Vertices: verts,
		Normals:  kernel.ComputeNormals(verts, indices),
		Indices:  indices,
	}, nil
}

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func meshBounds(meshes []*kernel.Mesh) sdf.Box3 {
	var pts []v3.Vec
	for _, m := range meshes {
		for i := 0; i < m.VertexCount(); i++ {
			pts = append(pts, m.Vertex(i))
		}
	}
	return geom.Bounds(pts)
}
