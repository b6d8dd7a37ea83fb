package hull

import (
	"fmt"

	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/chazu/crafthull/pkg/quickhull"
	"github.com/samber/lo"
)

// makeMeshes splits the hull faces into meshes of at most maxFaces
// triangles. Each mesh only carries the vertices its triangles use.
func makeMeshes(pc *quickhull.PointCloud, faces *quickhull.FaceSet, maxFaces int) []*kernel.Mesh {
	chunks := lo.Chunk(faces.Faces(), maxFaces)
	log.Debugf("faces: %d meshes: %d", faces.Len(), len(chunks))

	meshes := make([]*kernel.Mesh, 0, len(chunks))
	for i, chunk := range chunks {
		meshes = append(meshes, subMesh(pc, chunk, fmt.Sprintf("hull mesh.%d", i)))
	}
	return meshes
}

func subMesh(pc *quickhull.PointCloud, faces []*quickhull.Triangle, name string) *kernel.Mesh {
	vertexMap := make(map[int]uint32, len(faces))
	m := &kernel.Mesh{
		Indices:  make([]uint32, 0, len(faces)*3),
		PartName: name,
	}
	for _, t := range faces {
		for _, v := range t.Vertices() {
			idx, ok := vertexMap[v]
			if !ok {
				idx = uint32(len(vertexMap))
				vertexMap[v] = idx
				p := pc.Point(v)
				m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			}
			m.Indices = append(m.Indices, idx)
		}
	}
	m.Normals = kernel.ComputeNormals(m.Vertices, m.Indices)
	log.Debugf("MakeSubMesh v:%d t:%d", m.VertexCount(), len(faces))
	return m
}
