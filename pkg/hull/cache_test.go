package hull

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtHull(t *testing.T, source string, inst ...kernel.Instance) *CraftHull {
	t.Helper()
	h := New(source, DefaultOptions())
	require.NoError(t, h.Build(inst, sdf.Identity3d()))
	return h
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	saved := builtHull(t, "sphere", sphereInstance(11, 120, 3))
	require.NoError(t, saved.SaveHull(dir))
	assert.FileExists(t, filepath.Join(dir, "CraftHull-"+saved.Sum()+".dat"))

	loaded := New("sphere", DefaultOptions())
	ok, err := loaded.LoadHull(dir)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, loaded.Meshes(), len(saved.Meshes()))
	for i, m := range saved.Meshes() {
		assert.Equal(t, m.Vertices, loaded.Meshes()[i].Vertices)
		assert.Equal(t, m.Indices, loaded.Meshes()[i].Indices)
		assert.Equal(t, m.Normals, loaded.Meshes()[i].Normals)
	}
	assert.Equal(t, meshBounds(saved.Meshes()), loaded.Bounds())
}

func TestCacheFileLayout(t *testing.T) {
	h := builtHull(t, "cube", cubeInstance(2, sdf.Identity3d()))
	var buf bytes.Buffer
	require.NoError(t, writeMeshes(&buf, h.Meshes()))

	var head [4]int32
	require.NoError(t, binary.Read(bytes.NewReader(buf.Bytes()), binary.LittleEndian, &head))
	assert.Equal(t, int32(0x31337001), head[0])
	assert.Equal(t, int32(1), head[1])
	assert.Equal(t, int32(8), head[2])
	assert.Equal(t, int32(36), head[3])
	assert.Equal(t, 4*4+8*3*4+36*4, buf.Len())
}

func TestCacheMiss(t *testing.T) {
	h := New("never saved", DefaultOptions())
	ok, err := h.LoadHull(t.TempDir())
	assert.False(t, ok)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCacheBadFiles(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		h := builtHull(t, "cube", cubeInstance(2, sdf.Identity3d()))
		require.NoError(t, writeMeshes(&buf, h.Meshes()))
		return buf.Bytes()
	}()

	badMagic := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMagic, 0x31337002)

	badIndex := append([]byte(nil), valid...)
	// First triangle index follows the two headers and 8 vertices.
	binary.LittleEndian.PutUint32(badIndex[16+8*12:], 99)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, io.ErrUnexpectedEOF},
		{"bad magic", badMagic, ErrBadCache},
		{"truncated", valid[:len(valid)-6], io.ErrUnexpectedEOF},
		{"index out of range", badIndex, ErrBadCache},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			h := New("cube", DefaultOptions())
			require.NoError(t, os.WriteFile(h.Path(dir), tt.data, 0o644))

			ok, err := h.LoadHull(dir)
			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, h.Meshes())
		})
	}
}

func TestCacheMismatchedCountsStillLoad(t *testing.T) {
	// A lone triangle does not satisfy T = (2V-4)*3 but is still usable.
	m := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
	var buf bytes.Buffer
	require.NoError(t, writeMeshes(&buf, []*kernel.Mesh{m}))

	meshes, err := readMeshes(&buf)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, m.Vertices, meshes[0].Vertices)
	assert.Equal(t, m.Indices, meshes[0].Indices)
}
