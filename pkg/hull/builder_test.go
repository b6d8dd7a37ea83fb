package hull

import (
	"context"
	"os"
	"testing"

	"github.com/chazu/crafthull/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtainBuildsThenHitsCache(t *testing.T) {
	dir := t.TempDir()
	inst := []kernel.Instance{sphereInstance(5, 80, 2)}

	first := New("lander", DefaultOptions())
	hit, err := Obtain(context.Background(), first, dir, inst, sdf.Identity3d())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.FileExists(t, first.Path(dir))

	root := sdf.Translate3d(v3.Vec{Y: 3})
	second := New("lander", DefaultOptions())
	hit, err = Obtain(context.Background(), second, dir, nil, root)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, root, second.Transform())
	assert.Equal(t, first.TriangleCount(), second.TriangleCount())
}

func TestObtainWithoutCache(t *testing.T) {
	h := New("lander", DefaultOptions())
	hit, err := Obtain(context.Background(), h, "", []kernel.Instance{cubeInstance(1, sdf.Identity3d())}, sdf.Identity3d())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 12, h.TriangleCount())
}

func TestObtainSkipsSavingFallback(t *testing.T) {
	dir := t.TempDir()
	h := New("flat", DefaultOptions())
	hit, err := Obtain(context.Background(), h, dir, nil, sdf.Identity3d())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, h.Error())
	assert.NoFileExists(t, h.Path(dir))
}

func TestObtainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Obtain(ctx, New("x", DefaultOptions()), "", nil, sdf.Identity3d())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObtainCreatesCacheDir(t *testing.T) {
	dir := t.TempDir() + "/nested/cache"
	h := New("lander", DefaultOptions())
	_, err := Obtain(context.Background(), h, dir, []kernel.Instance{cubeInstance(1, sdf.Identity3d())}, sdf.Identity3d())
	require.NoError(t, err)
	_, err = os.Stat(h.Path(dir))
	assert.NoError(t, err)
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(t.TempDir(), DefaultOptions())
	inst := []kernel.Instance{cubeInstance(2, sdf.Identity3d())}

	res, err := b.Build(context.Background(), "cube", inst, sdf.Identity3d())
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 12, res.Hull.TriangleCount())

	res, err = b.Build(context.Background(), "cube", inst, sdf.Identity3d())
	require.NoError(t, err)
	assert.True(t, res.CacheHit)
}
