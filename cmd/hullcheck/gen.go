package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/chazu/crafthull/pkg/quickhull"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/furui/fastnoiselite-go"
)

// generate writes a synthetic point cloud described by config.
func generate(config GenConfig, out io.Writer) error {
	pc := asteroid(config)
	if err := writeCloud(config.Out, pc, config.Gzip); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s - %d points\n", config.Out, pc.Len())
	return nil
}

// asteroid scatters points over a lumpy sphere. The surface radius is
// modulated by 3-D noise and a fifth of the points fall inside it.
func asteroid(config GenConfig) *quickhull.PointCloud {
	type F = fastnoiselite.FNLfloat

	rng := rand.New(rand.NewSource(config.Seed))
	noise := fastnoiselite.NewNoise()
	noise.Seed = int32(config.Seed)
	noise.Frequency = 1.5 / config.Radius

	pc := quickhull.NewPointCloud(config.Points)
	for i := 0; i < config.Points; i++ {
		dir := randomDirection(rng)
		s := dir.MulScalar(config.Radius)
		n := float64(noise.GetNoise3D(F(s.X), F(s.Y), F(s.Z)))
		r := config.Radius * (1 + 0.3*n)
		if rng.Intn(5) == 0 {
			r *= rng.Float64()
		}
		pc.AddVertex(dir.MulScalar(r))
	}
	return pc
}

func randomDirection(rng *rand.Rand) v3.Vec {
	z := rng.Float64()*2 - 1
	a := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return v3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z}
}

func writeCloud(path string, pc *quickhull.PointCloud, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(bw)
		w = gz
	}
	if err := pc.Write(w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
