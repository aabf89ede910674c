package generator

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/storage"
	"github.com/annel0/procgen/internal/vec"
)

func quiet() Option {
	return WithLogger(logging.NewDiscardLogger())
}

func testArea() sampling.Region2 {
	return sampling.Region2{Min: vec.Vec2{X: -5, Y: -3}, Max: vec.Vec2{X: 6, Y: 4}}
}

func TestNew_AllKinds(t *testing.T) {
	kinds := []string{KindPerlin, KindSimplex, KindWhite, KindClassic, KindOpenSimplex, KindCellular}
	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			g, err := New(config.GeneratorConfig{Name: kind, Kind: kind, Seed: 9}, quiet())
			require.NoError(t, err)

			for i := 0; i < 50; i++ {
				x, y := float64(i)*0.37-4, float64(i)*0.19+1
				v := g.Point2(x, y)
				assert.GreaterOrEqual(t, v, -1.0)
				assert.LessOrEqual(t, v, 1.0)
				assert.Equal(t, v, g.Point2(x, y), "Генератор должен быть детерминированным")
			}
		})
	}
}

func TestNew_KindIsCaseInsensitive(t *testing.T) {
	g, err := New(config.GeneratorConfig{Name: "p", Kind: "Perlin", Seed: 1}, quiet())
	require.NoError(t, err)
	assert.Equal(t, KindPerlin, g.Info().Kind)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cases := map[string]config.GeneratorConfig{
		"no name":      {Kind: KindPerlin},
		"unknown kind": {Name: "x", Kind: "fractal"},
		"bad grid":     {Name: "x", Kind: KindPerlin, GridDim: 100},
		"bad octaves":  {Name: "x", Kind: KindPerlin, FBm: config.FBmConfig{Octaves: -1}},
		"bad rate":     {Name: "x", Kind: KindPerlin, Sampling: config.SamplingConfig{SampleRate: -2}},
		"huge rate":    {Name: "x", Kind: KindPerlin, Sampling: config.SamplingConfig{SampleRate: 100000}},
		"fbm overflow": {Name: "x", Kind: KindPerlin, FBm: config.FBmConfig{Octaves: 4, Lacunarity: 2, Persistence: -1100}},
		"bad metric":   {Name: "x", Kind: KindCellular, Metric: "taxicab"},
		"bad mode":     {Name: "x", Kind: KindCellular, Mode: "f3"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg, quiet())
			assert.ErrorIs(t, err, noise.ErrInvalidArgument)
		})
	}
}

func TestNew_PipelineMatchesManualComposition(t *testing.T) {
	cfg := config.GeneratorConfig{
		Name:     "terrain",
		Kind:     KindPerlin,
		Seed:     42,
		FBm:      config.FBmConfig{Octaves: 4},
		Sampling: config.SamplingConfig{SampleRate: 4, Zoom: [3]float64{0.05, 0.05, 0}},
	}
	g, err := New(cfg, quiet())
	require.NoError(t, err)

	fbm, err := noise.NewBrownian(noise.NewPerlin(42), 4)
	require.NoError(t, err)
	manual, err := sampling.NewSubSampled(fbm, vec.Vec3Float{X: 0.05, Y: 0.05, Z: 1}, 4)
	require.NoError(t, err)

	for _, p := range [][2]float64{{0, 0}, {3, 7}, {-9, 14}, {2.5, -1.25}} {
		assert.Equal(t, manual.Noise2(p[0], p[1]), g.Point2(p[0], p[1]))
	}
}

func TestRegion2_MatchesPointQueries(t *testing.T) {
	for _, rate := range []int{0, 3} {
		cfg := config.GeneratorConfig{
			Name:     "g",
			Kind:     KindSimplex,
			Seed:     3,
			Sampling: config.SamplingConfig{SampleRate: rate, Zoom: [3]float64{0.1, 0.1, 0.1}},
		}
		g, err := New(cfg, quiet(), WithWorkers(2))
		require.NoError(t, err)

		r := testArea()
		values, err := g.Region2(context.Background(), r)
		require.NoError(t, err)
		require.Len(t, values, r.Len())

		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				assert.Equal(t, g.Point2(float64(x), float64(y)), values[r.Index(vec.Vec2{X: x, Y: y})],
					"rate=%d x=%d y=%d", rate, x, y)
			}
		}
	}
}

func TestRegion3_MatchesPointQueries(t *testing.T) {
	g, err := New(config.GeneratorConfig{Name: "w", Kind: KindWhite, Seed: 5}, quiet())
	require.NoError(t, err)

	r := sampling.Region3{Min: vec.Vec3{X: 0, Y: 0, Z: -1}, Max: vec.Vec3{X: 3, Y: 2, Z: 1}}
	values, err := g.Region3(context.Background(), r)
	require.NoError(t, err)

	for z := r.Min.Z; z <= r.Max.Z; z++ {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				p := vec.Vec3{X: x, Y: y, Z: z}
				assert.Equal(t, g.Point3(float64(x), float64(y), float64(z)), values[r.Index(p)])
			}
		}
	}
}

func TestRegion_UsesTileCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tiles := storage.NewMemoryTileRepo()

	g, err := New(config.GeneratorConfig{Name: "terrain", Kind: KindPerlin, Seed: 1},
		quiet(), WithTiles(tiles), WithMetrics(m))
	require.NoError(t, err)

	r := testArea()
	first, err := g.Region2(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 1, tiles.Len())

	second, err := g.Region2(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	families, err := reg.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, f := range families {
		if len(f.GetMetric()) == 1 && f.GetMetric()[0].GetCounter() != nil {
			got[f.GetName()] = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, got["procgen_tile_cache_hits_total"])
	assert.Equal(t, 1.0, got["procgen_tile_cache_misses_total"])
}

func TestRegion_RejectsMalformed(t *testing.T) {
	g, err := New(config.GeneratorConfig{Name: "p", Kind: KindPerlin}, quiet())
	require.NoError(t, err)

	_, err = g.Region2(context.Background(), sampling.Region2{Min: vec.Vec2{X: 1}, Max: vec.Vec2{X: 0}})
	assert.ErrorIs(t, err, noise.ErrInvalidArgument)
}

func TestRegistry_BuildDefault(t *testing.T) {
	r := NewRegistry(quiet())
	require.NoError(t, r.Build(config.Default()))

	names := make([]string, 0)
	for _, info := range r.List() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"caves", "cells", "grain", "moisture", "terrain"}, names)
	assert.Equal(t, []string{"biomes"}, r.VoronoiNames())
	assert.NotNil(t, r.Biomes())

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownGenerator)

	features, err := r.Closest("biomes", vec.Vec2Float{X: 1.5, Y: -2}, 3)
	require.NoError(t, err)
	assert.Len(t, features, 3)

	_, err = r.Closest("nope", vec.Vec2Float{}, 1)
	assert.ErrorIs(t, err, ErrUnknownVoronoi)

	_, err = r.Closest("biomes", vec.Vec2Float{}, 6)
	assert.ErrorIs(t, err, noise.ErrInvalidArgument)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := NewRegistry(quiet())
	g, err := New(config.GeneratorConfig{Name: "a", Kind: KindWhite}, quiet())
	require.NoError(t, err)

	require.NoError(t, r.Register(g))
	assert.Error(t, r.Register(g))
}

func TestFingerprint(t *testing.T) {
	base := config.GeneratorConfig{Name: "t", Kind: "perlin", Seed: 1}
	fp := Fingerprint(base)
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint(base))

	upper := base
	upper.Kind = "PERLIN"
	assert.Equal(t, fp, Fingerprint(upper), "Регистр вида не влияет на отпечаток")

	reseeded := base
	reseeded.Seed = 2
	assert.NotEqual(t, fp, Fingerprint(reseeded))
}

func TestRegion_TileKeyIncludesVersion(t *testing.T) {
	tiles := storage.NewMemoryTileRepo()
	ctx := context.Background()
	r := testArea()

	a, err := New(config.GeneratorConfig{Name: "terrain", Kind: KindPerlin, Seed: 1}, quiet(), WithTiles(tiles))
	require.NoError(t, err)
	b, err := New(config.GeneratorConfig{Name: "terrain", Kind: KindPerlin, Seed: 2}, quiet(), WithTiles(tiles))
	require.NoError(t, err)

	va, err := a.Region2(ctx, r)
	require.NoError(t, err)
	vb, err := b.Region2(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, 2, tiles.Len())
	assert.NotEqual(t, va, vb)
}

func TestRegion_FlatAndVolumeTilesDoNotCollide(t *testing.T) {
	for _, kind := range []string{KindSimplex, KindWhite} {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.GeneratorConfig{Name: "grain", Kind: kind, Seed: 9}
			tiles := storage.NewMemoryTileRepo()

			cached, err := New(cfg, quiet(), WithTiles(tiles))
			require.NoError(t, err)
			direct, err := New(cfg, quiet())
			require.NoError(t, err)

			r := testArea()
			_, err = cached.Region2(ctx, r)
			require.NoError(t, err)

			got, err := cached.Region3(ctx, r.Lift())
			require.NoError(t, err)
			want, err := direct.Region3(ctx, r.Lift())
			require.NoError(t, err)

			assert.Equal(t, want, got)
			assert.Equal(t, 2, tiles.Len())
		})
	}
}

func TestOptions_DefaultLoggerIsGeneratorComponent(t *testing.T) {
	assert.Same(t, logging.GetGeneratorLogger(), buildOptions(nil).logger)
}
