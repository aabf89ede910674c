// Package generator собирает именованные конвейеры шума из конфигурации:
// базовый генератор, необязательная fBm надстройка и прореживание.
// Генераторы неизменяемы после сборки и безопасны для конкурентных запросов.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/storage"
	"github.com/annel0/procgen/internal/vec"
	"github.com/annel0/procgen/internal/voronoi"
)

// Виды базовых генераторов
const (
	KindPerlin      = "perlin"
	KindSimplex     = "simplex"
	KindWhite       = "white"
	KindClassic     = "classic"
	KindOpenSimplex = "opensimplex"
	KindCellular    = "cellular"
)

// Info — описание генератора для API
type Info struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Seed       int64  `json:"seed"`
	Octaves    int    `json:"octaves,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
	// Version — отпечаток конфигурации; входит в ключи тайлов,
	// поэтому смена параметров не отдаёт устаревшие тайлы
	Version string `json:"version"`
}

// Generator — именованный конвейер шума
type Generator struct {
	info    Info
	noise   noise.Noise
	sampler *sampling.SubSampled
	tiles   storage.TileRepo
	metrics *metrics.Metrics
	workers int
	logger  *logging.Logger
}

// New собирает генератор по описанию из конфигурации
func New(cfg config.GeneratorConfig, opts ...Option) (*Generator, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: generator name is required", noise.ErrInvalidArgument)
	}

	o := buildOptions(opts)
	g := &Generator{
		info: Info{
			Name:       cfg.Name,
			Kind:       strings.ToLower(cfg.Kind),
			Seed:       cfg.Seed,
			Octaves:    cfg.FBm.Octaves,
			SampleRate: cfg.Sampling.SampleRate,
			Version:    Fingerprint(cfg),
		},
		tiles:   o.tiles,
		metrics: o.metrics,
		workers: o.workers,
		logger:  o.logger,
	}

	base, err := newBase(g.info.Kind, cfg)
	if err != nil {
		return nil, fmt.Errorf("generator %q: %w", cfg.Name, err)
	}

	if cfg.FBm.Octaves != 0 {
		lac, pers := cfg.FBm.Lacunarity, cfg.FBm.Persistence
		if lac == 0 {
			lac = noise.DefaultLacunarity
		}
		if pers == 0 {
			pers = noise.DefaultPersistence
		}
		base, err = noise.NewBrownianWith(base, cfg.FBm.Octaves, lac, pers)
		if err != nil {
			return nil, fmt.Errorf("generator %q: %w", cfg.Name, err)
		}
	}

	g.noise = base
	if cfg.Sampling.SampleRate != 0 {
		g.sampler, err = sampling.NewSubSampled(base, zoomOf(cfg.Sampling.Zoom), cfg.Sampling.SampleRate,
			sampling.WithWorkers(o.workers), sampling.WithLogger(o.logger))
		if err != nil {
			return nil, fmt.Errorf("generator %q: %w", cfg.Name, err)
		}
		g.noise = g.sampler
	}

	g.logger.Debug("Генератор %q собран: kind=%s octaves=%d rate=%d",
		cfg.Name, g.info.Kind, cfg.FBm.Octaves, cfg.Sampling.SampleRate)
	return g, nil
}

// newBase создаёт базовый генератор нужного вида
func newBase(kind string, cfg config.GeneratorConfig) (noise.Noise, error) {
	switch kind {
	case KindPerlin:
		if cfg.GridDim == 0 {
			return noise.NewPerlin(cfg.Seed), nil
		}
		return noise.NewPerlinWithGrid(cfg.Seed, cfg.GridDim)
	case KindSimplex:
		return noise.NewSimplex(cfg.Seed), nil
	case KindWhite:
		return noise.NewWhite(int32(cfg.Seed)), nil
	case KindClassic:
		return noise.NewClassic(cfg.Seed), nil
	case KindOpenSimplex:
		return noise.NewOpenSimplex(cfg.Seed), nil
	case KindCellular:
		metric, err := voronoi.ParseMetric(cfg.Metric)
		if err != nil {
			return nil, err
		}
		mode, err := voronoi.ParseCellularMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		v, err := voronoi.New(cfg.Seed, voronoi.WithMetric(metric))
		if err != nil {
			return nil, err
		}
		return voronoi.NewCellular(v, mode)
	}
	return nil, fmt.Errorf("%w: unknown generator kind %q", noise.ErrInvalidArgument, kind)
}

// Fingerprint возвращает отпечаток конфигурации генератора
func Fingerprint(cfg config.GeneratorConfig) string {
	cfg.Kind = strings.ToLower(cfg.Kind)
	return fmt.Sprintf("%016x", xxhash.Sum64String(fmt.Sprintf("%+v", cfg)))
}

// zoomOf переводит масштаб из конфигурации; нулевая ось означает 1
func zoomOf(z [3]float64) vec.Vec3Float {
	for i := range z {
		if z[i] == 0 {
			z[i] = 1
		}
	}
	return vec.Vec3Float{X: z[0], Y: z[1], Z: z[2]}
}

// Name возвращает имя генератора
func (g *Generator) Name() string { return g.info.Name }

// Info возвращает описание генератора
func (g *Generator) Info() Info { return g.info }

// Noise возвращает весь конвейер как noise.Noise
func (g *Generator) Noise() noise.Noise { return g.noise }

// Point2 вычисляет значение в точке (x, y)
func (g *Generator) Point2(x, y float64) float64 {
	g.metrics.ObservePoint(g.info.Name)
	return g.noise.Noise2(x, y)
}

// Point3 вычисляет значение в точке (x, y, z)
func (g *Generator) Point3(x, y, z float64) float64 {
	g.metrics.ObservePoint(g.info.Name)
	return g.noise.Noise3(x, y, z)
}

// Region2 вычисляет значения во всех точках области, используя кеш тайлов
// при его наличии. Ошибка кеша не мешает расчёту.
func (g *Generator) Region2(ctx context.Context, r sampling.Region2) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return g.region(ctx, storage.Key2(g.tileName(), r), "2d", func() ([]float64, error) {
		if g.sampler != nil {
			return g.sampler.Region2(ctx, r)
		}
		return sampling.Fill2(ctx, g.noise, r, g.workers)
	})
}

// Region3 — трёхмерный вариант Region2
func (g *Generator) Region3(ctx context.Context, r sampling.Region3) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return g.region(ctx, storage.Key3(g.tileName(), r), "3d", func() ([]float64, error) {
		if g.sampler != nil {
			return g.sampler.Region3(ctx, r)
		}
		return sampling.Fill3(ctx, g.noise, r, g.workers)
	})
}

func (g *Generator) tileName() string {
	return g.info.Name + "@" + g.info.Version
}

func (g *Generator) region(ctx context.Context, key storage.TileKey, dims string, compute func() ([]float64, error)) ([]float64, error) {
	if g.tiles != nil {
		values, err := g.tiles.Load(ctx, key)
		if err == nil {
			g.metrics.TileHit()
			return values, nil
		}
		if !errors.Is(err, storage.ErrTileNotFound) {
			g.logger.Warn("Ошибка чтения тайла %s: %v", key, err)
		}
		g.metrics.TileMiss()
	}

	start := time.Now()
	values, err := compute()
	if err != nil {
		return nil, err
	}
	g.metrics.ObserveRegion(g.info.Name, dims, len(values), time.Since(start))

	if g.tiles != nil {
		if err := g.tiles.Save(ctx, key, values); err != nil {
			g.logger.Warn("Не удалось сохранить тайл %s: %v", key, err)
		}
	}
	return values, nil
}
