// Package sampling вычисляет шум на больших областях с прореживанием:
// базовый генератор считается только в ключевых точках сетки с шагом
// sampleRate, остальное восстанавливается билинейной (2D) или
// трилинейной (3D) интерполяцией.
package sampling

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/vec"
)

// MaxSampleRate ограничивает шаг ключевых точек. Выровненная область
// занимает до (size+rate)^3 значений, поэтому даже запрос одной точки
// стоит порядка rate^3.
const MaxSampleRate = 64

// SubSampled оборачивает базовый шум и интерполирует его между ключевыми
// точками абсолютной решётки с шагом sampleRate. Ключевые точки не зависят
// от запрошенной области, поэтому вырезка из большой области совпадает с
// прямым запросом меньшей.
type SubSampled struct {
	base    noise.Noise
	zoom    vec.Vec3Float
	rate    int
	workers int
	logger  *logging.Logger
}

// Option настраивает SubSampled
type Option func(*SubSampled)

// WithWorkers ограничивает число горутин при расчёте области
func WithWorkers(n int) Option {
	return func(s *SubSampled) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger задаёт логгер
func WithLogger(l *logging.Logger) Option {
	return func(s *SubSampled) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSubSampled создаёт прореживающий вычислитель.
// zoom — множитель координат по осям перед вызовом базового шума.
func NewSubSampled(base noise.Noise, zoom vec.Vec3Float, sampleRate int, opts ...Option) (*SubSampled, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: base noise is nil", noise.ErrInvalidArgument)
	}
	if sampleRate < 1 || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("%w: sample rate must be in [1, %d], got %d", noise.ErrInvalidArgument, MaxSampleRate, sampleRate)
	}
	if !zoom.IsFinite() || zoom.X == 0 || zoom.Y == 0 || zoom.Z == 0 {
		return nil, fmt.Errorf("%w: zoom must be finite and non-zero, got %+v", noise.ErrInvalidArgument, zoom)
	}

	s := &SubSampled{
		base:    base,
		zoom:    zoom,
		rate:    sampleRate,
		workers: runtime.GOMAXPROCS(0),
		logger:  logging.GetSamplingLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SampleRate возвращает шаг ключевых точек
func (s *SubSampled) SampleRate() int { return s.rate }

// Zoom возвращает множители координат
func (s *SubSampled) Zoom() vec.Vec3Float { return s.zoom }

func (s *SubSampled) key2(kx, ky int) float64 {
	return s.base.Noise2(float64(kx)*s.zoom.X, float64(ky)*s.zoom.Y)
}

func (s *SubSampled) key3(kx, ky, kz int) float64 {
	return s.base.Noise3(float64(kx)*s.zoom.X, float64(ky)*s.zoom.Y, float64(kz)*s.zoom.Z)
}

// alignDown возвращает ближайшую ключевую координату не больше p и долю
// расстояния до следующей ключевой точки
func (s *SubSampled) alignDown(p float64) (int, float64) {
	rate := float64(s.rate)
	k := math.Floor(p/rate) * rate
	return int(k), clamp01((p - k) / rate)
}

// Noise2 — точечный запрос: интерполяция по четырём ключевым точкам вокруг (x, y)
func (s *SubSampled) Noise2(x, y float64) float64 {
	kx, fx := s.alignDown(x)
	ky, fy := s.alignDown(y)
	r := s.rate
	return bilerp(
		s.key2(kx, ky), s.key2(kx+r, ky),
		s.key2(kx, ky+r), s.key2(kx+r, ky+r),
		fx, fy)
}

// Noise3 — точечный запрос: интерполяция по восьми ключевым точкам
func (s *SubSampled) Noise3(x, y, z float64) float64 {
	kx, fx := s.alignDown(x)
	ky, fy := s.alignDown(y)
	kz, fz := s.alignDown(z)
	r := s.rate
	return trilerp(
		s.key3(kx, ky, kz), s.key3(kx+r, ky, kz),
		s.key3(kx, ky+r, kz), s.key3(kx+r, ky+r, kz),
		s.key3(kx, ky, kz+r), s.key3(kx+r, ky, kz+r),
		s.key3(kx, ky+r, kz+r), s.key3(kx+r, ky+r, kz+r),
		fx, fy, fz)
}

// alignedRange расширяет [lo, hi] до ключевых точек: lo округляется вниз
// до кратного rate, hi округляется вниз и дополняется ещё одним шагом,
// чтобы у каждой точки был правый/верхний сосед.
func alignedRange(lo, hi, rate int) (start, end, keys int) {
	start = floorDiv(lo, rate) * rate
	end = floorDiv(hi, rate)*rate + rate
	keys = (end-start)/rate + 1
	return start, end, keys
}

// Region2 вычисляет шум во всех точках области. При ошибке (в том числе
// отмене ctx) частичный результат не возвращается.
func (s *SubSampled) Region2(ctx context.Context, r Region2) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rate := s.rate
	x0, x1, kx := alignedRange(r.Min.X, r.Max.X, rate)
	y0, y1, ky := alignedRange(r.Min.Y, r.Max.Y, rate)

	// 1. Ключевые точки
	keys := make([]float64, kx*ky)
	err := s.parallelRows(ctx, ky, func(j int) {
		row := keys[j*kx : (j+1)*kx]
		for i := range row {
			row[i] = s.key2(x0+i*rate, y0+j*rate)
		}
	})
	if err != nil {
		return nil, err
	}

	// 2. Интерполяция на полное разрешение выровненной области [x0, x1) x [y0, y1)
	w, h := x1-x0, y1-y0
	full := make([]float64, w*h)
	err = s.parallelRows(ctx, h, func(y int) {
		cy, ly := y/rate, y%rate
		fy := clamp01(float64(ly) / float64(rate))
		row := full[y*w : (y+1)*w]
		for x := range row {
			cx, lx := x/rate, x%rate
			fx := clamp01(float64(lx) / float64(rate))
			i00 := cy*kx + cx
			row[x] = bilerp(keys[i00], keys[i00+1], keys[i00+kx], keys[i00+kx+1], fx, fy)
		}
	})
	if err != nil {
		return nil, err
	}

	// 3. Вырезка запрошенной области построчным копированием
	size := r.Size()
	out := make([]float64, size.X*size.Y)
	offX, offY := r.Min.X-x0, r.Min.Y-y0
	for y := 0; y < size.Y; y++ {
		src := (y+offY)*w + offX
		copy(out[y*size.X:(y+1)*size.X], full[src:src+size.X])
	}

	s.logger.Trace("region2 %v..%v: %d keys, %d points", r.Min, r.Max, len(keys), len(out))
	return out, nil
}

// Region3 вычисляет шум во всех точках трёхмерной области
func (s *SubSampled) Region3(ctx context.Context, r Region3) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rate := s.rate
	x0, x1, kx := alignedRange(r.Min.X, r.Max.X, rate)
	y0, y1, ky := alignedRange(r.Min.Y, r.Max.Y, rate)
	z0, z1, kz := alignedRange(r.Min.Z, r.Max.Z, rate)

	// 1. Ключевые точки, по строке на пару (j, k)
	keys := make([]float64, kx*ky*kz)
	err := s.parallelRows(ctx, ky*kz, func(jk int) {
		j, k := jk%ky, jk/ky
		row := keys[jk*kx : (jk+1)*kx]
		for i := range row {
			row[i] = s.key3(x0+i*rate, y0+j*rate, z0+k*rate)
		}
	})
	if err != nil {
		return nil, err
	}

	// 2. Трилинейная интерполяция
	w, h, d := x1-x0, y1-y0, z1-z0
	full := make([]float64, w*h*d)
	planeKeys := kx * ky
	err = s.parallelRows(ctx, h*d, func(yz int) {
		y, z := yz%h, yz/h
		cy, cz := y/rate, z/rate
		fy := clamp01(float64(y%rate) / float64(rate))
		fz := clamp01(float64(z%rate) / float64(rate))
		row := full[yz*w : (yz+1)*w]
		for x := range row {
			cx := x / rate
			fx := clamp01(float64(x%rate) / float64(rate))
			i000 := cz*planeKeys + cy*kx + cx
			i001 := i000 + planeKeys
			row[x] = trilerp(
				keys[i000], keys[i000+1], keys[i000+kx], keys[i000+kx+1],
				keys[i001], keys[i001+1], keys[i001+kx], keys[i001+kx+1],
				fx, fy, fz)
		}
	})
	if err != nil {
		return nil, err
	}

	// 3. Вырезка
	size := r.Size()
	out := make([]float64, size.X*size.Y*size.Z)
	offX, offY, offZ := r.Min.X-x0, r.Min.Y-y0, r.Min.Z-z0
	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			dst := (z*size.Y + y) * size.X
			src := ((z+offZ)*h+(y+offY))*w + offX
			copy(out[dst:dst+size.X], full[src:src+size.X])
		}
	}

	s.logger.Trace("region3 %v..%v: %d keys, %d points", r.Min, r.Max, len(keys), len(out))
	return out, nil
}

func (s *SubSampled) parallelRows(ctx context.Context, n int, fn func(row int)) error {
	return parallelRows(ctx, s.workers, n, fn)
}

// parallelRows вызывает fn для каждой строки [0, n) в ограниченном пуле горутин.
// Строки пишут в непересекающиеся части массивов, синхронизация не нужна.
func parallelRows(ctx context.Context, workers, n int, fn func(row int)) error {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for row := 0; row < n; row++ {
		if err := gctx.Err(); err != nil {
			break
		}
		row := row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
