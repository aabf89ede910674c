package voronoi

import (
	"fmt"
	"math"
	"strings"

	"github.com/annel0/procgen/internal/noise"
	"github.com/annel0/procgen/internal/vec"
)

// CellularMode — что именно возвращает ячеистый шум
type CellularMode int

const (
	// F1 — расстояние до ближайшего признака
	F1 CellularMode = iota
	// F2MinusF1 — разность расстояний до второго и первого признака (границы ячеек)
	F2MinusF1
)

// ParseCellularMode разбирает имя режима из конфигурации
func ParseCellularMode(s string) (CellularMode, error) {
	switch strings.ToLower(s) {
	case "", "f1":
		return F1, nil
	case "f2-f1", "f2_minus_f1":
		return F2MinusF1, nil
	}
	return F1, fmt.Errorf("%w: unknown cellular mode %q", noise.ErrInvalidArgument, s)
}

// Cellular — шум Уорли поверх Voronoi. Расстояния измеряются в шагах
// решётки признаков и отображаются в [-1, 1] как 2*d - 1 с обрезкой.
// Шум двумерный: Noise3 игнорирует z.
type Cellular struct {
	v    *Voronoi
	mode CellularMode
}

// NewCellular создаёт ячеистый шум
func NewCellular(v *Voronoi, mode CellularMode) (*Cellular, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: voronoi is nil", noise.ErrInvalidArgument)
	}
	if mode != F1 && mode != F2MinusF1 {
		return nil, fmt.Errorf("%w: unknown cellular mode %d", noise.ErrInvalidArgument, mode)
	}
	return &Cellular{v: v, mode: mode}, nil
}

// Noise2 возвращает значение в [-1, 1]
func (c *Cellular) Noise2(x, y float64) float64 {
	// n = 2 всегда допустимо, ошибки быть не может
	features, _ := c.v.ClosestPoints(vec.Vec2Float{X: x, Y: y}, 2)
	if len(features) == 0 {
		return 1
	}

	m := c.v.metric
	d1 := m.Linear(features[0].Distance) * DensityAdjustment
	d := d1
	if c.mode == F2MinusF1 {
		if len(features) < 2 {
			return 1
		}
		d = m.Linear(features[1].Distance)*DensityAdjustment - d1
	}
	return math.Max(-1, math.Min(1, 2*d-1))
}

// Noise3 совпадает с Noise2(x, y)
func (c *Cellular) Noise3(x, y, _ float64) float64 {
	return c.Noise2(x, y)
}
