package voronoi

import (
	"fmt"
	"math"
	"strings"

	"github.com/annel0/procgen/internal/noise"
)

// Metric — метрика расстояния до точки-признака
type Metric int

const (
	// Euclidean — квадрат евклидова расстояния
	Euclidean Metric = iota
	// Manhattan — сумма модулей
	Manhattan
	// Chebyshev — максимум модулей
	Chebyshev
)

// ParseMetric разбирает имя метрики из конфигурации
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "", "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "chebyshev":
		return Chebyshev, nil
	}
	return Euclidean, fmt.Errorf("%w: unknown metric %q", noise.ErrInvalidArgument, s)
}

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

func (m Metric) valid() bool {
	return m >= Euclidean && m <= Chebyshev
}

// Distance считает расстояние для смещения (dx, dy)
func (m Metric) Distance(dx, dy float64) float64 {
	switch m {
	case Manhattan:
		return math.Abs(dx) + math.Abs(dy)
	case Chebyshev:
		return math.Max(math.Abs(dx), math.Abs(dy))
	default:
		return dx*dx + dy*dy
	}
}

// Linear переводит значение метрики в линейное расстояние
func (m Metric) Linear(d float64) float64 {
	if m == Euclidean {
		return math.Sqrt(d)
	}
	return d
}

// scaleFactor — множитель расстояния при масштабировании координат на k
func (m Metric) scaleFactor(k float64) float64 {
	if m == Euclidean {
		return k * k
	}
	return k
}
