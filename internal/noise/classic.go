package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// Параметры классического шума по умолчанию
const (
	ClassicAlpha   = 2.0
	ClassicBeta    = 2.0
	ClassicOctaves = 3
)

// Classic — адаптер над github.com/aquilax/go-perlin (классический Perlin
// со встроенными октавами alpha/beta/n).
type Classic struct {
	p *perlin.Perlin
}

// NewClassic создаёт адаптер с параметрами по умолчанию
func NewClassic(seed int64) *Classic {
	c, _ := NewClassicWith(seed, ClassicAlpha, ClassicBeta, ClassicOctaves)
	return c
}

// NewClassicWith создаёт адаптер; alpha — сглаживание, beta — частота, n — число октав
func NewClassicWith(seed int64, alpha, beta float64, n int) (*Classic, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: classic perlin needs n >= 1, got %d", ErrInvalidArgument, n)
	}
	if alpha == 0 {
		return nil, fmt.Errorf("%w: classic perlin alpha must be non-zero", ErrInvalidArgument)
	}
	return &Classic{p: perlin.NewPerlin(alpha, beta, int32(n), seed)}, nil
}

// Noise2 возвращает значение в [-1, 1]
func (c *Classic) Noise2(x, y float64) float64 {
	return clamp(c.p.Noise2D(x, y), -1, 1)
}

// Noise3 возвращает значение в [-1, 1]
func (c *Classic) Noise3(x, y, z float64) float64 {
	return clamp(c.p.Noise3D(x, y, z), -1, 1)
}
