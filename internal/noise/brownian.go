package noise

import (
	"fmt"
	"math"
)

const (
	// DefaultLacunarity — множитель частоты на октаву
	DefaultLacunarity = 2.1379201
	// DefaultPersistence — показатель затухания амплитуды
	DefaultPersistence = 0.836281
)

// Brownian — фрактальное броуновское движение (fBm) поверх базового шума.
// Веса октав spectralWeights[i] = lacunarity^(-persistence*i), итог
// нормируется на 1/sum(weights), поэтому остаётся в диапазоне базового шума.
//
// Сеттеры пересчитывают веса сразу. Их нельзя вызывать параллельно с Noise2/Noise3.
type Brownian struct {
	base        Noise
	octaves     int
	lacunarity  float64
	persistence float64
	weights     []float64
	scale       float64
}

// NewBrownian создаёт fBm с параметрами по умолчанию
func NewBrownian(base Noise, octaves int) (*Brownian, error) {
	return NewBrownianWith(base, octaves, DefaultLacunarity, DefaultPersistence)
}

// NewBrownianWith создаёт fBm с явной лакунарностью и персистентностью
func NewBrownianWith(base Noise, octaves int, lacunarity, persistence float64) (*Brownian, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: base noise is nil", ErrInvalidArgument)
	}
	if err := validateOctaves(octaves); err != nil {
		return nil, err
	}
	if err := validateLacunarity(lacunarity); err != nil {
		return nil, err
	}
	if err := validatePersistence(persistence); err != nil {
		return nil, err
	}

	weights, scale, err := spectralWeights(octaves, lacunarity, persistence)
	if err != nil {
		return nil, err
	}
	return &Brownian{
		base:        base,
		octaves:     octaves,
		lacunarity:  lacunarity,
		persistence: persistence,
		weights:     weights,
		scale:       scale,
	}, nil
}

func validateOctaves(octaves int) error {
	if octaves < 1 {
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidArgument, octaves)
	}
	return nil
}

func validateLacunarity(lacunarity float64) error {
	if !(lacunarity > 0) || math.IsInf(lacunarity, 0) {
		return fmt.Errorf("%w: lacunarity must be positive and finite, got %v", ErrInvalidArgument, lacunarity)
	}
	return nil
}

func validatePersistence(persistence float64) error {
	if math.IsNaN(persistence) || math.IsInf(persistence, 0) {
		return fmt.Errorf("%w: persistence must be finite, got %v", ErrInvalidArgument, persistence)
	}
	return nil
}

// spectralWeights считает веса октав и нормирующий множитель.
// Комбинации, при которых веса переполняются, отклоняются.
func spectralWeights(octaves int, lacunarity, persistence float64) ([]float64, float64, error) {
	weights := make([]float64, octaves)
	sum := 0.0
	for i := range weights {
		w := math.Pow(lacunarity, -persistence*float64(i))
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, 0, fmt.Errorf("%w: octave %d weight overflows (lacunarity %v, persistence %v)",
				ErrInvalidArgument, i, lacunarity, persistence)
		}
		weights[i] = w
		sum += w
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		return nil, 0, fmt.Errorf("%w: octave weights sum to %v", ErrInvalidArgument, sum)
	}
	return weights, 1 / sum, nil
}

// apply пересчитывает веса для новых параметров. При ошибке состояние не меняется.
func (b *Brownian) apply(octaves int, lacunarity, persistence float64) error {
	weights, scale, err := spectralWeights(octaves, lacunarity, persistence)
	if err != nil {
		return err
	}
	b.octaves = octaves
	b.lacunarity = lacunarity
	b.persistence = persistence
	b.weights = weights
	b.scale = scale
	return nil
}

// SetOctaves меняет число октав. При ошибке состояние не меняется.
func (b *Brownian) SetOctaves(octaves int) error {
	if err := validateOctaves(octaves); err != nil {
		return err
	}
	return b.apply(octaves, b.lacunarity, b.persistence)
}

// SetLacunarity меняет множитель частоты
func (b *Brownian) SetLacunarity(lacunarity float64) error {
	if err := validateLacunarity(lacunarity); err != nil {
		return err
	}
	return b.apply(b.octaves, lacunarity, b.persistence)
}

// SetPersistence меняет показатель затухания
func (b *Brownian) SetPersistence(persistence float64) error {
	if err := validatePersistence(persistence); err != nil {
		return err
	}
	return b.apply(b.octaves, b.lacunarity, persistence)
}

func (b *Brownian) Octaves() int         { return b.octaves }
func (b *Brownian) Lacunarity() float64  { return b.lacunarity }
func (b *Brownian) Persistence() float64 { return b.persistence }
func (b *Brownian) Scale() float64       { return b.scale }
func (b *Brownian) Base() Noise          { return b.base }

// Weights возвращает копию весов октав
func (b *Brownian) Weights() []float64 {
	out := make([]float64, len(b.weights))
	copy(out, b.weights)
	return out
}

// Noise2 суммирует октавы базового шума в точке (x, y)
func (b *Brownian) Noise2(x, y float64) float64 {
	result := 0.0
	for _, w := range b.weights {
		result += b.base.Noise2(x, y) * w
		x *= b.lacunarity
		y *= b.lacunarity
	}
	return result * b.scale
}

// Noise3 суммирует октавы базового шума в точке (x, y, z)
func (b *Brownian) Noise3(x, y, z float64) float64 {
	result := 0.0
	for _, w := range b.weights {
		result += b.base.Noise3(x, y, z) * w
		x *= b.lacunarity
		y *= b.lacunarity
		z *= b.lacunarity
	}
	return result * b.scale
}
