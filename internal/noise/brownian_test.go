package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(ws []float64) float64 {
	s := 0.0
	for _, w := range ws {
		s += w
	}
	return s
}

func TestBrownian_WeightsNormalized(t *testing.T) {
	for octaves := 1; octaves <= 12; octaves++ {
		for _, pers := range []float64{0.25, 0.5, DefaultPersistence, 1.3} {
			b, err := NewBrownianWith(NewPerlin(1), octaves, DefaultLacunarity, pers)
			require.NoError(t, err)
			assert.Len(t, b.Weights(), octaves)
			assert.InDelta(t, 1.0, sum(b.Weights())*b.Scale(), 1e-12)
		}
	}
}

func TestBrownian_WeightFormula(t *testing.T) {
	b, err := NewBrownianWith(NewPerlin(1), 4, 2, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25, 0.125}, b.Weights(), 1e-15)
	assert.InDelta(t, 1/1.875, b.Scale(), 1e-15)
}

func TestBrownian_SingleOctaveIsIdentity(t *testing.T) {
	base := NewWhite(42)
	b, err := NewBrownian(base, 1)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		x, y, z := randomCoords(rng)
		assert.Equal(t, base.Noise2(x, y), b.Noise2(x, y))
		assert.Equal(t, base.Noise3(x, y, z), b.Noise3(x, y, z))
	}
}

func TestBrownian_RangeAcrossConfigurations(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	bases := []Noise{NewPerlin(3), NewSimplex(3), NewWhite(3)}

	for _, base := range bases {
		for _, octaves := range []int{1, 2, 5, 9} {
			for _, lac := range []float64{1.5, DefaultLacunarity, 3} {
				b, err := NewBrownianWith(base, octaves, lac, rng.Float64()*2)
				require.NoError(t, err)
				for i := 0; i < 200; i++ {
					x, y, z := randomCoords(rng)
					v := b.Noise3(x, y, z)
					if math.Abs(v) > 1+rangeEpsilon {
						t.Fatalf("fBm вне [-1,1]: %f (octaves=%d, lac=%f)", v, octaves, lac)
					}
				}
			}
		}
	}
}

func TestBrownian_RejectsInvalidConfig(t *testing.T) {
	_, err := NewBrownian(NewPerlin(1), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBrownian(nil, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBrownianWith(NewPerlin(1), 3, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBrownianWith(NewPerlin(1), 3, 2, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Конечные параметры, но веса переполняются
	_, err = NewBrownianWith(NewPerlin(1), 4, 2, -1100)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBrownianWith(NewPerlin(1), 2, math.MaxFloat64, -2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBrownian_OverflowingSetterKeepsState(t *testing.T) {
	b, err := NewBrownianWith(NewPerlin(1), 3, 4, 0.5)
	require.NoError(t, err)
	before := b.Weights()

	assert.ErrorIs(t, b.SetPersistence(-600), ErrInvalidArgument)
	assert.Equal(t, 0.5, b.Persistence())
	assert.Equal(t, before, b.Weights())

	v := b.Noise3(0.3, 0.7, 1.1)
	assert.False(t, math.IsNaN(v))
	assert.InDelta(t, 1.0, b.Scale()*sum(before), 1e-12)

	rising, err := NewBrownianWith(NewPerlin(1), 3, 2, -1)
	require.NoError(t, err)
	assert.ErrorIs(t, rising.SetLacunarity(math.MaxFloat64), ErrInvalidArgument)
	assert.Equal(t, 2.0, rising.Lacunarity())
	assert.Equal(t, []float64{1, 2, 4}, rising.Weights())
}

func TestBrownian_SettersRecomputeEagerly(t *testing.T) {
	b, err := NewBrownianWith(NewPerlin(1), 2, 2, 1)
	require.NoError(t, err)

	require.NoError(t, b.SetOctaves(3))
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, b.Weights(), 1e-15)
	assert.InDelta(t, 1/1.75, b.Scale(), 1e-15)

	require.NoError(t, b.SetLacunarity(4))
	assert.InDeltaSlice(t, []float64{1, 0.25, 0.0625}, b.Weights(), 1e-15)
	assert.Equal(t, 4.0, b.Lacunarity())

	require.NoError(t, b.SetPersistence(0.5))
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25}, b.Weights(), 1e-15)
	assert.Equal(t, 0.5, b.Persistence())

	// Ошибка не меняет состояние
	assert.ErrorIs(t, b.SetOctaves(0), ErrInvalidArgument)
	assert.Equal(t, 3, b.Octaves())
	assert.Len(t, b.Weights(), 3)
	assert.ErrorIs(t, b.SetLacunarity(-1), ErrInvalidArgument)
	assert.Equal(t, 4.0, b.Lacunarity())
}

func TestBrownian_WeightsReturnsCopy(t *testing.T) {
	b, err := NewBrownian(NewPerlin(1), 3)
	require.NoError(t, err)
	w := b.Weights()
	w[0] = 100
	assert.Equal(t, 1.0, b.Weights()[0])
}
