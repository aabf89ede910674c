package generator

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/vec"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		height, moisture float64
		want             Biome
	}{
		{-1, 0, BiomeDeepWater},
		{-0.5, 0.9, BiomeWater},
		{0.7, -0.9, BiomeMountains},
		{0.1, -0.5, BiomeDesert},
		{0.1, 0.5, BiomeForest},
		{0.1, 0, BiomePlains},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.height, c.moisture), "h=%v m=%v", c.height, c.moisture)
	}
}

func TestBiome_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Biome{BiomeForest, BiomeDeepWater})
	require.NoError(t, err)
	assert.JSONEq(t, `["forest","deep_water"]`, string(data))
}

func TestBiomeClassifier_RegionMatchesAt(t *testing.T) {
	r := NewRegistry(quiet())
	require.NoError(t, r.Build(config.Default()))
	c := r.Biomes()
	require.NotNil(t, c)

	area := testArea()
	biomes, err := c.Region(context.Background(), area)
	require.NoError(t, err)
	require.Len(t, biomes, area.Len())

	for y := area.Min.Y; y <= area.Max.Y; y++ {
		for x := area.Min.X; x <= area.Max.X; x++ {
			assert.Equal(t, c.At(float64(x), float64(y)), biomes[area.Index(vec.Vec2{X: x, Y: y})])
		}
	}
}

func TestNewBiomeClassifier_RequiresGenerators(t *testing.T) {
	_, err := NewBiomeClassifier(nil, nil)
	assert.Error(t, err)
}
