package generator

import (
	"context"
	"fmt"

	"github.com/annel0/procgen/internal/sampling"
)

// Biome представляет тип биома
type Biome int

const (
	BiomePlains Biome = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
	BiomeDeepWater
)

// Пороги высоты в диапазоне [0, 1]
const (
	DeepWaterMax    = 0.20 // Ниже - глубинная вода
	ShallowWaterMax = 0.30 // Ниже - мелководье
	MountainStart   = 0.80 // Выше - горы
)

// Пороги влажности в диапазоне [-1, 1]
const (
	DesertMax = -0.3
	ForestMin = 0.3
)

func (b Biome) String() string {
	switch b {
	case BiomePlains:
		return "plains"
	case BiomeDesert:
		return "desert"
	case BiomeForest:
		return "forest"
	case BiomeMountains:
		return "mountains"
	case BiomeWater:
		return "water"
	case BiomeDeepWater:
		return "deep_water"
	}
	return fmt.Sprintf("biome(%d)", int(b))
}

// MarshalText позволяет отдавать биомы в JSON по имени
func (b Biome) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Classify определяет биом по высоте и влажности, обе в [-1, 1]
func Classify(height, moisture float64) Biome {
	// Высота переводится в [0, 1]
	h := (height + 1) / 2

	// Водные биомы в низинах
	if h < DeepWaterMax {
		return BiomeDeepWater
	}
	if h < ShallowWaterMax {
		return BiomeWater
	}

	// Горные биомы на возвышенностях
	if h > MountainStart {
		return BiomeMountains
	}

	// Для средних высот выбираем биом по влажности
	if moisture < DesertMax {
		return BiomeDesert
	} else if moisture > ForestMin {
		return BiomeForest
	}

	return BiomePlains
}

// BiomeClassifier строит карту биомов по двум генераторам
type BiomeClassifier struct {
	height   *Generator
	moisture *Generator
}

// NewBiomeClassifier создаёт классификатор
func NewBiomeClassifier(height, moisture *Generator) (*BiomeClassifier, error) {
	if height == nil || moisture == nil {
		return nil, fmt.Errorf("классификатору биомов нужны генераторы высоты и влажности")
	}
	return &BiomeClassifier{height: height, moisture: moisture}, nil
}

// At возвращает биом в точке
func (c *BiomeClassifier) At(x, y float64) Biome {
	return Classify(c.height.Point2(x, y), c.moisture.Point2(x, y))
}

// Region возвращает биомы во всех точках области (x меняется быстрее всего)
func (c *BiomeClassifier) Region(ctx context.Context, r sampling.Region2) ([]Biome, error) {
	heights, err := c.height.Region2(ctx, r)
	if err != nil {
		return nil, err
	}
	moisture, err := c.moisture.Region2(ctx, r)
	if err != nil {
		return nil, err
	}

	biomes := make([]Biome, len(heights))
	for i := range biomes {
		biomes[i] = Classify(heights[i], moisture[i])
	}
	return biomes, nil
}
