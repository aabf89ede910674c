package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/vec"
)

// biomeColors — цвета биомов для PPM
var biomeColors = map[generator.Biome][3]byte{
	generator.BiomePlains:    {124, 179, 66},
	generator.BiomeDesert:    {237, 201, 120},
	generator.BiomeForest:    {34, 110, 52},
	generator.BiomeMountains: {130, 130, 130},
	generator.BiomeWater:     {64, 140, 220},
	generator.BiomeDeepWater: {20, 60, 150},
}

func list(cfg *config.Config, w io.Writer) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	for _, info := range registry.List() {
		fmt.Fprintf(w, "%-12s kind=%-12s seed=%d octaves=%d sample_rate=%d\n",
			info.Name, info.Kind, info.Seed, info.Octaves, info.SampleRate)
	}
	for _, name := range registry.VoronoiNames() {
		fmt.Fprintf(w, "%-12s voronoi\n", name)
	}
	return nil
}

// render пишет область генератора как PGM (P5) в оттенках серого
func render(cfg *config.Config, name string, r sampling.Region2, w io.Writer) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	g, err := registry.Get(name)
	if err != nil {
		return err
	}
	values, err := g.Region2(context.Background(), r)
	if err != nil {
		return err
	}
	return writePGM(w, r.Size(), values)
}

// renderBiomes пишет карту биомов как PPM (P6)
func renderBiomes(cfg *config.Config, r sampling.Region2, w io.Writer) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	classifier := registry.Biomes()
	if classifier == nil {
		return fmt.Errorf("классификатор биомов не настроен")
	}
	biomes, err := classifier.Region(context.Background(), r)
	if err != nil {
		return err
	}
	return writeBiomePPM(w, r.Size(), biomes)
}

func closest(cfg *config.Config, name string, at vec.Vec2Float, n int, w io.Writer) error {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	features, err := registry.Closest(name, at, n)
	if err != nil {
		return err
	}
	for i, f := range features {
		pos := f.Position(at)
		fmt.Fprintf(w, "%d id=%d distance=%.6f position=(%.4f, %.4f)\n", i, f.ID, f.Distance, pos.X, pos.Y)
	}
	return nil
}

// toGray переводит значение из [-1, 1] в байт
func toGray(v float64) byte {
	g := math.Round((v + 1) / 2 * 255)
	if g < 0 {
		return 0
	}
	if g > 255 {
		return 255
	}
	return byte(g)
}

func writePGM(w io.Writer, size vec.Vec2, values []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P5\n%d %d\n255\n", size.X, size.Y)
	for _, v := range values {
		bw.WriteByte(toGray(v))
	}
	return bw.Flush()
}

func writeBiomePPM(w io.Writer, size vec.Vec2, biomes []generator.Biome) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", size.X, size.Y)
	for _, b := range biomes {
		c := biomeColors[b]
		bw.Write(c[:])
	}
	return bw.Flush()
}
