package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/vec"
)

func smallRegion() sampling.Region2 {
	return sampling.Region2{Min: vec.Vec2{X: 0, Y: 0}, Max: vec.Vec2{X: 7, Y: 3}}
}

func TestToGray(t *testing.T) {
	assert.Equal(t, byte(0), toGray(-1))
	assert.Equal(t, byte(255), toGray(1))
	assert.Equal(t, byte(128), toGray(0))
	assert.Equal(t, byte(255), toGray(3))
}

func TestRender_WritesPGM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(config.Default(), "terrain", smallRegion(), &buf))

	header := "P5\n8 4\n255\n"
	require.True(t, strings.HasPrefix(buf.String(), header))
	assert.Equal(t, len(header)+32, buf.Len())
}

func TestRender_UnknownGenerator(t *testing.T) {
	var buf bytes.Buffer
	err := render(config.Default(), "missing", smallRegion(), &buf)
	assert.ErrorIs(t, err, generator.ErrUnknownGenerator)
}

func TestRenderBiomes_WritesPPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderBiomes(config.Default(), smallRegion(), &buf))

	header := "P6\n8 4\n255\n"
	require.True(t, strings.HasPrefix(buf.String(), header))
	assert.Equal(t, len(header)+32*3, buf.Len())
}

func TestClosestAndList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, closest(config.Default(), "biomes", vec.Vec2Float{X: 1, Y: 2}, 3, &buf))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))

	buf.Reset()
	require.NoError(t, list(config.Default(), &buf))
	assert.Contains(t, buf.String(), "terrain")
	assert.Contains(t, buf.String(), "voronoi")
}
