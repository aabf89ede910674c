package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  rest_port: 9090
storage:
  path: /tmp/tiles
generators:
  - name: terrain
    kind: perlin
    seed: 42
    grid_dim: 128
    fbm:
      octaves: 4
      lacunarity: 2.0
      persistence: 0.5
    sampling:
      sample_rate: 4
      zoom: [0.01, 0.02, 0.03]
  - name: grain
    kind: white
voronoi:
  - name: biomes
    seed: 9
    metric: manhattan
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.GetRESTPort())
	assert.Equal(t, "/tmp/tiles", cfg.Storage.Path)
	require.Len(t, cfg.Generators, 2)

	g := cfg.Generators[0]
	assert.Equal(t, "terrain", g.Name)
	assert.Equal(t, int64(42), g.Seed)
	assert.Equal(t, 128, g.GridDim)
	assert.Equal(t, 4, g.FBm.Octaves)
	assert.Equal(t, 0.5, g.FBm.Persistence)
	assert.Equal(t, [3]float64{0.01, 0.02, 0.03}, g.Sampling.Zoom)

	require.Len(t, cfg.Voronoi, 1)
	assert.Equal(t, "manhattan", cfg.Voronoi[0].Metric)
}

func TestParse_RejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte("generators:\n  - {name: a, kind: perlin}\n  - {name: a, kind: white}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("generators:\n  - {name: a}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("voronoi:\n  - {seed: 1}\n"))
	assert.Error(t, err)
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("PROCGEN_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, cfg, "Без пути и ENV конфиг не загружается")

	path := filepath.Join(t.TempDir(), "procgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))
	t.Setenv("PROCGEN_CONFIG", path)

	cfg, err = Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Generators, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("PROCGEN_CONFIG", "")
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Generators)
}

func TestGetRESTPort_Fallbacks(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("PROCGEN_REST_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort())

	t.Setenv("PROCGEN_REST_PORT", "7000")
	assert.Equal(t, 7000, s.GetRESTPort())

	t.Setenv("PROCGEN_REST_PORT", "garbage")
	assert.Equal(t, 8088, s.GetRESTPort())

	assert.Equal(t, 1<<20, s.GetMaxRegionPoints())
}

func TestValidate_Biomes(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Biomes.Enabled())

	cfg.Biomes.Moisture = ""
	assert.Error(t, cfg.Validate(), "Нужны оба генератора")

	cfg.Biomes = BiomesConfig{Height: "terrain", Moisture: "missing"}
	assert.Error(t, cfg.Validate())

	cfg.Biomes = BiomesConfig{}
	assert.NoError(t, cfg.Validate())
}

func TestRedisConfig_GetAddr(t *testing.T) {
	t.Setenv("PROCGEN_REDIS_ADDR", "")
	r := RedisConfig{}
	assert.Equal(t, "", r.GetAddr())

	t.Setenv("PROCGEN_REDIS_ADDR", "redis:6379")
	assert.Equal(t, "redis:6379", r.GetAddr())

	r.Addr = "localhost:6379"
	assert.Equal(t, "localhost:6379", r.GetAddr())
}

func TestParse_RedisTTL(t *testing.T) {
	cfg, err := Parse([]byte("storage:\n  redis:\n    addr: localhost:6379\n    ttl: 90s\n"))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Storage.Redis.TTL)
}
