package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации procgen.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Storage    StorageConfig     `yaml:"storage"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Logging    LoggingConfig     `yaml:"logging"`
	Generators []GeneratorConfig `yaml:"generators"`
	Voronoi    []VoronoiConfig   `yaml:"voronoi"`
	Biomes     BiomesConfig      `yaml:"biomes"`
}

type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
	// MaxRegionPoints ограничивает размер области в одном запросе
	MaxRegionPoints int `yaml:"max_region_points"`
}

type StorageConfig struct {
	// Path каталога BadgerDB; пусто и без in_memory — кеш в памяти процесса
	Path     string      `yaml:"path"`
	InMemory bool        `yaml:"in_memory"`
	Redis    RedisConfig `yaml:"redis"`
}

// RedisConfig описывает общий горячий кеш тайлов. Пустой Addr — Redis не используется.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// GetAddr возвращает адрес Redis с fallback на ENV PROCGEN_REDIS_ADDR
func (r *RedisConfig) GetAddr() string {
	if r.Addr != "" {
		return r.Addr
	}
	return os.Getenv("PROCGEN_REDIS_ADDR")
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// FBmConfig описывает фрактальную надстройку. Octaves == 0 — без fBm.
type FBmConfig struct {
	Octaves     int     `yaml:"octaves"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
}

// SamplingConfig описывает прореживание. SampleRate == 0 — без прореживания.
type SamplingConfig struct {
	SampleRate int        `yaml:"sample_rate"`
	Zoom       [3]float64 `yaml:"zoom"`
}

// GeneratorConfig описывает именованный генератор шума
type GeneratorConfig struct {
	Name string `yaml:"name"`
	// Kind: perlin, simplex, white, classic, opensimplex, cellular
	Kind     string         `yaml:"kind"`
	Seed     int64          `yaml:"seed"`
	GridDim  int            `yaml:"grid_dim"`
	Metric   string         `yaml:"metric"`
	Mode     string         `yaml:"mode"`
	FBm      FBmConfig      `yaml:"fbm"`
	Sampling SamplingConfig `yaml:"sampling"`
}

// VoronoiConfig описывает именованный поиск ближайших признаков
type VoronoiConfig struct {
	Name   string `yaml:"name"`
	Seed   int64  `yaml:"seed"`
	Metric string `yaml:"metric"`
}

// GetRESTPort возвращает REST порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "PROCGEN_REST_PORT", 8088)
}

// GetMaxRegionPoints возвращает лимит точек в области
func (s *ServerConfig) GetMaxRegionPoints() int {
	if s.MaxRegionPoints > 0 {
		return s.MaxRegionPoints
	}
	return 1 << 20
}

// BiomesConfig связывает классификатор биомов с генераторами высоты и влажности.
// Пустые имена — классификатор выключен.
type BiomesConfig struct {
	Height   string `yaml:"height"`
	Moisture string `yaml:"moisture"`
}

// Enabled сообщает, настроен ли классификатор
func (b BiomesConfig) Enabled() bool {
	return b.Height != "" && b.Moisture != ""
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает рабочую конфигурацию без файла
func Default() *Config {
	return &Config{
		Server:    ServerConfig{MaxRegionPoints: 1 << 20},
		Telemetry: TelemetryConfig{ServiceName: "procgen"},
		Logging:   LoggingConfig{Level: "info"},
		Generators: []GeneratorConfig{
			{
				Name: "terrain",
				Kind: "perlin",
				Seed: 42,
				FBm:  FBmConfig{Octaves: 6},
				Sampling: SamplingConfig{
					SampleRate: 4,
					Zoom:       [3]float64{0.05, 0.05, 0.05},
				},
			},
			{
				Name:     "moisture",
				Kind:     "classic",
				Seed:     84,
				Sampling: SamplingConfig{SampleRate: 4, Zoom: [3]float64{0.02, 0.02, 0.02}},
			},
			{
				Name:     "caves",
				Kind:     "simplex",
				Seed:     7,
				FBm:      FBmConfig{Octaves: 3},
				Sampling: SamplingConfig{SampleRate: 2, Zoom: [3]float64{0.05, 0.05, 0.05}},
			},
			{Name: "grain", Kind: "white", Seed: 1},
			{Name: "cells", Kind: "cellular", Seed: 3, Mode: "f2-f1"},
		},
		Voronoi: []VoronoiConfig{{Name: "biomes", Seed: 42}},
		Biomes:  BiomesConfig{Height: "terrain", Moisture: "moisture"},
	}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV PROCGEN_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PROCGEN_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse разбирает YAML и проверяет уникальность имён
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault — Load с откатом на Default, если конфиг не задан
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}

// Validate проверяет структурную корректность (имена, виды).
// Числовые предусловия проверяют конструкторы генераторов.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, g := range c.Generators {
		if g.Name == "" {
			return fmt.Errorf("generators[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("generators[%d]: duplicate name %q", i, g.Name)
		}
		seen[g.Name] = true
		if g.Kind == "" {
			return fmt.Errorf("generator %q: kind is required", g.Name)
		}
	}

	seen = make(map[string]bool)
	for i, v := range c.Voronoi {
		if v.Name == "" {
			return fmt.Errorf("voronoi[%d]: name is required", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("voronoi[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true
	}

	if c.Biomes.Height != "" || c.Biomes.Moisture != "" {
		if !c.Biomes.Enabled() {
			return fmt.Errorf("biomes: both height and moisture are required")
		}
		for _, name := range []string{c.Biomes.Height, c.Biomes.Moisture} {
			if !c.hasGenerator(name) {
				return fmt.Errorf("biomes: unknown generator %q", name)
			}
		}
	}
	return nil
}

func (c *Config) hasGenerator(name string) bool {
	for _, g := range c.Generators {
		if g.Name == name {
			return true
		}
	}
	return false
}
