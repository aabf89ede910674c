package generator

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/vec"
	"github.com/annel0/procgen/internal/voronoi"
)

var (
	// ErrUnknownGenerator — генератор с таким именем не зарегистрирован
	ErrUnknownGenerator = errors.New("unknown generator")
	// ErrUnknownVoronoi — поиск признаков с таким именем не зарегистрирован
	ErrUnknownVoronoi = errors.New("unknown voronoi")
)

// Registry хранит именованные генераторы и экземпляры Voronoi.
// Заполняется до начала обслуживания запросов, далее только читается.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]*Generator
	voronoi    map[string]*voronoi.Voronoi
	biomes     *BiomeClassifier
	opts       []Option
	metrics    *metrics.Metrics
}

// NewRegistry создаёт пустой реестр. Опции применяются ко всем
// генераторам, собранным через Build.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		generators: make(map[string]*Generator),
		voronoi:    make(map[string]*voronoi.Voronoi),
		opts:       opts,
		metrics:    buildOptions(opts).metrics,
	}
}

// Build собирает все генераторы, Voronoi и классификатор биомов из конфигурации
func (r *Registry) Build(cfg *config.Config) error {
	for _, gc := range cfg.Generators {
		g, err := New(gc, r.opts...)
		if err != nil {
			return err
		}
		if err := r.Register(g); err != nil {
			return err
		}
	}

	for _, vc := range cfg.Voronoi {
		metric, err := voronoi.ParseMetric(vc.Metric)
		if err != nil {
			return fmt.Errorf("voronoi %q: %w", vc.Name, err)
		}
		v, err := voronoi.New(vc.Seed, voronoi.WithMetric(metric))
		if err != nil {
			return fmt.Errorf("voronoi %q: %w", vc.Name, err)
		}
		if err := r.RegisterVoronoi(vc.Name, v); err != nil {
			return err
		}
	}

	if cfg.Biomes.Enabled() {
		height, err := r.Get(cfg.Biomes.Height)
		if err != nil {
			return fmt.Errorf("biomes: %w", err)
		}
		moisture, err := r.Get(cfg.Biomes.Moisture)
		if err != nil {
			return fmt.Errorf("biomes: %w", err)
		}
		classifier, err := NewBiomeClassifier(height, moisture)
		if err != nil {
			return err
		}
		r.mu.Lock()
		r.biomes = classifier
		r.mu.Unlock()
	}
	return nil
}

// Register добавляет генератор
func (r *Registry) Register(g *Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[g.Name()]; exists {
		return fmt.Errorf("генератор %q уже зарегистрирован", g.Name())
	}
	r.generators[g.Name()] = g
	return nil
}

// RegisterVoronoi добавляет именованный экземпляр Voronoi
func (r *Registry) RegisterVoronoi(name string, v *voronoi.Voronoi) error {
	if name == "" || v == nil {
		return fmt.Errorf("пустое имя или nil voronoi")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.voronoi[name]; exists {
		return fmt.Errorf("voronoi %q уже зарегистрирован", name)
	}
	r.voronoi[name] = v
	return nil
}

// Get возвращает генератор по имени
func (r *Registry) Get(name string) (*Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
	return g, nil
}

// List возвращает описания генераторов, отсортированные по имени
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.generators))
	for _, g := range r.generators {
		infos = append(infos, g.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// VoronoiNames возвращает отсортированные имена экземпляров Voronoi
func (r *Registry) VoronoiNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.voronoi))
	for name := range r.voronoi {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Closest ищет n ближайших признаков в указанном экземпляре Voronoi
func (r *Registry) Closest(name string, at vec.Vec2Float, n int) ([]voronoi.Feature, error) {
	r.mu.RLock()
	v, ok := r.voronoi[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoronoi, name)
	}
	r.metrics.ObserveVoronoi(name)
	return v.ClosestPoints(at, n)
}

// Biomes возвращает классификатор биомов или nil, если он не настроен
func (r *Registry) Biomes() *BiomeClassifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.biomes
}
