package generator

import (
	"runtime"

	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/storage"
)

type options struct {
	tiles   storage.TileRepo
	metrics *metrics.Metrics
	workers int
	logger  *logging.Logger
}

// Option настраивает генераторы и реестр
type Option func(*options)

// WithTiles включает кеш вычисленных областей
func WithTiles(repo storage.TileRepo) Option {
	return func(o *options) { o.tiles = repo }
}

// WithMetrics включает учёт запросов в Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithWorkers ограничивает параллелизм расчёта областей
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithLogger задаёт логгер
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		workers: runtime.GOMAXPROCS(0),
		logger:  logging.GetGeneratorLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
