package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics инкапсулирует Prometheus-метрики генераторов шума.
// Все методы безопасны для nil-получателя: без метрик ничего не делают.
type Metrics struct {
	pointQueries   *prometheus.CounterVec
	regionQueries  *prometheus.CounterVec
	regionPoints   *prometheus.CounterVec
	regionDuration *prometheus.HistogramVec
	voronoiQueries *prometheus.CounterVec
	tileHits       prometheus.Counter
	tileMisses     prometheus.Counter
}

// New создаёт метрики и регистрирует их в reg (обычно prometheus.DefaultRegisterer).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pointQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "point_queries_total",
			Help:      "Число точечных запросов шума.",
		}, []string{"generator"}),
		regionQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "region_queries_total",
			Help:      "Число запросов шума по области.",
		}, []string{"generator", "dims"}),
		regionPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "region_points_total",
			Help:      "Суммарное число точек, посчитанных в запросах по области.",
		}, []string{"generator"}),
		regionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "procgen",
			Name:      "region_duration_seconds",
			Help:      "Длительность расчёта области.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"generator", "dims"}),
		voronoiQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "voronoi_queries_total",
			Help:      "Число запросов ближайших точек-признаков.",
		}, []string{"name"}),
		tileHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "tile_cache_hits_total",
			Help:      "Попадания в кеш тайлов.",
		}),
		tileMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "procgen",
			Name:      "tile_cache_misses_total",
			Help:      "Промахи кеша тайлов.",
		}),
	}

	reg.MustRegister(m.pointQueries, m.regionQueries, m.regionPoints, m.regionDuration,
		m.voronoiQueries, m.tileHits, m.tileMisses)
	return m
}

// ObservePoint учитывает точечный запрос
func (m *Metrics) ObservePoint(generator string) {
	if m == nil {
		return
	}
	m.pointQueries.WithLabelValues(generator).Inc()
}

// ObserveRegion учитывает запрос по области
func (m *Metrics) ObserveRegion(generator string, dims string, points int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.regionQueries.WithLabelValues(generator, dims).Inc()
	m.regionPoints.WithLabelValues(generator).Add(float64(points))
	m.regionDuration.WithLabelValues(generator, dims).Observe(elapsed.Seconds())
}

// ObserveVoronoi учитывает запрос ближайших признаков
func (m *Metrics) ObserveVoronoi(name string) {
	if m == nil {
		return
	}
	m.voronoiQueries.WithLabelValues(name).Inc()
}

// TileHit учитывает попадание в кеш тайлов
func (m *Metrics) TileHit() {
	if m == nil {
		return
	}
	m.tileHits.Inc()
}

// TileMiss учитывает промах кеша тайлов
func (m *Metrics) TileMiss() {
	if m == nil {
		return
	}
	m.tileMisses.Inc()
}
