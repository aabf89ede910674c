package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/middleware"
)

// RestServer представляет REST API сервер генераторов шума
type RestServer struct {
	router     *gin.Engine
	registry   *generator.Registry
	httpServer *http.Server
	maxPoints  int
	stats      *ProcessStats
	logger     *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port            string              // адрес для запуска сервера, например ":8088"
	Registry        *generator.Registry // реестр генераторов
	MaxRegionPoints int                 // лимит точек в одном запросе области
	// Registerer и Gatherer для HTTP-метрик и /metrics;
	// по умолчанию глобальный регистр Prometheus
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Registry == nil {
		return nil, fmt.Errorf("не задан реестр генераторов")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.MaxRegionPoints <= 0 {
		config.MaxRegionPoints = 1 << 20
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	otelRouter := otelgin.Middleware("procgen_api")
	router.Use(otelRouter)

	loggerMw := middleware.NewRequestLogger(config.Logger)
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("procgen_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:    router,
		registry:  config.Registry,
		maxPoints: config.MaxRegionPoints,
		stats:     NewProcessStats(),
		logger:    config.Logger,
	}
	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Настраиваем маршруты
	server.setupRoutes()

	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Группа API
	v1 := rs.router.Group("/api/v1")
	{
		v1.GET("/generators", rs.handleGenerators)
		v1.GET("/stats", rs.handleStats)

		noise := v1.Group("/noise/:name")
		noise.GET("/point", rs.handlePoint)
		noise.GET("/region", rs.handleRegion)

		v1.GET("/voronoi/:name/closest", rs.handleClosest)
		v1.GET("/biomes/region", rs.handleBiomes)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.httpServer.Addr)
	err := rs.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop корректно останавливает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
