package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/procgen/internal/api"
	"github.com/annel0/procgen/internal/config"
	"github.com/annel0/procgen/internal/generator"
	"github.com/annel0/procgen/internal/logging"
	"github.com/annel0/procgen/internal/metrics"
	"github.com/annel0/procgen/internal/observability"
	"github.com/annel0/procgen/internal/sampling"
	"github.com/annel0/procgen/internal/storage"
	"github.com/annel0/procgen/internal/vec"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (falls back to $PROCGEN_CONFIG, then defaults)")
		command    = flag.String("cmd", "serve", "Command: serve, list, render, biomes, closest")
		genName    = flag.String("gen", "terrain", "Generator (render) or voronoi (closest) name")
		minX       = flag.Int("min-x", 0, "Region min X")
		minY       = flag.Int("min-y", 0, "Region min Y")
		maxX       = flag.Int("max-x", 255, "Region max X")
		maxY       = flag.Int("max-y", 255, "Region max Y")
		x          = flag.Float64("x", 0, "Query X (closest)")
		y          = flag.Float64("y", 0, "Query Y (closest)")
		n          = flag.Int("n", 1, "Number of features (closest)")
		output     = flag.String("o", "-", "Output file for render/biomes ('-' for stdout)")
	)
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := setupLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	region := sampling.Region2{Min: vec.Vec2{X: *minX, Y: *minY}, Max: vec.Vec2{X: *maxX, Y: *maxY}}

	switch *command {
	case "serve":
		err = serve(cfg)
	case "list":
		err = list(cfg, os.Stdout)
	case "render":
		err = withOutput(*output, func(w io.Writer) error {
			return render(cfg, *genName, region, w)
		})
	case "biomes":
		err = withOutput(*output, func(w io.Writer) error {
			return renderBiomes(cfg, region, w)
		})
	case "closest":
		err = closest(cfg, *genName, vec.Vec2Float{X: *x, Y: *y}, *n, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("❌ %s: %v", *command, err)
	}
}

// setupLogging применяет уровень и каталог логов из конфигурации
func setupLogging(cfg config.LoggingConfig) error {
	logging.SetLogDir(cfg.Dir)
	if err := logging.InitDefaultLogger("procgen"); err != nil {
		return err
	}
	if cfg.Level == "" {
		return nil
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logging.SetDefaultLevel(level)
	logging.GetLoggerManager().SetConsoleLevel(level)
	return nil
}

// withOutput открывает файл вывода или использует stdout
func withOutput(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// serve запускает REST API до получения SIGINT/SIGTERM
func serve(cfg *config.Config) error {
	logging.Info("🌍 Запуск procgen сервера...")

	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Error("❌ Ошибка остановки телеметрии: %v", err)
		}
	}()

	tiles, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("хранилище тайлов: %w", err)
	}
	defer tiles.Close()

	registry := generator.NewRegistry(
		generator.WithTiles(tiles),
		generator.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	)
	if err := registry.Build(cfg); err != nil {
		return err
	}
	logging.Info("✅ Генераторов: %d, voronoi: %d", len(registry.List()), len(registry.VoronoiNames()))

	port := cfg.Server.GetRESTPort()
	server, err := api.NewRestServer(api.Config{
		Port:            fmt.Sprintf(":%d", port),
		Registry:        registry,
		MaxRegionPoints: cfg.Server.GetMaxRegionPoints(),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logging.Info("   🌐 REST API: http://localhost:%d/api/v1/generators", port)
	logging.Info("   ❤️  Health check: http://localhost:%d/health", port)
	logging.Info("   📈 Метрики: http://localhost:%d/metrics", port)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
	case err := <-errCh:
		return err
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
	return nil
}

// buildRegistry собирает реестр без кеша и метрик для офлайн-команд
func buildRegistry(cfg *config.Config) (*generator.Registry, error) {
	registry := generator.NewRegistry()
	if err := registry.Build(cfg); err != nil {
		return nil, err
	}
	return registry, nil
}
