package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recordweb/internal/client"
	"recordweb/internal/config"
	handlers "recordweb/internal/http/handler"
	"recordweb/internal/http/middleware"
	"recordweb/internal/model"
	"recordweb/internal/otel"
	"recordweb/internal/view"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	shutdown, err := otel.Init(context.Background(), logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	engine, err := view.New()
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	upstream, err := client.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register client metrics: %v", err)
	}
	inbound, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	// One API client per mounted resource; all share the base URL and timeout.
	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	screens := make([]handlers.Screen, 0, len(cfg.Variants))
	for _, name := range cfg.Variants {
		res, err := model.Lookup(name)
		if err != nil {
			log.Fatalf("invalid APP_VARIANTS: %v", err)
		}
		screens = append(screens, handlers.Screen{
			Resource: res,
			Client:   client.New(cfg.API.BaseURL, res, client.WithTimeout(timeout), client.WithMetrics(upstream)),
		})
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		Views:        engine,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	if cfg.MetricsEnabled {
		app.Use(inbound.Handler())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	handlers.RegisterRoutes(app, screens, logger)

	logger.Info("starting server", "addr", ":"+cfg.Port, "app_host", cfg.AppHost, "api_base_url", cfg.API.BaseURL, "variants", cfg.Variants)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
