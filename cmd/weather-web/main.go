package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/tuannm-dev/weather-web/internal/api/http"
	"github.com/tuannm-dev/weather-web/internal/cache"
	"github.com/tuannm-dev/weather-web/internal/config"
	"github.com/tuannm-dev/weather-web/internal/logger"
	"github.com/tuannm-dev/weather-web/internal/observability"
	"github.com/tuannm-dev/weather-web/internal/scheduler"
	"github.com/tuannm-dev/weather-web/internal/weather"
	"github.com/tuannm-dev/weather-web/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logg.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	// Cache shared by the three weather sub-resources.
	store := cache.New(cfg.CacheTTL)

	// Upstream client with an explicit per-call timeout.
	client := providers.NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.WeatherLang, cfg.HTTPTimeout, logg, metrics)

	// Core service orchestrating cache, client, and normalizers.
	service := weather.NewService(store, client, logg, metrics)

	// Periodic sweep evicting expired entries independent of read traffic.
	sweeper := scheduler.New(store, cfg.CacheSweepInterval, logg, metrics)
	if err := sweeper.Start(); err != nil {
		logg.Fatalw("failed to start cache sweeper", "error", err)
	}
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-web",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-web",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		Production: cfg.IsProduction(),
	})

	go func() {
		logg.Infow("http server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Errorw("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Errorw("error during shutdown", "error", err)
	}
}
