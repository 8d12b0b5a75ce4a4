package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/imatskiv/cityweather/internal/api/http"
	"github.com/imatskiv/cityweather/internal/cache"
	"github.com/imatskiv/cityweather/internal/config"
	"github.com/imatskiv/cityweather/internal/logger"
	"github.com/imatskiv/cityweather/internal/prefs"
	"github.com/imatskiv/cityweather/internal/refresher"
	"github.com/imatskiv/cityweather/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debugw("no .env file loaded", "error", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Bounded icon cache shared by all lookups.
	icons := cache.NewLRU(cfg.IconCacheCapacity)

	geocoder := weather.NewGeocodingClient(httpClient, cfg.GeocodeBaseURL, cfg.OpenWeatherAPIKey, cfg.GeocodeLimit)
	client := weather.NewClient(httpClient, cfg.WeatherBaseURL, cfg.IconBaseURL, cfg.OpenWeatherAPIKey, icons)

	// Core pipeline composing geocoding, weather and icon resolution.
	orchestrator := weather.NewOrchestrator(geocoder, client)

	// Last searched city preference, read at startup.
	prefStore := prefs.NewStore(cfg.LastCityFile)
	if city := prefStore.LastCity(); city != "" {
		logger.Infow("last searched city restored", "city", city)
	}

	// Background refresher keeping caches warm for the last city.
	refr := refresher.New(orchestrator, prefStore, cfg.RefreshInterval)
	if err := refr.Start(); err != nil {
		logger.Fatalw("failed to start refresher", "error", err)
	}
	defer refr.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "cityweather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "cityweather",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, orchestrator, prefStore)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorw("error during shutdown", "error", err)
	}
}
