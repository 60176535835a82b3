package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/flight-weather-insights/internal/amadeus"
	httpapi "github.com/i474232898/flight-weather-insights/internal/api/http"
	"github.com/i474232898/flight-weather-insights/internal/config"
	"github.com/i474232898/flight-weather-insights/internal/pipeline"
	"github.com/i474232898/flight-weather-insights/internal/reference"
	"github.com/i474232898/flight-weather-insights/internal/scheduler"
	"github.com/i474232898/flight-weather-insights/internal/store"
	"github.com/i474232898/flight-weather-insights/internal/weather/providers"
)

const serviceName = "flight-weather-insights"

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger isn't built yet
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	logr := zl.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	flightAPI, err := amadeus.NewClient(context.Background(), httpClient,
		cfg.Amadeus.ClientID, cfg.Amadeus.ClientSecret, cfg.Amadeus.BaseURL)
	if err != nil {
		logr.Fatalw("failed to create amadeus client", "error", err)
	}
	forecasts := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeather.APIKey, cfg.OpenWeather.BaseURL)

	// Location search cache: Redis when configured, memory otherwise.
	var searchCache reference.SearchCache = reference.NewMemorySearchCache()
	if cfg.RedisAddr != "" {
		rc, err := reference.NewRedisSearchCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logr)
		if err != nil {
			logr.Warnw("redis unavailable, using in-memory location cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rc.Close()
			searchCache = rc
		}
	}
	searcher := reference.NewSearcher(flightAPI, searchCache, cfg.LocationCacheTTL, logr)

	// Sinks. The memory store backs the export endpoints and is always on.
	exports := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	sinks := []store.Named{{Name: "memory", Sink: exports}}
	if cfg.ExportDir != "" {
		fs, err := store.NewFileSink(cfg.ExportDir)
		if err != nil {
			logr.Fatalw("failed to create file sink", "dir", cfg.ExportDir, "error", err)
		}
		sinks = append(sinks, store.Named{Name: "file", Sink: fs})
	}
	if cfg.SQLitePath != "" {
		db, err := store.NewSQLiteSink(cfg.SQLitePath)
		if err != nil {
			logr.Fatalw("failed to open sqlite sink", "path", cfg.SQLitePath, "error", err)
		}
		defer db.Close()
		sinks = append(sinks, store.Named{Name: "sqlite", Sink: db})
	}
	if len(cfg.KafkaBrokers) > 0 {
		ks, err := store.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logr.Fatalw("failed to create kafka sink", "error", err)
		}
		defer ks.Close()
		sinks = append(sinks, store.Named{Name: "kafka", Sink: ks})
	}

	opts := []pipeline.Option{
		pipeline.WithDays(cfg.HorizonDays),
		pipeline.WithMaxOffers(cfg.MaxOffers),
		pipeline.WithSink(store.NewMultiSink(logr, sinks...)),
		pipeline.WithLogger(logr),
	}
	if cfg.GeocoderAPIKey != "" {
		opts = append(opts, pipeline.WithGeocoder(reference.NewGoogleGeocoder(cfg.GeocoderAPIKey)))
	}
	runs := pipeline.New(flightAPI, flightAPI, forecasts, opts...)

	// Scheduler that periodically searches the configured routes.
	sched := scheduler.New(cfg.SearchRoutes, cfg.SearchInterval, cfg.SearchLeadDays, runs, logr)
	if err := sched.Start(); err != nil {
		logr.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// a search makes several sequential outbound calls
		WriteTimeout: 2 * time.Minute,
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
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Locations: searcher,
		Searches:  runs,
		Exports:   exports,
	})

	go func() {
		logr.Infow("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logr.Errorw("fiber server stopped", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logr.Errorw("error during shutdown", "error", err)
	}
}
