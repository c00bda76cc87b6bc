package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"kucukaslan/gadsconversion/api"
	"kucukaslan/gadsconversion/broker"
	"kucukaslan/gadsconversion/buildinfo"
	"kucukaslan/gadsconversion/config"
	"kucukaslan/gadsconversion/database"
	_ "kucukaslan/gadsconversion/docs" // Import generated docs
	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/eventlog"
	"kucukaslan/gadsconversion/logger"
	"kucukaslan/gadsconversion/services"
	"kucukaslan/gadsconversion/transport"
)

// @title Google Ads Conversion Improver API
// @version 1.0
// @description Restates or enhances Google Ads conversions and escalates unknown conversions to offline click conversions
// @BasePath /
// @schemes http

const (
	idleTimeout     = 5 * time.Second
	outboundTimeout = 30 * time.Second
)

func main() {
	// Set application start time for accurate uptime tracking
	buildinfo.SetStartTime(time.Now())

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()

	info := buildinfo.GetInfo()
	logger.Info("Starting application",
		zap.String("version", info.Version),
		zap.String("commit", info.Commit),
		zap.String("build_date", info.BuildDate),
		zap.String("go_version", info.GoVersion),
		zap.String("hostname", info.Hostname))

	conversionCfg, err := cfg.Configuration()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	deps := services.Dependencies{
		Config:    conversionCfg,
		Logger:    logger.Named("conversion"),
		DebugMode: cfg.Logging.DebugMode,
	}
	health := api.HealthDependencies{}

	// Analytical log storage
	var storageSink eventlog.Sink
	var batcher *services.LogBatcher
	var bigQueryStore *database.BigQueryLogStore
	if conversionCfg.StorageLogMode == domain.LogModeDebug || conversionCfg.StorageLogMode == domain.LogModeAlways {
		switch cfg.Logging.StorageBackend {
		case config.StorageBackendBigQuery:
			bigQueryStore, err = database.NewBigQueryLogStore(context.Background(), &cfg.BigQuery)
			if err != nil {
				logger.Fatal("Failed to initialize BigQuery", zap.Error(err))
			}
			storageSink = eventlog.NewStorageSink(bigQueryStore)
		default:
			if err := database.InitClickHouse(&cfg.ClickHouse); err != nil {
				logger.Fatal("Failed to initialize ClickHouse", zap.Error(err))
			}
			store := database.GetClickHouseDB()
			batcher = services.NewLogBatcher(
				cfg.ClickHouse.BufferChannelCapacity,
				cfg.ClickHouse.BatchSize,
				time.Duration(cfg.ClickHouse.FlushIntervalSeconds)*time.Second,
				store,
				logger.Named("batcher"),
			)
			batcher.Start()
			storageSink = eventlog.NewStorageSink(batcher)
			deps.Metrics = store
			health.ClickHouse = database.ClickHouseHealthCheck
		}
	}
	deps.EventLog = eventlog.NewDispatcher(eventlog.NewConsoleSink(logger.Logger), storageSink, logger.Named("eventlog"), 0)

	// Replay guard
	if cfg.Redis.Enabled {
		if err := database.InitRedis(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		deps.Replay = database.GetReplayStore(cfg.Redis.ReplayTTLMS)
		health.Redis = database.RedisHealthCheck
	}

	deps.Transport = transport.NewFiberTransport(
		transport.NewLimiter(cfg.GoogleAds.RequestsPerSecond, cfg.GoogleAds.RequestBurst),
		outboundTimeout,
	)
	deps.Endpoints = transport.NewGoogleAds(cfg.GoogleAds.APIBaseURL, transport.NewGoogleTokenProvider())

	conversionService, err := services.NewConversionService(deps)
	if err != nil {
		logger.Fatal("Failed to initialize ConversionService", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumerDone := make(chan struct{})
	if cfg.RabbitMQ.Enabled {
		consumer := broker.NewConsumer(&cfg.RabbitMQ, conversionService, logger.Logger)
		health.RabbitMQ = consumer.HealthCheck
		go func() {
			defer close(consumerDone)
			consumer.Run(ctx)
		}()
	} else {
		close(consumerDone)
	}

	httpHandler := api.NewEventHandler(conversionService, cfg.GoogleAds.BulkMaxEvents)

	app := fiber.New(fiber.Config{
		IdleTimeout: idleTimeout,
	})

	app.Use(recover.New())

	// redirect to swagger docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/", fiber.StatusMovedPermanently)
	})

	app.Get("/health", api.NewHealthCheck(health))
	app.Get("/prometheus", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Post("/events", httpHandler.PostEvent)
	app.Post("/events/bulk", httpHandler.PostEventsBulk)
	app.Get("/metrics", httpHandler.GetMetrics)

	// Listen from a different goroutine
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Gracefully shutting down...")
	_ = app.Shutdown()
	<-consumerDone

	logger.Info("Running cleanup tasks...")

	// Wait for detached chains and pending log writes
	if err := services.ShutdownConversionService(conversionService); err != nil {
		logger.Error("Error shutting down conversion service", zap.Error(err))
	}

	// Flush buffered log rows before the connection goes away
	if batcher != nil {
		if err := batcher.Shutdown(); err != nil {
			logger.Error("Error shutting down log batcher", zap.Error(err))
		}
	}

	if err := database.CloseClickHouse(); err != nil {
		logger.Error("Error closing ClickHouse", zap.Error(err))
	}
	if bigQueryStore != nil {
		if err := bigQueryStore.Close(); err != nil {
			logger.Error("Error closing BigQuery", zap.Error(err))
		}
	}
	if err := database.CloseRedis(); err != nil {
		logger.Error("Error closing Redis", zap.Error(err))
	}

	logger.Info("Fiber was successful shutdown.")
}
