package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"tally/internal/app"
	"tally/internal/charts"
	"tally/internal/cli"
	"tally/internal/events"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	applog "tally/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	blobs, cleanup := cli.OpenBlobStore(logger, cfg)

	// Event publishing is optional; the ledger works without a broker.
	var publisher app.Publisher
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			eventsClient = client
			publisher = client
			logger.Info("Initialized AMQP events",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	renderer := charts.NewWebRenderer()
	store := ledger.NewStore(blobs)
	controller := app.NewController(store, renderer, publisher, applog.New(applog.Config{Handler: logger.Handler()}))

	if err := controller.Init(context.Background()); err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, controller, applog.New(applog.Config{Handler: logger.Handler()}))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		controller.Close()
		if eventsClient != nil {
			if err := eventsClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if err := cleanup(); err != nil {
			logger.Error("Blob store close error", "error", err)
		}
	})

	logger.Info("Starting tally server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"currency", store.Currency())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
