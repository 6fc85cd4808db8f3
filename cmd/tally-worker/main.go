// tally-worker consumes transaction events from the queue and maintains
// the append-only audit trail in the blob store.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tally/internal/audit"
	"tally/internal/cli"
	"tally/internal/events"
	applog "tally/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	wlog := applog.New(applog.Config{Handler: logger.Handler(), Component: applog.ComponentWorker})

	if cfg.AMQPURL == "" {
		wlog.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	blobs, cleanup := cli.OpenBlobStore(logger, cfg)
	recorder := audit.NewRecorder(blobs, applog.New(applog.Config{Handler: logger.Handler()}))

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		if err := cleanup(); err != nil {
			logger.Error("Blob store close error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.ConsumeWithReconnect(gctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			func(event *events.TransactionEvent) error {
				return recorder.Record(gctx, event)
			})
	})

	wlog.Info("Audit worker started",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		"backend", cfg.DataBackend)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		wlog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	wlog.Info("Worker stopped gracefully")
}
