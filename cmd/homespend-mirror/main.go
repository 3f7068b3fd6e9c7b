package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"homespend/internal/config"
	applog "homespend/internal/log"
	"homespend/internal/mirror"
	"homespend/internal/store/googlesheets"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentMirror,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sheet, err := googlesheets.New(ctx, googlesheets.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	// The worker dials on demand: every reconnect after a broker drop gets
	// a fresh connection, channel, and topology.
	worker := mirror.NewWorker(func() (mirror.Consumer, error) {
		return mirror.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	}, sheet)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down mirror worker")
		return nil
	})

	logger.Info("Mirror worker started",
		applog.FieldQueue, cfg.AMQPQueue,
		"spreadsheet_id", cfg.GoogleSpreadsheetID)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mirror worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Mirror worker stopped gracefully")
}
