package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"homespend/internal/config"
	"homespend/internal/core"
	apphttp "homespend/internal/http"
	applog "homespend/internal/log"
	"homespend/internal/mirror"
	"homespend/internal/store"
	"homespend/internal/store/googlesheets"
	"homespend/internal/store/memory"
	"homespend/internal/store/sqlite"
)

func main() {
	// .env is for local development; absent in production is fine
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rows, cleanup, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.MirrorEnabled() {
		client, err := mirror.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		rows = mirror.NewStore(rows, client)
		logger.Info("Mirroring enabled", applog.FieldQueue, cfg.AMQPQueue)
	}

	principal := core.Principal{ID: cfg.DefaultUserID, Name: cfg.DefaultUserName}
	srv := apphttp.NewServer(":"+cfg.Port, rows, principal, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting homespend server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func openBackend(ctx context.Context, cfg *config.Config, logger *applog.Logger) (store.RowStore, func(), error) {
	switch cfg.DataBackend {
	case config.BackendSheets:
		st, err := googlesheets.New(ctx, googlesheets.Options{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Google Sheets backend initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return st, func() {}, nil
	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite backend initialized", "path", cfg.SQLiteDBPath)
		return st, func() { st.Close() }, nil
	default:
		logger.Info("Memory backend initialized")
		return memory.New(), func() {}, nil
	}
}
