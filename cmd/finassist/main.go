package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finassist/internal/amqp"
	"finassist/internal/backend"
	"finassist/internal/config"
	apphttp "finassist/internal/http"
	applog "finassist/internal/log"
	"finassist/internal/ml"
	"finassist/internal/service"
)

func main() {
	// Load .env for local development (ignore errors in production)
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

	result, err := backend.Create(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// Retrain trigger is optional; without AMQP the trainer binary
	// still covers offline training.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without retrain trigger", "error", err)
		} else {
			defer events.Close()
			logger.Info("Initialized AMQP retrain trigger", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ledgers := service.NewLedgerService(result.Store, events, logger)
	views := service.NewViewService(ledgers, logger)
	assistant := service.NewAssistant(ledgers, views, logger)
	loadArtifacts(cfg, assistant, logger)

	srv := apphttp.NewServer(":"+cfg.Port, assistant, logger, cfg.RequestTimeout)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

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

	logger.Info("Starting finassist server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		"model_dir", cfg.ModelDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	<-ctx.Done()
	logger.Info("Server stopped")
}

// loadArtifacts installs previously trained models if present. Missing
// artifacts are expected on first boot; inference reports itself
// unavailable until a training run deploys them.
func loadArtifacts(cfg *config.Config, assistant *service.Assistant, logger *applog.Logger) {
	categorizer, err := ml.LoadCategorizer(cfg.CategorizerPath())
	if err != nil {
		logger.Warn("Categorizer artifact not loaded", "path", cfg.CategorizerPath(), "error", err)
	}
	forecaster, err := ml.LoadForecaster(cfg.ForecasterPath())
	if err != nil {
		logger.Warn("Forecaster artifact not loaded", "path", cfg.ForecasterPath(), "error", err)
	}
	assistant.SetModels(categorizer, forecaster)
	if categorizer != nil || forecaster != nil {
		logger.Info("Model artifacts loaded",
			"categorizer", categorizer != nil,
			"forecaster", forecaster != nil)
	}
}
