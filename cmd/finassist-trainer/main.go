// The trainer fits both models from a ledger snapshot and writes the
// artifacts to the model directory. It is a one-shot job, suitable for
// cron or a manual run after a bulk import.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"finassist/internal/backend"
	"finassist/internal/config"
	applog "finassist/internal/log"
	"finassist/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentTrainer)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.ModelDir, 0o755); err != nil {
		logger.Error("Failed to create model directory", "error", err, "model_dir", cfg.ModelDir)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	result, err := backend.Create(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	}()

	runID := uuid.NewString()
	logger.Info("Starting training run",
		applog.FieldRunID, runID,
		applog.FieldUser, cfg.TrainUser,
		applog.FieldBackend, cfg.DataBackend,
		"model_dir", cfg.ModelDir)

	trainWorker := worker.NewTrainWorker(result.Store, cfg.ModelDir, logger)
	if err := trainWorker.Train(ctx, cfg.TrainUser, runID); err != nil {
		logger.Error("Training run failed", applog.FieldRunID, runID, "error", err)
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		os.Exit(1)
	}
	logger.Info("Training run complete", applog.FieldRunID, runID)
}
