// The worker consumes retrain messages from the queue and refreshes
// the model artifacts. Run it alongside the API server whenever AMQP
// is configured.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"finassist/internal/amqp"
	"finassist/internal/backend"
	"finassist/internal/config"
	applog "finassist/internal/log"
	"finassist/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.ModelDir, 0o755); err != nil {
		logger.Error("Failed to create model directory", "error", err, "model_dir", cfg.ModelDir)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
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

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		os.Exit(1)
	}
	defer client.Close()

	trainWorker := worker.NewTrainWorker(result.Store, cfg.ModelDir, logger)

	logger.Info("Worker consuming retrain messages",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue,
		applog.FieldBackend, cfg.DataBackend)
	if err := client.Consume(ctx, trainWorker.HandleRetrain); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped with error", "error", err)
		client.Close()
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
