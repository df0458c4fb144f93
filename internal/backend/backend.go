// Package backend creates the configured ledger store.
package backend

import (
	"context"
	"fmt"

	"finassist/internal/config"
	"finassist/internal/ledger"
	"finassist/internal/ledger/file"
	"finassist/internal/ledger/memory"
	"finassist/internal/ledger/postgres"
	"finassist/internal/ledger/sqlite"
	applog "finassist/internal/log"
)

// Type identifies a ledger store implementation.
type Type string

const (
	Memory   Type = "memory"
	File     Type = "file"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// Result bundles a store with its cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup ledger.CleanupFunc
}

// Create builds the store selected by the configuration. The memory
// backend scopes persistence to the process lifetime; the other three
// are durable across restarts.
func Create(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*Result, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentBackend)

	t := Type(cfg.DataBackend)
	switch t {
	case Memory:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil

	case File:
		store, err := file.New(cfg.FileDataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "data_dir", cfg.FileDataDir)
		return &Result{Store: store}, nil

	case SQLite:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case Postgres:
		store, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("Initialized Postgres backend")
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}
