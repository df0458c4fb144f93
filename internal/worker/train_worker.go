// Package worker runs the offline training jobs. Training consumes a
// snapshot of a ledger and produces the two deployable artifacts; it
// never mutates the ledger and never runs inside a request.
package worker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"finassist/internal/amqp"
	"finassist/internal/core"
	"finassist/internal/ledger"
	applog "finassist/internal/log"
	"finassist/internal/ml"
)

// TrainWorker retrains both models from a store snapshot and writes
// the artifacts atomically into the model directory.
type TrainWorker struct {
	store    ledger.Store
	modelDir string
	logger   *applog.Logger
}

func NewTrainWorker(store ledger.Store, modelDir string, logger *applog.Logger) *TrainWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &TrainWorker{
		store:    store,
		modelDir: modelDir,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleRetrain processes one retrain message. Insufficient data is
// reported but not treated as a worker failure: a previously deployed
// artifact stays valid, and requeueing would not make the data grow.
func (w *TrainWorker) HandleRetrain(ctx context.Context, msg *amqp.RetrainMessage) error {
	runID := uuid.NewString()
	w.logger.InfoContext(ctx, "Processing retrain message",
		applog.FieldRunID, runID,
		applog.FieldUser, msg.User,
		"trigger", msg.Trigger)

	err := w.Train(ctx, msg.User, runID)
	if errors.Is(err, ml.ErrTraining) {
		w.logger.WarnContext(ctx, "Retrain skipped, insufficient data",
			applog.FieldRunID, runID, applog.FieldError, err)
		return nil
	}
	return err
}

// Train snapshots the user's ledger and fits both models concurrently.
// Either failing fails the run; artifacts already on disk are left in
// place because SaveArtifact replaces via rename only on success.
func (w *TrainWorker) Train(ctx context.Context, user, runID string) error {
	raw, err := w.store.Load(ctx, user)
	if err != nil {
		return fmt.Errorf("snapshot ledger: %w", err)
	}
	records := core.NormalizeAll(raw)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.trainCategorizer(ctx, records, runID)
	})
	g.Go(func() error {
		return w.trainForecaster(ctx, records, user, runID)
	})
	return g.Wait()
}

func (w *TrainWorker) trainCategorizer(ctx context.Context, records []core.Record, runID string) error {
	model, err := ml.TrainCategorizer(records)
	if err != nil {
		return fmt.Errorf("train categorizer: %w", err)
	}
	path := filepath.Join(w.modelDir, ml.CategorizerArtifact)
	if err := ml.SaveArtifact(path, model); err != nil {
		return fmt.Errorf("save categorizer: %w", err)
	}
	w.logger.InfoContext(ctx, "Categorizer trained",
		applog.FieldRunID, runID,
		applog.FieldArtifact, path,
		"classes", len(model.Classes),
		"vocabulary", len(model.Vec.Vocab))
	return nil
}

func (w *TrainWorker) trainForecaster(ctx context.Context, records []core.Record, user string, runID string) error {
	series := ml.CollapseMonths(core.ByMonth(core.Ledger{User: user, Records: records}))
	model, err := ml.TrainForecaster(series)
	if err != nil {
		return fmt.Errorf("train forecaster: %w", err)
	}
	path := filepath.Join(w.modelDir, ml.ForecasterArtifact)
	if err := ml.SaveArtifact(path, model); err != nil {
		return fmt.Errorf("save forecaster: %w", err)
	}
	w.logger.InfoContext(ctx, "Forecaster trained",
		applog.FieldRunID, runID,
		applog.FieldArtifact, path,
		"months", len(series))
	return nil
}
