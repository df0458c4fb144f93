package worker

import (
	"context"
	"path/filepath"
	"testing"

	"finassist/internal/amqp"
	"finassist/internal/core"
	"finassist/internal/ledger/memory"
	"finassist/internal/ml"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	records := []core.Record{
		{Date: core.ParseDate("2024-01-05"), Description: "coffee shop", Amount: core.Money{Cents: 450}, Category: "Food", Month: "2024-01"},
		{Date: core.ParseDate("2024-01-20"), Description: "bus ticket", Amount: core.Money{Cents: 200}, Category: "Transport", Month: "2024-01"},
		{Date: core.ParseDate("2024-02-01"), Description: "coffee", Amount: core.Money{Cents: 300}, Category: "Food", Month: "2024-02"},
	}
	if err := store.Save(context.Background(), "u1", records); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestTrainWritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	w := NewTrainWorker(seedStore(t), dir, nil)

	if err := w.Train(context.Background(), "u1", "run-1"); err != nil {
		t.Fatalf("train: %v", err)
	}

	cat, err := ml.LoadCategorizer(filepath.Join(dir, ml.CategorizerArtifact))
	if err != nil {
		t.Fatalf("load categorizer: %v", err)
	}
	if got := cat.Predict("coffee"); got != "Food" {
		t.Fatalf("predict = %q, want Food", got)
	}

	fore, err := ml.LoadForecaster(filepath.Join(dir, ml.ForecasterArtifact))
	if err != nil {
		t.Fatalf("load forecaster: %v", err)
	}
	if fore.Predict(3) == 0 {
		t.Fatal("forecaster looks unfitted")
	}
}

func TestHandleRetrainToleratesSparseData(t *testing.T) {
	store := memory.New() // empty ledger: training cannot succeed
	w := NewTrainWorker(store, t.TempDir(), nil)

	err := w.HandleRetrain(context.Background(), amqp.NewRetrainMessage("u1", "add"))
	if err != nil {
		t.Fatalf("sparse data must not fail the worker: %v", err)
	}
}

func TestTrainDoesNotMutateLedger(t *testing.T) {
	store := seedStore(t)
	w := NewTrainWorker(store, t.TempDir(), nil)
	ctx := context.Background()

	before, _ := store.Load(ctx, "u1")
	if err := w.Train(ctx, "u1", "run-2"); err != nil {
		t.Fatalf("train: %v", err)
	}
	after, _ := store.Load(ctx, "u1")
	if len(before) != len(after) {
		t.Fatalf("training mutated the ledger: %d vs %d records", len(before), len(after))
	}
}
