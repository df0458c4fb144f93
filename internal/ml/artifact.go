package ml

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside the model directory.
const (
	CategorizerArtifact = "categorizer.gob"
	ForecasterArtifact  = "forecaster.gob"
)

// SaveArtifact gob-encodes a trained model to path via a temp file and
// rename, so a concurrent loader never reads a half-written artifact.
// Gob round-trips float64 coefficients exactly.
func SaveArtifact(path string, model any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(model); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// LoadCategorizer reads a categorizer artifact written by SaveArtifact.
func LoadCategorizer(path string) (*Categorizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open categorizer artifact: %w", err)
	}
	defer f.Close()

	var model Categorizer
	if err := gob.NewDecoder(f).Decode(&model); err != nil {
		return nil, fmt.Errorf("decode categorizer artifact: %w", err)
	}
	return &model, nil
}

// LoadForecaster reads a forecaster artifact written by SaveArtifact.
func LoadForecaster(path string) (*Forecaster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forecaster artifact: %w", err)
	}
	defer f.Close()

	var model Forecaster
	if err := gob.NewDecoder(f).Decode(&model); err != nil {
		return nil, fmt.Errorf("decode forecaster artifact: %w", err)
	}
	return &model, nil
}
