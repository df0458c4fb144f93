package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/core"
)

func labeled(desc, category string) core.Record {
	return core.Record{Description: desc, Category: category, Amount: core.Money{Cents: 100}}
}

func TestTrainCategorizerErrors(t *testing.T) {
	_, err := TrainCategorizer(nil)
	require.ErrorIs(t, err, ErrTraining, "empty set must fail training")

	_, err = TrainCategorizer([]core.Record{
		labeled("coffee", "Food"),
		labeled("pizza", "Food"),
	})
	require.ErrorIs(t, err, ErrTraining, "single-class set must fail training")
}

func TestPredictLearnedLabels(t *testing.T) {
	model, err := TrainCategorizer([]core.Record{
		labeled("coffee shop", "Food"),
		labeled("bus ticket", "Transport"),
		labeled("coffee", "Food"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Food", model.Predict("coffee"))
	assert.Equal(t, "Transport", model.Predict("bus"))
	assert.Equal(t, "Food", model.Predict("morning coffee shop run"))
}

func TestPredictUnseenTextFallsBackToPrior(t *testing.T) {
	model, err := TrainCategorizer([]core.Record{
		labeled("coffee shop", "Food"),
		labeled("bus ticket", "Transport"),
		labeled("coffee", "Food"),
	})
	require.NoError(t, err)

	// "latte" shares no vocabulary with the training set; the majority
	// class wins, and the answer is always a trained label.
	assert.Equal(t, "Food", model.Predict("latte"))
}

func TestPredictNeverReturnsUnseenLabel(t *testing.T) {
	model, err := TrainCategorizer([]core.Record{
		labeled("rent january", "Housing"),
		labeled("groceries", "Food"),
		labeled("rent february", "Housing"),
	})
	require.NoError(t, err)

	trained := map[string]bool{"Housing": true, "Food": true}
	for _, desc := range []string{"rent", "groceries", "", "совершенно unrelated"} {
		assert.True(t, trained[model.Predict(desc)], "prediction for %q outside trained label set", desc)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"coffee", "shop", "42"}, tokenize("Coffee, SHOP! 42 x"))
	assert.Empty(t, tokenize("a !"))
}
