package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/core"
)

func TestTrainForecasterErrors(t *testing.T) {
	_, err := TrainForecaster(nil)
	require.ErrorIs(t, err, ErrTraining)

	_, err = TrainForecaster([]MonthPoint{{MonthIndex: 1, Total: 100}})
	require.ErrorIs(t, err, ErrTraining, "a line cannot be fit to one point")
}

func TestLinearFit(t *testing.T) {
	model, err := TrainForecaster([]MonthPoint{
		{MonthIndex: 1, Total: 100},
		{MonthIndex: 2, Total: 200},
		{MonthIndex: 3, Total: 300},
	})
	require.NoError(t, err)
	assert.InDelta(t, 400, model.Predict(4), 1)
	assert.InDelta(t, 100, model.Slope, 1e-9)
}

func TestDegenerateFitMayGoNegative(t *testing.T) {
	model, err := TrainForecaster([]MonthPoint{
		{MonthIndex: 1, Total: 500},
		{MonthIndex: 2, Total: 100},
	})
	require.NoError(t, err)
	// Output is advisory; no sign bound is enforced.
	assert.Less(t, model.Predict(12), 0.0)
}

func TestCollapseMonths(t *testing.T) {
	series := []core.MonthAmount{
		{Month: "2023-01", Amount: core.Money{Cents: 10000}},
		{Month: "2024-01", Amount: core.Money{Cents: 20000}},
		{Month: "2024-02", Amount: core.Money{Cents: 5000}},
		{Month: "", Amount: core.Money{Cents: 999}},
	}
	points := CollapseMonths(series)
	require.Len(t, points, 2)
	// Years collapse into the calendar month.
	assert.Equal(t, MonthPoint{MonthIndex: 1, Total: 300}, points[0])
	assert.Equal(t, MonthPoint{MonthIndex: 2, Total: 50}, points[1])
}
