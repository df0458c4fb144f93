package ml

import (
	"fmt"
	"strconv"

	"finassist/internal/core"
)

// MonthPoint is one training observation: the calendar month number
// (1-12) and the total spent in that month.
type MonthPoint struct {
	MonthIndex int
	Total      float64
}

// Forecaster is the fitted line total = Intercept + Slope*monthIndex.
//
// Features are calendar-month-only: January 2023 and January 2024
// collapse into the same point, matching the historical behavior of
// the training data. Predictions are advisory; a degenerate fit can
// go negative.
type Forecaster struct {
	Intercept float64
	Slope     float64
}

// CollapseMonths folds a YYYY-MM series into per-calendar-month totals,
// ordered by month index. Entries with an unparseable month key are
// dropped.
func CollapseMonths(series []core.MonthAmount) []MonthPoint {
	totals := make(map[int]float64)
	for _, ma := range series {
		if len(ma.Month) != 7 {
			continue
		}
		idx, err := strconv.Atoi(ma.Month[5:])
		if err != nil || idx < 1 || idx > 12 {
			continue
		}
		totals[idx] += ma.Amount.Float64()
	}
	points := make([]MonthPoint, 0, len(totals))
	for idx := 1; idx <= 12; idx++ {
		if total, ok := totals[idx]; ok {
			points = append(points, MonthPoint{MonthIndex: idx, Total: total})
		}
	}
	return points
}

// TrainForecaster fits an ordinary least squares line to the points.
// Fails with ErrTraining on fewer than two distinct month indices,
// since a line cannot be fit to one point.
func TrainForecaster(points []MonthPoint) (*Forecaster, error) {
	distinct := make(map[int]bool)
	for _, p := range points {
		distinct[p.MonthIndex] = true
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 distinct months, have %d", ErrTraining, len(distinct))
	}

	var sumX, sumY, sumXX, sumXY float64
	n := float64(len(points))
	for _, p := range points {
		x := float64(p.MonthIndex)
		sumX += x
		sumY += p.Total
		sumXX += x * x
		sumXY += x * p.Total
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n
	return &Forecaster{Intercept: intercept, Slope: slope}, nil
}

// Predict evaluates the fitted line at a month index. No bound on sign
// or magnitude is enforced.
func (f *Forecaster) Predict(monthIndex int) float64 {
	return f.Intercept + f.Slope*float64(monthIndex)
}
