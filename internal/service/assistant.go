package service

import (
	"context"
	"errors"
	"sync"

	"finassist/internal/core"
	applog "finassist/internal/log"
	"finassist/internal/ml"
)

// ErrModelUnavailable is returned by the inference operations when no
// trained artifact has been loaded yet.
var ErrModelUnavailable = errors.New("model artifact not loaded")

// Assistant is the in-process interface the presentation layer calls:
// aggregate views, ledger mutations, and the two inference signals.
// Artifacts are swappable at runtime; inference holds a read lock only
// long enough to grab the current pointer, and artifacts themselves
// are immutable and safe for concurrent use.
type Assistant struct {
	ledgers *LedgerService
	views   *ViewService
	logger  *applog.Logger

	mu          sync.RWMutex
	categorizer *ml.Categorizer
	forecaster  *ml.Forecaster
}

func NewAssistant(ledgers *LedgerService, views *ViewService, logger *applog.Logger) *Assistant {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Assistant{
		ledgers: ledgers,
		views:   views,
		logger:  logger.WithComponent(applog.ComponentApp),
	}
}

// SetModels swaps in freshly trained artifacts. Either may be nil to
// leave the previous one in place.
func (a *Assistant) SetModels(categorizer *ml.Categorizer, forecaster *ml.Forecaster) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if categorizer != nil {
		a.categorizer = categorizer
	}
	if forecaster != nil {
		a.forecaster = forecaster
	}
}

// GetAggregateView returns the display-ready aggregates for a filter.
func (a *Assistant) GetAggregateView(ctx context.Context, user string, filter core.Filter) (View, error) {
	return a.views.Aggregate(ctx, user, filter)
}

// AddTransaction appends one validated record and returns the new
// canonical ledger.
func (a *Assistant) AddTransaction(ctx context.Context, user, date, description, amount, category string) (core.Ledger, error) {
	l, err := a.ledgers.Add(ctx, user, date, description, amount, category)
	if err != nil {
		return core.Ledger{}, err
	}
	a.views.Invalidate(user)
	return l, nil
}

// ReplaceLedger swaps in a caller-edited full record set; the single
// primitive behind both edit and delete.
func (a *Assistant) ReplaceLedger(ctx context.Context, user string, records []core.Record) (core.Ledger, error) {
	l, err := a.ledgers.ReplaceAll(ctx, user, records)
	if err != nil {
		return core.Ledger{}, err
	}
	a.views.Invalidate(user)
	return l, nil
}

// ResetLedger empties the user's ledger.
func (a *Assistant) ResetLedger(ctx context.Context, user string) (core.Ledger, error) {
	l, err := a.ledgers.Reset(ctx, user)
	if err != nil {
		return core.Ledger{}, err
	}
	a.views.Invalidate(user)
	return l, nil
}

// LoadLedger returns the user's current canonical ledger.
func (a *Assistant) LoadLedger(ctx context.Context, user string) (core.Ledger, error) {
	return a.ledgers.Load(ctx, user)
}

// SuggestCategory classifies a free-text description with the loaded
// categorizer. The suggestion assists category assignment, it does not
// force it.
func (a *Assistant) SuggestCategory(description string) (string, error) {
	a.mu.RLock()
	model := a.categorizer
	a.mu.RUnlock()
	if model == nil {
		return "", ErrModelUnavailable
	}
	return model.Predict(description), nil
}

// ForecastNextMonth evaluates the loaded forecaster at a calendar
// month index. The output is advisory and unbounded.
func (a *Assistant) ForecastNextMonth(monthIndex int) (float64, error) {
	a.mu.RLock()
	model := a.forecaster
	a.mu.RUnlock()
	if model == nil {
		return 0, ErrModelUnavailable
	}
	return model.Predict(monthIndex), nil
}
