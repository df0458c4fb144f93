// Package service wires the ledger store, the aggregation views, and
// the loaded model artifacts into the facade the presentation layer
// calls.
package service

import (
	"context"
	"fmt"

	"finassist/internal/amqp"
	"finassist/internal/core"
	"finassist/internal/ledger"
	applog "finassist/internal/log"
)

// LedgerService owns the canonical per-user record sets. Reads and
// writes both pass through normalization, so the invariant that month
// is derived from date holds after every operation. Writes persist
// before returning; training is only ever triggered asynchronously.
type LedgerService struct {
	store  ledger.Store
	events *amqp.Client // optional retrain trigger, may be nil
	logger *applog.Logger
}

func NewLedgerService(store ledger.Store, events *amqp.Client, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &LedgerService{
		store:  store,
		events: events,
		logger: logger.WithComponent(applog.ComponentLedger),
	}
}

// Load returns the user's ledger with every record normalized: dates
// coerced, amounts clamped, blank categories defaulted, months
// recomputed. Malformed stored rows are repaired, never rejected.
func (s *LedgerService) Load(ctx context.Context, user string) (core.Ledger, error) {
	records, err := s.store.Load(ctx, user)
	if err != nil {
		return core.Ledger{}, fmt.Errorf("load ledger: %w", err)
	}
	return core.Ledger{User: user, Records: core.NormalizeAll(records)}, nil
}

// Add validates a new, interactively entered record under the strict
// policy, appends it, and persists. On validation failure the ledger
// is left untouched. Unlike ingestion, a bad amount or date here is an
// error, not a coercion.
func (s *LedgerService) Add(ctx context.Context, user, date, description, amount, category string) (core.Ledger, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		return core.Ledger{}, err
	}
	record := core.Record{
		Date:        core.ParseDate(date),
		Description: description,
		Amount:      core.Money{Cents: cents},
		Category:    category,
	}.Normalize()
	if err := record.Validate(); err != nil {
		return core.Ledger{}, err
	}

	current, err := s.Load(ctx, user)
	if err != nil {
		return core.Ledger{}, err
	}
	updated := append(current.Records, record)
	if err := s.store.Save(ctx, user, updated); err != nil {
		return core.Ledger{}, fmt.Errorf("persist ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction added",
		applog.FieldUser, user,
		applog.FieldOperation, applog.OpAdd,
		applog.FieldAmount, record.Amount.Cents,
		applog.FieldCategory, record.Category)
	s.publishRetrain(ctx, user, applog.OpAdd)

	return core.Ledger{User: user, Records: updated}, nil
}

// ReplaceAll substitutes the caller-supplied full record set for the
// stored one. This is the single primitive behind both editing a field
// and deleting a row. Records are re-normalized exactly as Load does.
func (s *LedgerService) ReplaceAll(ctx context.Context, user string, records []core.Record) (core.Ledger, error) {
	normalized := core.NormalizeAll(records)
	if err := s.store.Save(ctx, user, normalized); err != nil {
		return core.Ledger{}, fmt.Errorf("persist ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "Ledger replaced",
		applog.FieldUser, user,
		applog.FieldOperation, applog.OpReplace,
		applog.FieldRecords, len(normalized))
	s.publishRetrain(ctx, user, applog.OpReplace)

	return core.Ledger{User: user, Records: normalized}, nil
}

// Reset empties the user's ledger, keeping the five-column schema in
// the persistent medium.
func (s *LedgerService) Reset(ctx context.Context, user string) (core.Ledger, error) {
	if err := s.store.Save(ctx, user, nil); err != nil {
		return core.Ledger{}, fmt.Errorf("persist ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "Ledger reset",
		applog.FieldUser, user,
		applog.FieldOperation, applog.OpReset)
	s.publishRetrain(ctx, user, applog.OpReset)

	return core.Ledger{User: user}, nil
}

func (s *LedgerService) publishRetrain(ctx context.Context, user, trigger string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRetrain(ctx, user, trigger); err != nil {
		// The mutation already persisted; a lost retrain trigger only
		// delays the next artifact.
		s.logger.WarnContext(ctx, "Failed to publish retrain message",
			applog.FieldUser, user, applog.FieldError, err)
	}
}
