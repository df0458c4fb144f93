// Package ledger defines the persistence port for per-user record sets
// and its error taxonomy. Implementations live in the subpackages
// (memory, file, sqlite, postgres) and are selected by the backend
// factory.
package ledger

import (
	"context"
	"errors"

	"finassist/internal/core"
)

// ErrStorage wraps failures of the persistence medium. Callers must not
// assume a mutation took effect when a Save returns this.
var ErrStorage = errors.New("storage unavailable")

// Store holds the canonical record set of each user. A user with no
// prior data has an empty set. Save replaces the user's whole set
// atomically: a concurrent Load never observes a partially written
// set. No cross-user reference exists; each user's set is isolated.
//
// Stores persist records as stored; field normalization is the
// service layer's job on both read and write.
type Store interface {
	Load(ctx context.Context, user string) ([]core.Record, error)
	Save(ctx context.Context, user string, records []core.Record) error
}

// CleanupFunc releases a store's resources.
type CleanupFunc func() error
