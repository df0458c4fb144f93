// Package memory provides a volatile, process-lifetime ledger store.
package memory

import (
	"context"
	"sync"

	"finassist/internal/core"
)

type Store struct {
	mu      sync.Mutex
	ledgers map[string][]core.Record
}

func New() *Store {
	return &Store{ledgers: make(map[string][]core.Record)}
}

// Load returns a copy of the user's record set, empty on first access.
func (s *Store) Load(_ context.Context, user string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.ledgers[user]...), nil
}

// Save replaces the user's record set. The copy keeps later caller
// mutations from leaking into the store.
func (s *Store) Save(_ context.Context, user string, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[user] = append([]core.Record(nil), records...)
	return nil
}
