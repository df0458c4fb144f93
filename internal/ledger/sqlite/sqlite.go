// Package sqlite persists ledgers in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finassist/internal/core"
	"finassist/internal/ledger"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db directory: %v", ledger.ErrStorage, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", ledger.ErrStorage, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", ledger.ErrStorage, err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the user's records ordered by their stored position.
func (s *Store) Load(ctx context.Context, user string) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, description, amount_cents, category, month
		 FROM records WHERE user_id = ? ORDER BY position`, user)
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %v", ledger.ErrStorage, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			date, description, category, month string
			cents                              int64
		)
		if err := rows.Scan(&date, &description, &cents, &category, &month); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", ledger.ErrStorage, err)
		}
		records = append(records, core.Record{
			Date:        core.ParseDate(date),
			Description: description,
			Amount:      core.Money{Cents: cents},
			Category:    category,
			Month:       month,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", ledger.ErrStorage, err)
	}
	return records, nil
}

// Save replaces the user's record set inside one transaction, so a
// concurrent Load sees either the old set or the new one.
func (s *Store) Save(ctx context.Context, user string, records []core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ledger.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE user_id = ?`, user); err != nil {
		return fmt.Errorf("%w: clear records: %v", ledger.ErrStorage, err)
	}
	for i, r := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (user_id, position, date, description, amount_cents, category, month)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			user, i, r.Date.String(), r.Description, r.Amount.Cents, r.Category, r.Month)
		if err != nil {
			return fmt.Errorf("%w: insert record: %v", ledger.ErrStorage, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit records: %v", ledger.ErrStorage, err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "user", user, "records", len(records))
	return nil
}
