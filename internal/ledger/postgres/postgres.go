// Package postgres persists ledgers in PostgreSQL via a pgx pool.
package postgres

import (
	"context"
	"fmt"

	"finassist/internal/core"
	"finassist/internal/ledger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    user_id      TEXT    NOT NULL,
    position     INTEGER NOT NULL,
    date         TEXT    NOT NULL DEFAULT '',
    description  TEXT    NOT NULL DEFAULT '',
    amount_cents BIGINT  NOT NULL DEFAULT 0,
    category     TEXT    NOT NULL DEFAULT '',
    month        TEXT    NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, position)
);
CREATE INDEX IF NOT EXISTS idx_records_user_month ON records (user_id, month);`

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %v", ledger.ErrStorage, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", ledger.ErrStorage, err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ensure schema: %v", ledger.ErrStorage, err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Load(ctx context.Context, user string) ([]core.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date, description, amount_cents, category, month
		 FROM records WHERE user_id = $1 ORDER BY position`, user)
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

// Save replaces the user's record set in one transaction.
func (s *Store) Save(ctx context.Context, user string, records []core.Record) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ledger.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE user_id = $1`, user); err != nil {
		return fmt.Errorf("%w: clear records: %v", ledger.ErrStorage, err)
	}
	for i, r := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO records (user_id, position, date, description, amount_cents, category, month)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			user, i, r.Date.String(), r.Description, r.Amount.Cents, r.Category, r.Month)
		if err != nil {
			return fmt.Errorf("%w: insert record: %v", ledger.ErrStorage, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit records: %v", ledger.ErrStorage, err)
	}
	return nil
}
