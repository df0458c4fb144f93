// Package file persists each user's ledger as one CSV file with the
// fixed five-column schema date,description,amount,category,month.
// The encoding is deliberately human-readable; the month column is
// stored redundantly and recomputed on every normalization pass.
package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"finassist/internal/core"
	"finassist/internal/ledger"
)

var header = []string{"date", "description", "amount", "category", "month"}

type Store struct {
	dir string
}

// New creates a CSV store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data directory: %v", ledger.ErrStorage, err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the user's CSV. A missing file is an empty ledger, not an
// error. Malformed cells are coerced (null date, zero amount), never
// rejected.
func (s *Store) Load(_ context.Context, user string) ([]core.Record, error) {
	f, err := os.Open(s.path(user))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open ledger file: %v", ledger.ErrStorage, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger file: %v", ledger.ErrStorage, err)
	}

	var records []core.Record
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		records = append(records, rowToRecord(row))
	}
	return records, nil
}

// Save writes the whole record set to a temp file and renames it over
// the old one, so readers never observe a partial set. An empty set
// still gets the header row, keeping the five-column schema on disk.
func (s *Store) Save(_ context.Context, user string, records []core.Record) error {
	tmp, err := os.CreateTemp(s.dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ledger.ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write header: %v", ledger.ErrStorage, err)
	}
	for _, r := range records {
		row := []string{r.Date.String(), r.Description, r.Amount.String(), r.Category, r.Month}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: write row: %v", ledger.ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: flush ledger file: %v", ledger.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", ledger.ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), s.path(user)); err != nil {
		return fmt.Errorf("%w: replace ledger file: %v", ledger.ErrStorage, err)
	}
	return nil
}

func (s *Store) path(user string) string {
	return filepath.Join(s.dir, sanitizeUser(user)+".csv")
}

// sanitizeUser keeps the per-user file name stable and inside the data
// directory regardless of what the identifier contains.
func sanitizeUser(user string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, user)
	if mapped == "" {
		mapped = "_"
	}
	return mapped
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date")
}

func rowToRecord(row []string) core.Record {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	r := core.Record{
		Date:        core.ParseDate(get(0)),
		Description: get(1),
		Amount:      core.CoerceDecimalToCents(get(2)),
		Category:    get(3),
	}
	r.Month = r.Date.YearMonth()
	return r
}
