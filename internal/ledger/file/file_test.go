package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finassist/internal/core"
)

func TestMissingFileIsEmptyLedger(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	records, err := s.Load(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty ledger, got %d records", len(records))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	in := []core.Record{
		{Date: core.ParseDate("2024-01-05"), Description: "Coffee", Amount: core.Money{Cents: 450}, Category: "Food", Month: "2024-01"},
		{Date: core.ParseDate("2024-02-01"), Description: "Rent", Amount: core.Money{Cents: 50000}, Category: "Housing", Month: "2024-02"},
	}
	if err := s.Save(ctx, "u1", in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("record %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestEmptySaveKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	if err := s.Save(context.Background(), "u1", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "u1.csv"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got := strings.TrimSpace(string(raw)); got != "date,description,amount,category,month" {
		t.Fatalf("file content %q, want header only", got)
	}
}

func TestMalformedRowsAreCoerced(t *testing.T) {
	dir := t.TempDir()
	csv := "date,description,amount,category,month\n" +
		"not-a-date,Mystery,abc,,wrong\n" +
		"2024-01-05,Coffee,4.50,Food,2024-01\n"
	if err := os.WriteFile(filepath.Join(dir, "u1.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s, _ := New(dir)
	records, err := s.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (malformed rows kept)", len(records))
	}
	bad := records[0]
	if !bad.Date.IsNull() || bad.Amount.Cents != 0 || bad.Month != "" {
		t.Fatalf("malformed row not coerced: %+v", bad)
	}
}

func TestUserFileNameSanitized(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	if err := s.Save(context.Background(), "../evil/user", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || strings.Contains(entries[0].Name(), "/") {
		t.Fatalf("unexpected entries: %v", entries)
	}
}
