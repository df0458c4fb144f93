package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCategory is the sentinel label assigned to records whose
// category is empty or missing.
const DefaultCategory = "Other"

// All is the wildcard value for filter dimensions.
const All = "All"

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date. The zero value represents a null date,
	// which records keep after ingestion of an unparseable value.
	Date struct {
		time.Time
	}

	// Record is one expense entry. Month is always derived from Date
	// and must never be authored independently; Normalize recomputes it.
	Record struct {
		Date        Date
		Description string
		Amount      Money
		Category    string
		Month       string // YYYY-MM, empty when Date is null
	}

	// Ledger is the ordered record set of exactly one user.
	Ledger struct {
		User    string
		Records []Record
	}

	// Filter selects a month and a category, each either an exact
	// value or the All wildcard. Filters are immutable per request.
	Filter struct {
		Month    string
		Category string
	}
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: date must be a valid calendar date", ErrValidation)
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Unparseable input yields a
// null date, never an error; ingestion coerces instead of rejecting.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	return Date{}
}

// IsNull reports whether the date is absent.
func (d Date) IsNull() bool {
	return d.IsZero()
}

// YearMonth returns the YYYY-MM key for the date, or "" for a null date.
func (d Date) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

// String formats the date as YYYY-MM-DD, or "" for a null date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Normalize repairs a record in the lenient ingestion style: negative
// amounts are clamped to zero, a blank category becomes the sentinel
// label, and Month is recomputed from Date. It never fails; malformed
// values are coerced, not rejected.
func (r Record) Normalize() Record {
	if r.Amount.Cents < 0 {
		r.Amount = Money{}
	}
	r.Category = strings.TrimSpace(r.Category)
	if r.Category == "" || strings.EqualFold(r.Category, "nan") {
		r.Category = DefaultCategory
	}
	r.Description = strings.TrimSpace(r.Description)
	r.Month = r.Date.YearMonth()
	return r
}

// Validate applies the strict policy for new, interactively entered
// records. Unlike Normalize it can fail: the entry form requires a
// real date and a positive amount.
func (r Record) Validate() error {
	if r.Date.IsNull() {
		return ErrInvalidDate
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

// NormalizeAll normalizes every record of a set, preserving order.
func NormalizeAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Normalize()
	}
	return out
}

// NewFilter builds a filter, treating empty dimensions as the wildcard.
func NewFilter(month, category string) Filter {
	if strings.TrimSpace(month) == "" {
		month = All
	}
	if strings.TrimSpace(category) == "" {
		category = All
	}
	return Filter{Month: month, Category: category}
}

// Matches reports whether a record passes both filter dimensions.
// Records with an empty month never match a concrete month selection.
func (f Filter) Matches(r Record) bool {
	if f.Month != All && r.Month != f.Month {
		return false
	}
	if f.Category != All && r.Category != f.Category {
		return false
	}
	return true
}
