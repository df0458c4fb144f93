package core

import "sort"

type (
	// KPIs is the headline summary for a filtered subset. Every field
	// is an identity value (zero) when the subset is empty.
	KPIs struct {
		TotalSpent Money `json:"total_spent"`
		Count      int   `json:"transaction_count"`
		Average    Money `json:"average_expense"`
	}

	// CategoryAmount is an amount summed over one category.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// MonthAmount is an amount summed over one YYYY-MM month.
	MonthAmount struct {
		Month  string `json:"month"`
		Amount Money  `json:"amount"`
	}
)

// ApplyFilter keeps the records matching both filter dimensions.
// Order-preserving, no deduplication, idempotent.
func ApplyFilter(l Ledger, f Filter) Ledger {
	out := Ledger{User: l.User}
	for _, r := range l.Records {
		if f.Matches(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// ComputeKPIs sums a subset into total, count, and mean. The mean
// rounds half-up to the cent; the mean of an empty subset is zero, not
// undefined.
func ComputeKPIs(subset Ledger) KPIs {
	k := KPIs{Count: len(subset.Records)}
	for _, r := range subset.Records {
		k.TotalSpent.Cents += r.Amount.Cents
	}
	if k.Count > 0 {
		n := int64(k.Count)
		k.Average = Money{Cents: (k.TotalSpent.Cents + n/2) / n}
	}
	return k
}

// ByCategory sums a subset per category. The category set comes from
// the data; categories absent from the subset are omitted. Sorted by
// name for stable output.
func ByCategory(subset Ledger) []CategoryAmount {
	sums := make(map[string]int64)
	for _, r := range subset.Records {
		sums[r.Category] += r.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByMonth sums the full, unfiltered ledger per month, ascending. The
// month filter deliberately does not apply to the trend view. Records
// with a null date carry an empty month key and are skipped; months
// appear only if at least one record carries them (no zero-filling).
func ByMonth(l Ledger) []MonthAmount {
	sums := make(map[string]int64)
	for _, r := range l.Records {
		if r.Month == "" {
			continue
		}
		sums[r.Month] += r.Amount.Cents
	}
	out := make([]MonthAmount, 0, len(sums))
	for month, cents := range sums {
		out = append(out, MonthAmount{Month: month, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
