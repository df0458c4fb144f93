package service

import (
	"context"
	"testing"

	"finassist/internal/core"
	"finassist/internal/ledger/memory"
)

func newTestAssistant() *Assistant {
	ledgers := NewLedgerService(memory.New(), nil, nil)
	views := NewViewService(ledgers, nil)
	return NewAssistant(ledgers, views, nil)
}

func seed(t *testing.T, a *Assistant, user string) {
	t.Helper()
	ctx := context.Background()
	for _, e := range [][4]string{
		{"2024-01-05", "Coffee", "4.50", "Food"},
		{"2024-01-20", "Bus", "2.00", "Transport"},
		{"2024-02-01", "Rent", "500.00", "Housing"},
	} {
		if _, err := a.AddTransaction(ctx, user, e[0], e[1], e[2], e[3]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestGetAggregateView(t *testing.T) {
	a := newTestAssistant()
	seed(t, a, "u1")

	v, err := a.GetAggregateView(context.Background(), "u1", core.NewFilter("2024-01", core.All))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.KPIs.TotalSpent.Cents != 650 || v.KPIs.Count != 2 {
		t.Fatalf("kpis = %+v", v.KPIs)
	}
	if len(v.ByCategory) != 2 {
		t.Fatalf("byCategory = %+v", v.ByCategory)
	}
	// Trend view covers the whole ledger regardless of the month filter.
	if len(v.ByMonth) != 2 || v.ByMonth[1].Amount.Cents != 50000 {
		t.Fatalf("byMonth = %+v", v.ByMonth)
	}
	if len(v.Months) != 2 || v.Months[0] != "2024-01" {
		t.Fatalf("months = %+v", v.Months)
	}
}

func TestViewEmptyLedgerIdentity(t *testing.T) {
	a := newTestAssistant()
	v, err := a.GetAggregateView(context.Background(), "nobody", core.NewFilter(core.All, core.All))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.KPIs.TotalSpent.Cents != 0 || v.KPIs.Count != 0 || v.KPIs.Average.Cents != 0 {
		t.Fatalf("kpis = %+v, want identity", v.KPIs)
	}
	if len(v.ByCategory) != 0 || len(v.ByMonth) != 0 {
		t.Fatalf("expected empty views: %+v", v)
	}
}

func TestMutationInvalidatesCachedView(t *testing.T) {
	a := newTestAssistant()
	ctx := context.Background()
	seed(t, a, "u1")

	f := core.NewFilter(core.All, core.All)
	before, _ := a.GetAggregateView(ctx, "u1", f)
	if before.KPIs.Count != 3 {
		t.Fatalf("kpis = %+v", before.KPIs)
	}

	if _, err := a.AddTransaction(ctx, "u1", "2024-02-14", "Flowers", "12.00", "Gifts"); err != nil {
		t.Fatalf("add: %v", err)
	}
	after, _ := a.GetAggregateView(ctx, "u1", f)
	if after.KPIs.Count != 4 {
		t.Fatalf("stale view served after mutation: %+v", after.KPIs)
	}
}

func TestViewsIsolatedPerUser(t *testing.T) {
	a := newTestAssistant()
	ctx := context.Background()
	seed(t, a, "u1")

	v, err := a.GetAggregateView(ctx, "u2", core.NewFilter(core.All, core.All))
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.KPIs.Count != 0 {
		t.Fatalf("user u2 observed u1's data: %+v", v.KPIs)
	}
}

func TestInferenceWithoutArtifacts(t *testing.T) {
	a := newTestAssistant()
	if _, err := a.SuggestCategory("coffee"); err != ErrModelUnavailable {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
	if _, err := a.ForecastNextMonth(4); err != ErrModelUnavailable {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}
