package core

import "testing"

func sampleLedger() Ledger {
	records := []Record{
		{Date: ParseDate("2024-01-05"), Description: "Coffee", Amount: Money{Cents: 450}, Category: "Food"},
		{Date: ParseDate("2024-01-20"), Description: "Bus", Amount: Money{Cents: 200}, Category: "Transport"},
		{Date: ParseDate("2024-02-01"), Description: "Rent", Amount: Money{Cents: 50000}, Category: "Housing"},
	}
	return Ledger{User: "u1", Records: NormalizeAll(records)}
}

func TestKPIsEmptyIdentity(t *testing.T) {
	k := ComputeKPIs(Ledger{})
	if k.TotalSpent.Cents != 0 || k.Count != 0 || k.Average.Cents != 0 {
		t.Fatalf("empty subset KPIs = %+v, want all zero", k)
	}
}

func TestFilteredMonthView(t *testing.T) {
	l := sampleLedger()
	subset := ApplyFilter(l, NewFilter("2024-01", All))

	k := ComputeKPIs(subset)
	if k.TotalSpent.Cents != 650 {
		t.Fatalf("total = %d cents, want 650", k.TotalSpent.Cents)
	}
	if k.Count != 2 {
		t.Fatalf("count = %d, want 2", k.Count)
	}

	byCat := ByCategory(subset)
	want := map[string]int64{"Food": 450, "Transport": 200}
	if len(byCat) != len(want) {
		t.Fatalf("byCategory = %+v, want 2 categories", byCat)
	}
	for _, ca := range byCat {
		if want[ca.Name] != ca.Amount.Cents {
			t.Fatalf("category %s = %d cents, want %d", ca.Name, ca.Amount.Cents, want[ca.Name])
		}
	}
}

func TestByMonthUsesUnfilteredLedger(t *testing.T) {
	series := ByMonth(sampleLedger())
	want := []MonthAmount{
		{Month: "2024-01", Amount: Money{Cents: 650}},
		{Month: "2024-02", Amount: Money{Cents: 50000}},
	}
	if len(series) != len(want) {
		t.Fatalf("series = %+v, want %+v", series, want)
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("series[%d] = %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestByMonthSkipsNullDates(t *testing.T) {
	l := sampleLedger()
	l.Records = append(l.Records, Record{Description: "undated", Amount: Money{Cents: 999}}.Normalize())
	series := ByMonth(l)
	for _, ma := range series {
		if ma.Month == "" {
			t.Fatalf("series contains empty month key: %+v", series)
		}
	}
	if len(series) != 2 {
		t.Fatalf("series has %d entries, want 2", len(series))
	}
}

func TestApplyFilterIdempotent(t *testing.T) {
	l := sampleLedger()
	f := NewFilter("2024-01", "Food")
	once := ApplyFilter(l, f)
	twice := ApplyFilter(once, f)
	if len(once.Records) != len(twice.Records) {
		t.Fatalf("filter not idempotent: %d vs %d records", len(once.Records), len(twice.Records))
	}
	for i := range once.Records {
		if once.Records[i] != twice.Records[i] {
			t.Fatalf("record %d differs after second filter", i)
		}
	}
}

func TestByCategorySumsEqualTotal(t *testing.T) {
	l := sampleLedger()
	for _, month := range []string{All, "2024-01", "2024-02", "2024-03"} {
		subset := ApplyFilter(l, NewFilter(month, All))
		var sum int64
		for _, ca := range ByCategory(subset) {
			sum += ca.Amount.Cents
		}
		if total := ComputeKPIs(subset).TotalSpent.Cents; sum != total {
			t.Fatalf("month %s: byCategory sum %d != total %d", month, sum, total)
		}
	}
}

func TestAverageExpense(t *testing.T) {
	subset := ApplyFilter(sampleLedger(), NewFilter("2024-01", All))
	k := ComputeKPIs(subset)
	if k.Average.Cents != 325 {
		t.Fatalf("average = %d cents, want 325", k.Average.Cents)
	}
}

func TestAverageRoundsHalfUp(t *testing.T) {
	l := Ledger{Records: []Record{
		{Date: ParseDate("2024-01-05"), Amount: Money{Cents: 451}, Category: "Food"},
		{Date: ParseDate("2024-01-20"), Amount: Money{Cents: 200}, Category: "Transport"},
	}}
	k := ComputeKPIs(l)
	// 651 / 2 = 325.5; the sub-cent half rounds up, not down.
	if k.Average.Cents != 326 {
		t.Fatalf("average = %d cents, want 326", k.Average.Cents)
	}
}
