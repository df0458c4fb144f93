package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1235, true}, // half cent rounds up
		{"12.346", 1235, true}, // rounds up
		{"500", 50000, true},
		{"0", 0, false},
		{"-4.50", 0, false},
		{"+4.50", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d (%q): got %d, %v; want %d", i, tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestCoerceDecimalToCents(t *testing.T) {
	if got := CoerceDecimalToCents("4.50"); got.Cents != 450 {
		t.Fatalf("got %d, want 450", got.Cents)
	}
	// Unparseable and negative input coerces to zero, never fails.
	for _, in := range []string{"abc", "", "-4.50", "nan"} {
		if got := CoerceDecimalToCents(in); got.Cents != 0 {
			t.Fatalf("%q: got %d, want 0", in, got.Cents)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{450, "4.50"},
		{650, "6.50"},
		{50000, "500.00"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: got %q, want %q", tc.cents, got, tc.want)
		}
	}
}
