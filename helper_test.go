package cartera

import (
	"testing"
	"time"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// day0 is the origin of relative test dates.
var day0 = date.New(2025, time.January, 1)

// day returns the date n days after day0.
func day(n int) date.Date { return day0.Add(n) }

// span returns the range of days from..to relative to day0.
func span(from, to int) date.Range { return date.Range{From: day(from), To: day(to)} }

// ars is a helper for test to create peso money from const
func ars(v float64) Money { return M(v, ARS) }

// usd is a helper for test to create dollar money from const
func usd(v float64) Money { return M(v, USD) }

// dec parses a decimal literal.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertDecimal fails if got is not exactly want.
func assertDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

// assertNear fails if got is further than 1e-9 from want.
func assertNear(t *testing.T, what string, got, want decimal.Decimal) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(dec("0.000000001")) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

// at returns the snapshot of a given day, failing the test if there is none.
func at(t *testing.T, history []Snapshot, d date.Date) Snapshot {
	t.Helper()
	for _, s := range history {
		if s.Date == d {
			return s
		}
	}
	t.Fatalf("no snapshot on %s", d)
	return Snapshot{}
}
