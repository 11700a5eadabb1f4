package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "cartera.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var decimals = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
var dates = cmp.Comparer(func(a, b date.Date) bool { return a == b })

func TestDriverFor(t *testing.T) {
	testCases := []struct {
		dsn    string
		driver string
	}{
		{"postgres://user:pw@localhost/cartera?sslmode=disable", "postgres"},
		{"host=localhost port=5432 dbname=cartera sslmode=disable", "postgres"},
		{"/var/lib/cartera/cartera.db", "sqlite3"},
		{"sqlite://cartera.db", "sqlite3"},
	}
	for _, tc := range testCases {
		if got, _ := driverFor(tc.dsn); got != tc.driver {
			t.Errorf("driverFor(%q) = %q, want %q", tc.dsn, got, tc.driver)
		}
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: "postgres"}
	assert.Equal(t, "VALUES ($1, $2, $3)", pg.rebind("VALUES (?, ?, ?)"))
	lite := &Store{driver: "sqlite3"}
	assert.Equal(t, "VALUES (?, ?)", lite.rebind("VALUES (?, ?)"))
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	day := date.New(2025, time.March, 1)

	history := []cartera.Snapshot{
		{Date: day, ValueARS: d("10000"), ValueUSD: d("10"), RawARS: d("10000"), CashARS: d("-5.5")},
		{Date: day.Add(1), ValueARS: d("10001"), ValueUSD: d("10.001"), RawARS: d("10001")},
		{Date: day.Add(2), ValueARS: d("10002"), ValueUSD: d("10.002"), RawARS: d("10002")},
	}
	require.NoError(t, s.SaveSnapshots(ctx, history))

	// saving again overwrites.
	history[1].ValueARS = d("20000")
	require.NoError(t, s.SaveSnapshots(ctx, history[1:2]))

	got, err := s.Snapshots(ctx, date.Range{From: day, To: day.Add(1)})
	require.NoError(t, err)
	if diff := cmp.Diff(history[:2], got, decimals, dates); diff != "" {
		t.Errorf("Snapshots() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	day := date.New(2025, time.March, 1)

	history := []cartera.CategorySnapshot{
		{Date: day, Currency: cartera.ARS, Total: d("300"), Categories: map[cartera.Category]decimal.Decimal{
			cartera.Tech: d("100"), cartera.CashCategory: d("200"),
		}},
		{Date: day.Add(1), Currency: cartera.ARS, Total: d("50"), Categories: map[cartera.Category]decimal.Decimal{
			cartera.Bonds: d("50"),
		}},
	}
	require.NoError(t, s.SaveCategories(ctx, history))

	got, err := s.Categories(ctx, date.Range{From: day, To: day.Add(5)}, cartera.ARS)
	require.NoError(t, err)
	if diff := cmp.Diff(history, got, decimals, dates); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}

	none, err := s.Categories(ctx, date.Range{From: day, To: day.Add(5)}, cartera.USD)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPrices(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	day := date.New(2025, time.March, 1)

	prices := make(cartera.PriceHistory)
	prices.Add("AAPL", cartera.P(day, 240.5), cartera.P(day.Add(1), 241))
	prices.Add("GGAL.BA", cartera.P(day, 6100))
	require.NoError(t, s.SavePrices(ctx, prices))

	got, err := s.Prices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got["AAPL"].Len())
	p, ok := got.PriceAt("AAPL", day.Add(3))
	require.True(t, ok)
	assert.True(t, p.Equal(d("241")), "AAPL = %s", p)
}
