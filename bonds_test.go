package cartera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBonds(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    int
	}{
		{"object", `{"bonds":[{"ticker":"GD30","price":200.75,"currency":"ARS"},{"ticker":"GD30D","price":"0.61","currency":"usd"}]}`, 2},
		{"array", `[{"ticker":"AL30","price":198.5,"currency":"ARS"}]`, 1},
		{"bad entries skipped", `[{"ticker":"","price":1,"currency":"ARS"},{"ticker":"X","price":1,"currency":"EUR"},{"ticker":"Y","price":true,"currency":"ARS"}]`, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			quotes, err := parseBonds([]byte(tc.content))
			require.NoError(t, err)
			assert.Len(t, quotes, tc.want)
		})
	}

	quotes, err := parseBonds([]byte(`{"bonds":[{"ticker":"GD30D","price":"0.61","currency":"usd"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "GD30D", quotes[0].Ticker)
	assert.Equal(t, USD, quotes[0].Currency)
	assertDecimal(t, "price", quotes[0].Price, "0.61")

	_, err = parseBonds([]byte(`{"bonds":{"GD30":1}}`))
	assert.Error(t, err)
	_, err = parseBonds([]byte(`not json`))
	assert.Error(t, err)
}

func TestBondPrices_TTL(t *testing.T) {
	ctx := context.Background()
	loads := 0
	price := "200"
	fail := false
	bonds := NewBondPrices(func(context.Context) ([]BondQuote, error) {
		loads++
		if fail {
			return nil, errors.New("unreachable")
		}
		return []BondQuote{{Ticker: "GD30", Currency: ARS, Price: dec(price)}}, nil
	}, time.Minute)
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	bonds.now = func() time.Time { return clock }

	p, ok := bonds.Lookup(ctx, "GD30", ARS)
	require.True(t, ok)
	assertDecimal(t, "first load", p, "200")

	price = "210"
	clock = clock.Add(30 * time.Second)
	p, _ = bonds.Lookup(ctx, "GD30", ARS)
	assertDecimal(t, "within TTL", p, "200")
	assert.Equal(t, 1, loads)

	clock = clock.Add(time.Minute)
	p, _ = bonds.Lookup(ctx, "GD30", ARS)
	assertDecimal(t, "after TTL", p, "210")
	assert.Equal(t, 2, loads)

	// a failed reload keeps the previous quotes until the next period.
	fail = true
	clock = clock.Add(time.Minute)
	p, ok = bonds.Lookup(ctx, "GD30", ARS)
	assert.True(t, ok)
	assertDecimal(t, "after failure", p, "210")
	bonds.Lookup(ctx, "GD30", ARS)
	assert.Equal(t, 3, loads)

	_, ok = bonds.Lookup(ctx, "GD30", USD)
	assert.False(t, ok, "quotes are per currency")

	var none *BondPrices
	_, ok = none.Lookup(ctx, "GD30", ARS)
	assert.False(t, ok)
}

func TestBondFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bonds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bonds":[{"ticker":"AE38","price":150,"currency":"ARS"}]}`), 0o644))

	bonds := NewBondPrices(BondFile(path), 0)
	p, ok := bonds.Lookup(context.Background(), "AE38", ARS)
	require.True(t, ok)
	assertDecimal(t, "AE38", p, "150")

	missing := NewBondPrices(BondFile(filepath.Join(t.TempDir(), "none.json")), 0)
	_, ok = missing.Lookup(context.Background(), "AE38", ARS)
	assert.False(t, ok)
}
