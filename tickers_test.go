package cartera

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBaseTicker(t *testing.T) {
	testCases := []struct {
		symbol   string
		want     string
		currency Currency
	}{
		{"AAPL", "AAPL", USD},
		{"AAPL.BA", "AAPL", ARS},
		{"ggal.ba", "ggal", ARS},
		{"YPFD.AR", "YPFD", ARS},
		{"SHOP.TO", "SHOP", USD},
		{"BRK.B", "BRK.B", USD},
		{"BA", "BA", USD},
	}
	for _, tc := range testCases {
		if got := BaseTicker(tc.symbol); got != tc.want {
			t.Errorf("BaseTicker(%q) = %q, want %q", tc.symbol, got, tc.want)
		}
		if got := TickerCurrency(tc.symbol); got != tc.currency {
			t.Errorf("TickerCurrency(%q) = %q, want %q", tc.symbol, got, tc.currency)
		}
	}
	if !SameAsset("MELI", "MELI.BA") || SameAsset("MELI", "MELI2") {
		t.Errorf("SameAsset() is wrong")
	}
}

func TestDetectDuplicates(t *testing.T) {
	positions := []Position{
		{Security: "MELI.BA", Currency: ARS, AssetType: Stock, Quantity: Q(5)},
		{Security: "AAPL", Currency: USD, AssetType: Stock, Quantity: Q(1)},
		{Security: "MELI", Currency: USD, AssetType: Stock, Quantity: Q(2)},
		{Security: "AAPL.BA", Currency: ARS, AssetType: Stock, Quantity: Q(10)},
		{Security: "GD30", Currency: ARS, AssetType: Bond, Quantity: Q(100)},
		{Security: "BTCUSDT", Currency: USD, AssetType: Crypto, Quantity: Q(1)},
		{Security: "BTCUSDT.BA", Currency: ARS, AssetType: Crypto, Quantity: Q(1)},
	}
	var got []string
	for _, g := range DetectDuplicates(positions) {
		got = append(got, g.String())
	}
	want := []string{"AAPL held as AAPL, AAPL.BA", "MELI held as MELI.BA, MELI"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetectDuplicates() mismatch (-want +got):\n%s", diff)
	}
}
