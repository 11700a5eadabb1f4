package cartera

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_AveragePrice(t *testing.T) {
	ledger := NewLedger(
		NewDeposit(day(0), usd(10000)),
		NewBuy(day(1), Stock, "AAPL", Q(10), usd(100)).WithFees(1, 0),
		NewBuy(day(2), Stock, "AAPL", Q(10), usd(120)),
		NewSell(day(3), Stock, "AAPL", Q(5), usd(130)),
		NewSell(day(4), Stock, "AAPL", Q(15), usd(90)),
		NewBuy(day(5), Stock, "AAPL", Q(2), usd(200)),
	)

	testCases := []struct {
		on       int
		quantity string
		average  string
	}{
		// fees are part of the cost: 1010/10
		{1, "10", "101"},
		// (1010 + 1200) / 20
		{2, "20", "110.5"},
		// sells keep the average
		{3, "15", "110.5"},
		// a closed position starts over
		{5, "2", "200"},
	}
	for _, tc := range testCases {
		h := ledger.Holdings(day(tc.on), Money{})
		require.Len(t, h.Positions, 1, "day %d", tc.on)
		p := h.Positions[0]
		assertDecimal(t, "Quantity", p.Quantity.Decimal(), tc.quantity)
		assertDecimal(t, "AveragePrice", p.AveragePrice, tc.average)
	}

	assert.Empty(t, ledger.Holdings(day(4), Money{}).Positions)
}

func TestPosition_Gain(t *testing.T) {
	p := Position{Security: "AAPL", Currency: USD, AssetType: Stock, Quantity: Q(15), AveragePrice: dec("110.5")}

	assertDecimal(t, "Cost", p.Cost().Value(), "1657.5")
	assertDecimal(t, "Gain(120)", p.Gain(dec("120")).Value(), "142.5")
	assertDecimal(t, "Gain(100)", p.Gain(dec("100")).Value(), "-157.5")
	assert.Equal(t, USD, p.Gain(dec("120")).Currency())
}

func TestInstrument_Interest(t *testing.T) {
	inst := NewInstrument(NewCreate(day(0), FixedTermDeposit, "Banco Nación", ars(10000), 36.5, 30))

	testCases := []struct {
		on   int
		want string
	}{
		{-1, "0"},
		{0, "0"},
		{15, "150"},
		{30, "300"},
		{90, "300"},
	}
	for _, tc := range testCases {
		assertDecimal(t, "Interest on day "+day(tc.on).String(), inst.Interest(day(tc.on)).Value(), tc.want)
	}
}

func TestComputeCurrentValue_PositionGains(t *testing.T) {
	h := Holdings{
		Date: day(15),
		Cash: map[Currency]Money{ARS: ars(0), USD: usd(0)},
		Positions: []Position{
			{Security: "AAPL", Currency: USD, AssetType: Stock, Quantity: Q(10), AveragePrice: dec("100")},
			{Security: "BTCUSDT", Currency: ARS, AssetType: Crypto, Quantity: Q(1), AveragePrice: dec("50000")},
			{Security: "NOPE", Currency: USD, AssetType: Stock, Quantity: Q(1), AveragePrice: dec("10")},
		},
		Active: []*Instrument{
			NewInstrument(NewCreate(day(0), Caucion, "BYMA", ars(10000), 36.5, 30)),
		},
	}
	prices := make(PriceHistory)
	prices.Add("AAPL", P(day(10), 150))
	prices.Add("BTCUSDT", P(day(10), 60000))

	cv := ComputeCurrentValue(context.Background(), h, prices, fixedOptions(), day(15).Time())
	require.Len(t, cv.Positions, 2)

	aapl := cv.Positions[0]
	assert.Equal(t, "AAPL", aapl.Name)
	assertDecimal(t, "AAPL cost", aapl.Cost.Value(), "1000")
	assertDecimal(t, "AAPL value", aapl.Value.Value(), "1500")
	assertDecimal(t, "AAPL gain", aapl.Gain.Value(), "500")
	assert.InDelta(t, 50, float64(aapl.Return()), 1e-9)

	caucion := cv.Positions[1]
	assert.Equal(t, "BYMA", caucion.Name)
	assert.Equal(t, Caucion, caucion.Asset)
	assertDecimal(t, "caución interest", caucion.Gain.Value(), "150")
	assertDecimal(t, "caución value", caucion.Value.Value(), "10150")
}
