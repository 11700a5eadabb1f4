package cartera

import (
	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// PricePoint is one day of market data for a security.
type PricePoint struct {
	Date   date.Date       `json:"date"`
	Open   decimal.Decimal `json:"open,omitzero"`
	High   decimal.Decimal `json:"high,omitzero"`
	Low    decimal.Decimal `json:"low,omitzero"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume,omitzero"`
}

// P is a shortcut for a point with only a close price.
func P[T number](day date.Date, close T) PricePoint {
	return PricePoint{Date: day, Close: newDecimal(close)}
}

// PriceSeries is the chronological market data of one security.
type PriceSeries struct {
	date.History[PricePoint]
}

// NewPriceSeries returns a series holding points, in any order.
func NewPriceSeries(points ...PricePoint) *PriceSeries {
	s := new(PriceSeries)
	for _, p := range points {
		s.Append(p.Date, p)
	}
	return s
}

// PriceAt returns the latest close strictly positive on or before asOf.
//
// Zero and negative closes are feed gaps: they are walked over, so the last
// known good price carries forward. It returns false if there is no such price.
func PriceAt(series *PriceSeries, asOf date.Date) (decimal.Decimal, bool) {
	if series == nil {
		return decimal.Zero, false
	}
	p, ok := series.ValueAsOfFunc(asOf, func(p PricePoint) bool { return p.Close.IsPositive() })
	return p.Close, ok
}

// PriceHistory is the market data lookup table, indexed by security.
type PriceHistory map[string]*PriceSeries

// Add appends points to the security's series.
func (h PriceHistory) Add(security string, points ...PricePoint) {
	s, ok := h[security]
	if !ok {
		s = new(PriceSeries)
		h[security] = s
	}
	for _, p := range points {
		s.Append(p.Date, p)
	}
}

// Series returns the series of a security, looking up its base ticker
// when there is no series for the exact identifier.
func (h PriceHistory) Series(security string) (*PriceSeries, bool) {
	if s, ok := h[security]; ok {
		return s, true
	}
	s, ok := h[BaseTicker(security)]
	return s, ok
}

// PriceAt returns the price of a security as of a date, see PriceAt.
func (h PriceHistory) PriceAt(security string, asOf date.Date) (decimal.Decimal, bool) {
	s, _ := h.Series(security)
	return PriceAt(s, asOf)
}
