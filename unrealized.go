package cartera

import (
	"slices"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// buy adds a quantity bought for cost and averages the unit cost. A closed
// position starts over at the unit cost of the buy. Sells keep the average.
func (p *Position) buy(q Quantity, cost Money) {
	if p.Quantity.IsClosed() {
		p.Quantity = p.Quantity.Add(q)
		p.AveragePrice = cost.Value().Div(q.value)
		return
	}
	held := p.AveragePrice.Mul(p.Quantity.value)
	p.Quantity = p.Quantity.Add(q)
	p.AveragePrice = held.Add(cost.Value()).Div(p.Quantity.value)
}

// Cost returns what the open quantity cost at the average price.
func (p Position) Cost() Money { return M(p.AveragePrice.Mul(p.Quantity.value), p.Currency) }

// Gain returns the unrealized gain at a unit price expressed in the position
// currency: (price - average price) * quantity.
func (p Position) Gain(price decimal.Decimal) Money {
	return M(price.Sub(p.AveragePrice).Mul(p.Quantity.value), p.Currency)
}

// Interest returns the interest accrued on asOf: zero before the start,
// frozen at the full-term interest from the maturity date on.
func (i *Instrument) Interest(asOf date.Date) Money {
	v, ok := i.AccruedValue(asOf)
	if !ok {
		return M(0, i.Currency)
	}
	return M(v.Sub(i.Amount), i.Currency)
}

// PositionGain is the unrealized gain of a position or an instrument.
type PositionGain struct {
	Name  string // security, or provider of an instrument
	Asset AssetType
	Cost  Money
	Value Money
	Gain  Money
}

// Return returns the gain in percent of the cost.
func (g PositionGain) Return() Percent { return Return(g.Cost.Value(), g.Value.Value()) }

// gains returns the unrealized gain of every line held but cash.
//
// Positions without a price are skipped, and so is crypto bought in pesos
// since it is priced in dollars.
func (v *valuer) gains(h Holdings, day date.Date) []PositionGain {
	var gains []PositionGain
	for _, p := range h.Positions {
		if p.AssetType == Crypto && p.Currency != USD {
			continue
		}
		price, ok := v.price(p, day)
		if !ok {
			continue
		}
		gains = append(gains, PositionGain{
			Name:  p.Security,
			Asset: p.AssetType,
			Cost:  p.Cost(),
			Value: M(price.Mul(p.Quantity.value), p.Currency),
			Gain:  p.Gain(price),
		})
	}
	for _, inst := range slices.Concat(h.Active, h.Matured) {
		interest := inst.Interest(day)
		principal := M(inst.Amount, inst.Currency)
		gains = append(gains, PositionGain{
			Name:  inst.Provider,
			Asset: inst.Kind,
			Cost:  principal,
			Value: principal.Add(interest),
			Gain:  interest,
		})
	}
	return gains
}
