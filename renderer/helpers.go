package renderer

import (
	"github.com/etnz/cartera"
	"github.com/shopspring/decimal"
)

// money formats a decimal amount in a currency.
func money(v decimal.Decimal, cur cartera.Currency) string { return cartera.M(v, cur).String() }

// cash formats a cash balance, clamped to zero when asked.
func cash(v decimal.Decimal, cur cartera.Currency, clamp bool) string {
	m := cartera.M(v, cur)
	if clamp {
		m = m.Clamp()
	}
	return m.String()
}
