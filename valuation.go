package cartera

import (
	"context"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// Snapshot is the whole portfolio value on a day.
//
// Raw values are the total of each currency bucket, converted values add the
// other bucket at the valuation's exchange rate.
type Snapshot struct {
	Date     date.Date       `json:"date"`
	ValueARS decimal.Decimal `json:"valueARS"`
	ValueUSD decimal.Decimal `json:"valueUSD"`
	RawARS   decimal.Decimal `json:"valueARSRaw"`
	RawUSD   decimal.Decimal `json:"valueUSDRaw"`
	CashARS  decimal.Decimal `json:"cashARS"`
	CashUSD  decimal.Decimal `json:"cashUSD"`
}

// Value returns the converted value in a currency.
func (s Snapshot) Value(cur Currency) Money {
	if cur == USD {
		return M(s.ValueUSD, USD)
	}
	return M(s.ValueARS, ARS)
}

// Cash returns the cash balance in a currency.
func (s Snapshot) Cash(cur Currency) Money {
	if cur == USD {
		return M(s.CashUSD, USD)
	}
	return M(s.CashARS, ARS)
}

// totalReducer sums every line into its currency bucket.
type totalReducer struct{}

func (totalReducer) reduce(day date.Date, lines []contribution, usdars decimal.Decimal) Snapshot {
	s := Snapshot{Date: day}
	for _, c := range lines {
		switch c.Currency {
		case ARS:
			s.RawARS = s.RawARS.Add(c.Value)
		case USD:
			s.RawUSD = s.RawUSD.Add(c.Value)
		}
		if c.Asset == CashAsset {
			switch c.Currency {
			case ARS:
				s.CashARS = s.CashARS.Add(c.Value)
			case USD:
				s.CashUSD = s.CashUSD.Add(c.Value)
			}
		}
	}
	s.ValueARS = s.RawARS.Add(s.RawUSD.Mul(usdars))
	s.ValueUSD = s.RawUSD
	if usdars.IsPositive() {
		s.ValueUSD = s.RawUSD.Add(s.RawARS.Div(usdars))
	}
	return s
}

func (totalReducer) isZero(s Snapshot) bool { return s.ValueARS.IsZero() && s.ValueUSD.IsZero() }

func (totalReducer) redate(s Snapshot, day date.Date) Snapshot {
	s.Date = day
	return s
}

// ValueHistory returns the whole portfolio value for every day of rng.
//
// All transactions before rng.From are taken into account. It only fails on
// an invalid range or a cancelled context.
func ValueHistory(ctx context.Context, ledger *Ledger, prices PriceHistory, rng date.Range, opts Options) ([]Snapshot, error) {
	return replay[Snapshot](ctx, ledger, prices, rng, opts, totalReducer{})
}
