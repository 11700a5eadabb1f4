package cartera

import (
	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// basisPoints turns an annual rate in percent into a daily rate (365-day year).
var basisPoints = decimal.NewFromInt(36500)

// Instrument is a fixed-term deposit or a caución: a principal growing with
// simple daily interest until its maturity.
type Instrument struct {
	ID         string
	Kind       AssetType // FixedTermDeposit or Caucion
	Provider   string
	Currency   Currency
	Amount     decimal.Decimal // principal
	AnnualRate decimal.Decimal // percent
	Start      date.Date
	Maturity   date.Date
	TermDays   int
}

// NewInstrument opens the instrument described by a create transaction.
//
// A missing term is derived from the maturity date, and a missing maturity
// date from the term.
func NewInstrument(c Create) *Instrument {
	i := &Instrument{
		ID:         c.ID,
		Kind:       c.AssetType,
		Provider:   c.Provider,
		Currency:   c.Cur,
		Amount:     c.Amount,
		AnnualRate: c.AnnualRate,
		Start:      c.Date,
		Maturity:   c.MaturityDate,
		TermDays:   c.TermDays,
	}
	switch {
	case i.Maturity.IsZero():
		i.Maturity = i.Start.Add(i.TermDays)
	case i.TermDays <= 0:
		i.TermDays = i.Maturity.DaysSince(i.Start)
	}
	return i
}

// valueAfter returns the principal plus the interest of n days.
func (i *Instrument) valueAfter(n int) decimal.Decimal {
	if n < 0 {
		n = 0
	}
	interest := i.Amount.Mul(i.AnnualRate).Mul(decimal.NewFromInt(int64(n))).Div(basisPoints)
	return i.Amount.Add(interest)
}

// AccruedValue returns the value of the instrument on asOf.
//
// It returns false before the start date. From the maturity date on the value
// is frozen at FinalValue.
func (i *Instrument) AccruedValue(asOf date.Date) (decimal.Decimal, bool) {
	if asOf.Before(i.Start) {
		return decimal.Zero, false
	}
	if !asOf.Before(i.Maturity) {
		return i.FinalValue(), true
	}
	return i.valueAfter(asOf.DaysSince(i.Start)), true
}

// FinalValue returns the principal plus the full-term interest.
func (i *Instrument) FinalValue() decimal.Decimal { return i.valueAfter(i.TermDays) }

// Final returns FinalValue as Money.
func (i *Instrument) Final() Money { return M(i.FinalValue(), i.Currency) }

// MaturedOn reports whether the instrument is matured on day, that is day is
// strictly after its maturity date.
func (i *Instrument) MaturedOn(day date.Date) bool { return day.After(i.Maturity) }
