package cartera

import (
	"context"
	"time"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CurrentValue is the value of holdings at an instant, by currency bucket.
type CurrentValue struct {
	ARS        Money
	USD        Money
	USDARS     decimal.Decimal  // rate used for USD bonds and totals
	Duplicates []DuplicateGroup // same asset held through different listings
	Positions  []PositionGain   // unrealized gain of every line but cash
}

// Total returns both buckets converted into a currency.
func (c CurrentValue) Total(cur Currency) Money {
	if cur == USD {
		if !c.USDARS.IsPositive() {
			return c.USD
		}
		return M(c.USD.Value().Add(c.ARS.Value().Div(c.USDARS)), USD)
	}
	return M(c.ARS.Value().Add(c.USD.Value().Mul(c.USDARS)), ARS)
}

// ComputeCurrentValue values holdings at now, without replaying any history.
//
// Positions use their latest non-zero price, instruments accrue up to now
// (matured ones stay frozen), and cash is added as is. USD bonds are reported
// in the ARS bucket, crypto always in the USD bucket.
func ComputeCurrentValue(ctx context.Context, h Holdings, prices PriceHistory, opts Options, now time.Time) CurrentValue {
	rates := Memoize(opts.Rates)
	usdars := rates.USDARS(ctx)
	day := date.FromTime(now)
	v := newValuer(ctx, prices, opts.Bonds, usdars)

	cv := CurrentValue{ARS: M(0, ARS), USD: M(0, USD), USDARS: usdars}
	for _, c := range v.holdings(h, day) {
		switch c.Currency {
		case ARS:
			cv.ARS = cv.ARS.Add(M(c.Value, ARS))
		case USD:
			cv.USD = cv.USD.Add(M(c.Value, USD))
		}
	}
	cv.Positions = v.gains(h, day)
	cv.Duplicates = DetectDuplicates(h.Positions)
	for _, d := range cv.Duplicates {
		log.Warnf("duplicate positions: %s", d)
	}
	return cv
}
