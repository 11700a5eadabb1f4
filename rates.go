package cartera

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultUSDARS is the rate used when no provider can answer.
var DefaultUSDARS = decimal.NewFromInt(1000)

// ExchangeRates provides the number of 'to' units for one 'from' unit.
type ExchangeRates interface {
	Rate(ctx context.Context, from, to Currency) (decimal.Decimal, error)
}

// FixedRate is a constant USD to ARS exchange rate.
type FixedRate struct{ USDARS decimal.Decimal }

// Fixed returns a constant exchange rate provider.
func Fixed[T number](usdars T) FixedRate { return FixedRate{USDARS: newDecimal(usdars)} }

func (f FixedRate) Rate(_ context.Context, from, to Currency) (decimal.Decimal, error) {
	return pairRate(f.USDARS, from, to)
}

// pairRate derives any supported pair from the USD to ARS rate.
func pairRate(usdars decimal.Decimal, from, to Currency) (decimal.Decimal, error) {
	switch {
	case !from.Valid():
		return decimal.Zero, fmt.Errorf("%w %q", ErrUnknownCurrency, from)
	case !to.Valid():
		return decimal.Zero, fmt.Errorf("%w %q", ErrUnknownCurrency, to)
	case from == to:
		return decimal.NewFromInt(1), nil
	case !usdars.IsPositive():
		return decimal.Zero, fmt.Errorf("invalid USD/ARS rate %s", usdars)
	case from == USD:
		return usdars, nil
	default:
		return decimal.NewFromInt(1).Div(usdars), nil
	}
}

// MemoRates asks its provider at most once per currency pair.
//
// Provider failures are logged and answered with DefaultUSDARS, so a
// valuation never stops on a missing rate.
type MemoRates struct {
	provider ExchangeRates
	mu       sync.Mutex
	rates    map[[2]Currency]decimal.Decimal
}

// Memoize wraps a provider. A nil provider always answers DefaultUSDARS.
func Memoize(provider ExchangeRates) *MemoRates {
	if m, ok := provider.(*MemoRates); ok {
		return m
	}
	return &MemoRates{provider: provider, rates: make(map[[2]Currency]decimal.Decimal)}
}

func (m *MemoRates) Rate(ctx context.Context, from, to Currency) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]Currency{from, to}
	if r, ok := m.rates[key]; ok {
		return r, nil
	}
	var r decimal.Decimal
	var err error
	if m.provider != nil {
		r, err = m.provider.Rate(ctx, from, to)
	}
	if m.provider == nil || err != nil || !r.IsPositive() {
		if err != nil {
			log.WithError(err).Warnf("exchange rate %s/%s unavailable, using default", from, to)
		}
		if r, err = pairRate(DefaultUSDARS, from, to); err != nil {
			return decimal.Zero, err
		}
	}
	m.rates[key] = r
	return r, nil
}

// USDARS returns the memoized USD to ARS rate.
func (m *MemoRates) USDARS(ctx context.Context) decimal.Decimal {
	r, _ := m.Rate(ctx, USD, ARS) // never fails for a valid pair
	return r
}

// Convert converts an amount into another currency.
func Convert(ctx context.Context, rates ExchangeRates, amount Money, to Currency) (Money, error) {
	if amount.Currency() == to {
		return amount, nil
	}
	r, err := rates.Rate(ctx, amount.Currency(), to)
	if err != nil {
		return Money{}, fmt.Errorf("cannot convert %s to %s: %w", amount, to, err)
	}
	return M(amount.Value().Mul(r), to), nil
}
