package cartera

import (
	"slices"

	"github.com/shopspring/decimal"
)

// WithdrawalTolerance is the largest difference, in currency units, between
// a withdrawal and a matured instrument's final value for them to match.
var WithdrawalTolerance = decimal.NewFromInt(1)

// MatchWithdrawal finds the matured instrument paid out by a withdrawal.
//
// Candidates have the withdrawal's currency and a final value within
// WithdrawalTolerance of its amount. The oldest maturity wins, ties keep the
// registry order. It returns the index of the instrument in matured.
func MatchWithdrawal(w Withdraw, matured []*Instrument) (int, bool) {
	best := -1
	for i, inst := range matured {
		if inst.Currency != w.Cur {
			continue
		}
		if inst.FinalValue().Sub(w.Amount).Abs().GreaterThan(WithdrawalTolerance) {
			continue
		}
		if best < 0 || inst.Maturity.Before(matured[best].Maturity) {
			best = i
		}
	}
	return best, best >= 0
}

// removeInstrument returns the registry without the instrument at index i.
func removeInstrument(registry []*Instrument, i int) []*Instrument {
	return slices.Delete(registry, i, i+1)
}
