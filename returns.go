package cartera

import (
	"math"
	"slices"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// InvestedCapital returns the capital put in the market in a currency: buys
// at price and fixed-term deposits, minus sells at price. Fees are excluded.
func InvestedCapital(ledger *Ledger, cur Currency) Money {
	total := M(0, cur)
	for _, tx := range ledger.Transactions(ByCurrency(cur)) {
		switch v := tx.(type) {
		case Buy:
			total = total.Add(M(v.Quantity.value.Mul(v.Price), cur))
		case Sell:
			total = total.Sub(M(v.Quantity.value.Mul(v.Price), cur))
		case Create:
			if v.AssetType == FixedTermDeposit {
				total = total.Add(v.Principal())
			}
		}
	}
	return total
}

// NetContributions returns the cash brought into the portfolio in a
// currency: deposits minus withdrawals.
func NetContributions(ledger *Ledger, cur Currency) Money {
	total := M(0, cur)
	for _, tx := range ledger.Transactions(ByCurrency(cur), ByCommand(CmdDeposit, CmdWithdraw)) {
		switch v := tx.(type) {
		case Deposit:
			total = total.Add(v.Money())
		case Withdraw:
			total = total.Sub(v.Money())
		}
	}
	return total
}

// NetGains is what the portfolio earned on top of the capital put in.
func NetGains(current, invested Money) Money { return current.Sub(invested) }

// AnnualizedReturn returns the compound annual growth rate between two values.
//
// It is 0 when either value is not positive or the dates are not ordered.
func AnnualizedReturn(initial, final decimal.Decimal, from, to date.Date) Percent {
	if !initial.IsPositive() || !final.IsPositive() {
		return 0
	}
	years := float64(to.DaysSince(from)) / 365.25
	if years <= 0 {
		return 0
	}
	ratio := final.Div(initial).InexactFloat64()
	return finite((math.Pow(ratio, 1/years) - 1) * 100)
}

// CashFlow is a dated amount: negative when invested, positive when received.
type CashFlow struct {
	Date   date.Date
	Amount float64
}

// IRR returns the annual internal rate of return of cash flows, solved with
// Newton's method. The last flow is usually the current portfolio value.
func IRR(flows []CashFlow) Percent {
	if len(flows) < 2 {
		return 0
	}
	sorted := slices.Clone(flows)
	slices.SortStableFunc(sorted, func(a, b CashFlow) int { return a.Date.Compare(b.Date) })

	times := make([]float64, len(sorted))
	for i, f := range sorted {
		times[i] = float64(f.Date.DaysSince(sorted[0].Date)) / 365.25
	}

	rate := 0.1
	for range 100 {
		var f, df float64
		for i, cf := range sorted {
			f += cf.Amount / math.Pow(1+rate, times[i])
			df += -cf.Amount * times[i] / math.Pow(1+rate, times[i]+1)
		}
		if df == 0 {
			break
		}
		next := rate - f/df
		if math.Abs(next-rate) < 1e-7 {
			rate = next
			break
		}
		rate = next
	}
	return finite(rate * 100)
}

// Gains sums up what the whole portfolio earned, expressed in one currency.
//
// Cash flows in the other currency are converted at the current rate.
type Gains struct {
	Currency      Currency
	Contributions Money   // deposits minus withdrawals
	Invested      Money   // capital in the market
	Value         Money   // current value
	Net           Money   // Value minus Contributions
	Annualized    Percent // CAGR of Contributions into Value since the first deposit
	IRR           Percent // money-weighted return of deposits and withdrawals
}

// ComputeGains returns the gains of the portfolio in ARS and in USD.
//
// Transactions after on are ignored.
func ComputeGains(ledger *Ledger, cv CurrentValue, on date.Date) []Gains {
	past := NewLedger()
	first := on
	for _, tx := range ledger.Transactions(Until(on)) {
		if tx.What() == CmdDeposit && first == on {
			first = tx.When()
		}
		past.Append(tx)
	}

	gains := make([]Gains, 0, len(Currencies))
	for _, cur := range Currencies {
		convert := func(m Money) Money {
			rate, err := pairRate(cv.USDARS, m.Currency(), cur)
			if err != nil {
				return M(0, cur)
			}
			return M(m.Value().Mul(rate), cur)
		}

		g := Gains{Currency: cur, Value: cv.Total(cur), Contributions: M(0, cur), Invested: M(0, cur)}
		var flows []CashFlow
		for _, c := range Currencies {
			g.Contributions = g.Contributions.Add(convert(NetContributions(past, c)))
			g.Invested = g.Invested.Add(convert(InvestedCapital(past, c)))
		}
		for _, tx := range past.Transactions(ByCommand(CmdDeposit, CmdWithdraw)) {
			switch v := tx.(type) {
			case Deposit:
				flows = append(flows, CashFlow{Date: v.Date, Amount: -convert(v.Money()).AsFloat()})
			case Withdraw:
				flows = append(flows, CashFlow{Date: v.Date, Amount: convert(v.Money()).AsFloat()})
			}
		}
		flows = append(flows, CashFlow{Date: on, Amount: g.Value.AsFloat()})

		g.Net = NetGains(g.Value, g.Contributions)
		g.Annualized = AnnualizedReturn(g.Contributions.Value(), g.Value.Value(), first, on)
		g.IRR = IRR(flows)
		gains = append(gains, g)
	}
	return gains
}
