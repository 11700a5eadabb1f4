package cartera

import (
	"slices"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// InflationRate is a monthly and an annual inflation figure.
type InflationRate struct {
	Monthly Percent `json:"monthly"`
	Annual  Percent `json:"annual"`
}

// Inflation holds the inflation ARS and USD returns are deflated with.
type Inflation struct {
	Argentina InflationRate `json:"argentina"`
	USA       InflationRate `json:"usa"`
}

// Performance holds trailing returns of a value history, nominal and real.
type Performance struct {
	MonthlyARS     Percent `json:"monthlyReturnARS"`
	MonthlyUSD     Percent `json:"monthlyReturnUSD"`
	AnnualARS      Percent `json:"annualReturnARS"`
	AnnualUSD      Percent `json:"annualReturnUSD"`
	RealMonthlyARS Percent `json:"monthlyReturnARSReal"`
	RealMonthlyUSD Percent `json:"monthlyReturnUSDReal"`
	RealAnnualARS  Percent `json:"annualReturnARSReal"`
	RealAnnualUSD  Percent `json:"annualReturnUSDReal"`
}

// ComputePerformance returns the returns of the last entry of history against
// its value one month and one year earlier.
//
// When no entry is old enough the earliest entry after the cutoff is used
// instead. A zero reference value gives a 0% return. Without inflation, real
// returns equal nominal ones. Fewer than two entries give all zeros.
func ComputePerformance(history []Snapshot, inflation *Inflation) Performance {
	if len(history) < 2 {
		return Performance{}
	}
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b Snapshot) int { return a.Date.Compare(b.Date) })

	current := sorted[len(sorted)-1]
	month := ReferenceEntry(sorted, current.Date.AddMonth(-1))
	year := ReferenceEntry(sorted, current.Date.AddYear(-1))

	p := Performance{
		MonthlyARS: Return(month.ValueARS, current.ValueARS),
		MonthlyUSD: Return(month.ValueUSD, current.ValueUSD),
		AnnualARS:  Return(year.ValueARS, current.ValueARS),
		AnnualUSD:  Return(year.ValueUSD, current.ValueUSD),
	}
	var inf Inflation
	if inflation != nil {
		inf = *inflation
	}
	p.RealMonthlyARS = RealReturn(p.MonthlyARS, inf.Argentina.Monthly)
	p.RealMonthlyUSD = RealReturn(p.MonthlyUSD, inf.USA.Monthly)
	p.RealAnnualARS = RealReturn(p.AnnualARS, inf.Argentina.Annual)
	p.RealAnnualUSD = RealReturn(p.AnnualUSD, inf.USA.Annual)
	return p
}

// ReferenceEntry returns the latest entry on or before cutoff in a sorted
// history, or else the earliest entry after it, or else the first entry.
func ReferenceEntry(sorted []Snapshot, cutoff date.Date) Snapshot {
	for i := len(sorted) - 1; i >= 0; i-- {
		if !sorted[i].Date.After(cutoff) {
			return sorted[i]
		}
	}
	// nothing old enough: sorted[0] is the earliest after the cutoff.
	return sorted[0]
}

// Return is the percent change from ref to current, 0 when ref is zero.
func Return(ref, current decimal.Decimal) Percent {
	if ref.IsZero() {
		return 0
	}
	return finite(current.Sub(ref).Div(ref).InexactFloat64() * 100)
}

// RealReturn deflates a nominal return by an inflation rate (Fisher equation).
func RealReturn(nominal, inflation Percent) Percent {
	return finite(((1+float64(nominal)/100)/(1+float64(inflation)/100) - 1) * 100)
}
