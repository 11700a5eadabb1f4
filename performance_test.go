package cartera

import (
	"testing"

	"github.com/etnz/cartera/date"
)

func snap(d date.Date, ars, usd string) Snapshot {
	return Snapshot{Date: d, ValueARS: dec(ars), ValueUSD: dec(usd)}
}

func TestComputePerformance(t *testing.T) {
	today := date.New(2025, 6, 30)

	testCases := []struct {
		name      string
		history   []Snapshot
		inflation *Inflation
		want      Performance
	}{
		{
			name:    "empty",
			history: nil,
			want:    Performance{},
		},
		{
			name:    "single entry",
			history: []Snapshot{snap(today, "1000", "1")},
			want:    Performance{},
		},
		{
			name: "nothing old enough uses the earliest entry",
			history: []Snapshot{
				snap(today.Add(-20), "1000", "1"),
				snap(today.Add(-10), "1100", "1.1"),
				snap(today, "1200", "1.2"),
			},
			want: Performance{
				MonthlyARS: 20, MonthlyUSD: 20, AnnualARS: 20, AnnualUSD: 20,
				RealMonthlyARS: 20, RealMonthlyUSD: 20, RealAnnualARS: 20, RealAnnualUSD: 20,
			},
		},
		{
			name: "zero reference",
			history: []Snapshot{
				snap(today.Add(-40), "0", "0"),
				snap(today, "500", "0.5"),
			},
			want: Performance{},
		},
		{
			name: "latest entry before the cutoff",
			history: []Snapshot{
				snap(today, "1500", "1.5"), // unsorted on purpose
				snap(today.AddYear(-1).Add(-3), "500", "1"),
				snap(today.AddYear(-1), "1000", "1"),
				snap(today.AddMonth(-1).Add(-1), "1200", "1.25"),
				snap(today.AddMonth(-1).Add(1), "1400", "1.4"),
			},
			inflation: &Inflation{
				Argentina: InflationRate{Monthly: 25, Annual: 50},
				USA:       InflationRate{Monthly: 0, Annual: 5},
			},
			want: Performance{
				MonthlyARS: 25, MonthlyUSD: 20, AnnualARS: 50, AnnualUSD: 50,
				RealMonthlyARS: 0, RealMonthlyUSD: 20, RealAnnualARS: 0, RealAnnualUSD: 42.857142857,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputePerformance(tc.history, tc.inflation)
			checks := []struct {
				field     string
				got, want Percent
			}{
				{"MonthlyARS", got.MonthlyARS, tc.want.MonthlyARS},
				{"MonthlyUSD", got.MonthlyUSD, tc.want.MonthlyUSD},
				{"AnnualARS", got.AnnualARS, tc.want.AnnualARS},
				{"AnnualUSD", got.AnnualUSD, tc.want.AnnualUSD},
				{"RealMonthlyARS", got.RealMonthlyARS, tc.want.RealMonthlyARS},
				{"RealMonthlyUSD", got.RealMonthlyUSD, tc.want.RealMonthlyUSD},
				{"RealAnnualARS", got.RealAnnualARS, tc.want.RealAnnualARS},
				{"RealAnnualUSD", got.RealAnnualUSD, tc.want.RealAnnualUSD},
			}
			for _, c := range checks {
				if !c.got.Equal(c.want) {
					t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestRealReturn(t *testing.T) {
	testCases := []struct {
		nominal, inflation, want Percent
	}{
		{10, 5, 4.761904762},
		{0, 0, 0},
		{-10, 10, -18.181818182},
		{10, -100, 0}, // division by zero
	}
	for _, tc := range testCases {
		if got := RealReturn(tc.nominal, tc.inflation); !got.Equal(tc.want) {
			t.Errorf("RealReturn(%v, %v) = %v, want %v", tc.nominal, tc.inflation, got, tc.want)
		}
	}
}
