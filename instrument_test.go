package cartera

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInstrument_AccruedValue(t *testing.T) {
	// 10000 at 36.5% for 30 days: 1 peso a day.
	inst := NewInstrument(NewCreate(day(0), FixedTermDeposit, "Banco Nación", ars(10000), 36.5, 30))

	testCases := []struct {
		name   string
		on     int
		want   string
		wantOK bool
	}{
		{"before start", -1, "0", false},
		{"start", 0, "10000", true},
		{"mid term", 15, "10150", true},
		{"maturity", 30, "10300", true},
		{"after maturity", 45, "10300", true},
		{"long after maturity", 400, "10300", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := inst.AccruedValue(day(tc.on))
			if ok != tc.wantOK {
				t.Fatalf("AccruedValue(day %d) ok = %v, want %v", tc.on, ok, tc.wantOK)
			}
			if ok {
				assertDecimal(t, "AccruedValue", got, tc.want)
			}
		})
	}
	assertDecimal(t, "FinalValue", inst.FinalValue(), "10300")
}

func TestInstrument_AccrualFormula(t *testing.T) {
	p, r := dec("25000"), dec("40")
	inst := NewInstrument(NewCreate(day(0), Caucion, "BYMA", M(p, ARS), 40, 90))
	for _, d := range []int{1, 7, 17, 63, 89} {
		// P + P*(R/100/365)*d
		want := p.Add(p.Mul(r.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(365))).Mul(decimal.NewFromInt(int64(d))))
		got, _ := inst.AccruedValue(day(d))
		assertNear(t, "AccruedValue", got, want)
	}
}

func TestNewInstrument_TermFromMaturity(t *testing.T) {
	c := Create{
		baseCmd:      baseCmd{Command: CmdCreate, Date: day(0), Cur: ARS},
		AssetType:    FixedTermDeposit,
		Amount:       dec("10000"),
		AnnualRate:   dec("36.5"),
		MaturityDate: day(30),
	}
	inst := NewInstrument(c)
	if inst.TermDays != 30 {
		t.Errorf("TermDays = %d, want 30", inst.TermDays)
	}
	assertDecimal(t, "FinalValue", inst.FinalValue(), "10300")

	if inst.MaturedOn(day(30)) {
		t.Errorf("MaturedOn(maturity) = true, want false")
	}
	if !inst.MaturedOn(day(31)) {
		t.Errorf("MaturedOn(maturity+1) = false, want true")
	}
}
