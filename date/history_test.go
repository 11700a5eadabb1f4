package date

import (
	"slices"
	"testing"
)

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	h.Append(d1, v1)
	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Fatalf("Append(d2, v2).Len() = %v want 2", h.Len())
	}
	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v want [%v %v]", h.days, d2, d1)
	}
	if h.values[0] != v2 || h.values[1] != v1 {
		t.Errorf("history values = %v want [%v %v]", h.values, v2, v1)
	}

	h.Append(d1, "overwritten")
	if got, _ := h.Get(d1); got != "overwritten" {
		t.Errorf("Get(d1) = %q after overwrite", got)
	}
}

func TestValueAsOfFunc(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 1, 1), 102)
	h.Append(New(2025, 1, 2), 0)
	h.Append(New(2025, 1, 3), 0)
	h.Append(New(2025, 1, 4), 112)
	positive := func(v float64) bool { return v > 0 }

	testCases := []struct {
		on     Date
		want   float64
		wantOK bool
	}{
		{New(2024, 12, 31), 0, false},
		{New(2025, 1, 1), 102, true},
		{New(2025, 1, 2), 102, true},
		{New(2025, 1, 3), 102, true},
		{New(2025, 1, 4), 112, true},
		{New(2025, 2, 1), 112, true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOfFunc(tc.on, positive)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("ValueAsOfFunc(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
		}
	}

	if got, _ := h.ValueAsOf(New(2025, 1, 3)); got != 0 {
		t.Errorf("ValueAsOf(2025-01-03) = %v want 0", got)
	}
}

func TestRangeDays(t *testing.T) {
	r := Range{From: New(2025, 1, 30), To: New(2025, 2, 2)}
	got := slices.Collect(r.Days())
	want := []Date{New(2025, 1, 30), New(2025, 1, 31), New(2025, 2, 1), New(2025, 2, 2)}
	if !slices.Equal(got, want) {
		t.Errorf("Days() = %v want %v", got, want)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d want 4", r.Len())
	}

	ends := slices.Collect(Range{From: New(2025, 1, 15), To: New(2025, 3, 10)}.Ends(Monthly))
	wantEnds := []Date{New(2025, 1, 31), New(2025, 2, 28), New(2025, 3, 10)}
	if !slices.Equal(ends, wantEnds) {
		t.Errorf("Ends(Monthly) = %v want %v", ends, wantEnds)
	}

	if err := (Range{From: New(2025, 2, 1), To: New(2025, 1, 1)}).Validate(); err == nil {
		t.Errorf("Validate() on reversed range = nil, want error")
	}
}
