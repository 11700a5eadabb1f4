package cartera

import (
	"strings"
	"testing"
)

func TestPriceAt(t *testing.T) {
	series := NewPriceSeries(P(day(1), 102), P(day(2), 0), P(day(3), 0), P(day(4), 112))

	testCases := []struct {
		on     int
		want   string
		wantOK bool
	}{
		{0, "0", false},
		{1, "102", true},
		{2, "102", true},
		{3, "102", true},
		{4, "112", true},
		{10, "112", true},
	}
	for _, tc := range testCases {
		got, ok := PriceAt(series, day(tc.on))
		if ok != tc.wantOK {
			t.Errorf("PriceAt(day %d) ok = %v, want %v", tc.on, ok, tc.wantOK)
			continue
		}
		if ok {
			assertDecimal(t, "PriceAt", got, tc.want)
		}
	}
}

func TestPriceAt_NoValidPrice(t *testing.T) {
	series := NewPriceSeries(P(day(1), 0), P(day(2), -1), P(day(5), 50))
	if got, ok := PriceAt(series, day(3)); ok {
		t.Errorf("PriceAt(all zero) = %s, want absent", got)
	}
	if got, ok := PriceAt(nil, day(3)); ok {
		t.Errorf("PriceAt(nil) = %s, want absent", got)
	}
}

func TestPriceHistory_BaseTicker(t *testing.T) {
	h := make(PriceHistory)
	h.Add("GGAL", P(day(0), 5000))
	if got, ok := h.PriceAt("GGAL.BA", day(1)); !ok || !got.Equal(dec("5000")) {
		t.Errorf("PriceAt(GGAL.BA) = %s, %v want 5000", got, ok)
	}
	if _, ok := h.PriceAt("YPFD", day(1)); ok {
		t.Errorf("PriceAt(YPFD) found, want absent")
	}
}

func TestDecodePrices(t *testing.T) {
	jsonl := `{"security":"AAPL","date":"2025-01-02","close":243.85}

{"security":"AAPL","date":"2025-01-03","open":243,"close":0}
{"security":"MELI","date":"2025-01-02","close":1700.5,"volume":1200}
`
	h, err := DecodePrices(strings.NewReader(jsonl))
	if err != nil {
		t.Fatalf("DecodePrices() error = %v", err)
	}
	if got := h["AAPL"].Len(); got != 2 {
		t.Errorf("AAPL points = %d, want 2", got)
	}
	if got, _ := h.PriceAt("AAPL", day(2)); !got.Equal(dec("243.85")) {
		t.Errorf("AAPL on %s = %s, want 243.85", day(2), got)
	}

	object := `{"AAPL":[{"date":"2025-01-02","close":243.85}],"SPY":[{"date":"2025-01-02","close":590}]}`
	h, err = DecodePrices(strings.NewReader(object))
	if err != nil {
		t.Fatalf("DecodePrices(object) error = %v", err)
	}
	if len(h) != 2 {
		t.Errorf("DecodePrices(object) = %d securities, want 2", len(h))
	}

	var buf strings.Builder
	if err := EncodePrices(&buf, h); err != nil {
		t.Fatalf("EncodePrices() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), `{"security":"AAPL","date":"2025-01-02","close":243.85}`) {
		t.Errorf("EncodePrices() = %s", buf.String())
	}
}
