package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the global flags to a temporary workspace and restores them
// at the end of the test.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := struct {
		ledger, prices, db string
		rate               float64
		raw                bool
	}{*ledgerPath, *pricesPath, *dsn, *rate, *raw}
	t.Cleanup(func() {
		*ledgerPath, *pricesPath, *dsn, *rate, *raw = old.ledger, old.prices, old.db, old.rate, old.raw
		out = os.Stdout
	})
	*ledgerPath = filepath.Join(dir, "ledger.jsonl")
	*pricesPath = filepath.Join(dir, "prices.jsonl")
	*dsn = ""
	*rate = 1000
	*raw = true
	return dir
}

// run parses args for c and executes it, returning what it printed.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f), buf.String()
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    cartera.Money
		wantErr bool
	}{
		{"50000 ARS", cartera.M(50000, cartera.ARS), false},
		{" 1500.5 usd ", cartera.M(1500.5, cartera.USD), false},
		{"1500", cartera.Money{}, true},
		{"abc USD", cartera.Money{}, true},
		{"10 EUR", cartera.Money{}, true},
	}
	for _, tt := range tests {
		got, err := parseMoney(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "parseMoney(%q) = %v, want %v", tt.in, got, tt.want)
	}
}

func TestParseInflation(t *testing.T) {
	got, err := parseInflation("2.5, 30")
	require.NoError(t, err)
	assert.Equal(t, cartera.InflationRate{Monthly: 2.5, Annual: 30}, got)

	got, err = parseInflation("")
	require.NoError(t, err)
	assert.Equal(t, cartera.InflationRate{}, got)

	_, err = parseInflation("2.5")
	assert.Error(t, err)

	c := &performanceCmd{}
	inflation, err := c.inflation()
	require.NoError(t, err)
	assert.Nil(t, inflation)
}

func TestRangeFlags(t *testing.T) {
	jan5 := date.New(2025, 1, 5)
	ledger := cartera.NewLedger(cartera.NewDeposit(jan5, cartera.M(1, cartera.ARS)))

	tests := []struct {
		name  string
		flags rangeFlags
		want  date.Range
	}{
		{"from first transaction", rangeFlags{to: "2025-01-10"}, date.Range{From: jan5, To: date.New(2025, 1, 10)}},
		{"explicit", rangeFlags{from: "2025-01-07", to: "2025-01-10"}, date.Range{From: date.New(2025, 1, 7), To: date.New(2025, 1, 10)}},
		{"last days", rangeFlags{from: "2020-01-01", to: "2025-01-10", days: 3}, date.Range{From: date.New(2025, 1, 8), To: date.New(2025, 1, 10)}},
		{"ledger after to", rangeFlags{to: "2025-01-01"}, date.Range{From: date.New(2025, 1, 1), To: date.New(2025, 1, 1)}},
	}
	for _, tt := range tests {
		got, err := tt.flags.Range(ledger)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := (&rangeFlags{to: "tomorrow"}).Range(ledger)
	assert.Error(t, err)
}

func TestRecordTransactions(t *testing.T) {
	setup(t)

	status, _ := run(t, cashCommand("deposit", "", cartera.NewDeposit), "-d", "2025-01-01", "-a", "100000", "-c", "ARS")
	require.Equal(t, subcommands.ExitSuccess, status)

	status, printed := run(t, &createCmd{}, "-d", "2025-01-02", "-p", "Banco", "-a", "50000", "-r", "36.5", "-term", "30", "-id", "pf1")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "pf1\n", printed)

	status, _ = run(t, &accreditCmd{}, "-d", "2025-02-01", "-i", "pf1", "-a", "51500")
	require.Equal(t, subcommands.ExitSuccess, status)

	status, _ = run(t, tradeCommand("buy", "", buyWithFees), "-d", "2025-02-02", "-s", "GGAL.BA", "-q", "10", "-p", "1000")
	require.Equal(t, subcommands.ExitSuccess, status)

	status, _ = run(t, tradeCommand("sell", "", sellWithFees), "-d", "2025-02-03", "-s", "GGAL.BA", "-q", "4", "-p", "1000", "-commission", "0")
	require.Equal(t, subcommands.ExitSuccess, status)

	status, _ = run(t, bondCommand("coupon", "", cartera.NewCoupon), "-d", "2025-02-03", "-s", "AL30D", "-a", "5", "-c", "USD")
	require.Equal(t, subcommands.ExitSuccess, status)

	// invalid transactions are not recorded.
	status, _ = run(t, cashCommand("withdraw", "", cartera.NewWithdraw), "-d", "2025-02-03", "-a", "-5")
	assert.Equal(t, subcommands.ExitUsageError, status)
	status, _ = run(t, &createCmd{}, "-d", "2025-01-02", "-p", "Banco", "-a", "50000", "-r", "36.5")
	assert.Equal(t, subcommands.ExitUsageError, status)

	ledger, err := cartera.LoadLedger(*ledgerPath)
	require.NoError(t, err)
	require.Equal(t, 6, ledger.Len())
	require.NoError(t, ledger.Validate())

	for _, tx := range ledger.Transactions(cartera.ByCommand(cartera.CmdBuy)) {
		buy := tx.(cartera.Buy)
		require.True(t, buy.CommissionPct.Valid, "default commission is written")
		assert.True(t, buy.CommissionPct.Decimal.Equal(cartera.DefaultCommissionPct))
		assert.True(t, buy.PurchaseFeePct.Decimal.Equal(cartera.DefaultPurchaseFeePct))
	}

	h := ledger.Holdings(date.New(2025, 2, 3), cartera.Money{})
	assert.Empty(t, h.Active, "accredited instrument is retired")
	assert.Empty(t, h.Matured, "accredited instrument is retired")
	// 100000 - 50000 + 51500 - 10000*1.0105 + 4000
	assert.True(t, h.Cash[cartera.ARS].Equal(cartera.M(95395, cartera.ARS)), "ARS cash is %v", h.Cash[cartera.ARS])
	assert.True(t, h.Cash[cartera.USD].Equal(cartera.M(5, cartera.USD)), "USD cash is %v", h.Cash[cartera.USD])
	require.Len(t, h.Positions, 1)
	assert.Equal(t, "GGAL.BA", h.Positions[0].Security)
	assert.Equal(t, cartera.ARS, h.Positions[0].Currency)
	assert.Equal(t, "6", h.Positions[0].Quantity.String())
}

func TestFmt(t *testing.T) {
	setup(t)
	content := `{"command":"deposit","date":"2025-01-02","currency":"ARS","amount":10}
{"command":"deposit","date":"2025-01-01","currency":"USD","amount":5}
`
	require.NoError(t, os.WriteFile(*ledgerPath, []byte(content), 0o644))

	status, _ := run(t, &fmtCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)

	formatted, err := os.ReadFile(*ledgerPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(formatted)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"date":"2025-01-01"`, "sorted by date")
	assert.Contains(t, lines[0], `"id":"`, "ids are assigned")
	assert.Contains(t, lines[1], `"currency":"ARS"`)
}

func TestFmtInvalidLedger(t *testing.T) {
	setup(t)
	content := `{"command":"deposit","date":"2025-01-02","currency":"ARS","amount":-10}
`
	require.NoError(t, os.WriteFile(*ledgerPath, []byte(content), 0o644))

	status, _ := run(t, &fmtCmd{})
	assert.Equal(t, subcommands.ExitFailure, status)
	untouched, err := os.ReadFile(*ledgerPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(untouched))

	status, _ = run(t, &fmtCmd{}, "-force")
	assert.Equal(t, subcommands.ExitSuccess, status)

	*ledgerPath = filepath.Dir(*ledgerPath)
	status, _ = run(t, &fmtCmd{})
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestValuationCommands(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile(*ledgerPath, []byte(
		`{"command":"deposit","date":"2025-01-01","currency":"USD","amount":1000}
{"command":"deposit","date":"2025-01-02","currency":"ARS","amount":20000}
`), 0o644))

	status, printed := run(t, &historyCmd{}, "-from", "2025-01-01", "-to", "2025-01-03")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Portfolio History from 2025-01-01 to 2025-01-03")
	assert.Contains(t, printed, cartera.M(1020000, cartera.ARS).String())

	status, printed = run(t, &categoriesCmd{}, "-to", "2025-01-03", "-currency", "USD")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Categories on 2025-01-03")
	assert.Contains(t, printed, cartera.M(1020, cartera.USD).String())

	status, printed = run(t, &holdingsCmd{}, "-d", "2025-01-01")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Holdings on 2025-01-01")

	status, printed = run(t, &valueCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Portfolio Value on "+date.Today().String())
	assert.Contains(t, printed, "Net Gains")

	status, printed = run(t, &performanceCmd{}, "-to", "2025-01-03", "-inflation-ar", "2,30")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Performance")

	status, printed = run(t, &txCmd{}, "-c", "USD")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Deposited "+cartera.M(1000, cartera.USD).String())
	assert.NotContains(t, printed, "Deposited "+cartera.M(20000, cartera.ARS).String())

	status, _ = run(t, &historyCmd{}, "-period", "fortnight")
	assert.Equal(t, subcommands.ExitUsageError, status)
	status, _ = run(t, &categoriesCmd{}, "-currency", "EUR")
	assert.Equal(t, subcommands.ExitUsageError, status)
	status, _ = run(t, &txCmd{}, "-head", "1", "-tail", "1")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestReportStoresValuations(t *testing.T) {
	dir := setup(t)
	*dsn = filepath.Join(dir, "cartera.db")
	require.NoError(t, os.WriteFile(*ledgerPath, []byte(
		`{"command":"deposit","date":"2025-01-01","currency":"USD","amount":1000}
`), 0o644))
	require.NoError(t, os.WriteFile(*pricesPath, []byte(
		`{"date":"2025-01-01","security":"AAPL","close":200}
`), 0o644))

	status, printed := run(t, &reportCmd{}, "-to", "2025-01-10")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Portfolio Value on 2025-01-10")
	assert.Contains(t, printed, "Recent Transactions")
	assert.Contains(t, printed, "Net Gains")

	status, printed = run(t, &historyCmd{}, "-stored", "-from", "2025-01-05", "-to", "2025-01-06")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Portfolio History from 2025-01-05 to 2025-01-06")
	assert.Contains(t, printed, cartera.M(1000, cartera.USD).String())

	status, printed = run(t, &categoriesCmd{}, "-stored", "-to", "2025-01-06")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, printed, "Categories on 2025-01-06")

	// prices fall back to the database when the file has none.
	require.NoError(t, os.Remove(*pricesPath))
	prices, err := DecodePrices(context.Background())
	require.NoError(t, err)
	_, ok := prices.Series("AAPL")
	assert.True(t, ok)
}

func TestStoredNeedsDatabase(t *testing.T) {
	setup(t)
	status, _ := run(t, &historyCmd{}, "-stored", "-days", "2")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestTopic(t *testing.T) {
	setup(t)

	status, got := run(t, &topicCmd{}, "-list")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, strings.Fields(got), "ledger")
	assert.NotContains(t, strings.Fields(got), "readme")

	status, got = run(t, &topicCmd{}, "valuation")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.NotEmpty(t, got)

	status, _ = run(t, &topicCmd{}, "nope")
	assert.Equal(t, subcommands.ExitUsageError, status)
}
