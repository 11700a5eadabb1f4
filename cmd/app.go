// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cartera"
	"github.com/etnz/cartera/store"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&historyCmd{}, "valuation")
	c.Register(&categoriesCmd{}, "valuation")
	c.Register(&valueCmd{}, "valuation")
	c.Register(&performanceCmd{}, "valuation")
	c.Register(&holdingsCmd{}, "valuation")
	c.Register(&reportCmd{}, "valuation")

	c.Register(cashCommand("deposit", "add cash to the portfolio", cartera.NewDeposit), "transactions")
	c.Register(cashCommand("withdraw", "take cash out of the portfolio", cartera.NewWithdraw), "transactions")
	c.Register(tradeCommand("buy", "buy a quantity of a security", buyWithFees), "transactions")
	c.Register(tradeCommand("sell", "sell a quantity of a security", sellWithFees), "transactions")
	c.Register(&createCmd{}, "transactions")
	c.Register(&accreditCmd{}, "transactions")
	c.Register(bondCommand("coupon", "credit a bond coupon", cartera.NewCoupon), "transactions")
	c.Register(bondCommand("amortization", "credit a bond amortization", cartera.NewAmortization), "transactions")

	c.Register(&txCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&topicCmd{}, "help")
	c.Register(&AssistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	ledgerPath  = flag.String("ledger", env("CARTERA_LEDGER", "ledger.jsonl"), "Ledger file, or directory of ledger files (JSONL)")
	pricesPath  = flag.String("prices", env("CARTERA_PRICES", "prices.jsonl"), "Daily closing prices (JSONL)")
	bondsPath   = flag.String("bonds", env("CARTERA_BONDS", ""), "Reference bond prices (JSON), used for bonds without price series")
	rate        = flag.Float64("rate", 0, "Fixed USD to ARS rate. Defaults to the live rate with -live-rates, to 1000 otherwise")
	liveRates   = flag.Bool("live-rates", false, "Fetch the USD to ARS rate from -rates-url")
	ratesURL    = flag.String("rates-url", cartera.DefaultRatesEndpoint, "Exchange rate service")
	ratesPath   = flag.String("rates-path", "$.rates.ARS", "JSONPath to the USD to ARS rate in the -rates-url response")
	initialCash = flag.String("initial-cash", "", `Cash held before the first transaction, like "50000 ARS"`)
	dsn         = flag.String("db", env("CARTERA_DB", ""), "Database storing valuations: a sqlite file or a postgres:// URL")
	verbose     = flag.Bool("v", false, "Verbose logging")
	raw         = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")
)

// out is where reports are printed.
var out io.Writer = os.Stdout

func env(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

// Configure applies the global flags, it must be called once flags are parsed.
func Configure() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// DecodeLedger loads the ledger from the -ledger path.
// A missing ledger is an empty one.
func DecodeLedger() (*cartera.Ledger, error) {
	ledger, err := cartera.LoadLedger(*ledgerPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warnf("ledger %q does not exist, using an empty ledger instead", *ledgerPath)
		return cartera.NewLedger(), nil
	}
	return ledger, err
}

// DecodePrices loads the price history from the -prices file, or from the
// database when the file has none.
func DecodePrices(ctx context.Context) (cartera.PriceHistory, error) {
	prices, err := cartera.LoadPrices(*pricesPath)
	if err != nil || len(prices) > 0 || *dsn == "" {
		return prices, err
	}
	st, err := store.Open(ctx, *dsn)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Prices(ctx)
}

// options builds the valuation options from the global flags.
func options() (cartera.Options, error) {
	var opts cartera.Options
	switch {
	case *rate > 0:
		opts.Rates = cartera.Fixed(*rate)
	case *liveRates:
		opts.Rates = &cartera.LiveRates{Endpoint: *ratesURL, Path: *ratesPath}
	}
	// one rate for the whole command, whatever the number of valuations.
	opts.Rates = cartera.Memoize(opts.Rates)

	if *bondsPath != "" {
		opts.Bonds = cartera.NewBondPrices(cartera.BondFile(*bondsPath), cartera.DefaultBondTTL)
	}
	if *initialCash != "" {
		m, err := parseMoney(*initialCash)
		if err != nil {
			return opts, fmt.Errorf("invalid -initial-cash: %w", err)
		}
		opts.InitialCash = m
	}
	return opts, nil
}

// parseMoney parses an amount followed by its currency, like "1500.5 USD".
func parseMoney(s string) (cartera.Money, error) {
	amount, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return cartera.Money{}, fmt.Errorf("%q is not an amount and a currency", s)
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return cartera.Money{}, err
	}
	cur, err := cartera.ParseCurrency(code)
	if err != nil {
		return cartera.Money{}, err
	}
	return cartera.M(v, cur), nil
}

// printMarkdown renders markdown for the terminal, or prints it raw with -raw.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprintln(out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var rendered string
		if rendered, err = r.Render(md); err == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	log.Debugf("could not render markdown: %v", err)
	fmt.Fprintln(out, md)
}
