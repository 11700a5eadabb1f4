package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/renderer"
	"github.com/google/subcommands"
)

type performanceCmd struct {
	to          string
	inflationAR string
	inflationUS string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display monthly and annual returns" }
func (*performanceCmd) Usage() string {
	return `cartera performance [-to <date>] [-inflation-ar <monthly>,<annual>] [-inflation-us <monthly>,<annual>]

  Computes the return of the portfolio over the last month and the last year,
  in ARS and USD. With inflation figures, in percent, real returns are
  computed too.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", date.Today().String(), "Day the returns end on.")
	f.StringVar(&c.inflationAR, "inflation-ar", "", "Argentine inflation in percent, monthly and annual, like 2.7,84.5")
	f.StringVar(&c.inflationUS, "inflation-us", "", "US inflation in percent, monthly and annual, like 0.2,2.9")
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	inflation, err := c.inflation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	history, err := valueHistory(ctx, ledger, date.Range{From: to.AddYear(-1), To: to})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing history: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PerformanceMarkdown(cartera.ComputePerformance(history, inflation)))
	return subcommands.ExitSuccess
}

// inflation returns nil when no figure is given.
func (c *performanceCmd) inflation() (*cartera.Inflation, error) {
	if c.inflationAR == "" && c.inflationUS == "" {
		return nil, nil
	}
	ar, err := parseInflation(c.inflationAR)
	if err != nil {
		return nil, fmt.Errorf("invalid -inflation-ar: %w", err)
	}
	us, err := parseInflation(c.inflationUS)
	if err != nil {
		return nil, fmt.Errorf("invalid -inflation-us: %w", err)
	}
	return &cartera.Inflation{Argentina: ar, USA: us}, nil
}

// parseInflation parses "monthly,annual" percents, empty is no inflation.
func parseInflation(s string) (cartera.InflationRate, error) {
	if s == "" {
		return cartera.InflationRate{}, nil
	}
	m, a, ok := strings.Cut(s, ",")
	if !ok {
		return cartera.InflationRate{}, fmt.Errorf("%q is not <monthly>,<annual>", s)
	}
	monthly, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return cartera.InflationRate{}, err
	}
	annual, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return cartera.InflationRate{}, err
	}
	return cartera.InflationRate{Monthly: cartera.Percent(monthly), Annual: cartera.Percent(annual)}, nil
}
