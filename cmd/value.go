package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct{}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the current value of the portfolio" }
func (*valueCmd) Usage() string {
	return `cartera value

  Values what is held right now, in an ARS and a USD bucket, and warns about
  assets held through different listings. The gains compare the value with
  the cash deposited.
`
}

func (*valueCmd) SetFlags(*flag.FlagSet) {}

func (*valueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cv, gains, on, err := currentValue(ctx, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing value: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CurrentValueMarkdown(cv, on) + "\n" + renderer.GainsMarkdown(gains))
	return subcommands.ExitSuccess
}

func currentValue(ctx context.Context, now time.Time) (cv cartera.CurrentValue, gains []cartera.Gains, on date.Date, err error) {
	on = date.FromTime(now)
	ledger, err := DecodeLedger()
	if err != nil {
		return cv, nil, on, err
	}
	prices, err := DecodePrices(ctx)
	if err != nil {
		return cv, nil, on, err
	}
	opts, err := options()
	if err != nil {
		return cv, nil, on, err
	}
	cv = cartera.ComputeCurrentValue(ctx, ledger.Holdings(on, opts.InitialCash), prices, opts, now)
	return cv, cartera.ComputeGains(ledger, cv, on), on, nil
}
