package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/renderer"
	"github.com/etnz/cartera/store"
	"github.com/google/subcommands"
)

// rangeFlags select the days to value.
type rangeFlags struct {
	from string
	to   string
	days int
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.from, "from", "", "First day. Defaults to the first transaction.")
	f.StringVar(&r.to, "to", "", "Last day. Defaults to today.")
	f.IntVar(&r.days, "days", 0, "Value the last N days up to -to. Overrides -from.")
}

// Range resolves the flags against the ledger.
func (r *rangeFlags) Range(ledger *cartera.Ledger) (date.Range, error) {
	to := date.Today()
	if r.to != "" {
		var err error
		if to, err = date.Parse(r.to); err != nil {
			return date.Range{}, err
		}
	}
	if r.days > 0 {
		return date.LastDays(r.days, to), nil
	}
	if r.from == "" {
		from := ledger.OldestTransactionDate()
		if from.IsZero() || from.After(to) {
			from = to
		}
		return date.Range{From: from, To: to}, nil
	}
	from, err := date.Parse(r.from)
	if err != nil {
		return date.Range{}, err
	}
	return date.Range{From: from, To: to}, nil
}

type historyCmd struct {
	rangeFlags
	period string
	clamp  bool
	stored bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the value history of the whole portfolio" }
func (*historyCmd) Usage() string {
	return `cartera history [-from <date>] [-to <date>] [-days <n>] [-period <period>] [-clamp] [-stored]

  Values the whole portfolio every day of the range, in ARS and USD.
  Transactions before the range are taken into account.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.period, "period", "day", "One row per period: day, week, month, quarter or year.")
	f.BoolVar(&c.clamp, "clamp", false, "Display negative cash as zero.")
	f.BoolVar(&c.stored, "stored", false, "Read the history saved by the report command from -db instead of computing it.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	rng, err := c.Range(ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var history []cartera.Snapshot
	if c.stored {
		history, err = storedHistory(ctx, rng)
	} else {
		history, err = valueHistory(ctx, ledger, rng)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing history: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HistoryMarkdown(history, renderer.HistoryOptions{Period: period, Clamp: c.clamp}))
	return subcommands.ExitSuccess
}

func valueHistory(ctx context.Context, ledger *cartera.Ledger, rng date.Range) ([]cartera.Snapshot, error) {
	prices, err := DecodePrices(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := options()
	if err != nil {
		return nil, err
	}
	return cartera.ValueHistory(ctx, ledger, prices, rng, opts)
}

func storedHistory(ctx context.Context, rng date.Range) ([]cartera.Snapshot, error) {
	if *dsn == "" {
		return nil, fmt.Errorf("-stored needs a -db")
	}
	st, err := store.Open(ctx, *dsn)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Snapshots(ctx, rng)
}
