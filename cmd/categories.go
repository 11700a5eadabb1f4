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

type categoriesCmd struct {
	rangeFlags
	currency string
	stored   bool
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "display the portfolio value by category" }
func (*categoriesCmd) Usage() string {
	return `cartera categories [-from <date>] [-to <date>] [-days <n>] [-currency ARS|USD] [-stored]

  Breaks the portfolio value down by category (technology, banks, sovereign
  bonds, crypto, cauciones, cash...), every day of the range. By default only
  today is shown.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.currency, "currency", "ARS", "Currency the categories are valued in.")
	f.BoolVar(&c.stored, "stored", false, "Read the categories saved by the report command from -db instead of computing them.")
}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cur, err := cartera.ParseCurrency(c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.from == "" && c.days == 0 {
		c.days = 1
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

	var history []cartera.CategorySnapshot
	if c.stored {
		history, err = func() ([]cartera.CategorySnapshot, error) {
			if *dsn == "" {
				return nil, fmt.Errorf("-stored needs a -db")
			}
			st, err := store.Open(ctx, *dsn)
			if err != nil {
				return nil, err
			}
			defer st.Close()
			return st.Categories(ctx, rng, cur)
		}()
	} else {
		history, err = categoryHistory(ctx, ledger, rng, cur)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing categories: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.CategoriesMarkdown(history))
	return subcommands.ExitSuccess
}

func categoryHistory(ctx context.Context, ledger *cartera.Ledger, rng date.Range, cur cartera.Currency) ([]cartera.CategorySnapshot, error) {
	prices, err := DecodePrices(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := options()
	if err != nil {
		return nil, err
	}
	opts.Target = cur
	return cartera.CategoryHistory(ctx, ledger, prices, rng, opts)
}
