package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/renderer"
	"github.com/etnz/cartera/store"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

type reportCmd struct {
	to     string
	recent int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display a full report and save the valuations" }
func (*reportCmd) Usage() string {
	return `cartera report [-to <date>] [-recent <n>]

  Values the portfolio every day of the last year, as a whole and by
  category, and reports the current value, the performance, the categories
  and the latest transactions.

  With -db, the daily valuations and the prices are saved for the history
  and categories commands (-stored).
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", date.Today().String(), "Last day of the report.")
	f.IntVar(&c.recent, "recent", 10, "Number of latest transactions to list.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	prices, err := DecodePrices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prices: %v\n", err)
		return subcommands.ExitFailure
	}
	opts, err := options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	r, err := buildReport(ctx, ledger, prices, opts, to, c.recent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return subcommands.ExitFailure
	}

	if *dsn != "" {
		if err := save(ctx, *dsn, r, prices); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving valuations: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ReportMarkdown(r))
	return subcommands.ExitSuccess
}

// buildReport runs the whole and the category replays concurrently.
func buildReport(ctx context.Context, ledger *cartera.Ledger, prices cartera.PriceHistory, opts cartera.Options, to date.Date, recent int) (renderer.Report, error) {
	rng := date.Range{From: to.AddYear(-1), To: to}
	r := renderer.Report{Date: to}

	var wg sync.WaitGroup
	var historyErr, categoriesErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		r.History, historyErr = cartera.ValueHistory(ctx, ledger, prices, rng, opts)
	}()
	go func() {
		defer wg.Done()
		r.Categories, categoriesErr = cartera.CategoryHistory(ctx, ledger, prices, rng, opts)
	}()
	wg.Wait()
	if historyErr != nil {
		return r, historyErr
	}
	if categoriesErr != nil {
		return r, categoriesErr
	}

	now := time.Now()
	if date.FromTime(now) != to {
		// a past report is valued at the end of its day.
		now = to.Time().Add(24*time.Hour - time.Second)
	}
	r.Current = cartera.ComputeCurrentValue(ctx, ledger.Holdings(to, opts.InitialCash), prices, opts, now)
	r.Gains = cartera.ComputeGains(ledger, r.Current, to)
	r.Performance = cartera.ComputePerformance(r.History, nil)

	for _, tx := range ledger.Transactions(cartera.Until(to)) {
		r.Recent = append(r.Recent, tx)
	}
	if recent = max(recent, 0); len(r.Recent) > recent {
		r.Recent = r.Recent[len(r.Recent)-recent:]
	}
	return r, nil
}

// save stores the valuations and the prices of a report.
func save(ctx context.Context, dsn string, r renderer.Report, prices cartera.PriceHistory) error {
	st, err := store.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveSnapshots(ctx, r.History); err != nil {
		return err
	}
	if err := st.SaveCategories(ctx, r.Categories); err != nil {
		return err
	}
	if err := st.SavePrices(ctx, prices); err != nil {
		return err
	}
	log.WithFields(log.Fields{"days": len(r.History), "securities": len(prices)}).Info("valuations saved")
	return nil
}
