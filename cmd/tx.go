package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	rangeFlags
	currency string
	head     int
	tail     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*txCmd) Usage() string {
	return `cartera tx [-from <date>] [-to <date>] [-days <n>] [-c ARS|USD] [-head <n>] [-tail <n>]

  Lists transactions from the ledger, with options for filtering and limiting the output.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.SetFlags(f)
	f.StringVar(&c.currency, "c", "", "Only transactions moving cash in this currency.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
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

	filters := []func(cartera.Transaction) bool{
		func(tx cartera.Transaction) bool { return rng.Contains(tx.When()) },
	}
	if c.currency != "" {
		cur, err := cartera.ParseCurrency(c.currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, cartera.ByCurrency(cur))
	}

	var lines []string
	for _, tx := range ledger.Transactions(filters...) {
		lines = append(lines, fmt.Sprintf("%s | %s | %s", tx.When(), tx.What(), renderer.Transaction(tx)))
	}
	if c.head > 0 && len(lines) > c.head {
		lines = lines[:c.head]
	}
	if c.tail > 0 && len(lines) > c.tail {
		lines = lines[len(lines)-c.tail:]
	}

	var b strings.Builder
	b.WriteString("| Date | Command | Transaction |\n|:---|:---|:---|\n")
	for _, l := range lines {
		b.WriteString("| " + l + " |\n")
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
