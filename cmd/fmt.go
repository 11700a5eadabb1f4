package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cartera"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	force bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cartera fmt [-force]

  Validates and formats the ledger file. This command reads all transactions,
  validates them, gives an id to those without one, sorts them by date, and
  writes them back in a canonical JSONL format.
  Invalid transactions are reported and the ledger is left untouched, unless
  -force is set.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Format even if some transactions are invalid.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	info, err := os.Stat(*ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %q is a directory, fmt formats a single ledger file\n", *ledgerPath)
		return subcommands.ExitUsageError
	}

	ledger, err := cartera.LoadLedger(*ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Ledger %q has invalid transactions:\n%v\n", ledger.Name(), err)
		if !c.force {
			return subcommands.ExitFailure
		}
	}

	if err := cartera.SaveLedger(*ledgerPath, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d transactions in %s\n", ledger.Len(), *ledgerPath)
	return subcommands.ExitSuccess
}
