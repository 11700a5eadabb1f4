package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cartera/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	inflationAR string
	inflationUS string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `assist [<question>]:
  Start an interactive session with the AI assistant, asking the question first.
  Needs GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inflationAR, "inflation-ar", "", "Argentine inflation in percent, monthly and annual, for real returns")
	f.StringVar(&c.inflationUS, "inflation-us", "", "US inflation in percent, monthly and annual, for real returns")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var initialPrompt []string
	if f.NArg() > 0 {
		initialPrompt = append(initialPrompt, strings.Join(f.Args(), " "))
	}

	p, err := c.portfolio(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading portfolio:", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, agent.NewAnalyst(), agent.NewAccountant(p))
	if !*raw {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120)); err == nil {
			a.Render = func(md string) string {
				if s, err := r.Render(md); err == nil {
					return s
				}
				return md
			}
		}
	}

	if err := a.Run(ctx, client, initialPrompt...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *AssistCmd) portfolio(ctx context.Context) (*agent.Portfolio, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, err
	}
	prices, err := DecodePrices(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := options()
	if err != nil {
		return nil, err
	}
	inflation, err := (&performanceCmd{inflationAR: c.inflationAR, inflationUS: c.inflationUS}).inflation()
	if err != nil {
		return nil, err
	}
	return &agent.Portfolio{Ledger: ledger, Prices: prices, Options: opts, Inflation: inflation}, nil
}
