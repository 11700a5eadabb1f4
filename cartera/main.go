// Command cartera values a portfolio held in Argentine pesos and US dollars.
//
// Run "cartera help" for the list of commands, and "cartera topic" for the
// documentation. Install shell completion with COMP_INSTALL=1 cartera.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/cmd"
	"github.com/etnz/cartera/date"
	"github.com/etnz/cartera/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "cartera")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// exits when invoked by the shell for completion.
	completion(commander).Complete("cartera")

	flag.Parse()
	cmd.Configure()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion mirrors the commands and their flags.
func completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: predictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		sub := &complete.Command{Flags: predictors(fs)}
		if sc.Name() == "topic" {
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(topics)
		}
		root.Sub[sc.Name()] = sub
	})
	return root
}

func predictors(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		switch f.Name {
		case "ledger", "prices", "bonds", "db":
			m[f.Name] = predict.Files("*")
		case "c", "currency":
			m[f.Name] = predict.Set{string(cartera.ARS), string(cartera.USD)}
		case "period":
			m[f.Name] = predict.Set(date.PeriodNames())
		case "t":
			m[f.Name] = predict.Set{
				string(cartera.Stock), string(cartera.Bond), string(cartera.Crypto),
				string(cartera.FixedTermDeposit), string(cartera.Caucion),
			}
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}
