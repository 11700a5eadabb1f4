package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

// appendTransaction validates tx and appends it to the -ledger file.
func appendTransaction(tx cartera.Transaction) subcommands.ExitStatus {
	if err := tx.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s: %v\n", tx.What(), err)
		return subcommands.ExitUsageError
	}

	f, err := os.OpenFile(*ledgerPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerPath, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := cartera.EncodeLedger(f, cartera.NewLedger(tx)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerPath, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Appended %s to %s\n", tx.What(), *ledgerPath)
	return subcommands.ExitSuccess
}

// dayFlag is the -d flag of every transaction command.
type dayFlag struct{ day string }

func (d *dayFlag) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.day, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
}

func (d *dayFlag) parse() (date.Date, error) { return date.Parse(d.day) }

// moneyFlags read an amount and its currency.
type moneyFlags struct {
	amount   float64
	currency string
}

func (m *moneyFlags) SetFlags(f *flag.FlagSet, what string) {
	f.Float64Var(&m.amount, "a", 0, what)
	f.StringVar(&m.currency, "c", "ARS", "Currency, ARS or USD")
}

func (m *moneyFlags) parse() (cartera.Money, error) {
	cur, err := cartera.ParseCurrency(m.currency)
	if err != nil {
		return cartera.Money{}, err
	}
	return cartera.M(m.amount, cur), nil
}

// --- deposit and withdraw ---

type cashCmd[T cartera.Transaction] struct {
	name, synopsis string
	build          func(date.Date, cartera.Money) T
	dayFlag
	moneyFlags
}

func cashCommand[T cartera.Transaction](name, synopsis string, build func(date.Date, cartera.Money) T) *cashCmd[T] {
	return &cashCmd[T]{name: name, synopsis: synopsis, build: build}
}

func (c *cashCmd[T]) Name() string     { return c.name }
func (c *cashCmd[T]) Synopsis() string { return c.synopsis }
func (c *cashCmd[T]) Usage() string {
	return fmt.Sprintf("cartera %s [-d <date>] -a <amount> [-c ARS|USD]\n\n  %s.\n", c.name, c.synopsis)
}

func (c *cashCmd[T]) SetFlags(f *flag.FlagSet) {
	c.dayFlag.SetFlags(f)
	c.moneyFlags.SetFlags(f, "Amount")
}

func (c *cashCmd[T]) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := c.dayFlag.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := c.moneyFlags.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendTransaction(c.build(day, amount))
}

// --- buy and sell ---

// fees are the percents charged on a recorded trade.
type fees struct{ commission, purchase float64 }

func buyWithFees(day date.Date, asset cartera.AssetType, security string, quantity cartera.Quantity, price cartera.Money, f fees) cartera.Buy {
	return cartera.NewBuy(day, asset, security, quantity, price).WithFees(f.commission, f.purchase)
}

func sellWithFees(day date.Date, asset cartera.AssetType, security string, quantity cartera.Quantity, price cartera.Money, f fees) cartera.Sell {
	return cartera.NewSell(day, asset, security, quantity, price).WithCommission(f.commission)
}

type tradeCmd[T cartera.Transaction] struct {
	name, synopsis string
	build          func(date.Date, cartera.AssetType, string, cartera.Quantity, cartera.Money, fees) T
	dayFlag
	asset    string
	security string
	quantity float64
	price    float64
	currency string
	fees     fees
}

func tradeCommand[T cartera.Transaction](name, synopsis string, build func(date.Date, cartera.AssetType, string, cartera.Quantity, cartera.Money, fees) T) *tradeCmd[T] {
	return &tradeCmd[T]{name: name, synopsis: synopsis, build: build}
}

func (c *tradeCmd[T]) Name() string     { return c.name }
func (c *tradeCmd[T]) Synopsis() string { return c.synopsis }
func (c *tradeCmd[T]) Usage() string {
	return fmt.Sprintf(`cartera %s [-d <date>] [-t stock|bond|crypto] -s <security> -q <quantity> -p <price> [-c ARS|USD] [-commission <%%>] [-fee <%%>]

  %s. The fees are written on the transaction, the purchase fee only
  applies to buys.
`, c.name, c.synopsis)
}

func (c *tradeCmd[T]) SetFlags(f *flag.FlagSet) {
	c.dayFlag.SetFlags(f)
	f.StringVar(&c.asset, "t", string(cartera.Stock), "Asset type: stock, bond or crypto")
	f.StringVar(&c.security, "s", "", "Security ticker, like GGAL.BA, AL30D or BTCUSDT")
	f.Float64Var(&c.quantity, "q", 0, "Quantity")
	f.Float64Var(&c.price, "p", 0, "Unit price")
	f.StringVar(&c.currency, "c", "", "Currency, guessed from the ticker by default")
	f.Float64Var(&c.fees.commission, "commission", cartera.DefaultCommissionPct.InexactFloat64(), "Broker commission, in percent")
	f.Float64Var(&c.fees.purchase, "fee", cartera.DefaultPurchaseFeePct.InexactFloat64(), "Market purchase fee, in percent")
}

func (c *tradeCmd[T]) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := c.dayFlag.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cur := cartera.TickerCurrency(c.security)
	if c.currency != "" {
		if cur, err = cartera.ParseCurrency(c.currency); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return appendTransaction(c.build(day, cartera.AssetType(c.asset), c.security, cartera.Q(c.quantity), cartera.M(c.price, cur), c.fees))
}

// --- coupon and amortization ---

type bondCmd[T cartera.Transaction] struct {
	name, synopsis string
	build          func(date.Date, string, cartera.Money) T
	dayFlag
	moneyFlags
	security string
}

func bondCommand[T cartera.Transaction](name, synopsis string, build func(date.Date, string, cartera.Money) T) *bondCmd[T] {
	return &bondCmd[T]{name: name, synopsis: synopsis, build: build}
}

func (c *bondCmd[T]) Name() string     { return c.name }
func (c *bondCmd[T]) Synopsis() string { return c.synopsis }
func (c *bondCmd[T]) Usage() string {
	return fmt.Sprintf("cartera %s [-d <date>] -s <bond> -a <amount> [-c ARS|USD]\n\n  %s.\n", c.name, c.synopsis)
}

func (c *bondCmd[T]) SetFlags(f *flag.FlagSet) {
	c.dayFlag.SetFlags(f)
	c.moneyFlags.SetFlags(f, "Amount credited")
	f.StringVar(&c.security, "s", "", "Bond ticker")
}

func (c *bondCmd[T]) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := c.dayFlag.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := c.moneyFlags.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendTransaction(c.build(day, c.security, amount))
}

// --- create ---

type createCmd struct {
	dayFlag
	moneyFlags
	asset    string
	provider string
	rate     float64
	term     int
	maturity string
	id       string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "open a fixed-term deposit or a caución" }
func (*createCmd) Usage() string {
	return `cartera create [-d <date>] [-t fixed-term-deposit|caucion] -p <provider> -a <principal> [-c ARS|USD] -r <annual rate> (-term <days> | -maturity <date>) [-id <id>]

  Opens a fixed-income instrument accruing simple daily interest until its
  maturity. The principal is debited from cash. The id is printed, use it to
  accredit the instrument.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	c.dayFlag.SetFlags(f)
	c.moneyFlags.SetFlags(f, "Principal")
	f.StringVar(&c.asset, "t", string(cartera.FixedTermDeposit), "Instrument type: fixed-term-deposit or caucion")
	f.StringVar(&c.provider, "p", "", "Bank or broker")
	f.Float64Var(&c.rate, "r", 0, "Annual nominal rate, in percent")
	f.IntVar(&c.term, "term", 0, "Term in days")
	f.StringVar(&c.maturity, "maturity", "", "Maturity date, instead of -term")
	f.StringVar(&c.id, "id", "", "Instrument id, random by default")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := c.dayFlag.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	principal, err := c.moneyFlags.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	term := c.term
	if c.maturity != "" {
		maturity, err := date.Parse(c.maturity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing maturity: %v\n", err)
			return subcommands.ExitUsageError
		}
		term = maturity.DaysSince(day)
	}
	if term <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -term or -maturity must end after the creation date")
		return subcommands.ExitUsageError
	}

	tx := cartera.NewCreate(day, cartera.AssetType(c.asset), c.provider, principal, c.rate, term)
	tx.ID = c.id
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	status := appendTransaction(tx)
	if status == subcommands.ExitSuccess {
		fmt.Fprintln(out, tx.ID)
	}
	return status
}

// --- accredit ---

type accreditCmd struct {
	dayFlag
	moneyFlags
	asset      string
	instrument string
}

func (*accreditCmd) Name() string     { return "accredit" }
func (*accreditCmd) Synopsis() string { return "credit the payout of a deposit or a caución" }
func (*accreditCmd) Usage() string {
	return `cartera accredit [-d <date>] [-t fixed-term-deposit|caucion] [-i <id>] -a <amount> [-c ARS|USD]

  Credits the payout of an instrument to cash. With -i the instrument is
  retired from the portfolio.
`
}

func (c *accreditCmd) SetFlags(f *flag.FlagSet) {
	c.dayFlag.SetFlags(f)
	c.moneyFlags.SetFlags(f, "Amount credited")
	f.StringVar(&c.asset, "t", string(cartera.FixedTermDeposit), "Instrument type: fixed-term-deposit or caucion")
	f.StringVar(&c.instrument, "i", "", "Id of the instrument, as printed by create")
}

func (c *accreditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := c.dayFlag.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := c.moneyFlags.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return appendTransaction(cartera.NewAccredit(day, cartera.AssetType(c.asset), c.instrument, amount))
}
