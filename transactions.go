package cartera

import (
	"errors"
	"fmt"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdDeposit      CommandType = "deposit"
	CmdWithdraw     CommandType = "withdraw"
	CmdBuy          CommandType = "buy"
	CmdSell         CommandType = "sell"
	CmdCreate       CommandType = "create"
	CmdAccredit     CommandType = "accredit"
	CmdCoupon       CommandType = "coupon"
	CmdAmortization CommandType = "amortization"
)

// AssetType is the class of asset a transaction deals with.
type AssetType string

const (
	Stock            AssetType = "stock"
	Bond             AssetType = "bond"
	Crypto           AssetType = "crypto"
	FixedTermDeposit AssetType = "fixed-term-deposit"
	Caucion          AssetType = "caucion"
)

// FixedIncome reports whether the asset accrues simple daily interest.
func (a AssetType) FixedIncome() bool { return a == FixedTermDeposit || a == Caucion }

// Tradable reports whether the asset is held as a priced position.
func (a AssetType) Tradable() bool { return a == Stock || a == Bond || a == Crypto }

// Default fees, in percent, written on the trades recorded from the command line.
var (
	DefaultCommissionPct  = decimal.NewFromInt(1)
	DefaultPurchaseFeePct = decimal.RequireFromString("0.05")
)

var hundred = decimal.NewFromInt(100)

// Transaction defines the common interface for all types of transactions
// that can be recorded in the ledger.
type Transaction interface {
	// What returns the command type of the transaction (e.g., "buy", "sell").
	What() CommandType
	// When returns the date on which the transaction occurred.
	When() date.Date
	// Ref returns the unique id of the transaction.
	Ref() string
	// Currency returns the currency cash moves in.
	Currency() Currency
	// Validate reports the first missing or invalid field.
	Validate() error
}

type baseCmd struct {
	ID      string      `json:"id,omitempty"`
	Command CommandType `json:"command"`
	Date    date.Date   `json:"date"`
	Cur     Currency    `json:"currency"`
	Memo    string      `json:"memo,omitempty"`
}

func (t baseCmd) What() CommandType  { return t.Command }
func (t baseCmd) When() date.Date    { return t.Date }
func (t baseCmd) Ref() string        { return t.ID }
func (t baseCmd) Currency() Currency { return t.Cur }

func (t baseCmd) validate() error {
	if t.Date.IsZero() {
		return errors.New("date is missing")
	}
	if !t.Cur.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownCurrency, t.Cur)
	}
	return nil
}

// secCmd is a component for security-based transactions (buy, sell).
type secCmd struct {
	baseCmd
	AssetType AssetType `json:"assetType"`
	Security  string    `json:"security"` // Security is the symbol or ticker traded.
	Market    string    `json:"market,omitempty"`
}

func (t secCmd) validate() error {
	if err := t.baseCmd.validate(); err != nil {
		return err
	}
	if t.Security == "" {
		return errors.New("security is missing")
	}
	if !t.AssetType.Tradable() {
		return fmt.Errorf("asset type %q cannot be traded", t.AssetType)
	}
	return nil
}

// Buy represents the purchase of a quantity of a security at a unit price.
type Buy struct {
	secCmd
	Quantity       Quantity            `json:"quantity"`
	Price          decimal.Decimal     `json:"price"`
	CommissionPct  decimal.NullDecimal `json:"commissionPct,omitzero"`
	PurchaseFeePct decimal.NullDecimal `json:"purchaseFeePct,omitzero"`
}

// NewBuy creates a new Buy transaction without fees.
func NewBuy(day date.Date, asset AssetType, security string, quantity Quantity, price Money) Buy {
	return Buy{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdBuy, Date: day, Cur: price.Currency()}, AssetType: asset, Security: security},
		Quantity: quantity,
		Price:    price.Value(),
	}
}

// WithFees returns a copy of the buy with explicit commission and fee percents.
func (t Buy) WithFees(commissionPct, purchaseFeePct float64) Buy {
	t.CommissionPct = decimal.NewNullDecimal(decimal.NewFromFloat(commissionPct))
	t.PurchaseFeePct = decimal.NewNullDecimal(decimal.NewFromFloat(purchaseFeePct))
	return t
}

// Cost returns the cash spent: quantity*price*(1+commission%+fee%).
//
// A missing fee is no fee.
func (t Buy) Cost() Money {
	rate := decimal.NewFromInt(1).
		Add(orZero(t.CommissionPct).Div(hundred)).
		Add(orZero(t.PurchaseFeePct).Div(hundred))
	return M(t.Quantity.value.Mul(t.Price).Mul(rate), t.Cur)
}

func (t Buy) Validate() error {
	if err := t.secCmd.validate(); err != nil {
		return err
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("buy quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("buy price must be positive, got %s", t.Price)
	}
	return nil
}

// Sell represents the sale of a quantity of a security at a unit price.
type Sell struct {
	secCmd
	Quantity      Quantity            `json:"quantity"`
	Price         decimal.Decimal     `json:"price"`
	CommissionPct decimal.NullDecimal `json:"commissionPct,omitzero"`
}

// NewSell creates a new Sell transaction without commission.
func NewSell(day date.Date, asset AssetType, security string, quantity Quantity, price Money) Sell {
	return Sell{
		secCmd:   secCmd{baseCmd: baseCmd{Command: CmdSell, Date: day, Cur: price.Currency()}, AssetType: asset, Security: security},
		Quantity: quantity,
		Price:    price.Value(),
	}
}

// Proceeds returns the cash received: quantity*price*(1-commission%).
func (t Sell) Proceeds() Money {
	rate := decimal.NewFromInt(1).Sub(orZero(t.CommissionPct).Div(hundred))
	return M(t.Quantity.value.Mul(t.Price).Mul(rate), t.Cur)
}

// WithCommission returns a copy of the sell with an explicit commission percent.
func (t Sell) WithCommission(commissionPct float64) Sell {
	t.CommissionPct = decimal.NewNullDecimal(decimal.NewFromFloat(commissionPct))
	return t
}

func (t Sell) Validate() error {
	if err := t.secCmd.validate(); err != nil {
		return err
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("sell quantity must be positive, got %s", t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("sell price must not be negative, got %s", t.Price)
	}
	return nil
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}

// Create opens a fixed-term deposit or a caución.
type Create struct {
	baseCmd
	AssetType    AssetType       `json:"assetType"`
	Provider     string          `json:"provider,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	AnnualRate   decimal.Decimal `json:"annualRate"` // percent
	TermDays     int             `json:"termDays,omitempty"`
	MaturityDate date.Date       `json:"maturityDate,omitzero"`
}

// NewCreate creates a fixed-income instrument maturing termDays after day.
func NewCreate(day date.Date, asset AssetType, provider string, principal Money, annualRate float64, termDays int) Create {
	return Create{
		baseCmd:      baseCmd{Command: CmdCreate, Date: day, Cur: principal.Currency()},
		AssetType:    asset,
		Provider:     provider,
		Amount:       principal.Value(),
		AnnualRate:   decimal.NewFromFloat(annualRate),
		TermDays:     termDays,
		MaturityDate: day.Add(termDays),
	}
}

// Principal returns the amount invested.
func (t Create) Principal() Money { return M(t.Amount, t.Cur) }

func (t Create) Validate() error {
	if err := t.baseCmd.validate(); err != nil {
		return err
	}
	if !t.AssetType.FixedIncome() {
		return fmt.Errorf("cannot create an instrument of type %q", t.AssetType)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("principal must be positive, got %s", t.Amount)
	}
	if t.AnnualRate.IsNegative() {
		return fmt.Errorf("annual rate must not be negative, got %s", t.AnnualRate)
	}
	if t.TermDays <= 0 && t.MaturityDate.IsZero() {
		return errors.New("term or maturity date is missing")
	}
	if !t.MaturityDate.IsZero() && t.MaturityDate.Before(t.Date) {
		return fmt.Errorf("maturity %s is before %s", t.MaturityDate, t.Date)
	}
	return nil
}

// amountCmd is a component for transactions that move a plain amount of cash.
type amountCmd struct {
	baseCmd
	Amount decimal.Decimal `json:"amount"`
}

// Money returns the amount moved.
func (t amountCmd) Money() Money { return M(t.Amount, t.Cur) }

func (t amountCmd) validate() error {
	if err := t.baseCmd.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", t.Amount)
	}
	return nil
}

// Deposit represents cash entering the portfolio.
type Deposit struct{ amountCmd }

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day date.Date, amount Money) Deposit {
	return Deposit{amountCmd{baseCmd{Command: CmdDeposit, Date: day, Cur: amount.Currency()}, amount.Value()}}
}

func (t Deposit) Validate() error { return t.amountCmd.validate() }

// Withdraw represents cash leaving the portfolio, or a matured instrument paid out.
type Withdraw struct{ amountCmd }

// NewWithdraw creates a new Withdraw transaction.
func NewWithdraw(day date.Date, amount Money) Withdraw {
	return Withdraw{amountCmd{baseCmd{Command: CmdWithdraw, Date: day, Cur: amount.Currency()}, amount.Value()}}
}

func (t Withdraw) Validate() error { return t.amountCmd.validate() }

// Accredit credits the payout of a fixed-income instrument.
//
// When Instrument names the id of the create transaction, that instrument is
// retired from the portfolio.
type Accredit struct {
	amountCmd
	AssetType  AssetType `json:"assetType"`
	Instrument string    `json:"instrument,omitempty"`
}

// NewAccredit creates a new Accredit transaction for the instrument with the given id.
func NewAccredit(day date.Date, asset AssetType, instrument string, amount Money) Accredit {
	return Accredit{
		amountCmd:  amountCmd{baseCmd{Command: CmdAccredit, Date: day, Cur: amount.Currency()}, amount.Value()},
		AssetType:  asset,
		Instrument: instrument,
	}
}

func (t Accredit) Validate() error {
	if err := t.amountCmd.validate(); err != nil {
		return err
	}
	if !t.AssetType.FixedIncome() {
		return fmt.Errorf("cannot accredit an instrument of type %q", t.AssetType)
	}
	return nil
}

// bondCredit is a component for cash paid out by a bond.
type bondCredit struct {
	amountCmd
	Security string `json:"security"`
}

func (t bondCredit) validate() error {
	if err := t.amountCmd.validate(); err != nil {
		return err
	}
	if t.Security == "" {
		return errors.New("security is missing")
	}
	return nil
}

// Coupon represents interest paid by a bond.
type Coupon struct{ bondCredit }

// NewCoupon creates a new Coupon transaction.
func NewCoupon(day date.Date, security string, amount Money) Coupon {
	return Coupon{bondCredit{amountCmd{baseCmd{Command: CmdCoupon, Date: day, Cur: amount.Currency()}, amount.Value()}, security}}
}

func (t Coupon) Validate() error { return t.bondCredit.validate() }

// Amortization represents principal repaid by a bond.
type Amortization struct{ bondCredit }

// NewAmortization creates a new Amortization transaction.
func NewAmortization(day date.Date, security string, amount Money) Amortization {
	return Amortization{bondCredit{amountCmd{baseCmd{Command: CmdAmortization, Date: day, Cur: amount.Currency()}, amount.Value()}, security}}
}

func (t Amortization) Validate() error { return t.bondCredit.validate() }
