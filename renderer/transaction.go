package renderer

import (
	"fmt"

	"github.com/etnz/cartera"
)

// Transaction renders a transaction to a string.
func Transaction(tx cartera.Transaction) string {
	switch v := tx.(type) {
	case cartera.Buy:
		return fmt.Sprintf("Bought %s %s at %s for %s", v.Quantity, v.Security, cartera.M(v.Price, v.Cur), v.Cost())
	case cartera.Sell:
		return fmt.Sprintf("Sold %s %s at %s for %s", v.Quantity, v.Security, cartera.M(v.Price, v.Cur), v.Proceeds())
	case cartera.Deposit:
		return fmt.Sprintf("Deposited %s", v.Money())
	case cartera.Withdraw:
		return fmt.Sprintf("Withdrew %s", v.Money())
	case cartera.Create:
		return fmt.Sprintf("Opened %s of %s at %s%% with %s until %s", v.AssetType, v.Principal(), v.AnnualRate, v.Provider, cartera.NewInstrument(v).Maturity)
	case cartera.Accredit:
		return fmt.Sprintf("Accredited %s from %s", v.Money(), v.AssetType)
	case cartera.Coupon:
		return fmt.Sprintf("Coupon of %s for %s", v.Money(), v.Security)
	case cartera.Amortization:
		return fmt.Sprintf("Amortization of %s for %s", v.Money(), v.Security)
	default:
		return string(tx.What())
	}
}
