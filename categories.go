package cartera

import (
	"context"
	"maps"
	"slices"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// Category is a bucket of the portfolio, by sector or asset class.
type Category string

const (
	ETFs           Category = "etfs"
	Tech           Category = "tech"
	Semiconductors Category = "semiconductors"
	Communication  Category = "communication"
	Industrials    Category = "industrials"
	Defensive      Category = "defensive"
	Materials      Category = "materials"
	Healthcare     Category = "healthcare"
	Financials     Category = "financials"
	Cyclical       Category = "cyclical"
	Merval         Category = "merval"
	Bonds          Category = "bonds"
	CryptoCategory Category = "crypto"
	Deposits       Category = "deposits"
	Cauciones      Category = "cauciones"
	CashCategory   Category = "cash"
	OtherStocks    Category = "other_stocks"
	Other          Category = "other"
)

// StockCategories maps well known symbols to their sector.
var StockCategories = map[Category][]string{
	ETFs:           {"SPY", "DIA", "QQQ", "EWZ", "XLF", "XLE", "GLD", "ARKK", "BITO"},
	Tech:           {"AAPL", "GOOGL", "MSFT", "ADBE", "META"},
	Semiconductors: {"ASML", "TSM", "MU", "NVDA", "AMD", "INTC", "ARM"},
	Communication:  {"DIS", "NFLX", "T", "VZ"},
	Industrials:    {"CAT", "DE", "MMM", "TM"},
	Defensive:      {"KO", "PEP", "MCD", "SBUX", "MDLZ"},
	Materials:      {"NEM", "VALE", "VIST", "OXY"},
	Healthcare:     {"ABBV", "CVS", "PFE", "PG", "UL", "JNJ"},
	Financials:     {"BAC", "BRK.B", "C", "JPM", "V", "NU"},
	Cyclical:       {"AMZN", "MELI", "WMT"},
	Merval:         {"ALUAR", "BBAR", "BYMA", "CAPU", "GGAL", "LOMA", "PAMP", "TGNO4", "TGSU2", "TRAN", "YPFD", "COME", "CRES"},
}

// SovereignBonds lists Argentine sovereign bonds, peso and dollar (D suffix) variants.
var SovereignBonds = []string{
	"AL29", "GD29", "AL30", "GD30", "AE38", "GD38", "AL35", "GD35", "AL41", "GD41", "GD46",
	"AL29D", "GD29D", "AL30D", "GD30D", "AE38D", "GD38D", "AL35D", "GD35D", "AL41D", "GD41D", "GD46D",
}

// CryptoPairs lists the crypto symbols recognized without an asset type.
var CryptoPairs = []string{"BTCUSDT", "ETHUSDT", "ADAUSDT", "BNBUSDT", "DOGEUSDT", "MATICUSDT", "SOLUSDT"}

// categoryIndex is the reverse index of the static tables.
var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category)
	for cat, symbols := range StockCategories {
		for _, s := range symbols {
			idx[s] = cat
		}
	}
	for _, s := range SovereignBonds {
		idx[s] = Bonds
	}
	for _, s := range CryptoPairs {
		idx[s] = CryptoCategory
	}
	return idx
}()

// CategoryOf returns the category of a security, or of an asset class when
// the identifier is not in the static tables.
func CategoryOf(identifier string, asset AssetType) Category {
	switch asset {
	case FixedTermDeposit:
		return Deposits
	case Caucion:
		return Cauciones
	case CashAsset:
		return CashCategory
	}
	if cat, ok := categoryIndex[identifier]; ok {
		return cat
	}
	if cat, ok := categoryIndex[BaseTicker(identifier)]; ok {
		return cat
	}
	switch asset {
	case Crypto:
		return CryptoCategory
	case Bond:
		return Bonds
	case Stock:
		return OtherStocks
	default:
		return Other
	}
}

// CategorySnapshot is the portfolio value on a day, by category, in one currency.
type CategorySnapshot struct {
	Date       date.Date                    `json:"date"`
	Currency   Currency                     `json:"currency"`
	Categories map[Category]decimal.Decimal `json:"categories"`
	Total      decimal.Decimal              `json:"totalValue"`
}

// Names returns the categories of the snapshot, sorted.
func (s CategorySnapshot) Names() []Category {
	return slices.Sorted(maps.Keys(s.Categories))
}

// Alert is a category worth more than the whole portfolio, which only
// happens when other categories are negative (like a cash overdraft).
type Alert struct {
	Date     date.Date
	Category Category
	Value    decimal.Decimal
	Total    decimal.Decimal
}

var alertTolerance = decimal.RequireFromString("0.01")

// Alerts returns the categories exceeding the total by more than 0.01.
func (s CategorySnapshot) Alerts() []Alert {
	var alerts []Alert
	for _, cat := range s.Names() {
		if v := s.Categories[cat]; v.Sub(s.Total).GreaterThan(alertTolerance) {
			alerts = append(alerts, Alert{Date: s.Date, Category: cat, Value: v, Total: s.Total})
		}
	}
	return alerts
}

// categoryReducer buckets every line by category, converted into target.
type categoryReducer struct{ target Currency }

func (r categoryReducer) reduce(day date.Date, lines []contribution, usdars decimal.Decimal) CategorySnapshot {
	s := CategorySnapshot{Date: day, Currency: r.target, Categories: make(map[Category]decimal.Decimal)}
	for _, c := range lines {
		value := c.Value
		switch {
		case c.Currency == r.target:
		case r.target == ARS:
			value = value.Mul(usdars)
		case usdars.IsPositive():
			value = value.Div(usdars)
		}
		cat := CategoryOf(c.Security, c.Asset)
		s.Categories[cat] = s.Categories[cat].Add(value)
		s.Total = s.Total.Add(value)
	}
	return s
}

func (categoryReducer) isZero(s CategorySnapshot) bool { return s.Total.IsZero() }

func (categoryReducer) redate(s CategorySnapshot, day date.Date) CategorySnapshot {
	s.Date = day
	s.Categories = maps.Clone(s.Categories)
	return s
}

// CategoryHistory returns the portfolio value by category for every day of
// rng, in opts.Target currency.
func CategoryHistory(ctx context.Context, ledger *Ledger, prices PriceHistory, rng date.Range, opts Options) ([]CategorySnapshot, error) {
	target := opts.Target
	if !target.Valid() {
		target = ARS
	}
	return replay[CategorySnapshot](ctx, ledger, prices, rng, opts, categoryReducer{target: target})
}
