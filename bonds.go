package cartera

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultBondTTL is how long loaded bond quotes are trusted.
const DefaultBondTTL = 5 * time.Minute

// BondQuote is a reference price for a bond in a currency.
type BondQuote struct {
	Ticker   string
	Currency Currency
	Price    decimal.Decimal
}

type bondKey struct {
	ticker string
	cur    Currency
}

// BondSource loads the full list of bond reference prices.
type BondSource func(ctx context.Context) ([]BondQuote, error)

// BondPrices is the last-resort price for bonds without any price series.
//
// Quotes are loaded from the source on first use and reloaded once they are
// older than the TTL. A failed load keeps the previous quotes.
type BondPrices struct {
	source BondSource
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	loaded time.Time
	quotes map[bondKey]decimal.Decimal
}

// NewBondPrices returns a cache over source. A ttl <= 0 means DefaultBondTTL.
func NewBondPrices(source BondSource, ttl time.Duration) *BondPrices {
	if ttl <= 0 {
		ttl = DefaultBondTTL
	}
	return &BondPrices{source: source, ttl: ttl, now: time.Now}
}

// Lookup returns the reference price of ticker in currency.
func (b *BondPrices) Lookup(ctx context.Context, ticker string, cur Currency) (decimal.Decimal, bool) {
	if b == nil {
		return decimal.Zero, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if now := b.now(); b.loaded.IsZero() || now.Sub(b.loaded) >= b.ttl {
		quotes, err := b.source(ctx)
		if err != nil {
			log.WithError(err).Warn("failed to load bond prices")
		} else {
			b.quotes = make(map[bondKey]decimal.Decimal, len(quotes))
			for _, q := range quotes {
				b.quotes[bondKey{q.Ticker, q.Currency}] = q.Price
			}
		}
		// a failure waits for the next period too.
		b.loaded = now
	}
	p, ok := b.quotes[bondKey{ticker, cur}]
	if !ok || !p.IsPositive() {
		return decimal.Zero, false
	}
	return p, true
}

// BondFile returns a source reading a bond reference file.
//
// The file is either an object {"bonds": [...]} or a bare array of
// {"ticker": "GD30", "price": 200.75, "currency": "ARS"}.
func BondFile(path string) BondSource {
	return func(ctx context.Context) ([]BondQuote, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseBonds(content)
	}
}

func parseBonds(content []byte) ([]BondQuote, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("invalid bond file: %w", err)
	}
	if _, isObject := doc.(map[string]any); isObject {
		v, err := jsonpath.Get("$.bonds", doc)
		if err != nil {
			return nil, fmt.Errorf("invalid bond file: %w", err)
		}
		doc = v
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid bond file: want a list of bonds, got %T", doc)
	}

	quotes := make([]BondQuote, 0, len(items))
	for i, item := range items {
		ticker, _ := jsonpath.Get("$.ticker", item)
		currency, _ := jsonpath.Get("$.currency", item)
		price, _ := jsonpath.Get("$.price", item)

		t, _ := ticker.(string)
		c, _ := currency.(string)
		cur, err := ParseCurrency(c)
		if t == "" || err != nil {
			log.Debugf("bond #%d skipped: ticker %q currency %q", i, t, c)
			continue
		}
		p, err := toDecimal(price)
		if err != nil {
			log.Debugf("bond %s skipped: %v", t, err)
			continue
		}
		quotes = append(quotes, BondQuote{Ticker: t, Currency: cur, Price: p})
	}
	return quotes, nil
}
