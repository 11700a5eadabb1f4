package cartera

import (
	"context"
	"slices"

	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CashAsset is the asset type of cash balances in valuations.
const CashAsset AssetType = "cash"

// Options tune a valuation.
type Options struct {
	Rates       ExchangeRates // asked once per valuation, nil means DefaultUSDARS.
	Bonds       *BondPrices   // reference prices for bonds without price series, optional.
	InitialCash Money         // cash held before the first transaction, optional.
	Target      Currency      // currency of category valuations, default ARS.
}

// Position is an open quantity of a security held in a currency.
type Position struct {
	Security     string
	Currency     Currency
	AssetType    AssetType
	Quantity     Quantity
	AveragePrice decimal.Decimal // unit cost in Currency, fees included
}

type positionKey struct {
	security string
	cur      Currency
}

// book is the running state of a replay: cash, positions and instruments.
type book struct {
	cash      map[Currency]decimal.Decimal
	positions map[positionKey]*Position
	order     []positionKey // first-seen order
	active    []*Instrument
	matured   []*Instrument
}

func newBook(initialCash Money) *book {
	b := &book{
		cash:      make(map[Currency]decimal.Decimal),
		positions: make(map[positionKey]*Position),
	}
	if initialCash.Currency().Valid() {
		b.cash[initialCash.Currency()] = initialCash.Value()
	}
	return b
}

func (b *book) credit(m Money) { b.cash[m.Currency()] = b.cash[m.Currency()].Add(m.Value()) }
func (b *book) debit(m Money)  { b.cash[m.Currency()] = b.cash[m.Currency()].Sub(m.Value()) }

func (b *book) position(security string, cur Currency, asset AssetType) *Position {
	key := positionKey{security, cur}
	p, ok := b.positions[key]
	if !ok {
		p = &Position{Security: security, Currency: cur, AssetType: asset}
		b.positions[key] = p
		b.order = append(b.order, key)
	}
	return p
}

// apply mutates the book with a transaction.
//
// Invalid transactions are skipped.
func (b *book) apply(tx Transaction) {
	if err := tx.Validate(); err != nil {
		log.WithFields(log.Fields{"id": tx.Ref(), "command": tx.What(), "date": tx.When()}).Debugf("transaction skipped: %v", err)
		return
	}
	switch v := tx.(type) {
	case Buy:
		cost := v.Cost()
		b.position(v.Security, v.Cur, v.AssetType).buy(v.Quantity, cost)
		b.debit(cost)
	case Sell:
		p := b.position(v.Security, v.Cur, v.AssetType)
		p.Quantity = p.Quantity.Sub(v.Quantity)
		b.credit(v.Proceeds())
	case Create:
		b.active = append(b.active, NewInstrument(v))
		b.debit(v.Principal())
	case Deposit:
		b.credit(v.Money())
	case Accredit:
		b.credit(v.Money())
		if v.Instrument != "" && !b.retire(v.Instrument) {
			log.Debugf("accredit %q: no open instrument %q", v.ID, v.Instrument)
		}
	case Coupon:
		b.credit(v.Money())
	case Amortization:
		b.credit(v.Money())
	case Withdraw:
		// only instruments swept on a previous day are candidates.
		if i, ok := MatchWithdrawal(v, b.matured); ok {
			b.matured = removeInstrument(b.matured, i)
			return
		}
		b.debit(v.Money())
	default:
		log.Debugf("unsupported transaction %T skipped", tx)
	}
}

// retire removes the instrument with this id from either registry.
func (b *book) retire(id string) bool {
	for _, reg := range []*[]*Instrument{&b.matured, &b.active} {
		if i := slices.IndexFunc(*reg, func(inst *Instrument) bool { return inst.ID == id }); i >= 0 {
			*reg = removeInstrument(*reg, i)
			return true
		}
	}
	return false
}

// sweep moves instruments matured on day from the active to the matured registry.
func (b *book) sweep(day date.Date) {
	kept := b.active[:0]
	for _, inst := range b.active {
		if inst.MaturedOn(day) {
			b.matured = append(b.matured, inst)
			continue
		}
		kept = append(kept, inst)
	}
	clear(b.active[len(kept):])
	b.active = kept
}

// openPositions returns the positions not closed, in first-seen order.
func (b *book) openPositions() []Position {
	var ps []Position
	for _, key := range b.order {
		if p := b.positions[key]; !p.Quantity.IsClosed() {
			ps = append(ps, *p)
		}
	}
	return ps
}

// open reports whether anything but cash is still held.
func (b *book) open() bool {
	return len(b.active) > 0 || len(b.matured) > 0 || len(b.openPositions()) > 0
}

// Holdings is the content of the portfolio at the end of a day.
type Holdings struct {
	Date      date.Date
	Cash      map[Currency]Money
	Positions []Position
	Active    []*Instrument
	Matured   []*Instrument
}

func (b *book) holdings(day date.Date) Holdings {
	h := Holdings{
		Date:      day,
		Cash:      make(map[Currency]Money, len(Currencies)),
		Positions: b.openPositions(),
		Active:    slices.Clone(b.active),
		Matured:   slices.Clone(b.matured),
	}
	for _, cur := range Currencies {
		h.Cash[cur] = M(b.cash[cur], cur)
	}
	return h
}

// Holdings replays the ledger up to asOf (included) and returns what is held.
func (l *Ledger) Holdings(asOf date.Date, initialCash Money) Holdings {
	b := newBook(initialCash)
	start := asOf
	if first := l.OldestTransactionDate(); !first.IsZero() && first.Before(start) {
		start = first
	}
	i := 0
	for day := start; !day.After(asOf); day = day.Add(1) {
		for ; i < len(l.transactions) && !l.transactions[i].When().After(day); i++ {
			b.apply(l.transactions[i])
		}
		b.sweep(day)
	}
	return b.holdings(asOf)
}

// contribution is the value of one line of the portfolio on a day.
type contribution struct {
	Asset    AssetType
	Security string   // empty for instruments and cash
	Currency Currency // currency Value is expressed in
	Value    decimal.Decimal
}

// valuer values holdings. It is shared by replays and the current value.
type valuer struct {
	ctx     context.Context
	prices  PriceHistory
	bonds   *BondPrices
	usdars  decimal.Decimal
	missing map[string]bool // securities already reported without a price
}

func newValuer(ctx context.Context, prices PriceHistory, bonds *BondPrices, usdars decimal.Decimal) *valuer {
	return &valuer{ctx: ctx, prices: prices, bonds: bonds, usdars: usdars, missing: make(map[string]bool)}
}

// price resolves the price of a position on day, with the bond fallback.
func (v *valuer) price(p Position, day date.Date) (decimal.Decimal, bool) {
	if price, ok := v.prices.PriceAt(p.Security, day); ok {
		return price, true
	}
	if p.AssetType == Bond {
		if price, ok := v.bonds.Lookup(v.ctx, p.Security, p.Currency); ok {
			return price, true
		}
	}
	if !v.missing[p.Security] {
		v.missing[p.Security] = true
		log.WithFields(log.Fields{"security": p.Security, "date": day}).Warn("no price, position excluded from valuation")
	}
	return decimal.Zero, false
}

// position values a position. Crypto is always valued in USD, and USD bonds
// are consolidated into ARS.
func (v *valuer) position(p Position, day date.Date) (contribution, bool) {
	price, ok := v.price(p, day)
	if !ok {
		return contribution{}, false
	}
	c := contribution{Asset: p.AssetType, Security: p.Security, Currency: p.Currency, Value: p.Quantity.value.Mul(price)}
	switch {
	case p.AssetType == Crypto:
		c.Currency = USD
	case p.AssetType == Bond && p.Currency == USD:
		c.Currency, c.Value = ARS, c.Value.Mul(v.usdars)
	}
	return c, true
}

// instrument values an active or matured instrument.
func (v *valuer) instrument(inst *Instrument, day date.Date) (contribution, bool) {
	value, ok := inst.AccruedValue(day)
	if !ok {
		return contribution{}, false
	}
	return contribution{Asset: inst.Kind, Currency: inst.Currency, Value: value}, true
}

// holdings values everything held, cash included.
func (v *valuer) holdings(h Holdings, day date.Date) []contribution {
	lines := make([]contribution, 0, len(h.Positions)+len(h.Active)+len(h.Matured)+len(h.Cash))
	for _, p := range h.Positions {
		if c, ok := v.position(p, day); ok {
			lines = append(lines, c)
		}
	}
	for _, inst := range h.Active {
		if c, ok := v.instrument(inst, day); ok {
			lines = append(lines, c)
		}
	}
	for _, inst := range h.Matured {
		lines = append(lines, contribution{Asset: inst.Kind, Currency: inst.Currency, Value: inst.FinalValue()})
	}
	for _, cur := range Currencies {
		if cash, ok := h.Cash[cur]; ok {
			lines = append(lines, contribution{Asset: CashAsset, Currency: cur, Value: cash.Value()})
		}
	}
	return lines
}

// reducer turns the valued lines of a day into a snapshot S.
type reducer[S any] interface {
	reduce(day date.Date, lines []contribution, usdars decimal.Decimal) S
	isZero(S) bool
	redate(S, date.Date) S
}

// replay runs the ledger day by day and reduces each day of rng into a snapshot.
//
// Transactions before rng.From seed the state without producing snapshots.
func replay[S any](ctx context.Context, ledger *Ledger, prices PriceHistory, rng date.Range, opts Options, r reducer[S]) ([]S, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	usdars := Memoize(opts.Rates).USDARS(ctx)
	v := newValuer(ctx, prices, opts.Bonds, usdars)
	b := newBook(opts.InitialCash)

	start := rng.From
	if first := ledger.OldestTransactionDate(); !first.IsZero() && first.Before(start) {
		start = first
	}

	out := make([]S, 0, rng.Len())
	txs, i := ledger.transactions, 0
	for day := start; !day.After(rng.To); day = day.Add(1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for ; i < len(txs) && !txs[i].When().After(day); i++ {
			b.apply(txs[i])
		}
		b.sweep(day)
		if day.Before(rng.From) {
			continue
		}

		s := r.reduce(day, v.holdings(b.holdings(day), day), usdars)
		if r.isZero(s) && b.open() && len(out) > 0 {
			// a sudden zero while things are held is a price gap, not a liquidation.
			s = r.redate(out[len(out)-1], day)
		}
		out = append(out, s)
	}
	return out, nil
}
