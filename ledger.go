package cartera

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"

	"github.com/etnz/cartera/date"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order, transactions
// on the same day keep the order they were appended in.
type Ledger struct {
	name         string
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: make([]Transaction, 0, len(txs))}
	l.Append(txs...)
	return l
}

// Name returns the ledger name, usually derived from its file name.
func (l *Ledger) Name() string { return l.name }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append adds transactions to the ledger and keeps it sorted.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts the transactions by date, preserving the log order of same-day transactions.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Transactions returns an iterator over transactions matching all filters.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, keep := range filters {
				if !keep(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByCommand filters transactions of the given kinds.
func ByCommand(cmds ...CommandType) func(Transaction) bool {
	return func(tx Transaction) bool { return slices.Contains(cmds, tx.What()) }
}

// ByCurrency filters transactions moving cash in the given currency.
func ByCurrency(cur Currency) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Currency() == cur }
}

// Until filters transactions on or before a date.
func Until(day date.Date) func(Transaction) bool {
	return func(tx Transaction) bool { return !tx.When().After(day) }
}

// OldestTransactionDate returns the date of the first dated transaction, or
// zero if there is none. Undated transactions are invalid and sort first.
func (l *Ledger) OldestTransactionDate() date.Date {
	for _, tx := range l.transactions {
		if day := tx.When(); !day.IsZero() {
			return day
		}
	}
	return date.Date{}
}

// NewestTransactionDate returns the date of the last transaction, or zero if the ledger is empty.
func (l *Ledger) NewestTransactionDate() date.Date {
	if len(l.transactions) == 0 {
		return date.Date{}
	}
	return l.transactions[len(l.transactions)-1].When()
}

// Validate checks every transaction and joins all the errors found.
//
// The replay engine skips invalid transactions, Validate is for tools that
// want to report them.
func (l *Ledger) Validate() error {
	var errs []error
	ids := make(map[string]int)
	for i, tx := range l.transactions {
		if err := tx.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s transaction %q on %v: %w", tx.What(), tx.Ref(), tx.When(), err))
		}
		if id := tx.Ref(); id != "" {
			if j, dup := ids[id]; dup {
				errs = append(errs, fmt.Errorf("transactions #%d and #%d share id %q", j, i, id))
			}
			ids[id] = i
		}
	}
	return errors.Join(errs...)
}

// Securities returns the sorted list of securities traded in the ledger.
func (l *Ledger) Securities() []string {
	var secs []string
	for _, tx := range l.transactions {
		var s string
		switch v := tx.(type) {
		case Buy:
			s = v.Security
		case Sell:
			s = v.Security
		}
		if s != "" && !slices.Contains(secs, s) {
			secs = append(secs, s)
		}
	}
	slices.Sort(secs)
	return secs
}
