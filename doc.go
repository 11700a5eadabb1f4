// Package cartera values a personal investment portfolio held in Argentine
// pesos and US dollars.
//
// A portfolio is described by a Ledger: an append-only, chronological list
// of transactions (deposits, withdrawals, buys and sells of stocks, bonds and
// crypto, fixed-term deposits and cauciones, and the credits they pay out).
// Prices come from a PriceHistory lookup table and currencies are converted
// through an ExchangeRates provider.
//
// The core functionalities include:
//   - Replay: a day-by-day reconstruction of cash, positions and fixed-income
//     instruments from the ledger, reduced either into a whole-portfolio value
//     history (ValueHistory) or into a per-category history (CategoryHistory).
//   - Accrual: simple daily interest for fixed-income instruments, frozen at
//     maturity until the instrument is withdrawn.
//   - Current value: a point-in-time valuation of current holdings (CurrentValue).
//   - Performance: trailing monthly and annual returns, nominal and real
//     (ComputePerformance).
//
// The engine is lenient: missing prices and malformed transactions degrade
// the valuation and are logged, they never abort it.
package cartera
