package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// SavePrices upserts every close of the price history.
func (s *Store) SavePrices(ctx context.Context, prices cartera.PriceHistory) error {
	query := s.rebind(`
		INSERT INTO prices (security, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT (security, date) DO UPDATE SET close = excluded.close
	`)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare price insert: %w", err)
		}
		defer stmt.Close()
		for security, series := range prices {
			for day, p := range series.Values() {
				if _, err := stmt.ExecContext(ctx, security, day.String(), p.Close.String()); err != nil {
					return fmt.Errorf("failed to insert %s on %s: %w", security, day, err)
				}
			}
		}
		return nil
	})
}

// Prices loads the whole stored price history.
func (s *Store) Prices(ctx context.Context) (cartera.PriceHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT security, date, close FROM prices ORDER BY security, date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	prices := make(cartera.PriceHistory)
	for rows.Next() {
		var security, day, value string
		if err := rows.Scan(&security, &day, &value); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		d, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		c, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse close of %s on %s: %w", security, day, err)
		}
		prices.Add(security, cartera.P(d, c))
	}
	return prices, rows.Err()
}
