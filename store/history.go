package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etnz/cartera"
	"github.com/etnz/cartera/date"
	"github.com/shopspring/decimal"
)

// SaveSnapshots upserts whole portfolio values, one row per day.
func (s *Store) SaveSnapshots(ctx context.Context, history []cartera.Snapshot) error {
	query := s.rebind(`
		INSERT INTO snapshots (date, value_ars, value_usd, raw_ars, raw_usd, cash_ars, cash_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			value_ars = excluded.value_ars,
			value_usd = excluded.value_usd,
			raw_ars = excluded.raw_ars,
			raw_usd = excluded.raw_usd,
			cash_ars = excluded.cash_ars,
			cash_usd = excluded.cash_usd
	`)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare snapshot insert: %w", err)
		}
		defer stmt.Close()
		for _, v := range history {
			_, err := stmt.ExecContext(ctx, v.Date.String(),
				v.ValueARS.String(), v.ValueUSD.String(),
				v.RawARS.String(), v.RawUSD.String(),
				v.CashARS.String(), v.CashUSD.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert snapshot of %s: %w", v.Date, err)
			}
		}
		return nil
	})
}

// Snapshots returns the stored values of the days in rng, in chronological order.
func (s *Store) Snapshots(ctx context.Context, rng date.Range) ([]cartera.Snapshot, error) {
	query := s.rebind(`
		SELECT date, value_ars, value_usd, raw_ars, raw_usd, cash_ars, cash_usd
		FROM snapshots
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`)
	rows, err := s.db.QueryContext(ctx, query, rng.From.String(), rng.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var history []cartera.Snapshot
	for rows.Next() {
		var day string
		var values [6]string
		if err := rows.Scan(&day, &values[0], &values[1], &values[2], &values[3], &values[4], &values[5]); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		v := cartera.Snapshot{}
		if v.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		fields := []*decimal.Decimal{&v.ValueARS, &v.ValueUSD, &v.RawARS, &v.RawUSD, &v.CashARS, &v.CashUSD}
		for i, f := range fields {
			if *f, err = decimal.NewFromString(values[i]); err != nil {
				return nil, fmt.Errorf("failed to parse value of %s: %w", day, err)
			}
		}
		history = append(history, v)
	}
	return history, rows.Err()
}

// SaveCategories upserts category values, one row per day and category.
func (s *Store) SaveCategories(ctx context.Context, history []cartera.CategorySnapshot) error {
	query := s.rebind(`
		INSERT INTO category_values (date, currency, category, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date, currency, category) DO UPDATE SET value = excluded.value
	`)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare category insert: %w", err)
		}
		defer stmt.Close()
		for _, c := range history {
			for _, cat := range c.Names() {
				if _, err := stmt.ExecContext(ctx, c.Date.String(), string(c.Currency), string(cat), c.Categories[cat].String()); err != nil {
					return fmt.Errorf("failed to insert %s of %s: %w", cat, c.Date, err)
				}
			}
		}
		return nil
	})
}

// Categories returns the stored category values of the days in rng, in a
// currency. Totals are recomputed from the categories.
func (s *Store) Categories(ctx context.Context, rng date.Range, cur cartera.Currency) ([]cartera.CategorySnapshot, error) {
	query := s.rebind(`
		SELECT date, category, value
		FROM category_values
		WHERE currency = ? AND date >= ? AND date <= ?
		ORDER BY date, category
	`)
	rows, err := s.db.QueryContext(ctx, query, string(cur), rng.From.String(), rng.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var history []cartera.CategorySnapshot
	for rows.Next() {
		var day, category, value string
		if err := rows.Scan(&day, &category, &value); err != nil {
			return nil, fmt.Errorf("failed to scan category value: %w", err)
		}
		d, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s of %s: %w", category, day, err)
		}
		if n := len(history); n == 0 || history[n-1].Date != d {
			history = append(history, cartera.CategorySnapshot{Date: d, Currency: cur, Categories: make(map[cartera.Category]decimal.Decimal)})
		}
		last := &history[len(history)-1]
		last.Categories[cartera.Category(category)] = v
		last.Total = last.Total.Add(v)
	}
	return history, rows.Err()
}
