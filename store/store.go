// Package store persists valuation histories and market data in SQL.
//
// Two drivers are supported: PostgreSQL for DSNs like "postgres://..." or
// "host=... dbname=...", and SQLite for anything else, read as a file path.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	log "github.com/sirupsen/logrus"
)

// Store wraps the database connection.
type Store struct {
	db     *sql.DB
	driver string
}

// driverFor returns the database/sql driver name and data source for a DSN.
func driverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "dbname="):
		return "postgres", dsn
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		return "sqlite3", path + "?_busy_timeout=5000&_journal_mode=WAL"
	}
}

// Open connects to the database and creates the tables if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, source := driverFor(dsn)
	if driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(strings.TrimPrefix(dsn, "sqlite://")), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir data dir: %w", err)
		}
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debugf("store opened with %s", driver)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		date TEXT PRIMARY KEY,
		value_ars TEXT NOT NULL,
		value_usd TEXT NOT NULL,
		raw_ars TEXT NOT NULL,
		raw_usd TEXT NOT NULL,
		cash_ars TEXT NOT NULL,
		cash_usd TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS category_values (
		date TEXT NOT NULL,
		currency TEXT NOT NULL,
		category TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (date, currency, category)
	)`,
	`CREATE TABLE IF NOT EXISTS prices (
		security TEXT NOT NULL,
		date TEXT NOT NULL,
		close TEXT NOT NULL,
		PRIMARY KEY (security, date)
	)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites '?' placeholders into '$n' ones for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// inTx runs f in a transaction, committed only when f succeeds.
func (s *Store) inTx(ctx context.Context, f func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
