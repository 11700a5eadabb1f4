package cartera

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadLedger loads a ledger file, or every ledger file (.jsonl or .json) of a
// directory merged into a single ledger.
func LoadLedger(path string) (*Ledger, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not find ledger %q: %w", path, err)
	}
	if !info.IsDir() {
		return loadLedgerFile(path)
	}

	merged := NewLedger()
	merged.name = filepath.Base(path)
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLedgerFile(p) {
			return nil
		}
		l, err := loadLedgerFile(p)
		if err != nil {
			return err
		}
		merged.Append(l.transactions...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func isLedgerFile(p string) bool {
	ext := filepath.Ext(p)
	return ext == ".jsonl" || ext == ".json"
}

// loadLedgerFile opens, decodes, and names a ledger from a given file path.
func loadLedgerFile(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	ledger.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ledger, nil
}

// SaveLedger writes a ledger as JSONL, creating the parent directory if needed.
func SaveLedger(path string, ledger *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	if err := EncodeLedger(f, ledger); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadPrices loads a market data file. A missing file is an empty history.
func LoadPrices(path string) (PriceHistory, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return make(PriceHistory), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open market data %q: %w", path, err)
	}
	defer f.Close()
	prices, err := DecodePrices(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode market data %q: %w", path, err)
	}
	return prices, nil
}
