package cartera

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Market data is persisted as JSONL, one price point per line:
//
//	{"security":"AAPL","date":"2025-01-02","close":243.85}
//
// A single JSON object mapping securities to arrays of points is accepted
// too, it is the format price exports usually come in.

// priceLine is the JSONL representation of a price point.
type priceLine struct {
	Security string `json:"security"`
	PricePoint
}

// DecodePrices reads market data from r.
func DecodePrices(r io.Reader) (PriceHistory, error) {
	br := bufio.NewReader(r)
	history := make(PriceHistory)
	if first, err := peekNonSpace(br); err == nil && first == '{' {
		// either a JSONL file or a single object: peek at the decoded keys.
		content, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		var series map[string][]PricePoint
		if err := json.Unmarshal(content, &series); err == nil {
			for security, points := range series {
				for _, p := range points {
					history.Add(security, p)
				}
			}
			return history, nil
		}
		br = bufio.NewReader(bytes.NewReader(content))
	}

	scanner := bufio.NewScanner(br)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var pl priceLine
		if err := json.Unmarshal(line, &pl); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", lineno, string(line), err)
		}
		if pl.Security == "" {
			return nil, fmt.Errorf("format error on line %d: security is missing", lineno)
		}
		history.Add(pl.Security, pl.PricePoint)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

// EncodePrices writes market data as JSONL, securities in alphabetical order.
func EncodePrices(w io.Writer, history PriceHistory) error {
	enc := json.NewEncoder(w)
	securities := make([]string, 0, len(history))
	for s := range history {
		securities = append(securities, s)
	}
	slices.Sort(securities)
	for _, s := range securities {
		for _, p := range history[s].Values() {
			if err := enc.Encode(priceLine{Security: s, PricePoint: p}); err != nil {
				return fmt.Errorf("could not encode %s on %s: %w", s, p.Date, err)
			}
		}
	}
	return nil
}
