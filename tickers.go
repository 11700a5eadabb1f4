package cartera

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// marketSuffix matches the exchange suffixes used for local listings.
var marketSuffix = regexp.MustCompile(`(?i)\.(BA|AR|TO)$`)

// localSuffix matches the suffixes of listings quoted in pesos.
var localSuffix = regexp.MustCompile(`(?i)\.(BA|AR)$`)

// BaseTicker removes market suffixes (.BA, .AR, .TO) from a ticker.
// Class identifiers like BRK.B are kept.
func BaseTicker(symbol string) string { return marketSuffix.ReplaceAllString(symbol, "") }

// TickerCurrency returns ARS for local listings (.BA, .AR) and USD otherwise.
func TickerCurrency(symbol string) Currency {
	if localSuffix.MatchString(symbol) {
		return ARS
	}
	return USD
}

// SameAsset reports whether two tickers are listings of the same asset.
func SameAsset(a, b string) bool { return BaseTicker(a) == BaseTicker(b) }

// DuplicateGroup is a set of positions holding the same underlying asset
// through different listings, like AAPL and AAPL.BA.
type DuplicateGroup struct {
	BaseTicker string
	Positions  []Position
}

func (g DuplicateGroup) String() string {
	tickers := make([]string, len(g.Positions))
	for i, p := range g.Positions {
		tickers[i] = p.Security
	}
	return fmt.Sprintf("%s held as %s", g.BaseTicker, strings.Join(tickers, ", "))
}

// DetectDuplicates groups stock and bond positions by base ticker and returns
// the groups with more than one position, sorted by base ticker.
func DetectDuplicates(positions []Position) []DuplicateGroup {
	groups := make(map[string][]Position)
	for _, p := range positions {
		if p.AssetType != Stock && p.AssetType != Bond {
			continue
		}
		base := BaseTicker(p.Security)
		groups[base] = append(groups[base], p)
	}
	var dups []DuplicateGroup
	for base, ps := range groups {
		if len(ps) > 1 {
			dups = append(dups, DuplicateGroup{BaseTicker: base, Positions: ps})
		}
	}
	slices.SortFunc(dups, func(a, b DuplicateGroup) int { return strings.Compare(a.BaseTicker, b.BaseTicker) })
	return dups
}
