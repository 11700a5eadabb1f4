package cartera

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// DefaultRatesEndpoint returns the latest USD based rates.
const DefaultRatesEndpoint = "https://api.exchangerate.host/latest?base=USD&symbols=ARS"

// LiveRates fetches the USD to ARS rate from a JSON web service.
//
// Responses are cached on disk for the day. Wrap it with Memoize to query it
// once per valuation.
type LiveRates struct {
	Endpoint string // defaults to DefaultRatesEndpoint
	Path     string // jsonpath to the rate, defaults to "$.rates.ARS"
	Client   *http.Client
}

func (l *LiveRates) Rate(ctx context.Context, from, to Currency) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	usdars, err := l.fetch(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return pairRate(usdars, from, to)
}

func (l *LiveRates) fetch(ctx context.Context) (decimal.Decimal, error) {
	endpoint, path, client := l.Endpoint, l.Path, l.Client
	if endpoint == "" {
		endpoint = DefaultRatesEndpoint
	}
	if path == "" {
		path = "$.rates.ARS"
	}
	if client == nil {
		client = daily()
	}
	doc, err := jget(ctx, client, endpoint)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no rate at %s: %w", path, err)
	}
	rate, err := toDecimal(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate at %s: %w", path, err)
	}
	return rate, nil
}

// toDecimal converts a decoded json number, or numeric string, to a decimal.
func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		return decimal.NewFromString(x)
	default:
		return decimal.Zero, fmt.Errorf("unexpected %T value %v", v, v)
	}
}
