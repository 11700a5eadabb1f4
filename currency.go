package cartera

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Currency is one of the two currencies a portfolio is held in.
type Currency string

const (
	ARS Currency = "ARS"
	USD Currency = "USD"
)

// Currencies lists the supported currencies in reporting order.
var Currencies = []Currency{ARS, USD}

// ErrUnknownCurrency is returned when parsing anything but ARS or USD.
var ErrUnknownCurrency = errors.New("unknown currency")

// ParseCurrency parses a currency code, case insensitive.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case ARS, USD:
		return c, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownCurrency, s)
	}
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool { return c == ARS || c == USD }

// Other returns the other supported currency.
func (c Currency) Other() Currency {
	if c == USD {
		return ARS
	}
	return USD
}

func (c Currency) String() string { return string(c) }

// UnmarshalJSON accepts lower case codes as well.
func (c *Currency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = ""
		return nil
	}
	v, err := ParseCurrency(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
