package config

import (
	"fmt"
	"strings"
)

// Instrument is the parsed view of an instrument identifier such as
// "btc_usdt_spot": base asset, quote asset and product class.
type Instrument struct {
	Base    string
	Quote   string
	Product string
}

// ParseInstrument splits the base_quote_product identifier.
func ParseInstrument(s string) (Instrument, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Instrument{}, fmt.Errorf("instrument %q must be base_quote_product", s)
	}
	return Instrument{Base: parts[0], Quote: parts[1], Product: parts[2]}, nil
}

// IsFutures reports whether the instrument is a futures product, which
// requires a configured leverage on order creation (spot is always 1).
func (i Instrument) IsFutures() bool {
	return i.Product == "futures"
}
