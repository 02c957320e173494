// Package types defines core domain types shared across all layers.
// This package contains NO business logic beyond parsing the closed sets.
package types

import (
	"fmt"
	"strings"
)

// Commodity represents a priced metal
type Commodity string

const (
	CommodityGold   Commodity = "gold"
	CommoditySilver Commodity = "silver"
)

// String returns the string representation of the commodity
func (c Commodity) String() string {
	return string(c)
}

// IsValid checks if the commodity is a known commodity
func (c Commodity) IsValid() bool {
	switch c {
	case CommodityGold, CommoditySilver:
		return true
	default:
		return false
	}
}

// Commodities returns every supported commodity in display order
func Commodities() []Commodity {
	return []Commodity{CommodityGold, CommoditySilver}
}

// ParseCommodity case-folds raw and checks it against the supported set
func ParseCommodity(raw string) (Commodity, error) {
	c := Commodity(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported commodity %q (expected one of %s)", raw, Join(Commodities()))
	}
	return c, nil
}

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the currency is a known currency
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR:
		return true
	default:
		return false
	}
}

// Currencies returns every supported currency in display order
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyEUR}
}

// ParseCurrency case-folds raw and checks it against the supported set
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency %q (expected one of %s)", raw, Join(Currencies()))
	}
	return c, nil
}

// Join lists values comma-separated, in order
func Join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
