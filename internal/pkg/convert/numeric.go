// Package convert provides numeric conversion utilities.
package convert

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts an exchange-formatted numeric string to a decimal.
// Returns zero for empty or malformed input.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDecimalFromFloat converts a float64 (config input) to a decimal.
// NaN and infinities collapse to zero.
func ParseDecimalFromFloat(v float64) decimal.Decimal {
	if v != v || v > 1e308 || v < -1e308 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
