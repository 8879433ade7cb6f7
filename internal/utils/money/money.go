// Package money centralizes the decimal arithmetic used for ledger totals.
// Every balance check and AP/AR aggregation goes through these helpers so that
// amounts are never touched by binary floating point.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Add returns a + b exactly.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// Subtract returns a - b exactly.
func Subtract(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// IsEqual reports whether a and b are exactly equal after normalization.
// There is no tolerance: "100.0" equals "100.00" but never "100.001".
func IsEqual(a, b decimal.Decimal) bool {
	return a.Equal(b)
}

// IsZero reports whether a is exactly zero.
func IsZero(a decimal.Decimal) bool {
	return a.IsZero()
}

// IsPositive reports whether a is strictly greater than zero.
func IsPositive(a decimal.Decimal) bool {
	return a.GreaterThan(decimal.Zero)
}

// Sum adds all amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Parse converts a decimal string into an amount, rejecting anything that is
// not an exact decimal literal.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for test fixtures and constants known to be valid.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
