package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	UsdtPlaces = 8
	RubPlaces  = 2
)

func RoundTo(n decimal.Decimal, places int32) decimal.Decimal {
	return n.Round(places)
}

// ParseAmount parses a user supplied amount, accepting a comma as the decimal
// separator, and requires it to be positive.
func ParseAmount(s string, places int32) (decimal.Decimal, error) {
	clean := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ' ', '\u00a0':
			continue
		case ',':
			clean = append(clean, '.')
		default:
			clean = append(clean, r)
		}
	}
	amount, err := decimal.NewFromString(string(clean))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}
	return amount.Round(places), nil
}
