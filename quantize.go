package tradebook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Default precisions, in fractional digits.
const (
	DefaultCurrencyPrecision = 2
	DefaultAssetPrecision    = 8
)

// Quantize rounds d to places fractional digits, rounding half away from zero:
// 0.005 becomes 0.01 and -0.005 becomes -0.01.
func Quantize(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// ValidatePrecision checks that p is usable as a number of fractional digits.
func ValidatePrecision(p int) error {
	if p < 0 {
		return fmt.Errorf("%w: precision must be a non-negative integer, got %d", ErrInvalidConfiguration, p)
	}
	return nil
}

// ParsePrecision parses a precision given as text, like in an environment
// variable. Only non-negative base-10 integers are accepted.
func ParsePrecision(s string) (int, error) {
	s = strings.TrimSpace(s)
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: precision must be a non-negative integer, got %q", ErrInvalidConfiguration, s)
	}
	if err := ValidatePrecision(p); err != nil {
		return 0, err
	}
	return p, nil
}
