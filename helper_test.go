package tradebook

import (
	"testing"

	"github.com/shopspring/decimal"
)

// d parses a decimal literal, it panics on invalid input.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertDecimal compares decimals by value, so "1.50" equals "1.5".
func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// must is a helper to panic on error, useful in tests.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
