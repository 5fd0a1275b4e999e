// Package pricing provides share prices to price trades that were submitted
// without one.
package pricing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidSymbol is returned for an empty symbol.
	ErrInvalidSymbol = errors.New("symbol must be a non-empty string")
	// ErrSymbolNotSupported is returned for a symbol without a price.
	ErrSymbolNotSupported = errors.New("symbol is not supported")
)

// Quoter returns the current price of a share.
type Quoter interface {
	SharePrice(symbol string) (decimal.Decimal, error)
}

// Static is a fixed price table, for tests and deterministic replays.
// Symbols are case-insensitive.
type Static struct {
	prices map[string]decimal.Decimal
}

// NewStatic returns a price table. Symbols are upper-cased.
func NewStatic(prices map[string]decimal.Decimal) *Static {
	s := &Static{prices: make(map[string]decimal.Decimal, len(prices))}
	for sym, px := range prices {
		s.prices[strings.ToUpper(strings.TrimSpace(sym))] = px
	}
	return s
}

// NewTestPrices returns the table of test equities: AAPL 150.00, TSLA 250.00
// and GOOGL 2750.00 (USD).
func NewTestPrices() *Static {
	return NewStatic(map[string]decimal.Decimal{
		"AAPL":  decimal.RequireFromString("150.00"),
		"TSLA":  decimal.RequireFromString("250.00"),
		"GOOGL": decimal.RequireFromString("2750.00"),
	})
}

// SharePrice implements Quoter.
func (s *Static) SharePrice(symbol string) (decimal.Decimal, error) {
	sym := strings.TrimSpace(symbol)
	if sym == "" {
		return decimal.Zero, ErrInvalidSymbol
	}
	sym = strings.ToUpper(sym)
	px, ok := s.prices[sym]
	if !ok {
		return decimal.Zero, fmt.Errorf("symbol %q: %w", sym, ErrSymbolNotSupported)
	}
	return px, nil
}

// Symbols returns the supported symbols, sorted.
func (s *Static) Symbols() []string {
	syms := make([]string, 0, len(s.prices))
	for sym := range s.prices {
		syms = append(syms, sym)
	}
	slices.Sort(syms)
	return syms
}
