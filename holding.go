package tradebook

import "github.com/shopspring/decimal"

// holdings maps an account to the quantity held for each symbol.
//
// A symbol with a zero quantity has no entry, and neither has an account
// without any position.
type holdings map[string]map[string]decimal.Decimal

func (h holdings) position(account, symbol string) decimal.Decimal {
	// indexing a nil inner map is fine and yields the zero value.
	return h[account][symbol]
}

// set stores qty for (account, symbol) and returns the stored quantity.
func (h holdings) set(account, symbol string, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		positions := h[account]
		delete(positions, symbol)
		if len(positions) == 0 {
			delete(h, account)
		}
		return decimal.Zero
	}
	positions, ok := h[account]
	if !ok {
		positions = make(map[string]decimal.Decimal)
		h[account] = positions
	}
	positions[symbol] = qty
	return qty
}

func (h holdings) adjust(account, symbol string, delta decimal.Decimal) decimal.Decimal {
	return h.set(account, symbol, h.position(account, symbol).Add(delta))
}

// snapshot returns a copy of the account positions, never nil.
func (h holdings) snapshot(account string) map[string]decimal.Decimal {
	positions := h[account]
	out := make(map[string]decimal.Decimal, len(positions))
	for sym, qty := range positions {
		out[sym] = qty
	}
	return out
}
