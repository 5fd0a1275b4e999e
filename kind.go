package tradebook

import (
	"fmt"
	"strings"
)

// Kind is the type of a transaction record.
type Kind string

// Transaction kinds.
const (
	Deposit    Kind = "DEPOSIT"
	Withdrawal Kind = "WITHDRAWAL"
	Buy        Kind = "BUY"
	Sell       Kind = "SELL"
)

func (k Kind) String() string { return string(k) }

// IsTrade reports whether the kind carries a symbol, a quantity and a price.
func (k Kind) IsTrade() bool { return k == Buy || k == Sell }

// ParseKind parses a kind ignoring case and surrounding spaces.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case Deposit, Withdrawal, Buy, Sell:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q must be one of: DEPOSIT, WITHDRAWAL, BUY, SELL", ErrInvalidKind, s)
	}
}

// normalizeAccountID trims id and rejects empty ones.
func normalizeAccountID(id string) (string, error) {
	acc := strings.TrimSpace(id)
	if acc == "" {
		return "", fmt.Errorf("%w: account id must be a non-empty string", ErrInvalidAccountID)
	}
	return acc, nil
}

// normalizeSymbol trims and upper-cases symbol and rejects empty ones.
func normalizeSymbol(symbol string) (string, error) {
	sym := strings.TrimSpace(symbol)
	if sym == "" {
		return "", fmt.Errorf("%w: symbol must be a non-empty string", ErrInvalidSymbol)
	}
	return strings.ToUpper(sym), nil
}
