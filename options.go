package tradebook

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"go.uber.org/zap"
)

// Option configures a Ledger.
type Option func(*Ledger) error

// Observer is notified of every record committed by a Ledger. It is called
// after the commit, outside of any lock, from the recording goroutine.
type Observer func(TransactionRecord)

// WithCurrencyPrecision sets the number of fractional digits of amounts,
// prices and totals.
func WithCurrencyPrecision(places int) Option {
	return func(l *Ledger) error {
		if err := ValidatePrecision(places); err != nil {
			return fmt.Errorf("currency precision: %w", err)
		}
		l.currencyPrecision = int32(places)
		return nil
	}
}

// WithAssetPrecision sets the number of fractional digits of quantities.
func WithAssetPrecision(places int) Option {
	return func(l *Ledger) error {
		if err := ValidatePrecision(places); err != nil {
			return fmt.Errorf("asset precision: %w", err)
		}
		l.assetPrecision = int32(places)
		return nil
	}
}

// WithCurrency sets the currency precision to the minor unit of an ISO 4217
// currency: 2 for "USD", 0 for "JPY", 3 for "KWD".
func WithCurrency(code string) Option {
	return func(l *Ledger) error {
		cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
		if cur == nil {
			return fmt.Errorf("%w: unknown currency %q", ErrInvalidConfiguration, code)
		}
		l.currency = cur.Code
		l.currencyPrecision = int32(cur.Fraction)
		return nil
	}
}

// WithAccounts makes the ledger check that accounts exist before recording or
// listing their transactions.
func WithAccounts(accounts AccountResolver) Option {
	return func(l *Ledger) error {
		l.accounts = accounts
		return nil
	}
}

// WithStore makes the ledger post its records to store, which then keeps
// balances and holdings up to date. Accounts must exist in the store.
func WithStore(store *Store) Option {
	return func(l *Ledger) error {
		if store == nil {
			return fmt.Errorf("%w: nil store", ErrInvalidConfiguration)
		}
		l.store = store
		return nil
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	}
}

// WithObserver adds an observer of committed records.
func WithObserver(o Observer) Option {
	return func(l *Ledger) error {
		if o != nil {
			l.observers = append(l.observers, o)
		}
		return nil
	}
}
