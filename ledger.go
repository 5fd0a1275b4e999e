package tradebook

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ledger turns raw caller input into validated, quantized and immutable
// transaction records.
//
// Amounts, prices and totals are quantized to the currency precision,
// quantities to the asset precision, rounding half away from zero. Each
// quantized value must be strictly positive.
//
// A Ledger keeps its own transaction log unless it is bound to a Store with
// WithStore. It only checks that accounts exist when an AccountResolver is
// configured with WithAccounts: the resolver's error is then returned as is.
type Ledger struct {
	currency          string
	currencyPrecision int32
	assetPrecision    int32
	accounts          AccountResolver
	store             *Store
	logger            *zap.Logger
	observers         []Observer

	mu  sync.Mutex // guards log
	log journal
}

// NewLedger creates a ledger. Invalid options fail here, wrapping
// ErrInvalidConfiguration.
func NewLedger(opts ...Option) (*Ledger, error) {
	l := &Ledger{
		currencyPrecision: DefaultCurrencyPrecision,
		assetPrecision:    DefaultAssetPrecision,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// CurrencyPrecision returns the number of fractional digits of amounts.
func (l *Ledger) CurrencyPrecision() int { return int(l.currencyPrecision) }

// AssetPrecision returns the number of fractional digits of quantities.
func (l *Ledger) AssetPrecision() int { return int(l.assetPrecision) }

// Currency returns the ISO code set with WithCurrency, or "".
func (l *Ledger) Currency() string { return l.currency }

// RecordDeposit records cash entering the account.
func (l *Ledger) RecordDeposit(accountID string, amount Number) (TransactionRecord, error) {
	return l.recordCash(Deposit, accountID, amount)
}

// RecordWithdrawal records cash leaving the account. The recorded amount is
// negative.
func (l *Ledger) RecordWithdrawal(accountID string, amount Number) (TransactionRecord, error) {
	return l.recordCash(Withdrawal, accountID, amount)
}

// RecordBuy records the purchase of quantity units of symbol at price. The
// recorded amount is minus the total.
func (l *Ledger) RecordBuy(accountID, symbol string, quantity, price Number) (TransactionRecord, error) {
	return l.recordTrade(Buy, accountID, symbol, quantity, price)
}

// RecordSell records the sale of quantity units of symbol at price. The
// recorded amount is the total.
func (l *Ledger) RecordSell(accountID, symbol string, quantity, price Number) (TransactionRecord, error) {
	return l.recordTrade(Sell, accountID, symbol, quantity, price)
}

func (l *Ledger) recordCash(kind Kind, accountID string, amount Number) (TransactionRecord, error) {
	acc, err := normalizeAccountID(accountID)
	if err != nil {
		return l.reject(kind, err)
	}
	amt, err := l.positive("amount", amount, l.currencyPrecision, ErrInvalidAmount)
	if err != nil {
		return l.reject(kind, err)
	}
	if kind == Withdrawal {
		amt = amt.Neg()
	}
	return l.commit(TransactionRecord{
		accountID: acc,
		kind:      kind,
		amount:    amt,
	})
}

func (l *Ledger) recordTrade(kind Kind, accountID, symbol string, quantity, price Number) (TransactionRecord, error) {
	acc, err := normalizeAccountID(accountID)
	if err != nil {
		return l.reject(kind, err)
	}
	sym, err := normalizeSymbol(symbol)
	if err != nil {
		return l.reject(kind, err)
	}
	qty, err := l.positive("quantity", quantity, l.assetPrecision, ErrInvalidQuantity)
	if err != nil {
		return l.reject(kind, err)
	}
	px, err := l.positive("price", price, l.currencyPrecision, ErrInvalidPrice)
	if err != nil {
		return l.reject(kind, err)
	}
	total := Quantize(qty.Mul(px), l.currencyPrecision)
	amt := total
	if kind == Buy {
		amt = total.Neg()
	}
	return l.commit(TransactionRecord{
		accountID: acc,
		kind:      kind,
		amount:    amt,
		symbol:    sym,
		quantity:  ptr(qty),
		price:     ptr(px),
		total:     ptr(total),
	})
}

// positive normalizes and quantizes value, which must remain > 0.
func (l *Ledger) positive(field string, value Number, places int32, errNotPositive error) (decimal.Decimal, error) {
	d, err := Normalize(value)
	if err != nil {
		return decimal.Zero, invalid(field, err)
	}
	q := Quantize(d, places)
	if !q.IsPositive() {
		return decimal.Zero, invalid(field, errNotPositive)
	}
	return q, nil
}

// commit checks that the account exists, stamps rec and appends it.
func (l *Ledger) commit(rec TransactionRecord) (TransactionRecord, error) {
	if l.accounts != nil {
		if _, err := l.accounts.ResolveAccount(rec.accountID); err != nil {
			return l.reject(rec.kind, err)
		}
	}
	rec.id = newID()
	rec.timestamp = time.Now().UTC()

	if l.store != nil {
		if err := l.store.Post(rec); err != nil {
			return l.reject(rec.kind, err)
		}
	} else {
		l.mu.Lock()
		l.log.append(rec)
		l.mu.Unlock()
	}

	l.logger.Debug("transaction recorded",
		zap.String("id", rec.id),
		zap.String("account", rec.accountID),
		zap.Stringer("kind", rec.kind),
		zap.Stringer("amount", rec.amount))
	for _, o := range l.observers {
		o(rec)
	}
	return rec, nil
}

func (l *Ledger) reject(kind Kind, err error) (TransactionRecord, error) {
	l.logger.Debug("transaction rejected", zap.Stringer("kind", kind), zap.Error(err))
	return TransactionRecord{}, err
}

// Transactions lists the records matching f in commit order.
//
// Filtering on an unknown account returns the resolver's error when one is
// configured, and an empty list otherwise.
func (l *Ledger) Transactions(f Filter) ([]TransactionRecord, error) {
	c, err := f.normalize()
	if err != nil {
		return nil, err
	}
	if c.account != "" && l.accounts != nil {
		if _, err := l.accounts.ResolveAccount(c.account); err != nil {
			return nil, err
		}
	}
	if l.store != nil {
		records, err := l.store.Transactions(f)
		if errors.Is(err, ErrRecordNotFound) && l.accounts == nil {
			return []TransactionRecord{}, nil
		}
		return records, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.log.filter(c), nil
}

// AccountTransactions lists the records of one account matching f.
func (l *Ledger) AccountTransactions(accountID string, f Filter) ([]TransactionRecord, error) {
	acc, err := normalizeAccountID(accountID)
	if err != nil {
		return nil, err
	}
	f.AccountID = acc
	return l.Transactions(f)
}
