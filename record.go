package tradebook

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountSnapshot is a point-in-time copy of an account.
type AccountSnapshot struct {
	ID      string
	Balance decimal.Decimal
}

// TransactionRecord is an immutable entry of the transaction log.
//
// Amount is the signed cash flow of the transaction: positive for inflows
// (DEPOSIT, SELL), negative for outflows (WITHDRAWAL, BUY). Symbol, quantity,
// price and total are only set on BUY and SELL records.
type TransactionRecord struct {
	id        string
	accountID string
	kind      Kind
	timestamp time.Time
	amount    decimal.Decimal
	symbol    string
	quantity  *decimal.Decimal
	price     *decimal.Decimal
	total     *decimal.Decimal
}

func (r TransactionRecord) ID() string              { return r.id }
func (r TransactionRecord) AccountID() string       { return r.accountID }
func (r TransactionRecord) Kind() Kind              { return r.kind }
func (r TransactionRecord) Timestamp() time.Time    { return r.timestamp }
func (r TransactionRecord) Amount() decimal.Decimal { return r.amount }

// Symbol returns the traded symbol, and false when the record has none.
func (r TransactionRecord) Symbol() (string, bool) { return r.symbol, r.symbol != "" }

// Quantity returns the traded quantity, and false when the record has none.
func (r TransactionRecord) Quantity() (decimal.Decimal, bool) { return optional(r.quantity) }

// Price returns the per-unit price, and false when the record has none.
func (r TransactionRecord) Price() (decimal.Decimal, bool) { return optional(r.price) }

// Total returns quantity × price as recorded, and false when the record has none.
func (r TransactionRecord) Total() (decimal.Decimal, bool) { return optional(r.total) }

// Equal reports whether r and o hold the same values.
func (r TransactionRecord) Equal(o TransactionRecord) bool {
	return r.id == o.id &&
		r.accountID == o.accountID &&
		r.kind == o.kind &&
		r.timestamp.Equal(o.timestamp) &&
		r.amount.Equal(o.amount) &&
		r.symbol == o.symbol &&
		equalOptional(r.quantity, o.quantity) &&
		equalOptional(r.price, o.price) &&
		equalOptional(r.total, o.total)
}

// MarshalJSON writes the record fields in a stable order, omitting the trade
// fields of cash records.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.id)
	w.Append("account", r.accountID)
	w.Append("kind", r.kind)
	w.Append("timestamp", r.timestamp.Format(time.RFC3339Nano))
	w.Append("amount", r.amount)
	w.Optional("symbol", r.symbol)
	w.Optional("quantity", r.quantity)
	w.Optional("price", r.price)
	w.Optional("total", r.total)
	return w.MarshalJSON()
}

func optional(d *decimal.Decimal) (decimal.Decimal, bool) {
	if d == nil {
		return decimal.Zero, false
	}
	return *d, true
}

func equalOptional(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// newID returns a random 128-bit token as 32 lowercase hex digits.
func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// utc returns t in UTC, or the current time when t is zero.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
