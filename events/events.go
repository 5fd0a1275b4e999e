// Package events publishes the transactions recorded by a ledger to a
// message broker.
package events

import (
	"time"

	"github.com/etnz/tradebook"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTopic is the topic transactions are published to.
const DefaultTopic = "transaction_recorded"

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(topic string, key string, event any) error
}

// TransactionRecorded is the payload published for each record.
type TransactionRecorded struct {
	TransactionID string           `json:"transaction_id"`
	AccountID     string           `json:"account_id"`
	Kind          string           `json:"kind"`
	Amount        decimal.Decimal  `json:"amount"`
	Symbol        string           `json:"symbol,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// FromRecord builds the event of a record.
func FromRecord(r tradebook.TransactionRecord) TransactionRecorded {
	e := TransactionRecorded{
		TransactionID: r.ID(),
		AccountID:     r.AccountID(),
		Kind:          r.Kind().String(),
		Amount:        r.Amount(),
		OccurredAt:    r.Timestamp(),
	}
	e.Symbol, _ = r.Symbol()
	if q, ok := r.Quantity(); ok {
		e.Quantity = &q
	}
	if p, ok := r.Price(); ok {
		e.Price = &p
	}
	if t, ok := r.Total(); ok {
		e.Total = &t
	}
	return e
}

// Observer returns a ledger observer publishing every record to topic, keyed
// by account id so that the records of an account stay ordered. Publication
// failures are logged, the record is already committed.
func Observer(pub Publisher, topic string, logger *zap.Logger) tradebook.Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(r tradebook.TransactionRecord) {
		if err := pub.Publish(topic, r.AccountID(), FromRecord(r)); err != nil {
			logger.Warn("unable to publish transaction",
				zap.String("id", r.ID()),
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
}
