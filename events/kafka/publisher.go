// Package kafka implements events.Publisher over Kafka.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/etnz/tradebook/events"
	"github.com/segmentio/kafka-go"
)

// Publisher writes events as JSON messages.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher returns a publisher to brokers. Messages with the same key go
// to the same partition.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.Hash{},
		},
	}
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(topic string, key string, event any) error {
	msg, err := message(topic, key, event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), msg)
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func message(topic, key string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}, nil
}

var _ events.Publisher = (*Publisher)(nil)
