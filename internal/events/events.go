// Package events publishes order lifecycle messages to Kafka. Publishing is
// best effort: the order pipeline never fails a request over a broker error.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/deputyJo/ironcart-backend/internal/domain"
)

const (
	TopicOrderCreated = "order-created"
	TopicOrderPaid    = "order-paid"
)

type OrderPaidEvent struct {
	OrderID       string `json:"order_id"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
	PaidAt        string `json:"paid_at"`
}

// Publisher writes order events, one writer per topic.
type Publisher struct {
	created *kafka.Writer
	paid    *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		created: newWriter(brokers, TopicOrderCreated),
		paid:    newWriter(brokers, TopicOrderPaid),
	}
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, o domain.Order) error {
	return write(ctx, p.created, o.ID, o)
}

func (p *Publisher) OrderPaid(ctx context.Context, e OrderPaidEvent) error {
	return write(ctx, p.paid, e.OrderID, e)
}

func (p *Publisher) Close() error {
	if err := p.created.Close(); err != nil {
		return err
	}
	return p.paid.Close()
}

func write(ctx context.Context, w *kafka.Writer, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}
