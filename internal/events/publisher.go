package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types emitted on the user-events topic.
const (
	TypeUserRegistered      = "user.registered"
	TypeConnectionRequested = "connection.requested"
	TypeConnectionAccepted  = "connection.accepted"
	TypeConnectionDeclined  = "connection.declined"
)

type Event struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	PeerID string    `json:"peer_id,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher emits lifecycle events to Kafka. A nil Publisher is a no-op so
// the service runs without a broker configured. Delivery is at-most-once;
// failures are logged, never retried.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

func NewPublisher(brokers []string, topic string, log *zap.SugaredLogger) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Publisher{writer: w, log: log}
}

func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil || p.writer == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.Warnf("marshal %s event: %v", ev.Type, err)
		return
	}
	msg := kafka.Message{Key: []byte(ev.UserID), Value: b, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warnf("publish %s event: %v", ev.Type, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
