package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits lifecycle events. Publishing is best-effort and never
// affects the outcome of the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any)
	Close() error
}

type KafkaPublisher struct {
	w        *kafka.Writer
	producer string
}

func NewKafkaPublisher(brokers []string, producer string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		producer: producer,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("can't marshal event payload", zap.Error(err), zap.String("topic", topic))
		return
	}
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  topic,
		OccurredAt: time.Now(),
		Producer:   p.producer,
		Payload:    body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		zap.L().Error("can't marshal event envelope", zap.Error(err), zap.String("topic", topic))
		return
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
	})
	if err != nil {
		zap.L().Error("can't publish event", zap.Error(err), zap.String("topic", topic))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic, key string, payload any) {}

func (NoopPublisher) Close() error { return nil }
