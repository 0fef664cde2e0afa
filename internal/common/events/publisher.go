package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"driveup-workers/internal/common/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeRecommendationServed = "recommendation.served"
	TypeConsultationBooked   = "consultation.booked"
)

// Event is the envelope written to every DriveUp topic.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher emits domain events. Publishing is best effort: callers log a
// failure and carry on.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keeps one synchronous writer per topic.
type KafkaPublisher struct {
	writers map[string]messageWriter
	log     logger.Logger
}

func NewKafkaPublisher(brokers []string, topics []string, log logger.Logger) *KafkaPublisher {
	writers := make(map[string]messageWriter, len(topics))
	for _, topic := range topics {
		writers[topic] = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		}
	}
	return &KafkaPublisher{
		writers: writers,
		log:     log.WithFields(map[string]interface{}{"component": "kafka-publisher"}),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event Event) error {
	w, ok := p.writers[topic]
	if !ok {
		return fmt.Errorf("no writer configured for topic %q", topic)
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	if err := w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}); err != nil {
		return fmt.Errorf("write %s to %s: %w", event.Type, topic, err)
	}

	p.log.Debug("event published", map[string]interface{}{
		"topic":   topic,
		"type":    event.Type,
		"eventId": event.ID,
	})
	return nil
}

func (p *KafkaPublisher) Close() error {
	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer %s: %w", topic, err)
		}
	}
	return firstErr
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, Event) error { return nil }
func (NopPublisher) Close() error                                 { return nil }
