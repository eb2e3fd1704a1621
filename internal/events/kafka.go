package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"homeplate/internal/config"
	"homeplate/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes enveloped events keyed by order ID, so every event of
// one order lands on the same partition.
type KafkaPublisher struct {
	writer   messageWriter
	producer string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic.
func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaPublisher(w, cfg.Producer, logger)
}

func newKafkaPublisher(w messageWriter, producer string, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:   w,
		producer: producer,
		now:      time.Now,
		logger:   logger.With().Str("publisher", "kafka").Logger(),
	}
}

// OrderCreated publishes order.created.
func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	return p.publish(ctx, EventOrderCreated, order.ID, newOrderCreated(order))
}

// OrderStatusChanged publishes order.status_changed.
func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error {
	return p.publish(ctx, EventOrderStatusChanged, order.ID, OrderStatusChangedPayload{
		OrderID:  order.ID,
		SellerID: order.SellerID,
		From:     from,
		To:       order.Status,
	})
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, orderID uuid.UUID, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		TraceID:       chimw.GetReqID(ctx),
		CorrelationID: orderID.String(),
		Payload:       body,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(orderID.String()),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).
			Str("event_type", eventType).
			Str("order_id", orderID.String()).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	p.logger.Debug().
		Str("event_type", eventType).
		Str("event_id", env.EventID).
		Str("order_id", orderID.String()).
		Msg("event published")

	return nil
}

// Close flushes pending writes and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
