package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"homeplate/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testOrder() *model.Order {
	bundleID := uuid.New()
	return &model.Order{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		SellerID:     uuid.New(),
		BundleID:     &bundleID,
		TotalAmount:  decimal.RequireFromString("15.00"),
		Status:       model.OrderStatusPending,
		DeliveryType: model.DeliveryTypePickup,
		Items: []model.OrderItem{
			{PlateID: uuid.New(), Quantity: 2, Subtotal: decimal.RequireFromString("10.00")},
			{PlateID: uuid.New(), Quantity: 1, Subtotal: decimal.RequireFromString("5.00")},
		},
	}
}

func TestKafkaPublisher_OrderCreated(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "homeplate-api", zerolog.Nop())
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	order := testOrder()
	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-123")

	require.NoError(t, p.OrderCreated(ctx, order))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, order.ID.String(), string(msg.Key))
	assert.Equal(t, "x-event-type", msg.Headers[0].Key)
	assert.Equal(t, EventOrderCreated, string(msg.Headers[0].Value))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, EventOrderCreated, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "homeplate-api", env.Producer)
	assert.Equal(t, "req-123", env.TraceID)
	assert.Equal(t, order.ID.String(), env.CorrelationID)
	assert.True(t, env.OccurredAt.Equal(fixed))

	var payload OrderCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, *order.BundleID, *payload.BundleID)
	assert.True(t, payload.TotalAmount.Equal(order.TotalAmount))
	assert.Len(t, payload.Items, 2)
}

func TestKafkaPublisher_OrderStatusChanged(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "homeplate-api", zerolog.Nop())

	order := testOrder()
	order.Status = model.OrderStatusCancelled

	require.NoError(t, p.OrderStatusChanged(context.Background(), order, model.OrderStatusPending))
	require.Len(t, w.messages, 1)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))
	assert.Equal(t, EventOrderStatusChanged, env.EventType)

	var payload OrderStatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, model.OrderStatusPending, payload.From)
	assert.Equal(t, model.OrderStatusCancelled, payload.To)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, "homeplate-api", zerolog.Nop())

	err := p.OrderCreated(context.Background(), testOrder())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish order.created")
	assert.Contains(t, err.Error(), "broker down")
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "homeplate-api", zerolog.Nop())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.OrderCreated(context.Background(), testOrder()))
	assert.NoError(t, p.OrderStatusChanged(context.Background(), testOrder(), model.OrderStatusPending))
	assert.NoError(t, p.Close())
}
