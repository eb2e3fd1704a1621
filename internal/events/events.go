// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"

	eventVersion = 1
)

// Envelope wraps every event payload on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderCreatedPayload is the body of order.created.
type OrderCreatedPayload struct {
	OrderID      uuid.UUID          `json:"order_id"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	SellerID     uuid.UUID          `json:"seller_id"`
	BundleID     *uuid.UUID         `json:"bundle_id,omitempty"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	DeliveryType model.DeliveryType `json:"delivery_type"`
	Items        []OrderItemPayload `json:"items"`
}

// OrderItemPayload is one line of an order.created payload.
type OrderItemPayload struct {
	PlateID  uuid.UUID       `json:"plate_id"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// OrderStatusChangedPayload is the body of order.status_changed.
type OrderStatusChangedPayload struct {
	OrderID  uuid.UUID         `json:"order_id"`
	SellerID uuid.UUID         `json:"seller_id"`
	From     model.OrderStatus `json:"from"`
	To       model.OrderStatus `json:"to"`
}

// Publisher emits order events. Implementations must be safe for concurrent use.
type Publisher interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	OrderStatusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) error
	Close() error
}

func newOrderCreated(order *model.Order) OrderCreatedPayload {
	items := make([]OrderItemPayload, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemPayload{PlateID: it.PlateID, Quantity: it.Quantity, Subtotal: it.Subtotal}
	}

	return OrderCreatedPayload{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		SellerID:     order.SellerID,
		BundleID:     order.BundleID,
		TotalAmount:  order.TotalAmount,
		DeliveryType: order.DeliveryType,
		Items:        items,
	}
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) OrderCreated(context.Context, *model.Order) error { return nil }

func (NopPublisher) OrderStatusChanged(context.Context, *model.Order, model.OrderStatus) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
