package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusConfirmed: true, OrderStatusCancelled: true},
	OrderStatusConfirmed: {OrderStatusReady: true, OrderStatusCancelled: true},
	OrderStatusReady:     {OrderStatusDelivered: true, OrderStatusCancelled: true},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderTransitions[s][next]
}

// DeliveryType is how the customer receives the order.
type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "pickup"
	DeliveryTypeDelivery DeliveryType = "delivery"
)

// Valid reports whether d is a known delivery type.
func (d DeliveryType) Valid() bool {
	return d == DeliveryTypePickup || d == DeliveryTypeDelivery
}

// Order represents a customer purchase from one seller.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CustomerID   uuid.UUID       `json:"customerId" db:"customer_id"`
	SellerID     uuid.UUID       `json:"sellerId" db:"seller_id"`
	BundleID     *uuid.UUID      `json:"bundleId,omitempty" db:"bundle_id"`
	TotalAmount  decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status       OrderStatus     `json:"status" db:"status"`
	DeliveryType DeliveryType    `json:"deliveryType" db:"delivery_type"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	Items        []OrderItem     `json:"items"`
}

// OrderItem represents a line item in an order.
// For bundle orders the last line's Subtotal also carries the cents left over
// from spreading the bundle price, so it can exceed UnitPrice × Quantity by up
// to one cent per unit. Subtotals always sum to the order total.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	PlateID   uuid.UUID       `json:"plateId" db:"plate_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// OrderRequest represents the request payload for buying plates directly.
type OrderRequest struct {
	SellerID       uuid.UUID          `json:"sellerId"`
	DeliveryType   DeliveryType       `json:"deliveryType"`
	Notes          *string            `json:"notes,omitempty"`
	Items          []OrderItemRequest `json:"items"`
	IdempotencyKey string             `json:"-"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	PlateID  uuid.UUID `json:"plateId"`
	Quantity int       `json:"quantity"`
}

// BundleOrderRequest represents a customer's plate selection for a bundle.
type BundleOrderRequest struct {
	BundleID       uuid.UUID          `json:"-"`
	SellerID       uuid.UUID          `json:"sellerId"`
	DeliveryType   DeliveryType       `json:"deliveryType"`
	Notes          *string            `json:"notes,omitempty"`
	Selections     []OrderItemRequest `json:"selections"`
	IdempotencyKey string             `json:"-"`
}

// TotalUnits returns the number of plate units selected.
func (r *BundleOrderRequest) TotalUnits() int {
	total := 0
	for _, s := range r.Selections {
		total += s.Quantity
	}
	return total
}

// StatusUpdateRequest is the payload for moving an order to a new status.
type StatusUpdateRequest struct {
	Status OrderStatus `json:"status"`
}
