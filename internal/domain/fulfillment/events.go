package fulfillment

import (
	"time"

	"github.com/vendormart/backend/internal/domain/shared"
)

// Event types for the fulfillment domain
const (
	EventTypeOrderCreated     = "fulfillment.order_created"
	EventTypeTrackingAppended = "fulfillment.tracking_appended"
	EventTypePaymentConfirmed = "fulfillment.payment_confirmed"
)

const aggregateTypeOrder = "Order"

// OrderCreatedEvent is raised when a new order enters the system
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	OrderType   OrderType `json:"order_type"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent from an order
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, aggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		OrderType:       order.OrderType,
	}
}

// TrackingAppendedEvent is raised for every ledger append
type TrackingAppendedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string         `json:"order_number"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	Status         TrackingStatus `json:"status"`
	Message        string         `json:"message"`
	RecordedAt     time.Time      `json:"recorded_at"`
}

// NewTrackingAppendedEvent creates a TrackingAppendedEvent from an order and
// the appended entry
func NewTrackingAppendedEvent(order *Order, event *TrackingEvent) *TrackingAppendedEvent {
	return &TrackingAppendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTrackingAppended, aggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		TrackingNumber:  order.TrackingNumber,
		Status:          event.Status,
		Message:         event.Message,
		RecordedAt:      event.CreatedAt,
	}
}

// PaymentConfirmedEvent is raised when payment settles. Settlement never
// appends a ledger entry by itself.
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	PaidAt      time.Time `json:"paid_at"`
}

// NewPaymentConfirmedEvent creates a PaymentConfirmedEvent from an order
func NewPaymentConfirmedEvent(order *Order) *PaymentConfirmedEvent {
	paidAt := order.CreatedAt
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, aggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		PaidAt:          paidAt,
	}
}
