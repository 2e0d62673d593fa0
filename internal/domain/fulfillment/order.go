package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vendormart/backend/internal/domain/shared"
)

// Attribution identifies the admin who recorded a tracking event.
// It is informational only and never consulted by the transition guard.
type Attribution struct {
	Name  string `gorm:"column:name"`
	Email string `gorm:"column:email"`
}

// TrackingEvent is one entry of an order's append-only tracking ledger
type TrackingEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Seq       int64 `gorm:"autoIncrement;uniqueIndex"`
	Status    TrackingStatus
	Message   string
	Location  string
	UpdatedBy Attribution `gorm:"embedded;embeddedPrefix:updated_by_"`
	CreatedAt time.Time
}

// TableName returns the database table name for tracking events
func (TrackingEvent) TableName() string {
	return "tracking_events"
}

// Order is the fulfillment-tracking aggregate root. Its tracking state is
// mutated exclusively through ledger appends; entries are never edited or
// removed, and CurrentStatus always mirrors the most recently appended entry.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string `gorm:"uniqueIndex"`
	TrackingNumber  string
	OrderType       OrderType
	PaymentStatus   PaymentStatus
	CurrentStatus   TrackingStatus
	CustomerName    string
	TotalAmount     decimal.Decimal
	PaidAt          *time.Time
	TrackingHistory []TrackingEvent `gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name for orders
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order awaiting payment. The ledger is seeded with a
// single pending_payment entry; this seed bypasses the transition guard, which
// otherwise forbids non-cancellation appends while payment is pending.
func NewOrder(orderNumber, customerName string, orderType OrderType, totalAmount decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", "Unknown order type")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		OrderType:         orderType,
		PaymentStatus:     PaymentStatusPending,
		CurrentStatus:     StatusPendingPayment,
		CustomerName:      customerName,
		TotalAmount:       totalAmount,
		TrackingHistory:   make([]TrackingEvent, 0, 1),
	}

	order.TrackingHistory = append(order.TrackingHistory, TrackingEvent{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Seq:       1,
		Status:    StatusPendingPayment,
		Message:   "Order placed, awaiting payment",
		CreatedAt: order.CreatedAt,
	})

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AppendTrackingInput carries the caller-supplied fields of a ledger append
type AppendTrackingInput struct {
	Status    TrackingStatus
	Message   string
	Location  string
	UpdatedBy Attribution
}

// AppendTracking validates and appends a tracking event, making its status the
// order's current status. Identical consecutive appends are recorded as
// distinct entries: the ledger records occurrences, not states.
func (o *Order) AppendTracking(input AppendTrackingInput) (*TrackingEvent, error) {
	if err := ValidateTransition(o, input.Status); err != nil {
		return nil, err
	}
	if input.Message == "" {
		return nil, shared.NewDomainError("MESSAGE_REQUIRED", "Tracking message is required")
	}

	now := time.Now()
	event := TrackingEvent{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Seq:       int64(len(o.TrackingHistory)) + 1,
		Status:    input.Status,
		Message:   input.Message,
		Location:  input.Location,
		UpdatedBy: input.UpdatedBy,
		CreatedAt: now,
	}

	o.TrackingHistory = append(o.TrackingHistory, event)
	o.CurrentStatus = input.Status
	o.UpdatedAt = now

	o.AddDomainEvent(NewTrackingAppendedEvent(o, &event))

	return &o.TrackingHistory[len(o.TrackingHistory)-1], nil
}

// AssignTrackingNumber sets the carrier tracking number at dispatch time.
// Reassigning to a different number is rejected.
func (o *Order) AssignTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING_NUMBER", "Tracking number cannot be empty")
	}
	if o.TrackingNumber == trackingNumber {
		return nil
	}
	if o.TrackingNumber != "" {
		return shared.NewDomainError("TRACKING_NUMBER_ASSIGNED", "Order already carries a different tracking number")
	}
	o.TrackingNumber = trackingNumber
	o.UpdatedAt = time.Now()
	return nil
}

// ConfirmPayment marks the payment as settled. It does not append a
// payment_completed ledger entry; the read-side projector reconciles the
// displayed status instead.
func (o *Order) ConfirmPayment() error {
	if o.PaymentStatus.IsSettled() {
		return shared.NewDomainError("ALREADY_PAID", "Payment has already been confirmed")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPaymentConfirmedEvent(o))

	return nil
}

// LastEvent returns the most recently appended tracking event, or nil for an
// empty ledger
func (o *Order) LastEvent() *TrackingEvent {
	if len(o.TrackingHistory) == 0 {
		return nil
	}
	return &o.TrackingHistory[len(o.TrackingHistory)-1]
}

// IsTerminal reports whether the order's current status is terminal
func (o *Order) IsTerminal() bool {
	return o.CurrentStatus.IsTerminal()
}

// Clone returns a deep copy of the order suitable for display-only
// speculative mutation. Pending domain events are not carried over.
func (o *Order) Clone() *Order {
	clone := *o
	clone.ClearDomainEvents()
	clone.TrackingHistory = make([]TrackingEvent, len(o.TrackingHistory))
	copy(clone.TrackingHistory, o.TrackingHistory)
	return &clone
}
