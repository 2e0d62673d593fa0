package fulfillment

// OrderType distinguishes domestic orders from international pre-orders,
// which carry additional customs-related tracking steps.
type OrderType string

const (
	OrderTypeStandard              OrderType = "standard"
	OrderTypePreorderInternational OrderType = "preorder_international"
)

// IsValid checks if the value is a recognized OrderType
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeStandard, OrderTypePreorderInternational:
		return true
	}
	return false
}

// String returns the string representation of OrderType
func (t OrderType) String() string {
	return string(t)
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// IsValid checks if the value is a recognized PaymentStatus
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusCompleted:
		return true
	}
	return false
}

// IsSettled reports whether payment has been received.
// "paid" and "completed" are treated as equivalent settled states.
func (p PaymentStatus) IsSettled() bool {
	return p == PaymentStatusPaid || p == PaymentStatusCompleted
}

// String returns the string representation of PaymentStatus
func (p PaymentStatus) String() string {
	return string(p)
}

// TrackingStatus is a fulfillment status an order can carry.
// The set is fixed; adding a status requires extending Label and Category,
// both of which are total switches over this enum.
type TrackingStatus string

const (
	StatusPending              TrackingStatus = "pending"
	StatusPendingPayment       TrackingStatus = "pending_payment"
	StatusPaymentCompleted     TrackingStatus = "payment_completed"
	StatusConfirmed            TrackingStatus = "confirmed"
	StatusProcessing           TrackingStatus = "processing"
	StatusPreparing            TrackingStatus = "preparing"
	StatusReadyForDispatch     TrackingStatus = "ready_for_dispatch"
	StatusSupplierConfirmed    TrackingStatus = "supplier_confirmed"
	StatusAwaitingDispatch     TrackingStatus = "awaiting_dispatch"
	StatusInternationalShipped TrackingStatus = "international_shipped"
	StatusCustomsClearance     TrackingStatus = "customs_clearance"
	StatusArrivedDestination   TrackingStatus = "arrived_destination"
	StatusLocalDispatch        TrackingStatus = "local_dispatch"
	StatusOutForDelivery       TrackingStatus = "out_for_delivery"
	StatusDelivered            TrackingStatus = "delivered"
	StatusCancelled            TrackingStatus = "cancelled"
	StatusRefunded             TrackingStatus = "refunded"
)

// StatusCategory groups statuses for presentation
type StatusCategory string

const (
	CategoryPayment       StatusCategory = "payment"
	CategoryProcessing    StatusCategory = "processing"
	CategoryInternational StatusCategory = "international"
	CategoryDelivery      StatusCategory = "delivery"
	CategoryTerminal      StatusCategory = "terminal"
)

// String returns the string representation of TrackingStatus
func (s TrackingStatus) String() string {
	return string(s)
}

// IsValid checks if the status is part of the catalog
func (s TrackingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPendingPayment, StatusPaymentCompleted, StatusConfirmed,
		StatusProcessing, StatusPreparing, StatusReadyForDispatch,
		StatusSupplierConfirmed, StatusAwaitingDispatch, StatusInternationalShipped,
		StatusCustomsClearance, StatusArrivedDestination, StatusLocalDispatch,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Label returns the human-readable label for the status
func (s TrackingStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPendingPayment:
		return "Pending Payment"
	case StatusPaymentCompleted:
		return "Payment Completed"
	case StatusConfirmed:
		return "Confirmed"
	case StatusProcessing:
		return "Processing"
	case StatusPreparing:
		return "Preparing"
	case StatusReadyForDispatch:
		return "Ready for Dispatch"
	case StatusSupplierConfirmed:
		return "Supplier Confirmed"
	case StatusAwaitingDispatch:
		return "Awaiting Dispatch"
	case StatusInternationalShipped:
		return "Shipped Internationally"
	case StatusCustomsClearance:
		return "Customs Clearance"
	case StatusArrivedDestination:
		return "Arrived at Destination"
	case StatusLocalDispatch:
		return "Local Dispatch"
	case StatusOutForDelivery:
		return "Out for Delivery"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	case StatusRefunded:
		return "Refunded"
	}
	return string(s)
}

// Category returns the presentation category for the status
func (s TrackingStatus) Category() StatusCategory {
	switch s {
	case StatusPending, StatusPendingPayment, StatusPaymentCompleted, StatusConfirmed:
		return CategoryPayment
	case StatusProcessing, StatusPreparing, StatusReadyForDispatch:
		return CategoryProcessing
	case StatusSupplierConfirmed, StatusAwaitingDispatch, StatusInternationalShipped,
		StatusCustomsClearance, StatusArrivedDestination, StatusLocalDispatch:
		return CategoryInternational
	case StatusOutForDelivery, StatusDelivered:
		return CategoryDelivery
	case StatusCancelled, StatusRefunded:
		return CategoryTerminal
	}
	return CategoryProcessing
}

// IsInternationalOnly reports whether the status is valid only for
// international pre-orders.
func (s TrackingStatus) IsInternationalOnly() bool {
	switch s {
	case StatusSupplierConfirmed, StatusAwaitingDispatch, StatusInternationalShipped,
		StatusCustomsClearance, StatusArrivedDestination, StatusLocalDispatch:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the order's lifecycle.
// Terminal-ness is a display convention: the data model does not forbid
// further appends after a terminal status is recorded.
func (s TrackingStatus) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// StatusDescriptor describes one catalog entry for presentation
type StatusDescriptor struct {
	ID       TrackingStatus
	Label    string
	Category StatusCategory
}

// allStatusIDs is the ordered hand-maintained superset covering both the
// domestic and international vocabularies.
var allStatusIDs = []TrackingStatus{
	StatusPending,
	StatusPendingPayment,
	StatusPaymentCompleted,
	StatusConfirmed,
	StatusProcessing,
	StatusPreparing,
	StatusReadyForDispatch,
	StatusSupplierConfirmed,
	StatusAwaitingDispatch,
	StatusInternationalShipped,
	StatusCustomsClearance,
	StatusArrivedDestination,
	StatusLocalDispatch,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
	StatusRefunded,
}

// domesticSequence is the linear happy path for standard orders
var domesticSequence = []TrackingStatus{
	StatusPendingPayment,
	StatusPaymentCompleted,
	StatusProcessing,
	StatusPreparing,
	StatusReadyForDispatch,
	StatusOutForDelivery,
	StatusDelivered,
}

// internationalSequence inserts the customs steps between ready_for_dispatch
// and out_for_delivery
var internationalSequence = []TrackingStatus{
	StatusPendingPayment,
	StatusPaymentCompleted,
	StatusProcessing,
	StatusPreparing,
	StatusReadyForDispatch,
	StatusSupplierConfirmed,
	StatusAwaitingDispatch,
	StatusInternationalShipped,
	StatusCustomsClearance,
	StatusArrivedDestination,
	StatusLocalDispatch,
	StatusOutForDelivery,
	StatusDelivered,
}

// AllStatuses returns the ordered catalog of every known status
func AllStatuses() []StatusDescriptor {
	out := make([]StatusDescriptor, 0, len(allStatusIDs))
	for _, id := range allStatusIDs {
		out = append(out, StatusDescriptor{ID: id, Label: id.Label(), Category: id.Category()})
	}
	return out
}

// CanonicalSequence returns the ordered linear progress sequence for the
// order type. Absorbing states (cancelled, refunded) are not part of it.
func CanonicalSequence(orderType OrderType) []TrackingStatus {
	var seq []TrackingStatus
	if orderType == OrderTypePreorderInternational {
		seq = internationalSequence
	} else {
		seq = domesticSequence
	}
	out := make([]TrackingStatus, len(seq))
	copy(out, seq)
	return out
}

// SequenceIndex returns the position of the status within the canonical
// sequence for the order type, or -1 when it is not part of it.
func SequenceIndex(orderType OrderType, status TrackingStatus) int {
	for i, s := range CanonicalSequence(orderType) {
		if s == status {
			return i
		}
	}
	return -1
}

// SelectableStatuses returns the statuses an admin may pick for an order:
// the catalog filtered to statuses legal for the order type, further
// restricted to cancelled only while payment is unsettled.
func SelectableStatuses(orderType OrderType, paymentStatus PaymentStatus) []StatusDescriptor {
	out := make([]StatusDescriptor, 0, len(allStatusIDs))
	for _, id := range allStatusIDs {
		if id.IsInternationalOnly() && orderType != OrderTypePreorderInternational {
			continue
		}
		if !paymentStatus.IsSettled() && id != StatusCancelled {
			continue
		}
		out = append(out, StatusDescriptor{ID: id, Label: id.Label(), Category: id.Category()})
	}
	return out
}
