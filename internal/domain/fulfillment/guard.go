package fulfillment

import "fmt"

// Guard error codes. These map to HTTP responses in the interface layer.
const (
	GuardCodeNotInCatalog   = "STATUS_NOT_IN_CATALOG"
	GuardCodeNotApplicable  = "STATUS_NOT_APPLICABLE"
	GuardCodePaymentPending = "PAYMENT_PENDING"
)

// GuardError is returned when a requested status change is inadmissible.
// Guard errors are raised before any persistence or network work happens.
type GuardError struct {
	Code      string
	Requested TrackingStatus
	Message   string
}

// Error implements the error interface
func (e *GuardError) Error() string {
	return e.Message
}

func newGuardError(code string, requested TrackingStatus, format string, args ...interface{}) *GuardError {
	return &GuardError{
		Code:      code,
		Requested: requested,
		Message:   fmt.Sprintf(format, args...),
	}
}

// ValidateTransition decides whether the requested status may be appended to
// the order's tracking ledger.
//
// Moving "backward" in the canonical sequence is allowed: admins must be able
// to correct a mis-entered status, so the guard checks admissibility of the
// target status only, not forward-only progression.
func ValidateTransition(order *Order, requested TrackingStatus) error {
	if !requested.IsValid() {
		return newGuardError(GuardCodeNotInCatalog, requested,
			"%q is not a recognized tracking status", requested)
	}
	if requested.IsInternationalOnly() && order.OrderType != OrderTypePreorderInternational {
		return newGuardError(GuardCodeNotApplicable, requested,
			"status %q applies only to international pre-orders", requested)
	}
	if !order.PaymentStatus.IsSettled() && requested != StatusCancelled {
		return newGuardError(GuardCodePaymentPending, requested,
			"order cannot move to %q while payment is pending; only cancellation is allowed", requested)
	}
	return nil
}
