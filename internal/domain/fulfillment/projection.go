package fulfillment

import "time"

// The projector computes what the UI shows from stored state plus payment
// state. It is read-time normalization only: nothing here mutates the order
// or writes back to the ledger.

// DisplayStatus returns the status to render for the order. A settled payment
// visually jumps the order past the unpaid states even when no ledger entry
// records that transition yet.
func DisplayStatus(order *Order) TrackingStatus {
	if order.PaymentStatus.IsSettled() &&
		(order.CurrentStatus == StatusPending || order.CurrentStatus == StatusPendingPayment) {
		return StatusConfirmed
	}
	return order.CurrentStatus
}

// ActiveStepIndex returns the index of the active step within the canonical
// sequence for the order's type. Statuses outside the sequence (cancelled,
// refunded, unmapped values) fall back to index 0.
func ActiveStepIndex(order *Order) int {
	if order.PaymentStatus.IsSettled() && order.CurrentStatus == StatusPendingPayment {
		return SequenceIndex(order.OrderType, StatusPaymentCompleted)
	}
	if idx := SequenceIndex(order.OrderType, order.CurrentStatus); idx >= 0 {
		return idx
	}
	return 0
}

// StepState is the rendered state of one canonical timeline step
type StepState string

const (
	StepCompleted StepState = "completed"
	StepActive    StepState = "active"
	StepPending   StepState = "pending"
)

// TimelineStep pairs a canonical step with its ledger entry, if any
type TimelineStep struct {
	Status TrackingStatus
	// Event is the first ledger entry recorded with this step's status,
	// nil when none exists.
	Event *TrackingEvent
	// Virtual marks a synthesized payment entry that exists for display
	// only and is never written back to the ledger.
	Virtual bool
	State   StepState
}

// BuildTimeline assembles the full canonical timeline for the order: every
// step of the sequence with its matching history entry and rendered state.
func BuildTimeline(order *Order) []TimelineStep {
	sequence := CanonicalSequence(order.OrderType)
	active := ActiveStepIndex(order)

	steps := make([]TimelineStep, 0, len(sequence))
	for i, status := range sequence {
		step := TimelineStep{Status: status}

		step.Event = firstEventWithStatus(order, status)

		if step.Event == nil && status == StatusPaymentCompleted && order.PaymentStatus.IsSettled() {
			timestamp := order.CreatedAt
			if order.PaidAt != nil {
				timestamp = *order.PaidAt
			}
			step.Event = &TrackingEvent{
				OrderID:   order.ID,
				Status:    StatusPaymentCompleted,
				Message:   "payment confirmed",
				CreatedAt: timestamp,
			}
			step.Virtual = true
		}

		switch {
		case i < active:
			step.State = StepCompleted
		case i == active:
			step.State = StepActive
		default:
			step.State = StepPending
		}

		steps = append(steps, step)
	}
	return steps
}

func firstEventWithStatus(order *Order, status TrackingStatus) *TrackingEvent {
	for i := range order.TrackingHistory {
		if order.TrackingHistory[i].Status == status {
			return &order.TrackingHistory[i]
		}
	}
	return nil
}

// EventTimestamp returns the display timestamp for a timeline event, falling
// back to the zero time for missing entries
func EventTimestamp(step TimelineStep) time.Time {
	if step.Event == nil {
		return time.Time{}
	}
	return step.Event.CreatedAt
}
