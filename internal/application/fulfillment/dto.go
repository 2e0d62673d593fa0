package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/vendormart/backend/internal/domain/fulfillment"
)

// CreateOrderRequest is the payload for registering a new order
type CreateOrderRequest struct {
	CustomerName string          `json:"customer_name" binding:"required"`
	OrderType    string          `json:"order_type" binding:"omitempty,oneof=standard preorder_international"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// AppendTrackingRequest is the payload for appending a tracking update.
// TrackingNumber is optional and assigns the carrier tracking number in the
// same operation, typically at dispatch.
type AppendTrackingRequest struct {
	Status         string `json:"status" binding:"required"`
	Message        string `json:"message" binding:"required"`
	Location       string `json:"location"`
	TrackingNumber string `json:"tracking_number"`
}

// AttributionDTO identifies the admin performing a change
type AttributionDTO struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TrackingEventResponse is one ledger entry in API form
type TrackingEventResponse struct {
	ID          uuid.UUID      `json:"id"`
	Status      string         `json:"status"`
	StatusLabel string         `json:"status_label"`
	Message     string         `json:"message"`
	Location    string         `json:"location,omitempty"`
	UpdatedBy   AttributionDTO `json:"updated_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OrderResponse is the stored order in API form. CurrentStatus is the raw
// ledger status; clients needing display normalization use the timeline
// endpoint.
type OrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	TrackingNumber  string                  `json:"tracking_number,omitempty"`
	OrderType       string                  `json:"order_type"`
	PaymentStatus   string                  `json:"payment_status"`
	CurrentStatus   string                  `json:"current_status"`
	CustomerName    string                  `json:"customer_name"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	PaidAt          *time.Time              `json:"paid_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	TrackingHistory []TrackingEventResponse `json:"tracking_history"`
}

// TimelineStepResponse is one canonical step of the rendered timeline
type TimelineStepResponse struct {
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	Category  string     `json:"category"`
	State     string     `json:"state"`
	Virtual   bool       `json:"virtual,omitempty"`
	Message   string     `json:"message,omitempty"`
	Location  string     `json:"location,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// TimelineResponse is the display-side view of an order's progress
type TimelineResponse struct {
	OrderID            uuid.UUID              `json:"order_id"`
	OrderNumber        string                 `json:"order_number"`
	OrderType          string                 `json:"order_type"`
	DisplayStatus      string                 `json:"display_status"`
	DisplayStatusLabel string                 `json:"display_status_label"`
	ActiveStepIndex    int                    `json:"active_step_index"`
	Steps              []TimelineStepResponse `json:"steps"`
}

// StatusDescriptorResponse is one catalog entry in API form
type StatusDescriptorResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// StatusCountResponse is one bucket of the order summary
type StatusCountResponse struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

func toTrackingEventResponse(event *domain.TrackingEvent) TrackingEventResponse {
	return TrackingEventResponse{
		ID:          event.ID,
		Status:      event.Status.String(),
		StatusLabel: event.Status.Label(),
		Message:     event.Message,
		Location:    event.Location,
		UpdatedBy: AttributionDTO{
			Name:  event.UpdatedBy.Name,
			Email: event.UpdatedBy.Email,
		},
		CreatedAt: event.CreatedAt,
	}
}

func toOrderResponse(order *domain.Order) *OrderResponse {
	history := make([]TrackingEventResponse, 0, len(order.TrackingHistory))
	for i := range order.TrackingHistory {
		history = append(history, toTrackingEventResponse(&order.TrackingHistory[i]))
	}
	return &OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		TrackingNumber:  order.TrackingNumber,
		OrderType:       order.OrderType.String(),
		PaymentStatus:   order.PaymentStatus.String(),
		CurrentStatus:   order.CurrentStatus.String(),
		CustomerName:    order.CustomerName,
		TotalAmount:     order.TotalAmount,
		PaidAt:          order.PaidAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		TrackingHistory: history,
	}
}

func toTimelineResponse(order *domain.Order) *TimelineResponse {
	display := domain.DisplayStatus(order)
	steps := domain.BuildTimeline(order)

	out := make([]TimelineStepResponse, 0, len(steps))
	for _, step := range steps {
		dto := TimelineStepResponse{
			Status:   step.Status.String(),
			Label:    step.Status.Label(),
			Category: string(step.Status.Category()),
			State:    string(step.State),
			Virtual:  step.Virtual,
		}
		if step.Event != nil {
			ts := step.Event.CreatedAt
			dto.Message = step.Event.Message
			dto.Location = step.Event.Location
			dto.Timestamp = &ts
		}
		out = append(out, dto)
	}

	return &TimelineResponse{
		OrderID:            order.ID,
		OrderNumber:        order.OrderNumber,
		OrderType:          order.OrderType.String(),
		DisplayStatus:      display.String(),
		DisplayStatusLabel: display.Label(),
		ActiveStepIndex:    domain.ActiveStepIndex(order),
		Steps:              out,
	}
}

func toStatusDescriptorResponses(descriptors []domain.StatusDescriptor) []StatusDescriptorResponse {
	out := make([]StatusDescriptorResponse, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, StatusDescriptorResponse{
			ID:       d.ID.String(),
			Label:    d.Label,
			Category: string(d.Category),
		})
	}
	return out
}
