package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendormart/backend/internal/domain/shared"
)

// OrderRepository defines the persistence contract for fulfillment orders
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context) (map[TrackingStatus]int64, error)

	// AppendTracking persists a single ledger append atomically: the new
	// event row and the order's updated current status and tracking number
	// commit or roll back together.
	AppendTracking(ctx context.Context, order *Order, event *TrackingEvent) error

	UpdatePaymentStatus(ctx context.Context, order *Order) error
	GenerateOrderNumber(ctx context.Context) (string, error)
}
