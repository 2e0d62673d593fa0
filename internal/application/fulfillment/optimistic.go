package fulfillment

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/vendormart/backend/internal/domain/fulfillment"
	"github.com/vendormart/backend/internal/domain/shared"
)

// UpdateState is the lifecycle of one optimistic status update
type UpdateState string

const (
	UpdateStateIdle       UpdateState = "idle"
	UpdateStateSubmitting UpdateState = "submitting"
	UpdateStateCommitted  UpdateState = "committed"
	UpdateStateRolledBack UpdateState = "rolled_back"
)

// ErrUpdateInFlight is returned when a submit is attempted while a previous
// one has not resolved yet
var ErrUpdateInFlight = shared.NewDomainError("UPDATE_IN_FLIGHT", "A status update is already in flight for this order")

// AuthoritativeLedger is the write path an optimistic updater reconciles
// against. TrackingService satisfies it.
type AuthoritativeLedger interface {
	Append(ctx context.Context, id uuid.UUID, input domain.AppendTrackingInput) (*domain.Order, error)
}

// UpdateResult reports how a submitted update resolved
type UpdateResult struct {
	State UpdateState
	Order *domain.Order
	Err   error
}

// OptimisticUpdater applies a status change to a display copy of an order
// immediately, submits it to the authoritative ledger, and either keeps the
// speculative state on commit or restores the pre-update snapshot on failure.
// The authoritative copy is never touched until the ledger confirms.
type OptimisticUpdater struct {
	mu      sync.Mutex
	ledger  AuthoritativeLedger
	logger  *zap.Logger
	state   UpdateState
	display *domain.Order
}

// NewOptimisticUpdater creates an updater seeded with a display copy of the
// order
func NewOptimisticUpdater(ledger AuthoritativeLedger, order *domain.Order, logger *zap.Logger) *OptimisticUpdater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptimisticUpdater{
		ledger:  ledger,
		logger:  logger,
		state:   UpdateStateIdle,
		display: order.Clone(),
	}
}

// State returns the current lifecycle state
func (u *OptimisticUpdater) State() UpdateState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Display returns a copy of the order as it should currently be rendered,
// including any speculative update still awaiting confirmation
func (u *OptimisticUpdater) Display() *domain.Order {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.display.Clone()
}

// Submit applies the update speculatively and submits it to the ledger. The
// returned channel delivers exactly one result when the submission resolves.
// Guard failures surface immediately and leave the display state untouched;
// a second submit while one is in flight returns ErrUpdateInFlight.
func (u *OptimisticUpdater) Submit(ctx context.Context, input domain.AppendTrackingInput) (<-chan UpdateResult, error) {
	u.mu.Lock()
	if u.state == UpdateStateSubmitting {
		u.mu.Unlock()
		return nil, ErrUpdateInFlight
	}

	snapshot := u.display.Clone()
	if _, err := u.display.AppendTracking(input); err != nil {
		u.mu.Unlock()
		return nil, err
	}

	orderID := u.display.ID
	u.state = UpdateStateSubmitting
	u.mu.Unlock()

	results := make(chan UpdateResult, 1)

	go func() {
		order, err := u.ledger.Append(ctx, orderID, input)

		u.mu.Lock()
		if err != nil {
			u.display = snapshot
			u.state = UpdateStateRolledBack
			u.logger.Warn("optimistic update rolled back",
				zap.String("order_id", orderID.String()),
				zap.String("status", input.Status.String()),
				zap.Error(err))
		} else {
			u.display = order.Clone()
			u.state = UpdateStateCommitted
		}
		result := UpdateResult{State: u.state, Order: u.display.Clone(), Err: err}
		u.mu.Unlock()

		results <- result
		close(results)
	}()

	return results, nil
}
