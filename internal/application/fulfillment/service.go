package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/vendormart/backend/internal/domain/fulfillment"
	"github.com/vendormart/backend/internal/domain/shared"
)

// ViewCache caches serialized read models. A miss is reported through the
// boolean, not an error; errors indicate the cache itself failed and reads
// fall through to the repository.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

const defaultViewCacheTTL = 5 * time.Minute

// TrackingService coordinates order fulfillment tracking use cases
type TrackingService struct {
	orders    domain.OrderRepository
	cache     ViewCache
	publisher shared.EventPublisher
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewTrackingService creates a tracking service. Cache and publisher are
// optional; pass nil to disable caching or event publication.
func NewTrackingService(
	orders domain.OrderRepository,
	cache ViewCache,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultViewCacheTTL
	}
	return &TrackingService{
		orders:    orders,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func orderViewCacheKey(id uuid.UUID) string {
	return "order:view:" + id.String()
}

func orderTrackCacheKey(trackingNumber string) string {
	return "order:track:" + trackingNumber
}

// CreateOrder registers a new order awaiting payment
func (s *TrackingService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	orderType := domain.OrderType(req.OrderType)
	if req.OrderType == "" {
		orderType = domain.OrderTypeStandard
	}

	orderNumber, err := s.orders.GenerateOrderNumber(ctx)
	if err != nil {
		s.logger.Error("failed to generate order number", zap.Error(err))
		return nil, err
	}

	order, err := domain.NewOrder(orderNumber, req.CustomerName, orderType, req.TotalAmount)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.Error("failed to save order",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, order)

	return toOrderResponse(order), nil
}

// ListOrders returns a filtered, paginated page of orders
func (s *TrackingService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[*OrderResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}

	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetOrder returns one order by id, read through the view cache
func (s *TrackingService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	key := orderViewCacheKey(id)
	if cached := s.loadCachedOrder(ctx, key); cached != nil {
		return cached, nil
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(order)
	s.storeCachedOrder(ctx, key, resp)
	return resp, nil
}

// GetOrderByTrackingNumber returns the order carrying the given carrier
// tracking number. Unknown numbers yield shared.ErrNotFound.
func (s *TrackingService) GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (*OrderResponse, error) {
	if trackingNumber == "" {
		return nil, shared.ErrInvalidInput
	}

	key := orderTrackCacheKey(trackingNumber)
	if cached := s.loadCachedOrder(ctx, key); cached != nil {
		return cached, nil
	}

	order, err := s.orders.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(order)
	s.storeCachedOrder(ctx, key, resp)
	return resp, nil
}

// AppendTracking records a tracking update on the order's ledger. When the
// request carries a tracking number it is assigned before the append, so a
// dispatch update can set both in one call.
func (s *TrackingService) AppendTracking(ctx context.Context, id uuid.UUID, req *AppendTrackingRequest, updatedBy AttributionDTO) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TrackingNumber != "" {
		if err := order.AssignTrackingNumber(req.TrackingNumber); err != nil {
			return nil, err
		}
	}

	event, err := order.AppendTracking(domain.AppendTrackingInput{
		Status:   domain.TrackingStatus(req.Status),
		Message:  req.Message,
		Location: req.Location,
		UpdatedBy: domain.Attribution{
			Name:  updatedBy.Name,
			Email: updatedBy.Email,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.orders.AppendTracking(ctx, order, event); err != nil {
		s.logger.Error("failed to persist tracking append",
			zap.String("order_id", id.String()),
			zap.String("status", req.Status),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.invalidate(ctx, order)

	return toOrderResponse(order), nil
}

// Append records a tracking update and returns the updated aggregate. It is
// the authoritative write path used by optimistic updaters.
func (s *TrackingService) Append(ctx context.Context, id uuid.UUID, input domain.AppendTrackingInput) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := order.AppendTracking(input)
	if err != nil {
		return nil, err
	}

	if err := s.orders.AppendTracking(ctx, order, event); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.invalidate(ctx, order)

	return order, nil
}

// ConfirmPayment marks the order's payment as settled
func (s *TrackingService) ConfirmPayment(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.ConfirmPayment(); err != nil {
		return nil, err
	}

	if err := s.orders.UpdatePaymentStatus(ctx, order); err != nil {
		s.logger.Error("failed to persist payment confirmation",
			zap.String("order_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.invalidate(ctx, order)

	return toOrderResponse(order), nil
}

// Timeline returns the display timeline for the order
func (s *TrackingService) Timeline(ctx context.Context, id uuid.UUID) (*TimelineResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTimelineResponse(order), nil
}

// SelectableStatuses returns the statuses an admin may currently pick for
// the order
func (s *TrackingService) SelectableStatuses(ctx context.Context, id uuid.UUID) ([]StatusDescriptorResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStatusDescriptorResponses(domain.SelectableStatuses(order.OrderType, order.PaymentStatus)), nil
}

// AllStatuses returns the full status catalog
func (s *TrackingService) AllStatuses() []StatusDescriptorResponse {
	return toStatusDescriptorResponses(domain.AllStatuses())
}

// StatusSummary returns order counts per current status, in catalog order
func (s *TrackingService) StatusSummary(ctx context.Context) ([]StatusCountResponse, error) {
	counts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StatusCountResponse, 0, len(counts))
	for _, d := range domain.AllStatuses() {
		out = append(out, StatusCountResponse{
			Status: d.ID.String(),
			Label:  d.Label,
			Count:  counts[d.ID],
		})
	}
	return out, nil
}

func (s *TrackingService) loadCachedOrder(ctx context.Context, key string) *OrderResponse {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var resp OrderResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("view cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &resp
}

func (s *TrackingService) storeCachedOrder(ctx context.Context, key string, resp *OrderResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("view cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TrackingService) invalidate(ctx context.Context, order *domain.Order) {
	if s.cache == nil {
		return
	}
	keys := []string{orderViewCacheKey(order.ID)}
	if order.TrackingNumber != "" {
		keys = append(keys, orderTrackCacheKey(order.TrackingNumber))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("view cache invalidation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

func (s *TrackingService) publishEvents(ctx context.Context, order *domain.Order) {
	events := order.GetDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		order.ClearDomainEvents()
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("order_id", order.ID.String()),
			zap.Int("events", len(events)),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}
