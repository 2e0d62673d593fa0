package fulfillment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	domain "github.com/vendormart/backend/internal/domain/fulfillment"
	"github.com/vendormart/backend/internal/domain/shared"
)

func zapTestLogger() *zap.Logger {
	return zap.NewNop()
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Order, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*domain.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context) (map[domain.TrackingStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TrackingStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) AppendTracking(ctx context.Context, order *domain.Order, event *domain.TrackingEvent) error {
	args := m.Called(ctx, order, event)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func newTestService(repo *MockOrderRepository, cache ViewCache) *TrackingService {
	return NewTrackingService(repo, cache, nil, zapTestLogger(), time.Minute)
}

func paidTestOrder(t *testing.T, orderType domain.OrderType) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder("ORD-2026-00042", "Amara Osei", orderType, decimal.NewFromInt(300))
	require.NoError(t, err)
	require.NoError(t, order.ConfirmPayment())
	order.ClearDomainEvents()
	return order
}

func TestTrackingService_CreateOrder(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)

		repo.On("GenerateOrderNumber", mock.Anything).Return("ORD-2026-00007", nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*fulfillment.Order")).Return(nil)

		resp, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerName: "Amara Osei",
			TotalAmount:  decimal.NewFromFloat(89.50),
		})

		require.NoError(t, err)
		assert.Equal(t, "ORD-2026-00007", resp.OrderNumber)
		assert.Equal(t, "standard", resp.OrderType)
		assert.Equal(t, "pending", resp.PaymentStatus)
		assert.Equal(t, "pending_payment", resp.CurrentStatus)
		require.Len(t, resp.TrackingHistory, 1)
		repo.AssertExpectations(t)
	})

	t.Run("invalid payload is not persisted", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)

		repo.On("GenerateOrderNumber", mock.Anything).Return("ORD-2026-00008", nil)

		_, err := service.CreateOrder(context.Background(), &CreateOrderRequest{
			CustomerName: "Amara Osei",
			TotalAmount:  decimal.NewFromInt(-5),
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTrackingService_GetOrder(t *testing.T) {
	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		repo := new(MockOrderRepository)
		cache := newFakeCache()
		service := newTestService(repo, cache)
		order := paidTestOrder(t, domain.OrderTypeStandard)

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil).Once()

		resp, err := service.GetOrder(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, resp.OrderNumber)

		// Second read is served from cache; the mock allows only one call
		again, err := service.GetOrder(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.OrderNumber, again.OrderNumber)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id propagates not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)
		id := uuid.New()

		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetOrder(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTrackingService_GetOrderByTrackingNumber(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)
		order := paidTestOrder(t, domain.OrderTypeStandard)
		require.NoError(t, order.AssignTrackingNumber("TRK-5501"))

		repo.On("FindByTrackingNumber", mock.Anything, "TRK-5501").Return(order, nil)

		resp, err := service.GetOrderByTrackingNumber(context.Background(), "TRK-5501")
		require.NoError(t, err)
		assert.Equal(t, "TRK-5501", resp.TrackingNumber)
	})

	t.Run("unknown tracking number yields not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)

		repo.On("FindByTrackingNumber", mock.Anything, "TRK-0000").Return(nil, shared.ErrNotFound)

		_, err := service.GetOrderByTrackingNumber(context.Background(), "TRK-0000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty tracking number rejected without repository call", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)

		_, err := service.GetOrderByTrackingNumber(context.Background(), "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "FindByTrackingNumber", mock.Anything, mock.Anything)
	})
}

func TestTrackingService_AppendTracking(t *testing.T) {
	t.Run("successful append invalidates cached views", func(t *testing.T) {
		repo := new(MockOrderRepository)
		cache := newFakeCache()
		service := newTestService(repo, cache)
		order := paidTestOrder(t, domain.OrderTypeStandard)

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("AppendTracking", mock.Anything, order, mock.AnythingOfType("*fulfillment.TrackingEvent")).Return(nil)

		cache.Set(context.Background(), orderViewCacheKey(order.ID), []byte("{}"), time.Minute)

		resp, err := service.AppendTracking(context.Background(), order.ID, &AppendTrackingRequest{
			Status:  "processing",
			Message: "Warehouse picked up the order",
		}, AttributionDTO{Name: "Kofi Mensah"})

		require.NoError(t, err)
		assert.Equal(t, "processing", resp.CurrentStatus)
		assert.Len(t, resp.TrackingHistory, 2)

		_, ok, _ := cache.Get(context.Background(), orderViewCacheKey(order.ID))
		assert.False(t, ok, "cached view should be invalidated")
		repo.AssertExpectations(t)
	})

	t.Run("guard failure is not persisted", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)
		order := paidTestOrder(t, domain.OrderTypeStandard)

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.AppendTracking(context.Background(), order.ID, &AppendTrackingRequest{
			Status:  "customs_clearance",
			Message: "At customs",
		}, AttributionDTO{})

		var guardErr *domain.GuardError
		require.ErrorAs(t, err, &guardErr)
		assert.Equal(t, domain.GuardCodeNotApplicable, guardErr.Code)
		repo.AssertNotCalled(t, "AppendTracking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tracking number assigned alongside dispatch update", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)
		order := paidTestOrder(t, domain.OrderTypeStandard)

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("AppendTracking", mock.Anything, order, mock.AnythingOfType("*fulfillment.TrackingEvent")).Return(nil)

		resp, err := service.AppendTracking(context.Background(), order.ID, &AppendTrackingRequest{
			Status:         "out_for_delivery",
			Message:        "Courier picked up",
			TrackingNumber: "TRK-8810",
		}, AttributionDTO{})

		require.NoError(t, err)
		assert.Equal(t, "TRK-8810", resp.TrackingNumber)
		assert.Equal(t, "out_for_delivery", resp.CurrentStatus)
	})

	t.Run("persistence failure surfaces", func(t *testing.T) {
		repo := new(MockOrderRepository)
		service := newTestService(repo, nil)
		order := paidTestOrder(t, domain.OrderTypeStandard)
		dbErr := errors.New("connection reset")

		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("AppendTracking", mock.Anything, order, mock.Anything).Return(dbErr)

		_, err := service.AppendTracking(context.Background(), order.ID, &AppendTrackingRequest{
			Status:  "processing",
			Message: "Picked",
		}, AttributionDTO{})

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestTrackingService_ConfirmPayment(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newTestService(repo, nil)
	order, err := domain.NewOrder("ORD-2026-00050", "Amara Osei", domain.OrderTypeStandard, decimal.NewFromInt(45))
	require.NoError(t, err)
	order.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("UpdatePaymentStatus", mock.Anything, order).Return(nil)

	resp, err := service.ConfirmPayment(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	require.NotNil(t, resp.PaidAt)
	// Payment settlement never appends a ledger entry
	assert.Len(t, resp.TrackingHistory, 1)
	repo.AssertExpectations(t)
}

func TestTrackingService_Timeline(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newTestService(repo, nil)
	order := paidTestOrder(t, domain.OrderTypeStandard)

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	resp, err := service.Timeline(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.DisplayStatus)
	assert.Equal(t, 1, resp.ActiveStepIndex)
	require.Len(t, resp.Steps, 7)
	assert.Equal(t, "payment_completed", resp.Steps[1].Status)
	assert.True(t, resp.Steps[1].Virtual)
	assert.Equal(t, "payment confirmed", resp.Steps[1].Message)
}

func TestTrackingService_SelectableStatuses(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newTestService(repo, nil)
	order, err := domain.NewOrder("ORD-2026-00051", "Amara Osei", domain.OrderTypeStandard, decimal.NewFromInt(45))
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	out, err := service.SelectableStatuses(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cancelled", out[0].ID)
}

func TestTrackingService_ListOrders(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newTestService(repo, nil)
	order := paidTestOrder(t, domain.OrderTypeStandard)

	expectedFilter := shared.Filter{Page: 1, PageSize: 20}
	repo.On("FindAll", mock.Anything, expectedFilter).Return([]*domain.Order{order}, nil)
	repo.On("Count", mock.Anything, expectedFilter).Return(int64(1), nil)

	page, err := service.ListOrders(context.Background(), shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, order.OrderNumber, page.Items[0].OrderNumber)
}

func TestTrackingService_StatusSummary(t *testing.T) {
	repo := new(MockOrderRepository)
	service := newTestService(repo, nil)

	repo.On("CountByStatus", mock.Anything).Return(map[domain.TrackingStatus]int64{
		domain.StatusProcessing: 4,
		domain.StatusDelivered:  9,
	}, nil)

	out, err := service.StatusSummary(context.Background())

	require.NoError(t, err)
	byStatus := make(map[string]int64, len(out))
	for _, bucket := range out {
		byStatus[bucket.Status] = bucket.Count
	}
	assert.Equal(t, int64(4), byStatus["processing"])
	assert.Equal(t, int64(9), byStatus["delivered"])
	assert.Equal(t, int64(0), byStatus["cancelled"])
}
