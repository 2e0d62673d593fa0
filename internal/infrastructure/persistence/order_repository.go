package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendormart/backend/internal/domain/fulfillment"
	"github.com/vendormart/backend/internal/domain/shared"
)

// GormOrderRepository implements fulfillment.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)

// Save persists the order together with any unsaved tracking events
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// FindByID retrieves an order by its ID with the full tracking ledger
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	var order fulfillment.Order
	err := r.withHistory(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber retrieves an order by its business order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*fulfillment.Order, error) {
	var order fulfillment.Order
	err := r.withHistory(ctx).First(&order, "order_number = ?", orderNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByTrackingNumber retrieves an order by its carrier tracking number
func (r *GormOrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*fulfillment.Order, error) {
	var order fulfillment.Order
	err := r.withHistory(ctx).First(&order, "tracking_number = ?", trackingNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll retrieves orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fulfillment.Order, error) {
	var orders []*fulfillment.Order
	query := r.applyFilter(r.withHistory(ctx), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&fulfillment.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns the number of orders per current status
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[fulfillment.TrackingStatus]int64, error) {
	var rows []struct {
		CurrentStatus fulfillment.TrackingStatus
		Count         int64
	}
	err := r.db.WithContext(ctx).
		Model(&fulfillment.Order{}).
		Select("current_status, COUNT(*) as count").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[fulfillment.TrackingStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.CurrentStatus] = row.Count
	}
	return counts, nil
}

// AppendTracking persists one ledger append atomically: the event row and the
// order's updated columns commit or roll back together
func (r *GormOrderRepository) AppendTracking(ctx context.Context, order *fulfillment.Order, event *fulfillment.TrackingEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		result := tx.Model(&fulfillment.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"current_status":  order.CurrentStatus,
				"tracking_number": order.TrackingNumber,
				"updated_at":      order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// UpdatePaymentStatus persists payment settlement columns
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, order *fulfillment.Order) error {
	result := r.db.WithContext(ctx).
		Model(&fulfillment.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"payment_status": order.PaymentStatus,
			"paid_at":        order.PaidAt,
			"updated_at":     order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateOrderNumber generates a unique order number
// Format: ORD-YYYY-NNNNN (e.g., ORD-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ORD-%d-", year)

	var lastOrder fulfillment.Order
	err := r.db.WithContext(ctx).
		Model(&fulfillment.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormOrderRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("TrackingHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("tracking_events.seq ASC")
		})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ? OR tracking_number ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "order_type":
			query = query.Where("order_type = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "status":
			query = query.Where("current_status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("current_status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}
