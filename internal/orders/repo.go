package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", enums.OrderStatusPending).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return r.list(ctx, "customer_id", customerID, params, filters)
}

func (r *repository) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return r.list(ctx, "retailer_id", retailerID, params, filters)
}

func (r *repository) list(ctx context.Context, ownerColumn string, ownerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where(ownerColumn+" = ?", ownerID)
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		qb = qb.Where("order_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		qb = qb.Where("order_date <= ?", *filters.DateTo)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &OrderList{Orders: dtos, NextCursor: nextCursor}, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

type retailerStatsRow struct {
	Status enums.OrderStatus
	Count  int64
	Total  decimal.Decimal
}

func (r *repository) RetailerStats(ctx context.Context, retailerID uuid.UUID) (*RetailerStats, error) {
	var rows []retailerStatsRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS total").
		Where("retailer_id = ?", retailerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &RetailerStats{Revenue: decimal.Zero}
	for _, row := range rows {
		stats.TotalOrders += row.Count
		switch row.Status {
		case enums.OrderStatusPending:
			stats.PendingOrders = row.Count
		case enums.OrderStatusShipped:
			stats.ShippedOrders = row.Count
		case enums.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
			stats.Revenue = stats.Revenue.Add(row.Total)
		case enums.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		}
	}
	return stats, nil
}
