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

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	RetailerStats(ctx context.Context, retailerID uuid.UUID) (*RetailerStats, error)
}

// InventoryControl checks and moves ingredient stock inside the order
// transaction. The tx is passed explicitly so reservations and the order
// insert commit or roll back together.
type InventoryControl interface {
	Ingredient(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Ingredient, error)
	Reserve(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) (bool, error)
	Release(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
