package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// Repository defines persistence operations for ingredient stock.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	List(ctx context.Context, params pagination.Params, filters IngredientFilters) (*IngredientList, error)
	ListLowStock(ctx context.Context) ([]models.Ingredient, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReserveStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error)
	RestoreStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters IngredientFilters) (*IngredientList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Ingredient{})
	if filters.RetailerID != nil {
		qb = qb.Where("retailer_id = ?", *filters.RetailerID)
	} else {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if filters.LowStockOnly {
		qb = qb.Where("quantity <= low_stock_threshold")
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		qb = qb.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Ingredient
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &IngredientList{Ingredients: dtos, NextCursor: nextCursor}, nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("quantity <= low_stock_threshold").
		Order("retailer_id").Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReserveStock decrements quantity only when enough stock remains. The WHERE
// guard makes concurrent order placement safe without row locks; false means
// the guard rejected the decrement.
func (r *repository) ReserveStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE ingredients
		SET quantity = quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND is_active = ? AND quantity >= ?
	`, qty, id, true, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreStock returns previously reserved quantity after a cancellation.
func (r *repository) RestoreStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE ingredients
		SET quantity = quantity + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, id).Error
}
