package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
)

// IngredientDTO is the transport shape for an ingredient listing.
type IngredientDTO struct {
	ID                uuid.UUID                `json:"id"`
	RetailerID        uuid.UUID                `json:"retailer_id"`
	Name              string                   `json:"name"`
	Category          enums.IngredientCategory `json:"category"`
	Quantity          decimal.Decimal          `json:"quantity"`
	Unit              string                   `json:"unit"`
	Price             decimal.Decimal          `json:"price"`
	LowStockThreshold decimal.Decimal          `json:"low_stock_threshold"`
	LowStock          bool                     `json:"low_stock"`
	ExpiryDate        *time.Time               `json:"expiry_date,omitempty"`
	IsActive          bool                     `json:"is_active"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// CreateIngredientInput carries the fields accepted when listing an ingredient.
type CreateIngredientInput struct {
	Name              string                   `json:"name" validate:"required"`
	Category          enums.IngredientCategory `json:"category" validate:"required"`
	Quantity          decimal.Decimal          `json:"quantity"`
	Unit              string                   `json:"unit" validate:"required"`
	Price             decimal.Decimal          `json:"price"`
	LowStockThreshold decimal.Decimal          `json:"low_stock_threshold"`
	ExpiryDate        *time.Time               `json:"expiry_date,omitempty"`
}

// UpdateIngredientInput uses pointers so absent fields are left untouched.
type UpdateIngredientInput struct {
	Name              *string                   `json:"name,omitempty"`
	Category          *enums.IngredientCategory `json:"category,omitempty"`
	Quantity          *decimal.Decimal          `json:"quantity,omitempty"`
	Unit              *string                   `json:"unit,omitempty"`
	Price             *decimal.Decimal          `json:"price,omitempty"`
	LowStockThreshold *decimal.Decimal          `json:"low_stock_threshold,omitempty"`
	ExpiryDate        *time.Time                `json:"expiry_date,omitempty"`
	IsActive          *bool                     `json:"is_active,omitempty"`
}

// IngredientFilters describe the inputs supported by ingredient lists.
type IngredientFilters struct {
	RetailerID   *uuid.UUID
	Category     *enums.IngredientCategory
	LowStockOnly bool
	Query        string
}

// IngredientList wraps the paginated ingredients plus the next page cursor.
type IngredientList struct {
	Ingredients []IngredientDTO `json:"ingredients"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

func FromModel(m *models.Ingredient) *IngredientDTO {
	if m == nil {
		return nil
	}
	return &IngredientDTO{
		ID:                m.ID,
		RetailerID:        m.RetailerID,
		Name:              m.Name,
		Category:          m.Category,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		Price:             m.Price,
		LowStockThreshold: m.LowStockThreshold,
		LowStock:          m.IsLowStock(),
		ExpiryDate:        m.ExpiryDate,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
