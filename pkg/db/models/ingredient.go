package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/enums"
)

// Ingredient is a stock-keeping unit owned by a retailer.
type Ingredient struct {
	ID                uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RetailerID        uuid.UUID                `gorm:"column:retailer_id;type:uuid;not null;index"`
	Name              string                   `gorm:"column:name;not null"`
	Category          enums.IngredientCategory `gorm:"column:category;type:text;not null"`
	Quantity          decimal.Decimal          `gorm:"column:quantity;type:numeric;not null"`
	Unit              string                   `gorm:"column:unit;not null"`
	Price             decimal.Decimal          `gorm:"column:price;type:numeric;not null"`
	ExpiryDate        *time.Time               `gorm:"column:expiry_date"`
	LowStockThreshold decimal.Decimal          `gorm:"column:low_stock_threshold;type:numeric;not null"`
	IsActive          bool                     `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the database default is unavailable.
func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// IsLowStock is the derived low-stock predicate; it is never stored.
func (i Ingredient) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.LowStockThreshold)
}
