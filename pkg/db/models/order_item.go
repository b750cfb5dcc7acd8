package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem captures the snapshot of each line within an order. Name, unit and
// price are copied at order time so later ingredient edits leave history intact.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	IngredientID uuid.UUID       `gorm:"column:ingredient_id;type:uuid;not null"`
	Name         string          `gorm:"column:name;not null"`
	Unit         string          `gorm:"column:unit;not null"`
	Quantity     decimal.Decimal `gorm:"column:quantity;type:numeric;not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric;not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:numeric;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an ID when the database default is unavailable.
func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
