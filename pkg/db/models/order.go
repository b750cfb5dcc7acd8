package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/enums"
)

// Order is a customer's purchase from a single retailer.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	RetailerID uuid.UUID         `gorm:"column:retailer_id;type:uuid;not null;index"`
	OrderDate  time.Time         `gorm:"column:order_date;not null"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric;not null"`
	Notes      *string           `gorm:"column:notes"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the database default is unavailable.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
