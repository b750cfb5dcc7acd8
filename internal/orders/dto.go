package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
)

// OrderItemInput is a single requested line when placing an order.
type OrderItemInput struct {
	IngredientID uuid.UUID       `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
}

// PlaceOrderInput carries everything needed to place an order. RetailerID is
// optional; when set it must match the retailer owning every item.
type PlaceOrderInput struct {
	RetailerID *uuid.UUID       `json:"retailer_id,omitempty"`
	Items      []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Notes      *string          `json:"notes,omitempty"`
}

// OrderItemDTO is the transport shape of a stored line item.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	IngredientID uuid.UUID       `json:"ingredient_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderDTO is the transport shape of an order with its items.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	RetailerID uuid.UUID         `json:"retailer_id"`
	OrderDate  time.Time         `json:"order_date"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Notes      *string           `json:"notes,omitempty"`
	Items      []OrderItemDTO    `json:"items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// OrderFilters describe the inputs supported by the order lists.
type OrderFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// RetailerStats aggregates order counts and delivered revenue for a retailer.
type RetailerStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ShippedOrders   int64           `json:"shipped_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	CancelledOrders int64           `json:"cancelled_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
}

func itemFromModel(m *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:           m.ID,
		IngredientID: m.IngredientID,
		Name:         m.Name,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		PricePerUnit: m.PricePerUnit,
		TotalPrice:   m.TotalPrice,
	}
}

// FromModel converts a stored order into its transport shape.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, itemFromModel(&m.Items[i]))
	}
	return &OrderDTO{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		RetailerID: m.RetailerID,
		OrderDate:  m.OrderDate,
		Status:     m.Status,
		TotalPrice: m.TotalPrice,
		Notes:      m.Notes,
		Items:      items,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
