package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/internal/inventory"
	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// Service defines the order placement and lifecycle operations.
type Service interface {
	Place(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error)
	Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	Get(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) (*OrderDTO, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	RetailerStats(ctx context.Context, retailerID uuid.UUID) (*RetailerStats, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory InventoryControl
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, inv InventoryControl) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory control required")
	}
	return &service{repo: repo, tx: tx, inventory: inv}, nil
}

// Place creates an order against a single retailer. Every stock decrement is
// guarded, so two customers racing for the last units cannot both succeed.
func (s *service) Place(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	seen := map[uuid.UUID]bool{}
	for _, item := range input.Items {
		if item.IngredientID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient_id is required")
		}
		if !item.Quantity.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if seen[item.IngredientID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate ingredient in order")
		}
		seen[item.IngredientID] = true
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var retailerID uuid.UUID
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, line := range input.Items {
			ingredient, err := s.inventory.Ingredient(ctx, tx, line.IngredientID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("ingredient %s not found", line.IngredientID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredient")
			}
			if !ingredient.IsActive {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("ingredient %s not found", line.IngredientID))
			}
			if retailerID == uuid.Nil {
				retailerID = ingredient.RetailerID
			} else if retailerID != ingredient.RetailerID {
				return pkgerrors.New(pkgerrors.CodeValidation, "all items must belong to the same retailer")
			}
			if input.RetailerID != nil && *input.RetailerID != ingredient.RetailerID {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to the given retailer").WithDetails(map[string]any{
					"ingredient_id": ingredient.ID,
				})
			}

			ok, err := s.inventory.Reserve(ctx, tx, ingredient.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
					"ingredient_id":   ingredient.ID,
					"ingredient_name": ingredient.Name,
					"requested":       line.Quantity,
					"available":       ingredient.Quantity,
				})
			}

			lineTotal := ingredient.Price.Mul(line.Quantity)
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				IngredientID: ingredient.ID,
				Name:         ingredient.Name,
				Unit:         ingredient.Unit,
				Quantity:     line.Quantity,
				PricePerUnit: ingredient.Price,
				TotalPrice:   lineTotal,
			})
		}

		order := &models.Order{
			CustomerID: customerID,
			RetailerID: retailerID,
			OrderDate:  time.Now().UTC(),
			Status:     enums.OrderStatusPending,
			TotalPrice: total,
			Notes:      input.Notes,
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}
		order.Items = items
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(placed), nil
}

// Cancel lets the customer withdraw a pending order. Reserved stock goes back
// to the retailer in the same transaction.
func (s *service) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*OrderDTO, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.CustomerID != customerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("order in status %s cannot be cancelled", order.Status)).WithDetails(map[string]any{
				"status": order.Status,
			})
		}

		if err := s.restock(ctx, tx, order.Items); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		order.Status = enums.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(cancelled), nil
}

// UpdateStatus moves an order along the lifecycle on behalf of the retailer.
// Cancelling from PENDING also restores the reserved stock.
func (s *service) UpdateStatus(ctx context.Context, retailerID, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.RetailerID != retailerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another retailer")
		}
		if !order.Status.CanTransitionTo(status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move order from %s to %s", order.Status, status)).WithDetails(map[string]any{
				"from": order.Status,
				"to":   status,
			})
		}

		if status == enums.OrderStatusCancelled {
			if err := s.restock(ctx, tx, order.Items); err != nil {
				return err
			}
		}
		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Get returns the order when the actor is its customer or its retailer.
func (s *service) Get(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.CustomerID != actorID && order.RetailerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return FromModel(order), nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListForCustomer(ctx, customerID, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer orders")
	}
	return list, nil
}

func (s *service) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	list, err := s.repo.ListForRetailer(ctx, retailerID, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list retailer orders")
	}
	return list, nil
}

func (s *service) RetailerStats(ctx context.Context, retailerID uuid.UUID) (*RetailerStats, error) {
	stats, err := s.repo.RetailerStats(ctx, retailerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "retailer stats")
	}
	return stats, nil
}

func (s *service) restock(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := s.inventory.Release(ctx, tx, item.IngredientID, item.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
		}
	}
	return nil
}

type inventoryControlImpl struct{}

// NewInventoryControl exposes the default tx-bound inventory implementation.
func NewInventoryControl() InventoryControl {
	return inventoryControlImpl{}
}

func (inventoryControlImpl) Ingredient(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Ingredient, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory access")
	}
	return inventory.NewRepository(tx).FindByID(ctx, id)
}

func (inventoryControlImpl) Reserve(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory reserve")
	}
	return inventory.NewRepository(tx).ReserveStock(ctx, id, qty)
}

func (inventoryControlImpl) Release(ctx context.Context, tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory release")
	}
	return inventory.NewRepository(tx).RestoreStock(ctx, id, qty)
}
