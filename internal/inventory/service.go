package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// Service exposes ingredient management for retailers and catalog browsing
// for customers.
type Service interface {
	Create(ctx context.Context, retailerID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error)
	Update(ctx context.Context, retailerID, ingredientID uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error)
	Get(ctx context.Context, ingredientID uuid.UUID) (*IngredientDTO, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters IngredientFilters) (*IngredientList, error)
	ListCatalog(ctx context.Context, params pagination.Params, filters IngredientFilters) (*IngredientList, error)
	Deactivate(ctx context.Context, retailerID, ingredientID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService constructs the inventory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, retailerID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.LowStockThreshold.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold cannot be negative")
	}

	ingredient := &models.Ingredient{
		RetailerID:        retailerID,
		Name:              name,
		Category:          input.Category,
		Quantity:          input.Quantity,
		Unit:              strings.TrimSpace(input.Unit),
		Price:             input.Price,
		LowStockThreshold: input.LowStockThreshold,
		ExpiryDate:        input.ExpiryDate,
		IsActive:          true,
	}
	created, err := s.repo.Create(ctx, ingredient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ingredient")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, retailerID, ingredientID uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error) {
	existing, err := s.ownedIngredient(ctx, retailerID, ingredientID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		updates["category"] = *input.Category
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.Unit != nil {
		unit := strings.TrimSpace(*input.Unit)
		if unit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cannot be empty")
		}
		updates["unit"] = unit
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.LowStockThreshold != nil {
		if input.LowStockThreshold.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold cannot be negative")
		}
		updates["low_stock_threshold"] = *input.LowStockThreshold
	}
	if input.ExpiryDate != nil {
		updates["expiry_date"] = *input.ExpiryDate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return FromModel(existing), nil
	}

	if err := s.repo.Update(ctx, ingredientID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update ingredient")
	}
	updated, err := s.repo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload ingredient")
	}
	return FromModel(updated), nil
}

func (s *service) Get(ctx context.Context, ingredientID uuid.UUID) (*IngredientDTO, error) {
	ingredient, err := s.repo.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredient")
	}
	return FromModel(ingredient), nil
}

func (s *service) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params, filters IngredientFilters) (*IngredientList, error) {
	filters.RetailerID = &retailerID
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ingredients")
	}
	return list, nil
}

func (s *service) ListCatalog(ctx context.Context, params pagination.Params, filters IngredientFilters) (*IngredientList, error) {
	filters.RetailerID = nil
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog")
	}
	return list, nil
}

// Deactivate hides the listing without destroying order item history.
func (s *service) Deactivate(ctx context.Context, retailerID, ingredientID uuid.UUID) error {
	if _, err := s.ownedIngredient(ctx, retailerID, ingredientID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, ingredientID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate ingredient")
	}
	return nil
}

func (s *service) ownedIngredient(ctx context.Context, retailerID, ingredientID uuid.UUID) (*models.Ingredient, error) {
	ingredient, err := s.repo.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredient")
	}
	if ingredient.RetailerID != retailerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "ingredient belongs to another retailer")
	}
	return ingredient, nil
}
