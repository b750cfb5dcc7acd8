package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

type stubRepo struct {
	byID    map[uuid.UUID]*models.Ingredient
	updates map[string]any
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.Ingredient{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	ingredient.ID = uuid.New()
	ingredient.CreatedAt = time.Now()
	s.byID[ingredient.ID] = ingredient
	return ingredient, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	if ingredient, ok := s.byID[id]; ok {
		return ingredient, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, params pagination.Params, filters IngredientFilters) (*IngredientList, error) {
	return &IngredientList{}, nil
}

func (s *stubRepo) ListLowStock(ctx context.Context) ([]models.Ingredient, error) {
	return nil, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	if ingredient, ok := s.byID[id]; ok {
		if name, ok := updates["name"].(string); ok {
			ingredient.Name = name
		}
		if active, ok := updates["is_active"].(bool); ok {
			ingredient.IsActive = active
		}
	}
	return nil
}

func (s *stubRepo) ReserveStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) (bool, error) {
	return false, nil
}

func (s *stubRepo) RestoreStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return nil
}

func TestServiceCreateValidation(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	retailerID := uuid.New()

	cases := []struct {
		name  string
		input CreateIngredientInput
	}{
		{"missing name", CreateIngredientInput{Category: enums.IngredientCategoryGrain, Unit: "kg"}},
		{"bad category", CreateIngredientInput{Name: "Malt", Category: "WOOD", Unit: "kg"}},
		{"missing unit", CreateIngredientInput{Name: "Malt", Category: enums.IngredientCategoryGrain}},
		{"negative quantity", CreateIngredientInput{Name: "Malt", Category: enums.IngredientCategoryGrain, Unit: "kg", Quantity: decimal.NewFromInt(-1)}},
		{"negative price", CreateIngredientInput{Name: "Malt", Category: enums.IngredientCategoryGrain, Unit: "kg", Price: decimal.NewFromInt(-2)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), retailerID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	retailerID := uuid.New()

	dto, err := svc.Create(context.Background(), retailerID, CreateIngredientInput{
		Name:              "  Maris Otter  ",
		Category:          enums.IngredientCategoryGrain,
		Quantity:          decimal.NewFromInt(25),
		Unit:              "kg",
		Price:             decimal.NewFromFloat(1.80),
		LowStockThreshold: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Maris Otter" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.RetailerID != retailerID {
		t.Fatalf("expected retailer id to be set")
	}
	if !dto.IsActive {
		t.Fatalf("expected new ingredient to be active")
	}
	if dto.LowStock {
		t.Fatalf("did not expect low stock flag")
	}
}

func TestServiceUpdateOwnership(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	owner := uuid.New()
	ingredient := &models.Ingredient{
		RetailerID: owner,
		Name:       "Nottingham Yeast",
		Category:   enums.IngredientCategoryYeast,
		Unit:       "pack",
		IsActive:   true,
	}
	if _, err := repo.Create(context.Background(), ingredient); err != nil {
		t.Fatalf("seed: %v", err)
	}

	name := "Renamed"
	_, err = svc.Update(context.Background(), uuid.New(), ingredient.ID, UpdateIngredientInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign retailer, got %v", err)
	}

	_, err = svc.Update(context.Background(), owner, uuid.New(), UpdateIngredientInput{Name: &name})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}

	dto, err := svc.Update(context.Background(), owner, ingredient.ID, UpdateIngredientInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "Renamed" {
		t.Fatalf("expected updated name, got %q", dto.Name)
	}
}

func TestServiceDeactivate(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	owner := uuid.New()
	ingredient := &models.Ingredient{RetailerID: owner, Name: "Crystal Malt", Category: enums.IngredientCategoryGrain, Unit: "kg", IsActive: true}
	if _, err := repo.Create(context.Background(), ingredient); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Deactivate(context.Background(), owner, ingredient.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if active, ok := repo.updates["is_active"].(bool); !ok || active {
		t.Fatalf("expected is_active=false update, got %v", repo.updates)
	}
}
