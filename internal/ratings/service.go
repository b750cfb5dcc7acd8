package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db"
	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// orderReader is the slice of the order repository the rating flow needs.
type orderReader interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

// Service exposes the rating operations.
type Service interface {
	Create(ctx context.Context, customerID, orderID uuid.UUID, input CreateRatingInput) (*RatingDTO, error)
	GetForOrder(ctx context.Context, orderID uuid.UUID) (*RatingDTO, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params) (*RatingList, error)
	RetailerSummary(ctx context.Context, retailerID uuid.UUID) (*RetailerSummary, error)
}

type service struct {
	repo   Repository
	orders orderReader
}

// NewService builds the rating service.
func NewService(repo Repository, orders orderReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ratings.NewService: repo is required")
	}
	if orders == nil {
		return nil, fmt.Errorf("ratings.NewService: orders is required")
	}
	return &service{repo: repo, orders: orders}, nil
}

func (s *service) Create(ctx context.Context, customerID, orderID uuid.UUID, input CreateRatingInput) (*RatingDTO, error) {
	if input.Score < 1 || input.Score > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "score must be between 1 and 5")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only delivered orders can be rated").
			WithDetails(map[string]any{"status": order.Status})
	}

	rating := &models.Rating{
		OrderID:    orderID,
		CustomerID: customerID,
		RetailerID: order.RetailerID,
		Score:      input.Score,
		Comment:    trimComment(input.Comment),
	}
	created, err := s.repo.Create(ctx, rating)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already rated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create rating")
	}

	dto := FromModel(created)
	return &dto, nil
}

func (s *service) GetForOrder(ctx context.Context, orderID uuid.UUID) (*RatingDTO, error) {
	rating, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load rating")
	}
	if rating == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
	}
	dto := FromModel(rating)
	return &dto, nil
}

func (s *service) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params) (*RatingList, error) {
	rows, nextCursor, err := s.repo.ListForRetailer(ctx, retailerID, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list ratings")
	}

	dtos := make([]RatingDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return &RatingList{Ratings: dtos, NextCursor: nextCursor}, nil
}

func (s *service) RetailerSummary(ctx context.Context, retailerID uuid.UUID) (*RetailerSummary, error) {
	summary, err := s.repo.RetailerSummary(ctx, retailerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to aggregate ratings")
	}
	return &summary, nil
}

func trimComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
