package ratings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// Repository defines persistence operations for order ratings.
type Repository interface {
	Create(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Rating, error)
	ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params) ([]models.Rating, string, error)
	RetailerSummary(ctx context.Context, retailerID uuid.UUID) (RetailerSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the GORM-backed rating repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) ListForRetailer(ctx context.Context, retailerID uuid.UUID, params pagination.Params) ([]models.Rating, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("retailer_id = ?", retailerID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Rating
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

type summaryRow struct {
	AverageScore float64 `gorm:"column:average_score"`
	RatingCount  int64   `gorm:"column:rating_count"`
}

func (r *repository) RetailerSummary(ctx context.Context, retailerID uuid.UUID) (RetailerSummary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) AS average_score, COUNT(*) AS rating_count").
		Where("retailer_id = ?", retailerID).
		Scan(&row).Error
	if err != nil {
		return RetailerSummary{}, err
	}
	return RetailerSummary{
		RetailerID:   retailerID,
		AverageScore: row.AverageScore,
		RatingCount:  row.RatingCount,
	}, nil
}
