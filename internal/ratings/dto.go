package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkock/brewhub-backend/pkg/db/models"
)

// CreateRatingInput carries the customer-supplied review fields.
type CreateRatingInput struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment,omitempty"`
}

// RatingDTO is the transport shape of a stored rating.
type RatingDTO struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	RetailerID uuid.UUID `json:"retailer_id"`
	Score      int       `json:"score"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RetailerSummary aggregates a retailer's ratings. AverageScore is zero when
// the retailer has no ratings yet.
type RetailerSummary struct {
	RetailerID   uuid.UUID `json:"retailer_id"`
	AverageScore float64   `json:"average_score"`
	RatingCount  int64     `json:"rating_count"`
}

// RatingList wraps a page of ratings plus the next page cursor.
type RatingList struct {
	Ratings    []RatingDTO `json:"ratings"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// FromModel converts a persistence rating into its transport shape.
func FromModel(m *models.Rating) RatingDTO {
	return RatingDTO{
		ID:         m.ID,
		OrderID:    m.OrderID,
		CustomerID: m.CustomerID,
		RetailerID: m.RetailerID,
		Score:      m.Score,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}
