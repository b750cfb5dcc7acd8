package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a community thread opened by a user, optionally tied to an
// ingredient listing. Active goes false when a moderator approves a report
// against the question, which removes it from the public surfaces.
type Question struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID     uuid.UUID  `gorm:"column:author_id;type:uuid;not null;index"`
	IngredientID *uuid.UUID `gorm:"column:ingredient_id;type:uuid;index"`
	Title        string     `gorm:"column:title;not null"`
	Body         string     `gorm:"column:body;not null"`
	Active       bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (q *Question) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
