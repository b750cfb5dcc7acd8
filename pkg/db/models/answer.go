package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is a reply on a question. Verified marks answers confirmed by the
// question author as solving their problem. Active goes false when a
// moderator approves a report against the answer.
type Answer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuestionID uuid.UUID `gorm:"column:question_id;type:uuid;not null;index"`
	AuthorID   uuid.UUID `gorm:"column:author_id;type:uuid;not null;index"`
	Body       string    `gorm:"column:body;not null"`
	Verified   bool      `gorm:"column:verified;not null;default:false"`
	Active     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Answer) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
