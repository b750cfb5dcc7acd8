package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/enums"
)

// Vote records a user's upvote or downvote on exactly one target, either a
// question or an answer. The composite unique indexes keep one live vote per
// user per target (the SQL migration tightens them to partial indexes over
// the non-NULL column); toggling the same type deletes the row instead of
// flipping.
type Vote struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_votes_user_question;uniqueIndex:uq_votes_user_answer"`
	QuestionID *uuid.UUID     `gorm:"column:question_id;type:uuid;uniqueIndex:uq_votes_user_question"`
	AnswerID   *uuid.UUID     `gorm:"column:answer_id;type:uuid;uniqueIndex:uq_votes_user_answer"`
	Type       enums.VoteType `gorm:"column:type;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vote) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Target reports which entity the vote is attached to.
func (v *Vote) Target() (enums.VoteTarget, uuid.UUID) {
	if v.QuestionID != nil {
		return enums.VoteTargetQuestion, *v.QuestionID
	}
	if v.AnswerID != nil {
		return enums.VoteTargetAnswer, *v.AnswerID
	}
	return "", uuid.Nil
}
