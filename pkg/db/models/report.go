package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/enums"
)

// Report is a user's moderation flag against exactly one piece of community
// content, either a question or an answer. The composite unique indexes keep
// one report per reporter per target (the SQL migration tightens them to
// partial indexes); a moderator resolves the report later.
type Report struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReporterID  uuid.UUID          `gorm:"column:reporter_id;type:uuid;not null;uniqueIndex:uq_reports_reporter_question;uniqueIndex:uq_reports_reporter_answer"`
	QuestionID  *uuid.UUID         `gorm:"column:question_id;type:uuid;uniqueIndex:uq_reports_reporter_question"`
	AnswerID    *uuid.UUID         `gorm:"column:answer_id;type:uuid;uniqueIndex:uq_reports_reporter_answer"`
	Reason      string             `gorm:"column:reason;not null"`
	Description string             `gorm:"column:description"`
	Status      enums.ReportStatus `gorm:"column:status;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	ResolvedAt  *time.Time         `gorm:"column:resolved_at"`
}

func (r *Report) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Target reports which entity the report is attached to.
func (r *Report) Target() (enums.VoteTarget, uuid.UUID) {
	if r.QuestionID != nil {
		return enums.VoteTargetQuestion, *r.QuestionID
	}
	if r.AnswerID != nil {
		return enums.VoteTargetAnswer, *r.AnswerID
	}
	return "", uuid.Nil
}
