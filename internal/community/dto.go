package community

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
)

// CreateQuestionInput carries the fields accepted when opening a question.
type CreateQuestionInput struct {
	Title        string     `json:"title" validate:"required"`
	Body         string     `json:"body" validate:"required"`
	IngredientID *uuid.UUID `json:"ingredient_id,omitempty"`
}

// CreateAnswerInput carries the fields accepted when replying to a question.
type CreateAnswerInput struct {
	Body string `json:"body" validate:"required"`
}

// VoteInput identifies the target and direction of a vote.
type VoteInput struct {
	TargetType enums.VoteTarget `json:"target_type" validate:"required"`
	TargetID   uuid.UUID        `json:"target_id" validate:"required"`
	Type       enums.VoteType   `json:"type" validate:"required"`
}

// VoteCounts is the aggregated tally for one target.
type VoteCounts struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	Score     int64 `json:"score"`
}

// VoteOutcome describes what the toggle did with the caller's vote.
type VoteOutcome string

const (
	VoteOutcomeCreated VoteOutcome = "created"
	VoteOutcomeRemoved VoteOutcome = "removed"
	VoteOutcomeChanged VoteOutcome = "changed"
)

// VoteResult is returned after a toggle with the fresh tally.
type VoteResult struct {
	Outcome VoteOutcome `json:"outcome"`
	Counts  VoteCounts  `json:"counts"`
}

// FileReportInput flags a question or an answer for moderator review.
type FileReportInput struct {
	TargetType  enums.VoteTarget `json:"target_type" validate:"required"`
	TargetID    uuid.UUID        `json:"target_id" validate:"required"`
	Reason      string           `json:"reason" validate:"required"`
	Description string           `json:"description,omitempty"`
}

// ReportDTO is the transport shape of a moderation report.
type ReportDTO struct {
	ID          uuid.UUID          `json:"id"`
	ReporterID  uuid.UUID          `json:"reporter_id"`
	TargetType  enums.VoteTarget   `json:"target_type"`
	TargetID    uuid.UUID          `json:"target_id"`
	Reason      string             `json:"reason"`
	Description string             `json:"description,omitempty"`
	Status      enums.ReportStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	ResolvedAt  *time.Time         `json:"resolved_at,omitempty"`
}

// QuestionDTO is the transport shape of a question with derived counts.
type QuestionDTO struct {
	ID           uuid.UUID  `json:"id"`
	AuthorID     uuid.UUID  `json:"author_id"`
	IngredientID *uuid.UUID `json:"ingredient_id,omitempty"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Votes        VoteCounts `json:"votes"`
	AnswerCount  int64      `json:"answer_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AnswerDTO is the transport shape of an answer with derived counts.
type AnswerDTO struct {
	ID         uuid.UUID  `json:"id"`
	QuestionID uuid.UUID  `json:"question_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Body       string     `json:"body"`
	Verified   bool       `json:"verified"`
	Votes      VoteCounts `json:"votes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// QuestionDetail bundles a question with its answers.
type QuestionDetail struct {
	Question QuestionDTO `json:"question"`
	Answers  []AnswerDTO `json:"answers"`
}

// QuestionFilters describe the inputs supported by the question list.
type QuestionFilters struct {
	IngredientID *uuid.UUID
	AuthorID     *uuid.UUID
	Query        string
}

// QuestionList wraps the paginated questions plus the next page cursor.
type QuestionList struct {
	Questions  []QuestionDTO `json:"questions"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func questionFromModel(m *models.Question, votes VoteCounts, answerCount int64) QuestionDTO {
	return QuestionDTO{
		ID:           m.ID,
		AuthorID:     m.AuthorID,
		IngredientID: m.IngredientID,
		Title:        m.Title,
		Body:         m.Body,
		Votes:        votes,
		AnswerCount:  answerCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func reportFromModel(m *models.Report) ReportDTO {
	targetType, targetID := m.Target()
	return ReportDTO{
		ID:          m.ID,
		ReporterID:  m.ReporterID,
		TargetType:  targetType,
		TargetID:    targetID,
		Reason:      m.Reason,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		ResolvedAt:  m.ResolvedAt,
	}
}

func answerFromModel(m *models.Answer, votes VoteCounts) AnswerDTO {
	return AnswerDTO{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
		Verified:   m.Verified,
		Votes:      votes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
