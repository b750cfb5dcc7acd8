package community

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

// Repository defines persistence operations for questions, answers and votes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error)
	FindQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListQuestions(ctx context.Context, params pagination.Params, filters QuestionFilters) ([]models.Question, string, error)
	CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error)
	FindAnswerByID(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	ListAnswersForQuestion(ctx context.Context, questionID uuid.UUID) ([]models.Answer, error)
	SetAnswerVerified(ctx context.Context, answerID uuid.UUID, verified bool) error
	FindVote(ctx context.Context, userID uuid.UUID, target enums.VoteTarget, targetID uuid.UUID) (*models.Vote, error)
	CreateVote(ctx context.Context, vote *models.Vote) error
	UpdateVoteType(ctx context.Context, voteID uuid.UUID, voteType enums.VoteType) error
	DeleteVote(ctx context.Context, voteID uuid.UUID) error
	VoteCounts(ctx context.Context, target enums.VoteTarget, targetID uuid.UUID) (VoteCounts, error)
	VoteCountsForQuestions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VoteCounts, error)
	VoteCountsForAnswers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VoteCounts, error)
	AnswerCountsForQuestions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	CreateReport(ctx context.Context, report *models.Report) error
	FindReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	FindReportByReporter(ctx context.Context, reporterID uuid.UUID, target enums.VoteTarget, targetID uuid.UUID) (*models.Report, error)
	ListReportsByStatus(ctx context.Context, status enums.ReportStatus) ([]models.Report, error)
	UpdateReportResolution(ctx context.Context, reportID uuid.UUID, status enums.ReportStatus, resolvedAt time.Time) error
	SetQuestionActive(ctx context.Context, questionID uuid.UUID, active bool) error
	SetAnswerActive(ctx context.Context, answerID uuid.UUID, active bool) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a community repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateQuestion(ctx context.Context, question *models.Question) (*models.Question, error) {
	if err := r.db.WithContext(ctx).Omit("Answers").Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *repository) FindQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *repository) ListQuestions(ctx context.Context, params pagination.Params, filters QuestionFilters) ([]models.Question, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Question{}).Where("is_active = ?", true)
	if filters.IngredientID != nil {
		qb = qb.Where("ingredient_id = ?", *filters.IngredientID)
	}
	if filters.AuthorID != nil {
		qb = qb.Where("author_id = ?", *filters.AuthorID)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(body) LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Question
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

func (r *repository) CreateAnswer(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

func (r *repository) FindAnswerByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	if err := r.db.WithContext(ctx).First(&answer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *repository) ListAnswersForQuestion(ctx context.Context, questionID uuid.UUID) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Where("is_active = ?", true).
		Order("verified DESC").
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *repository) SetAnswerVerified(ctx context.Context, answerID uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", answerID).
		Update("verified", verified).Error
}

func (r *repository) FindVote(ctx context.Context, userID uuid.UUID, target enums.VoteTarget, targetID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	qb := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch target {
	case enums.VoteTargetQuestion:
		qb = qb.Where("question_id = ?", targetID)
	default:
		qb = qb.Where("answer_id = ?", targetID)
	}
	if err := qb.First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *repository) CreateVote(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *repository) UpdateVoteType(ctx context.Context, voteID uuid.UUID, voteType enums.VoteType) error {
	return r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("id = ?", voteID).
		Update("type", voteType).Error
}

func (r *repository) DeleteVote(ctx context.Context, voteID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", voteID).
		Delete(&models.Vote{}).Error
}

type voteCountRow struct {
	TargetID  uuid.UUID
	Upvotes   int64
	Downvotes int64
}

// VoteCounts tallies the live votes for one target. Counts are always derived
// from the vote rows, never stored.
func (r *repository) VoteCounts(ctx context.Context, target enums.VoteTarget, targetID uuid.UUID) (VoteCounts, error) {
	column := "answer_id"
	if target == enums.VoteTargetQuestion {
		column = "question_id"
	}

	var row voteCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS upvotes, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS downvotes",
			enums.VoteTypeUpvote, enums.VoteTypeDownvote,
		).
		Where(column+" = ?", targetID).
		Scan(&row).Error
	if err != nil {
		return VoteCounts{}, err
	}
	return VoteCounts{Upvotes: row.Upvotes, Downvotes: row.Downvotes, Score: row.Upvotes - row.Downvotes}, nil
}

func (r *repository) VoteCountsForQuestions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VoteCounts, error) {
	return r.voteCountsByColumn(ctx, "question_id", ids)
}

func (r *repository) VoteCountsForAnswers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]VoteCounts, error) {
	return r.voteCountsByColumn(ctx, "answer_id", ids)
}

func (r *repository) voteCountsByColumn(ctx context.Context, column string, ids []uuid.UUID) (map[uuid.UUID]VoteCounts, error) {
	result := make(map[uuid.UUID]VoteCounts, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []voteCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select(
			column+" AS target_id, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS upvotes, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS downvotes",
			enums.VoteTypeUpvote, enums.VoteTypeDownvote,
		).
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TargetID] = VoteCounts{Upvotes: row.Upvotes, Downvotes: row.Downvotes, Score: row.Upvotes - row.Downvotes}
	}
	return result, nil
}

func (r *repository) CreateReport(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *repository) FindReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) FindReportByReporter(ctx context.Context, reporterID uuid.UUID, target enums.VoteTarget, targetID uuid.UUID) (*models.Report, error) {
	var report models.Report
	qb := r.db.WithContext(ctx).Where("reporter_id = ?", reporterID)
	switch target {
	case enums.VoteTargetQuestion:
		qb = qb.Where("question_id = ?", targetID)
	default:
		qb = qb.Where("answer_id = ?", targetID)
	}
	if err := qb.First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) ListReportsByStatus(ctx context.Context, status enums.ReportStatus) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repository) UpdateReportResolution(ctx context.Context, reportID uuid.UUID, status enums.ReportStatus, resolvedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]any{"status": status, "resolved_at": resolvedAt}).Error
}

func (r *repository) SetQuestionActive(ctx context.Context, questionID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", questionID).
		Update("is_active", active).Error
}

func (r *repository) SetAnswerActive(ctx context.Context, answerID uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", answerID).
		Update("is_active", active).Error
}

type answerCountRow struct {
	QuestionID uuid.UUID
	Count      int64
}

func (r *repository) AnswerCountsForQuestions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []answerCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("question_id, COUNT(*) AS count").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.QuestionID] = row.Count
	}
	return result, nil
}
