package community

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db"
	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the community Q&A, voting and moderation operations.
type Service interface {
	CreateQuestion(ctx context.Context, authorID uuid.UUID, input CreateQuestionInput) (*QuestionDTO, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (*QuestionDetail, error)
	ListQuestions(ctx context.Context, params pagination.Params, filters QuestionFilters) (*QuestionList, error)
	CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input CreateAnswerInput) (*AnswerDTO, error)
	VerifyAnswer(ctx context.Context, actorID, answerID uuid.UUID) (*AnswerDTO, error)
	ToggleVote(ctx context.Context, userID uuid.UUID, input VoteInput) (*VoteResult, error)
	FileReport(ctx context.Context, reporterID uuid.UUID, input FileReportInput) (*ReportDTO, error)
	ListPendingReports(ctx context.Context) ([]ReportDTO, error)
	ResolveReport(ctx context.Context, reportID uuid.UUID, decision enums.ReportStatus) (*ReportDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the community service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("community repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateQuestion(ctx context.Context, authorID uuid.UUID, input CreateQuestionInput) (*QuestionDTO, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	question, err := s.repo.CreateQuestion(ctx, &models.Question{
		AuthorID:     authorID,
		IngredientID: input.IngredientID,
		Title:        title,
		Body:         body,
		Active:       true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create question")
	}
	dto := questionFromModel(question, VoteCounts{}, 0)
	return &dto, nil
}

func (s *service) GetQuestion(ctx context.Context, questionID uuid.UUID) (*QuestionDetail, error) {
	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load question")
	}
	if !question.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
	}

	votes, err := s.repo.VoteCounts(ctx, enums.VoteTargetQuestion, question.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally question votes")
	}

	answers, err := s.repo.ListAnswersForQuestion(ctx, question.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list answers")
	}
	answerIDs := make([]uuid.UUID, 0, len(answers))
	for i := range answers {
		answerIDs = append(answerIDs, answers[i].ID)
	}
	answerVotes, err := s.repo.VoteCountsForAnswers(ctx, answerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally answer votes")
	}

	answerDTOs := make([]AnswerDTO, 0, len(answers))
	for i := range answers {
		answerDTOs = append(answerDTOs, answerFromModel(&answers[i], answerVotes[answers[i].ID]))
	}

	return &QuestionDetail{
		Question: questionFromModel(question, votes, int64(len(answers))),
		Answers:  answerDTOs,
	}, nil
}

func (s *service) ListQuestions(ctx context.Context, params pagination.Params, filters QuestionFilters) (*QuestionList, error) {
	rows, nextCursor, err := s.repo.ListQuestions(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list questions")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	votes, err := s.repo.VoteCountsForQuestions(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally question votes")
	}
	answerCounts, err := s.repo.AnswerCountsForQuestions(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count answers")
	}

	dtos := make([]QuestionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, questionFromModel(&rows[i], votes[rows[i].ID], answerCounts[rows[i].ID]))
	}
	return &QuestionList{Questions: dtos, NextCursor: nextCursor}, nil
}

func (s *service) CreateAnswer(ctx context.Context, authorID, questionID uuid.UUID, input CreateAnswerInput) (*AnswerDTO, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	question, err := s.repo.FindQuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load question")
	}
	if !question.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "question not found")
	}

	answer, err := s.repo.CreateAnswer(ctx, &models.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       body,
		Active:     true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create answer")
	}
	dto := answerFromModel(answer, VoteCounts{})
	return &dto, nil
}

// VerifyAnswer marks an answer as accepted. Only the question author may do
// this, and only one answer per question carries the flag.
func (s *service) VerifyAnswer(ctx context.Context, actorID, answerID uuid.UUID) (*AnswerDTO, error) {
	var verified *models.Answer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		answer, err := repo.FindAnswerByID(ctx, answerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "answer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load answer")
		}
		question, err := repo.FindQuestionByID(ctx, answer.QuestionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load question")
		}
		if question.AuthorID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the question author can verify an answer")
		}

		siblings, err := repo.ListAnswersForQuestion(ctx, question.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list answers")
		}
		for i := range siblings {
			if siblings[i].Verified && siblings[i].ID != answer.ID {
				if err := repo.SetAnswerVerified(ctx, siblings[i].ID, false); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear previous verification")
				}
			}
		}
		if err := repo.SetAnswerVerified(ctx, answer.ID, true); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify answer")
		}
		answer.Verified = true
		verified = answer
		return nil
	})
	if err != nil {
		return nil, err
	}

	votes, err := s.repo.VoteCounts(ctx, enums.VoteTargetAnswer, verified.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally answer votes")
	}
	dto := answerFromModel(verified, votes)
	return &dto, nil
}

// ToggleVote applies the three-way toggle. No existing vote creates one, the
// same direction removes it, the opposite direction flips it.
func (s *service) ToggleVote(ctx context.Context, userID uuid.UUID, input VoteInput) (*VoteResult, error) {
	if !input.TargetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vote target")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid vote type")
	}
	if input.TargetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target_id is required")
	}

	var outcome VoteOutcome
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := ensureTargetExists(ctx, repo, input.TargetType, input.TargetID); err != nil {
			return err
		}

		existing, err := repo.FindVote(ctx, userID, input.TargetType, input.TargetID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vote")
		}

		switch {
		case existing == nil:
			vote := &models.Vote{UserID: userID, Type: input.Type}
			if input.TargetType == enums.VoteTargetQuestion {
				id := input.TargetID
				vote.QuestionID = &id
			} else {
				id := input.TargetID
				vote.AnswerID = &id
			}
			if err := repo.CreateVote(ctx, vote); err != nil {
				if db.IsUniqueViolation(err) {
					return pkgerrors.New(pkgerrors.CodeConflict, "vote already recorded")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vote")
			}
			outcome = VoteOutcomeCreated

		case existing.Type == input.Type:
			if err := repo.DeleteVote(ctx, existing.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove vote")
			}
			outcome = VoteOutcomeRemoved

		default:
			if err := repo.UpdateVoteType(ctx, existing.ID, input.Type); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flip vote")
			}
			outcome = VoteOutcomeChanged
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.VoteCounts(ctx, input.TargetType, input.TargetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "tally votes")
	}
	return &VoteResult{Outcome: outcome, Counts: counts}, nil
}

// maxReportDescriptionLen caps the optional free-text a reporter may attach.
const maxReportDescriptionLen = 1000

// FileReport flags a question or an answer for moderator review. A reporter
// gets one open or resolved report per target.
func (s *service) FileReport(ctx context.Context, reporterID uuid.UUID, input FileReportInput) (*ReportDTO, error) {
	if !input.TargetType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report target")
	}
	if input.TargetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target_id is required")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > maxReportDescriptionLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description must be 1000 characters or fewer")
	}

	var created *models.Report
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := ensureTargetExists(ctx, repo, input.TargetType, input.TargetID); err != nil {
			return err
		}

		_, err := repo.FindReportByReporter(ctx, reporterID, input.TargetType, input.TargetID)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("you have already reported this %s", input.TargetType))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing report")
		}

		report := &models.Report{
			ReporterID:  reporterID,
			Reason:      reason,
			Description: description,
			Status:      enums.ReportStatusPending,
		}
		if input.TargetType == enums.VoteTargetQuestion {
			id := input.TargetID
			report.QuestionID = &id
		} else {
			id := input.TargetID
			report.AnswerID = &id
		}
		if err := repo.CreateReport(ctx, report); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("you have already reported this %s", input.TargetType))
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create report")
		}
		created = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := reportFromModel(created)
	return &dto, nil
}

// ListPendingReports returns the open moderation queue, oldest first.
func (s *service) ListPendingReports(ctx context.Context) ([]ReportDTO, error) {
	rows, err := s.repo.ListReportsByStatus(ctx, enums.ReportStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}
	dtos := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, reportFromModel(&rows[i]))
	}
	return dtos, nil
}

// ResolveReport closes a pending report. Approving it hides the reported
// content from the public surfaces; rejecting it leaves the content alone.
func (s *service) ResolveReport(ctx context.Context, reportID uuid.UUID, decision enums.ReportStatus) (*ReportDTO, error) {
	if !decision.IsResolution() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid report decision")
	}

	var resolved *models.Report
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		report, err := repo.FindReportByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load report")
		}
		if report.Status != enums.ReportStatusPending {
			return pkgerrors.New(pkgerrors.CodeConflict, "report already resolved")
		}

		now := time.Now().UTC()
		if err := repo.UpdateReportResolution(ctx, report.ID, decision, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve report")
		}

		if decision == enums.ReportStatusApproved {
			switch {
			case report.QuestionID != nil:
				if err := repo.SetQuestionActive(ctx, *report.QuestionID, false); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hide question")
				}
			case report.AnswerID != nil:
				if err := repo.SetAnswerActive(ctx, *report.AnswerID, false); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hide answer")
				}
			}
		}

		report.Status = decision
		report.ResolvedAt = &now
		resolved = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := reportFromModel(resolved)
	return &dto, nil
}

func ensureTargetExists(ctx context.Context, repo Repository, target enums.VoteTarget, targetID uuid.UUID) error {
	var active bool
	var err error
	if target == enums.VoteTargetQuestion {
		var question *models.Question
		if question, err = repo.FindQuestionByID(ctx, targetID); err == nil {
			active = question.Active
		}
	} else {
		var answer *models.Answer
		if answer, err = repo.FindAnswerByID(ctx, targetID); err == nil {
			active = answer.Active
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", target))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load target")
	}
	// hidden content behaves as if it never existed
	if !active {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", target))
	}
	return nil
}
