package community

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pkock/brewhub-backend/pkg/db/models"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupCommunityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	questions := `
CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  ingredient_id TEXT,
  title TEXT NOT NULL,
  body TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	answers := `
CREATE TABLE IF NOT EXISTS answers (
  id TEXT PRIMARY KEY,
  question_id TEXT NOT NULL,
  author_id TEXT NOT NULL,
  body TEXT NOT NULL,
  verified INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	votes := `
CREATE TABLE IF NOT EXISTS votes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  question_id TEXT,
  answer_id TEXT,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	voteIdxQ := `CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_user_question ON votes (user_id, question_id) WHERE question_id IS NOT NULL;`
	voteIdxA := `CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_user_answer ON votes (user_id, answer_id) WHERE answer_id IS NOT NULL;`
	reports := `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  reporter_id TEXT NOT NULL,
  question_id TEXT,
  answer_id TEXT,
  reason TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at DATETIME,
  updated_at DATETIME,
  resolved_at DATETIME
);`
	reportIdxQ := `CREATE UNIQUE INDEX IF NOT EXISTS uq_reports_reporter_question ON reports (reporter_id, question_id) WHERE question_id IS NOT NULL;`
	reportIdxA := `CREATE UNIQUE INDEX IF NOT EXISTS uq_reports_reporter_answer ON reports (reporter_id, answer_id) WHERE answer_id IS NOT NULL;`
	require.NoError(t, db.Exec(questions).Error)
	require.NoError(t, db.Exec(answers).Error)
	require.NoError(t, db.Exec(votes).Error)
	require.NoError(t, db.Exec(voteIdxQ).Error)
	require.NoError(t, db.Exec(voteIdxA).Error)
	require.NoError(t, db.Exec(reports).Error)
	require.NoError(t, db.Exec(reportIdxQ).Error)
	require.NoError(t, db.Exec(reportIdxA).Error)
	return db
}

func newCommunityService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupCommunityTestDB(t)
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func seedQuestion(t *testing.T, svc Service, authorID uuid.UUID, title string) *QuestionDTO {
	t.Helper()
	question, err := svc.CreateQuestion(context.Background(), authorID, CreateQuestionInput{
		Title: title,
		Body:  "What does the brew log say?",
	})
	require.NoError(t, err)
	return question
}

func TestToggleVoteCycle(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	voter := uuid.New()
	question := seedQuestion(t, svc, uuid.New(), "Why is my lager cloudy?")
	target := VoteInput{TargetType: enums.VoteTargetQuestion, TargetID: question.ID, Type: enums.VoteTypeUpvote}

	// none -> upvote
	result, err := svc.ToggleVote(ctx, voter, target)
	require.NoError(t, err)
	assert.Equal(t, VoteOutcomeCreated, result.Outcome)
	assert.Equal(t, int64(1), result.Counts.Upvotes)
	assert.Equal(t, int64(1), result.Counts.Score)

	// upvote -> downvote flips
	target.Type = enums.VoteTypeDownvote
	result, err = svc.ToggleVote(ctx, voter, target)
	require.NoError(t, err)
	assert.Equal(t, VoteOutcomeChanged, result.Outcome)
	assert.Equal(t, int64(0), result.Counts.Upvotes)
	assert.Equal(t, int64(1), result.Counts.Downvotes)
	assert.Equal(t, int64(-1), result.Counts.Score)

	// downvote -> downvote removes
	result, err = svc.ToggleVote(ctx, voter, target)
	require.NoError(t, err)
	assert.Equal(t, VoteOutcomeRemoved, result.Outcome)
	assert.Equal(t, int64(0), result.Counts.Upvotes)
	assert.Equal(t, int64(0), result.Counts.Downvotes)
	assert.Equal(t, int64(0), result.Counts.Score)

	// removed -> upvote creates again
	target.Type = enums.VoteTypeUpvote
	result, err = svc.ToggleVote(ctx, voter, target)
	require.NoError(t, err)
	assert.Equal(t, VoteOutcomeCreated, result.Outcome)
	assert.Equal(t, int64(1), result.Counts.Score)
}

func TestToggleVoteScoreAcrossVoters(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	question := seedQuestion(t, svc, uuid.New(), "Dry hop timing?")
	up := VoteInput{TargetType: enums.VoteTargetQuestion, TargetID: question.ID, Type: enums.VoteTypeUpvote}
	down := VoteInput{TargetType: enums.VoteTargetQuestion, TargetID: question.ID, Type: enums.VoteTypeDownvote}

	for i := 0; i < 3; i++ {
		_, err := svc.ToggleVote(ctx, uuid.New(), up)
		require.NoError(t, err)
	}
	result, err := svc.ToggleVote(ctx, uuid.New(), down)
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Counts.Upvotes)
	assert.Equal(t, int64(1), result.Counts.Downvotes)
	assert.Equal(t, int64(2), result.Counts.Score)
}

func TestToggleVoteOnAnswer(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	question := seedQuestion(t, svc, uuid.New(), "Which yeast for a saison?")
	answer, err := svc.CreateAnswer(ctx, uuid.New(), question.ID, CreateAnswerInput{Body: "Use a Belgian strain."})
	require.NoError(t, err)

	result, err := svc.ToggleVote(ctx, uuid.New(), VoteInput{
		TargetType: enums.VoteTargetAnswer,
		TargetID:   answer.ID,
		Type:       enums.VoteTypeUpvote,
	})
	require.NoError(t, err)
	assert.Equal(t, VoteOutcomeCreated, result.Outcome)
	assert.Equal(t, int64(1), result.Counts.Upvotes)

	// the question's own tally is untouched
	detail, err := svc.GetQuestion(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.Question.Votes.Upvotes)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, int64(1), detail.Answers[0].Votes.Upvotes)
}

func TestToggleVoteUnknownTarget(t *testing.T) {
	svc, _ := newCommunityService(t)

	_, err := svc.ToggleVote(context.Background(), uuid.New(), VoteInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   uuid.New(),
		Type:       enums.VoteTypeUpvote,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestToggleVoteValidation(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	cases := []VoteInput{
		{TargetType: "thread", TargetID: uuid.New(), Type: enums.VoteTypeUpvote},
		{TargetType: enums.VoteTargetQuestion, TargetID: uuid.New(), Type: "SIDEWAYS"},
		{TargetType: enums.VoteTargetQuestion, Type: enums.VoteTypeUpvote},
	}
	for _, input := range cases {
		_, err := svc.ToggleVote(ctx, uuid.New(), input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %+v", input)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestVerifyAnswer(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	author := uuid.New()
	question := seedQuestion(t, svc, author, "How long to cold crash?")
	first, err := svc.CreateAnswer(ctx, uuid.New(), question.ID, CreateAnswerInput{Body: "48 hours."})
	require.NoError(t, err)
	second, err := svc.CreateAnswer(ctx, uuid.New(), question.ID, CreateAnswerInput{Body: "A week."})
	require.NoError(t, err)

	// only the question author may verify
	_, err = svc.VerifyAnswer(ctx, uuid.New(), first.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	verified, err := svc.VerifyAnswer(ctx, author, first.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	// verifying another answer moves the flag
	verified, err = svc.VerifyAnswer(ctx, author, second.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	detail, err := svc.GetQuestion(ctx, question.ID)
	require.NoError(t, err)
	verifiedCount := 0
	for _, answer := range detail.Answers {
		if answer.Verified {
			verifiedCount++
			assert.Equal(t, second.ID, answer.ID)
		}
	}
	assert.Equal(t, 1, verifiedCount)
}

func TestListQuestionsPaginationAndCounts(t *testing.T) {
	svc, db := newCommunityService(t)
	ctx := context.Background()

	author := uuid.New()
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	var newest *QuestionDTO
	for i := 0; i < 4; i++ {
		question := &models.Question{
			AuthorID:  author,
			Title:     "Paginated question",
			Body:      "body",
			Active:    true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(question).Error)
		if i == 3 {
			dto := questionFromModel(question, VoteCounts{}, 0)
			newest = &dto
		}
	}

	_, err := svc.CreateAnswer(ctx, uuid.New(), newest.ID, CreateAnswerInput{Body: "An answer."})
	require.NoError(t, err)
	_, err = svc.ToggleVote(ctx, uuid.New(), VoteInput{TargetType: enums.VoteTargetQuestion, TargetID: newest.ID, Type: enums.VoteTypeUpvote})
	require.NoError(t, err)

	first, err := svc.ListQuestions(ctx, pagination.Params{Limit: 3}, QuestionFilters{AuthorID: &author})
	require.NoError(t, err)
	require.Len(t, first.Questions, 3)
	require.NotEmpty(t, first.NextCursor)

	assert.Equal(t, newest.ID, first.Questions[0].ID)
	assert.Equal(t, int64(1), first.Questions[0].AnswerCount)
	assert.Equal(t, int64(1), first.Questions[0].Votes.Upvotes)

	rest, err := svc.ListQuestions(ctx, pagination.Params{Limit: 3, Cursor: first.NextCursor}, QuestionFilters{AuthorID: &author})
	require.NoError(t, err)
	assert.Len(t, rest.Questions, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestFileReportAndDuplicateGuard(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	reporter := uuid.New()
	question := seedQuestion(t, svc, uuid.New(), "Is this spam?")
	input := FileReportInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   question.ID,
		Reason:     "spam",
	}

	report, err := svc.FileReport(ctx, reporter, input)
	require.NoError(t, err)
	assert.Equal(t, enums.ReportStatusPending, report.Status)
	assert.Equal(t, enums.VoteTargetQuestion, report.TargetType)
	assert.Equal(t, question.ID, report.TargetID)
	assert.Nil(t, report.ResolvedAt)

	// the same reporter cannot report the same target twice
	_, err = svc.FileReport(ctx, reporter, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// a different reporter still can
	_, err = svc.FileReport(ctx, uuid.New(), input)
	require.NoError(t, err)

	// reporting a missing target fails
	_, err = svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetAnswer,
		TargetID:   uuid.New(),
		Reason:     "spam",
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestFileReportValidation(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	question := seedQuestion(t, svc, uuid.New(), "Borderline post")
	cases := []FileReportInput{
		{TargetType: "thread", TargetID: question.ID, Reason: "spam"},
		{TargetType: enums.VoteTargetQuestion, Reason: "spam"},
		{TargetType: enums.VoteTargetQuestion, TargetID: question.ID, Reason: "  "},
		{TargetType: enums.VoteTargetQuestion, TargetID: question.ID, Reason: "spam", Description: strings.Repeat("x", 1001)},
	}
	for _, input := range cases {
		_, err := svc.FileReport(ctx, uuid.New(), input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %+v", input)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestResolveReportApprovedHidesQuestion(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	author := uuid.New()
	question := seedQuestion(t, svc, author, "Offensive question")
	report, err := svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   question.ID,
		Reason:     "abuse",
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveReport(ctx, report.ID, enums.ReportStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, enums.ReportStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// the question is gone from the public surfaces
	_, err = svc.GetQuestion(ctx, question.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	list, err := svc.ListQuestions(ctx, pagination.Params{Limit: 10}, QuestionFilters{AuthorID: &author})
	require.NoError(t, err)
	assert.Empty(t, list.Questions)

	// and votes on it read as not found
	_, err = svc.ToggleVote(ctx, uuid.New(), VoteInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   question.ID,
		Type:       enums.VoteTypeUpvote,
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// a resolved report stays resolved
	_, err = svc.ResolveReport(ctx, report.ID, enums.ReportStatusRejected)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestResolveReportOnAnswer(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	question := seedQuestion(t, svc, uuid.New(), "Mash temperature?")
	flagged, err := svc.CreateAnswer(ctx, uuid.New(), question.ID, CreateAnswerInput{Body: "Buy my pills."})
	require.NoError(t, err)
	kept, err := svc.CreateAnswer(ctx, uuid.New(), question.ID, CreateAnswerInput{Body: "67 degrees celsius."})
	require.NoError(t, err)

	rejectedReport, err := svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetAnswer,
		TargetID:   kept.ID,
		Reason:     "disagree",
	})
	require.NoError(t, err)
	_, err = svc.ResolveReport(ctx, rejectedReport.ID, enums.ReportStatusRejected)
	require.NoError(t, err)

	approvedReport, err := svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetAnswer,
		TargetID:   flagged.ID,
		Reason:     "spam",
	})
	require.NoError(t, err)
	_, err = svc.ResolveReport(ctx, approvedReport.ID, enums.ReportStatusApproved)
	require.NoError(t, err)

	// only the rejected report's answer survives in the thread
	detail, err := svc.GetQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, kept.ID, detail.Answers[0].ID)
}

func TestResolveReportValidation(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	_, err := svc.ResolveReport(ctx, uuid.New(), enums.ReportStatusPending)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.ResolveReport(ctx, uuid.New(), enums.ReportStatusApproved)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListPendingReports(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	question := seedQuestion(t, svc, uuid.New(), "Queue me")
	open, err := svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   question.ID,
		Reason:     "spam",
	})
	require.NoError(t, err)
	closed, err := svc.FileReport(ctx, uuid.New(), FileReportInput{
		TargetType: enums.VoteTargetQuestion,
		TargetID:   question.ID,
		Reason:     "abuse",
	})
	require.NoError(t, err)
	_, err = svc.ResolveReport(ctx, closed.ID, enums.ReportStatusRejected)
	require.NoError(t, err)

	pending, err := svc.ListPendingReports(ctx)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(pending))
	for _, report := range pending {
		assert.Equal(t, enums.ReportStatusPending, report.Status)
		ids[report.ID] = true
	}
	assert.True(t, ids[open.ID])
	assert.False(t, ids[closed.ID])
}

func TestCreateQuestionValidation(t *testing.T) {
	svc, _ := newCommunityService(t)
	ctx := context.Background()

	_, err := svc.CreateQuestion(ctx, uuid.New(), CreateQuestionInput{Title: " ", Body: "body"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateAnswer(ctx, uuid.New(), uuid.New(), CreateAnswerInput{Body: "orphan"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
