package controllers

import (
	"net/http"

	"github.com/pkock/brewhub-backend/api/responses"
	"github.com/pkock/brewhub-backend/api/validators"
	"github.com/pkock/brewhub-backend/internal/community"
	"github.com/pkock/brewhub-backend/pkg/enums"
	pkgerrors "github.com/pkock/brewhub-backend/pkg/errors"
	"github.com/pkock/brewhub-backend/pkg/logger"
)

// QuestionCreate posts a new brewing question.
func QuestionCreate(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body community.CreateQuestionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateQuestion(r.Context(), authorID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// QuestionGet returns a question with its answers and vote tallies.
func QuestionGet(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, err := validators.ParsePathUUID(r, "questionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetQuestion(r.Context(), questionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// QuestionList returns the paginated question feed.
func QuestionList(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := community.QuestionFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen),
		}
		if ingredientID, err := validators.ParseQueryUUID(r, "ingredient_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else {
			filters.IngredientID = ingredientID
		}
		if authorID, err := validators.ParseQueryUUID(r, "author_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else {
			filters.AuthorID = authorID
		}

		list, err := svc.ListQuestions(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AnswerCreate posts an answer under a question.
func AnswerCreate(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		questionID, err := validators.ParsePathUUID(r, "questionID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body community.CreateAnswerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateAnswer(r.Context(), authorID, questionID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AnswerVerify marks an answer as accepted by the question author.
func AnswerVerify(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		answerID, err := validators.ParsePathUUID(r, "answerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.VerifyAnswer(r.Context(), actor, answerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ReportCreate flags a question or an answer for moderator review.
func ReportCreate(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reporterID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body community.FileReportInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.FileReport(r.Context(), reporterID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ReportListPending returns the open moderation queue.
func ReportListPending(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reports, err := svc.ListPendingReports(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reports)
	}
}

type resolveReportRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReportResolve closes a report. Approving it hides the reported content.
func ReportResolve(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reportID, err := validators.ParsePathUUID(r, "reportID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body resolveReportRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := enums.ParseReportStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid report status").WithDetails(map[string]any{"field": "status"}))
			return
		}

		dto, err := svc.ResolveReport(r.Context(), reportID, decision)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// VoteToggle applies the toggle semantics for question and answer votes.
func VoteToggle(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body community.VoteInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ToggleVote(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
