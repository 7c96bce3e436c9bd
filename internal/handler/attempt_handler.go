package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/dpp"
	"github.com/shikshya/shikshya-backend/internal/middleware"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/validator"
)

// AttemptHandler exposes the student-facing quiz attempt endpoints:
// resolve, autosave, submit, review and history.
type AttemptHandler struct {
	attemptSvc *service.AttemptService
	quizSvc    *service.QuizService
	logger     zerolog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptSvc *service.AttemptService, quizSvc *service.QuizService, logger zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		attemptSvc: attemptSvc,
		quizSvc:    quizSvc,
		logger:     logger.With().Str("handler", "attempt").Logger(),
	}
}

// ListQuizzes handles GET /api/v1/student/batches/:batchId/quizzes.
func (h *AttemptHandler) ListQuizzes(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	quizzes, err := h.quizSvc.ListForStudent(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, quizzes)
}

// Resolve handles GET /api/v1/student/dpp/:quizId. An existing submission
// comes back as a redirect state carrying the result; otherwise the
// sanitized quiz payload and any autosaved answers are returned.
func (h *AttemptHandler) Resolve(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	state, err := h.attemptSvc.Resolve(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// Autosave handles PUT /api/v1/student/dpp/:quizId/answers, buffering
// in-progress answers without touching the submission ledger.
func (h *AttemptHandler) Autosave(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	var req struct {
		Answers model.AnswerMap `json:"answers" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.attemptSvc.Autosave(c.Request.Context(), quizID, claims.UserID, req.Answers); err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// Submit handles POST /api/v1/student/dpp/:quizId/submit. When unanswered
// questions remain and acknowledge_partial is false the submit is refused
// with the missing indices so the client can confirm; nothing is written.
func (h *AttemptHandler) Submit(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	outcome, unanswered, err := h.attemptSvc.Submit(c.Request.Context(), quizID, claims.UserID, &req)
	if err != nil {
		if errors.Is(err, dpp.ErrPartialSubmission) {
			response.FailWithData(c, http.StatusConflict, response.ErrPartialSubmission,
				gin.H{"unanswered": unanswered})
			return
		}
		h.failAttempt(c, err)
		return
	}

	status := http.StatusCreated
	if outcome.AlreadySubmitted {
		status = http.StatusOK
	}
	response.Success(c, status, outcome)
}

// Review handles GET /api/v1/student/dpp/:quizId/review, replaying the
// per-question result for the student's submission.
func (h *AttemptHandler) Review(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	review, sub, err := h.attemptSvc.Review(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": sub, "review": review})
}

// History handles GET /api/v1/student/submissions.
func (h *AttemptHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	submissions, err := h.attemptSvc.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, submissions)
}

// failAttempt maps attempt-specific errors before falling back to the
// shared service mapping.
func (h *AttemptHandler) failAttempt(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dpp.ErrQuizMalformed):
		h.logger.Error().Err(err).Msg("stored quiz failed shape validation")
		response.Fail(c, http.StatusInternalServerError, response.ErrQuizUnreadable)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	default:
		failFromService(c, h.logger, err)
	}
}
