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

// QuizHandler exposes teacher-facing quiz authoring and results endpoints.
type QuizHandler struct {
	quizSvc *service.QuizService
	logger  zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizSvc *service.QuizService, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizSvc: quizSvc,
		logger:  logger.With().Str("handler", "quiz").Logger(),
	}
}

// Create handles POST /api/v1/teacher/quizzes. A draft failing
// completeness validation comes back as a 422 whose message names the
// first unmet condition; the client keeps the draft for correction.
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	quiz, err := h.quizSvc.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		var ve *dpp.ValidationError
		if errors.As(err, &ve) {
			response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrQuizInvalid, ve.Message)
			return
		}
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, quiz)
}

// Get handles GET /api/v1/teacher/quizzes/:quizId, returning the full
// quiz including correct options.
func (h *QuizHandler) Get(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	quiz, err := h.quizSvc.GetForTeacher(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, quiz)
}

// Delete handles DELETE /api/v1/teacher/quizzes/:quizId.
func (h *QuizHandler) Delete(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.quizSvc.Delete(c.Request.Context(), quizID, claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// List handles GET /api/v1/teacher/batches/:batchId/quizzes.
func (h *QuizHandler) List(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	quizzes, err := h.quizSvc.ListForTeacher(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, quizzes)
}

// Results handles GET /api/v1/teacher/quizzes/:quizId/results.
func (h *QuizHandler) Results(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	results, err := h.quizSvc.Results(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}
