package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/middleware"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/validator"
)

// LectureHandler exposes lecture endpoints for teachers and students.
type LectureHandler struct {
	lectureSvc *service.LectureService
	logger     zerolog.Logger
}

// NewLectureHandler creates a new LectureHandler.
func NewLectureHandler(lectureSvc *service.LectureService, logger zerolog.Logger) *LectureHandler {
	return &LectureHandler{
		lectureSvc: lectureSvc,
		logger:     logger.With().Str("handler", "lecture").Logger(),
	}
}

// Create handles POST /api/v1/teacher/batches/:batchId/lectures.
func (h *LectureHandler) Create(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	var req model.CreateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	lecture, err := h.lectureSvc.Create(c.Request.Context(), batchID, claims.UserID, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, lecture)
}

// Update handles PUT /api/v1/teacher/lectures/:lectureId.
func (h *LectureHandler) Update(c *gin.Context) {
	lectureID, ok := parseUUIDParam(c, "lectureId")
	if !ok {
		return
	}
	var req model.UpdateLectureRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	lecture, err := h.lectureSvc.Update(c.Request.Context(), lectureID, claims.UserID, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, lecture)
}

// Delete handles DELETE /api/v1/teacher/lectures/:lectureId.
func (h *LectureHandler) Delete(c *gin.Context) {
	lectureID, ok := parseUUIDParam(c, "lectureId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.lectureSvc.Delete(c.Request.Context(), lectureID, claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListTeacher handles GET /api/v1/teacher/batches/:batchId/lectures.
func (h *LectureHandler) ListTeacher(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	lectures, err := h.lectureSvc.ListForTeacher(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, lectures)
}

// ListStudent handles GET /api/v1/student/batches/:batchId/lectures.
func (h *LectureHandler) ListStudent(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	lectures, err := h.lectureSvc.ListForStudent(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, lectures)
}
