package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/middleware"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/validator"
)

// BatchHandler exposes batch management and enrollment endpoints.
type BatchHandler struct {
	batchSvc *service.BatchService
	logger   zerolog.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchSvc *service.BatchService, logger zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		batchSvc: batchSvc,
		logger:   logger.With().Str("handler", "batch").Logger(),
	}
}

// Create handles POST /api/v1/admin/batches.
func (h *BatchHandler) Create(c *gin.Context) {
	var req model.CreateBatchRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	batch, err := h.batchSvc.Create(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, batch)
}

// Get handles GET /api/v1/admin/batches/:batchId.
func (h *BatchHandler) Get(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}

	batch, err := h.batchSvc.Get(c.Request.Context(), batchID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batch)
}

// Update handles PUT /api/v1/admin/batches/:batchId.
func (h *BatchHandler) Update(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	var req model.UpdateBatchRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	batch, err := h.batchSvc.Update(c.Request.Context(), batchID, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batch)
}

// Delete handles DELETE /api/v1/admin/batches/:batchId.
func (h *BatchHandler) Delete(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	if err := h.batchSvc.Delete(c.Request.Context(), batchID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// List handles GET /api/v1/admin/batches.
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.batchSvc.List(c.Request.Context())
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// ListMineTeacher handles GET /api/v1/teacher/batches.
func (h *BatchHandler) ListMineTeacher(c *gin.Context) {
	claims := middleware.GetClaims(c)
	batches, err := h.batchSvc.ListForTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// ListMineStudent handles GET /api/v1/student/batches.
func (h *BatchHandler) ListMineStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	batches, err := h.batchSvc.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// ListAvailable handles GET /api/v1/student/batches/available.
func (h *BatchHandler) ListAvailable(c *gin.Context) {
	batches, err := h.batchSvc.ListAvailable(c.Request.Context())
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, batches)
}

// SelfEnroll handles POST /api/v1/student/batches/:batchId/enroll.
func (h *BatchHandler) SelfEnroll(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	created, err := h.batchSvc.SelfEnroll(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"enrolled": true, "created": created})
}

// Enroll handles POST /api/v1/admin/batches/:batchId/students/:studentId.
func (h *BatchHandler) Enroll(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	created, err := h.batchSvc.Enroll(c.Request.Context(), batchID, studentID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"enrolled": true, "created": created})
}

// Unenroll handles DELETE /api/v1/admin/batches/:batchId/students/:studentId.
func (h *BatchHandler) Unenroll(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.batchSvc.Unenroll(c.Request.Context(), batchID, studentID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unenrolled": true})
}

// Roster handles GET /api/v1/admin/batches/:batchId/students.
func (h *BatchHandler) Roster(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	students, err := h.batchSvc.ListEnrolledStudents(c.Request.Context(), batchID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}
