package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
	"github.com/shikshya/shikshya-backend/internal/validator"
)

// BackofficeHandler exposes super-admin account management endpoints.
type BackofficeHandler struct {
	studentSvc *service.StudentService
	teacherSvc *service.TeacherService
	authSvc    *service.AuthService
	logger     zerolog.Logger
}

// NewBackofficeHandler creates a new BackofficeHandler.
func NewBackofficeHandler(studentSvc *service.StudentService, teacherSvc *service.TeacherService, authSvc *service.AuthService, logger zerolog.Logger) *BackofficeHandler {
	return &BackofficeHandler{
		studentSvc: studentSvc,
		teacherSvc: teacherSvc,
		authSvc:    authSvc,
		logger:     logger.With().Str("handler", "backoffice").Logger(),
	}
}

// ListStudents handles GET /api/v1/admin/students.
func (h *BackofficeHandler) ListStudents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	search := c.Query("search")

	students, total, err := h.studentSvc.List(c.Request.Context(), page, perPage, search)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, students, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetStudent handles GET /api/v1/admin/students/:studentId.
func (h *BackofficeHandler) GetStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	student, err := h.studentSvc.GetProfile(c.Request.Context(), id)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// UpdateStudent handles PUT /api/v1/admin/students/:studentId.
func (h *BackofficeHandler) UpdateStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/v1/admin/students/:studentId.
func (h *BackofficeHandler) DeleteStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.studentSvc.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ResetStudentSession handles DELETE /api/v1/admin/students/:studentId/session.
// Unpins the student's device session so they can log in from a new device.
func (h *BackofficeHandler) ResetStudentSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if _, err := h.studentSvc.GetProfile(c.Request.Context(), id); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	if err := h.authSvc.ResetStudentSession(c.Request.Context(), id); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

// CreateTeacher handles POST /api/v1/admin/teachers.
func (h *BackofficeHandler) CreateTeacher(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherSvc.Create(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, teacher)
}

// ListTeachers handles GET /api/v1/admin/teachers.
func (h *BackofficeHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teacherSvc.List(c.Request.Context())
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, teachers)
}

// GetTeacher handles GET /api/v1/admin/teachers/:teacherId.
func (h *BackofficeHandler) GetTeacher(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("teacherId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	teacher, err := h.teacherSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// UpdateTeacher handles PUT /api/v1/admin/teachers/:teacherId.
func (h *BackofficeHandler) UpdateTeacher(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("teacherId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	teacher, err := h.teacherSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, teacher)
}

// DeleteTeacher handles DELETE /api/v1/admin/teachers/:teacherId.
func (h *BackofficeHandler) DeleteTeacher(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("teacherId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.teacherSvc.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
