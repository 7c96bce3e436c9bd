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

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	authSvc    *service.AuthService
	studentSvc *service.StudentService
	logger     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, studentSvc *service.StudentService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		studentSvc: studentSvc,
		logger:     logger.With().Str("handler", "auth").Logger(),
	}
}

// RegisterStudent handles POST /api/v1/auth/student/register.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	student, err := h.studentSvc.Register(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, student)
}

// LoginStudent handles POST /api/v1/auth/student/login.
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	resp, err := h.authSvc.LoginStudent(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// LoginTeacher handles POST /api/v1/auth/teacher/login.
func (h *AuthHandler) LoginTeacher(c *gin.Context) {
	var req model.TeacherLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	resp, err := h.authSvc.LoginTeacher(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// LoginAdmin handles POST /api/v1/auth/admin/login.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	resp, err := h.authSvc.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// LogoutStudent handles POST /api/v1/student/logout, releasing the pinned
// single-device session.
func (h *AuthHandler) LogoutStudent(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.authSvc.LogoutStudent(c.Request.Context(), claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me handles GET /api/v1/student/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	student, err := h.studentSvc.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}
