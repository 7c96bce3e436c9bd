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

// AnnouncementHandler exposes announcement and notification endpoints.
type AnnouncementHandler struct {
	announcementSvc *service.AnnouncementService
	notificationSvc *service.NotificationService
	logger          zerolog.Logger
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(
	announcementSvc *service.AnnouncementService,
	notificationSvc *service.NotificationService,
	logger zerolog.Logger,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementSvc: announcementSvc,
		notificationSvc: notificationSvc,
		logger:          logger.With().Str("handler", "announcement").Logger(),
	}
}

// Create handles POST /api/v1/teacher/batches/:batchId/announcements.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	var req model.CreateAnnouncementRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	announcement, err := h.announcementSvc.Create(c.Request.Context(), batchID, claims.UserID, &req)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusCreated, announcement)
}

// ListTeacher handles GET /api/v1/teacher/batches/:batchId/announcements.
func (h *AnnouncementHandler) ListTeacher(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	announcements, err := h.announcementSvc.ListForTeacher(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, announcements)
}

// ListStudent handles GET /api/v1/student/batches/:batchId/announcements.
func (h *AnnouncementHandler) ListStudent(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	announcements, err := h.announcementSvc.ListForStudent(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, announcements)
}

// ListNotifications handles GET /api/v1/student/notifications.
func (h *AnnouncementHandler) ListNotifications(c *gin.Context) {
	claims := middleware.GetClaims(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	notifications, total, err := h.notificationSvc.List(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, notifications, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// UnreadCount handles GET /api/v1/student/notifications/unread.
func (h *AnnouncementHandler) UnreadCount(c *gin.Context) {
	claims := middleware.GetClaims(c)
	count, err := h.notificationSvc.CountUnread(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead handles POST /api/v1/student/notifications/:notificationId/read.
func (h *AnnouncementHandler) MarkNotificationRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := strconv.ParseInt(c.Param("notificationId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), id, claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllNotificationsRead handles POST /api/v1/student/notifications/read-all.
func (h *AnnouncementHandler) MarkAllNotificationsRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if err := h.notificationSvc.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}
