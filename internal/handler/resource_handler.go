package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/middleware"
	"github.com/shikshya/shikshya-backend/internal/response"
	"github.com/shikshya/shikshya-backend/internal/service"
)

// ResourceHandler exposes study-material endpoints.
type ResourceHandler struct {
	resourceSvc *service.ResourceService
	logger      zerolog.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceSvc *service.ResourceService, logger zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceSvc: resourceSvc,
		logger:      logger.With().Str("handler", "resource").Logger(),
	}
}

// Upload handles POST /api/v1/teacher/batches/:batchId/resources as a
// multipart form with a title field and a file part.
func (h *ResourceHandler) Upload(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = file.Filename
	}

	claims := middleware.GetClaims(c)
	resource, err := h.resourceSvc.Upload(c.Request.Context(), batchID, claims.UserID, title, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFile):
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		default:
			failFromService(c, h.logger, err)
		}
		return
	}
	response.Success(c, http.StatusCreated, resource)
}

// Delete handles DELETE /api/v1/teacher/resources/:resourceId.
func (h *ResourceHandler) Delete(c *gin.Context) {
	resourceID, ok := parseUUIDParam(c, "resourceId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.resourceSvc.Delete(c.Request.Context(), resourceID, claims.UserID); err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListTeacher handles GET /api/v1/teacher/batches/:batchId/resources.
func (h *ResourceHandler) ListTeacher(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resources, err := h.resourceSvc.ListForTeacher(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, resources)
}

// ListStudent handles GET /api/v1/student/batches/:batchId/resources.
func (h *ResourceHandler) ListStudent(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "batchId")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resources, err := h.resourceSvc.ListForStudent(c.Request.Context(), batchID, claims.UserID)
	if err != nil {
		failFromService(c, h.logger, err)
		return
	}
	response.Success(c, http.StatusOK, resources)
}
