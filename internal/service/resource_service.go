package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// Upload validation errors.
var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
)

// allowedMimeTypes lists the study-material content types a teacher may
// upload, with the extension used for the stored file.
var allowedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/zip": ".zip",
	"text/plain":      ".txt",
}

// ResourceService handles study-material uploads. Files land under the
// configured upload directory with generated names; the database keeps the
// metadata.
type ResourceService struct {
	resourceRepo *repository.ResourceRepository
	batchSvc     *BatchService
	cfg          *config.Config
	logger       zerolog.Logger
}

// NewResourceService creates a new ResourceService.
func NewResourceService(resourceRepo *repository.ResourceRepository, batchSvc *BatchService, cfg *config.Config, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		batchSvc:     batchSvc,
		cfg:          cfg,
		logger:       logger.With().Str("service", "resource").Logger(),
	}
}

// Upload stores a study-material file and its metadata for a batch.
func (s *ResourceService) Upload(ctx context.Context, batchID uuid.UUID, teacherID int, title string, file *multipart.FileHeader) (*model.Resource, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}
	if file.Size > s.cfg.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	mimeType := file.Header.Get("Content-Type")
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedFile
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(s.cfg.UploadDir, name)
	if err := s.saveFile(file, dstPath); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	resource := &model.Resource{
		BatchID:    batchID,
		Title:      title,
		FilePath:   name,
		MimeType:   mimeType,
		SizeBytes:  file.Size,
		UploaderID: teacherID,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		os.Remove(dstPath)
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.logger.Info().
		Str("resource_id", resource.ID.String()).
		Str("mime_type", mimeType).
		Int64("size_bytes", file.Size).
		Msg("resource uploaded")
	return resource, nil
}

// Delete removes a resource record and its file.
func (s *ResourceService) Delete(ctx context.Context, id uuid.UUID, teacherID int) error {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.batchSvc.RequireTeacherAccess(ctx, resource.BatchID, teacherID); err != nil {
		return err
	}

	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if err := os.Remove(filepath.Join(s.cfg.UploadDir, resource.FilePath)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("resource_id", id.String()).Msg("failed to remove resource file")
	}
	return nil
}

// ListForStudent retrieves a batch's resources for an enrolled student.
func (s *ResourceService) ListForStudent(ctx context.Context, batchID uuid.UUID, studentID int) ([]model.Resource, error) {
	if err := s.batchSvc.RequireEnrollment(ctx, batchID, studentID); err != nil {
		return nil, err
	}
	return s.resourceRepo.ListByBatch(ctx, batchID)
}

// ListForTeacher retrieves a batch's resources for its assigned teacher.
func (s *ResourceService) ListForTeacher(ctx context.Context, batchID uuid.UUID, teacherID int) ([]model.Resource, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}
	return s.resourceRepo.ListByBatch(ctx, batchID)
}

func (s *ResourceService) saveFile(file *multipart.FileHeader, dstPath string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
