package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// BatchService handles batches and enrollment.
type BatchService struct {
	batchRepo   *repository.BatchRepository
	studentRepo *repository.StudentRepository
	logger      zerolog.Logger
}

// NewBatchService creates a new BatchService.
func NewBatchService(batchRepo *repository.BatchRepository, studentRepo *repository.StudentRepository, logger zerolog.Logger) *BatchService {
	return &BatchService{
		batchRepo:   batchRepo,
		studentRepo: studentRepo,
		logger:      logger.With().Str("service", "batch").Logger(),
	}
}

// Create adds a new batch.
func (s *BatchService) Create(ctx context.Context, req *model.CreateBatchRequest) (*model.Batch, error) {
	batch := &model.Batch{
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		TeacherID:   req.TeacherID,
		StartDate:   req.StartDate,
		Active:      true,
	}
	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	s.logger.Info().Str("batch_id", batch.ID.String()).Msg("batch created")
	return batch, nil
}

// Get retrieves a batch by id.
func (s *BatchService) Get(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return batch, nil
}

// Update modifies an existing batch.
func (s *BatchService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBatchRequest) (*model.Batch, error) {
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	batch.Name = req.Name
	batch.Description = req.Description
	batch.Subject = req.Subject
	batch.TeacherID = req.TeacherID
	batch.StartDate = req.StartDate
	if req.Active != nil {
		batch.Active = *req.Active
	}

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, fmt.Errorf("update batch: %w", err)
	}
	return s.batchRepo.GetByID(ctx, id)
}

// Delete removes a batch along with its enrollments, lectures, resources,
// announcements and quizzes.
func (s *BatchService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.batchRepo.Delete(ctx, id)
}

// List retrieves all batches.
func (s *BatchService) List(ctx context.Context) ([]model.Batch, error) {
	return s.batchRepo.List(ctx)
}

// ListAvailable retrieves the active batches students can enroll in.
func (s *BatchService) ListAvailable(ctx context.Context) ([]model.Batch, error) {
	return s.batchRepo.ListActive(ctx)
}

// ListForTeacher retrieves the batches assigned to a teacher.
func (s *BatchService) ListForTeacher(ctx context.Context, teacherID int) ([]model.Batch, error) {
	return s.batchRepo.ListByTeacher(ctx, teacherID)
}

// ListForStudent retrieves the batches a student is enrolled in.
func (s *BatchService) ListForStudent(ctx context.Context, studentID int) ([]model.Batch, error) {
	return s.batchRepo.ListByStudent(ctx, studentID)
}

// Enroll adds a student to a batch. Enrolling an already-enrolled student
// is reported but not an error.
func (s *BatchService) Enroll(ctx context.Context, batchID uuid.UUID, studentID int) (created bool, err error) {
	if _, err := s.Get(ctx, batchID); err != nil {
		return false, err
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}

	created, err = s.batchRepo.Enroll(ctx, batchID, studentID)
	if err != nil {
		return false, fmt.Errorf("enroll: %w", err)
	}
	if created {
		s.logger.Info().
			Str("batch_id", batchID.String()).
			Int("student_id", studentID).
			Msg("student enrolled")
	}
	return created, nil
}

// SelfEnroll enrolls the calling student into an active batch. Inactive
// batches refuse self-enrollment; admins can still enroll into them via
// Enroll.
func (s *BatchService) SelfEnroll(ctx context.Context, batchID uuid.UUID, studentID int) (created bool, err error) {
	batch, err := s.Get(ctx, batchID)
	if err != nil {
		return false, err
	}
	if !batch.Active {
		return false, ErrForbidden
	}

	created, err = s.batchRepo.Enroll(ctx, batchID, studentID)
	if err != nil {
		return false, fmt.Errorf("self enroll: %w", err)
	}
	if created {
		s.logger.Info().
			Str("batch_id", batchID.String()).
			Int("student_id", studentID).
			Msg("student self-enrolled")
	}
	return created, nil
}

// Unenroll removes a student from a batch.
func (s *BatchService) Unenroll(ctx context.Context, batchID uuid.UUID, studentID int) error {
	return s.batchRepo.Unenroll(ctx, batchID, studentID)
}

// RequireEnrollment returns ErrNotEnrolled unless the student is enrolled
// in the batch. Used as the access gate for all batch-scoped student reads.
func (s *BatchService) RequireEnrollment(ctx context.Context, batchID uuid.UUID, studentID int) error {
	enrolled, err := s.batchRepo.IsEnrolled(ctx, batchID, studentID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

// ListEnrolledStudents retrieves the roster of a batch.
func (s *BatchService) ListEnrolledStudents(ctx context.Context, batchID uuid.UUID) ([]model.Student, error) {
	if _, err := s.Get(ctx, batchID); err != nil {
		return nil, err
	}
	return s.batchRepo.ListEnrolledStudents(ctx, batchID)
}

// RequireTeacherAccess returns ErrForbidden unless the teacher is assigned
// to the batch.
func (s *BatchService) RequireTeacherAccess(ctx context.Context, batchID uuid.UUID, teacherID int) error {
	batch, err := s.Get(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.TeacherID == nil || *batch.TeacherID != teacherID {
		return ErrForbidden
	}
	return nil
}
