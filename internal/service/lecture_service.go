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

// LectureService handles recorded-lecture management.
type LectureService struct {
	lectureRepo *repository.LectureRepository
	batchSvc    *BatchService
	logger      zerolog.Logger
}

// NewLectureService creates a new LectureService.
func NewLectureService(lectureRepo *repository.LectureRepository, batchSvc *BatchService, logger zerolog.Logger) *LectureService {
	return &LectureService{
		lectureRepo: lectureRepo,
		batchSvc:    batchSvc,
		logger:      logger.With().Str("service", "lecture").Logger(),
	}
}

// Create adds a lecture to a batch on behalf of its assigned teacher.
func (s *LectureService) Create(ctx context.Context, batchID uuid.UUID, teacherID int, req *model.CreateLectureRequest) (*model.Lecture, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}

	lecture := &model.Lecture{
		BatchID:     batchID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		OrderNum:    req.OrderNum,
	}
	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}
	s.logger.Info().Str("lecture_id", lecture.ID.String()).Msg("lecture created")
	return lecture, nil
}

// Update modifies a lecture on behalf of the batch's assigned teacher.
func (s *LectureService) Update(ctx context.Context, id uuid.UUID, teacherID int, req *model.UpdateLectureRequest) (*model.Lecture, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.batchSvc.RequireTeacherAccess(ctx, lecture.BatchID, teacherID); err != nil {
		return nil, err
	}

	lecture.Title = req.Title
	lecture.Description = req.Description
	lecture.VideoURL = req.VideoURL
	lecture.OrderNum = req.OrderNum
	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, fmt.Errorf("update lecture: %w", err)
	}
	return s.lectureRepo.GetByID(ctx, id)
}

// Delete removes a lecture on behalf of the batch's assigned teacher.
func (s *LectureService) Delete(ctx context.Context, id uuid.UUID, teacherID int) error {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.batchSvc.RequireTeacherAccess(ctx, lecture.BatchID, teacherID); err != nil {
		return err
	}
	return s.lectureRepo.Delete(ctx, id)
}

// ListForStudent retrieves a batch's lectures for an enrolled student.
func (s *LectureService) ListForStudent(ctx context.Context, batchID uuid.UUID, studentID int) ([]model.Lecture, error) {
	if err := s.batchSvc.RequireEnrollment(ctx, batchID, studentID); err != nil {
		return nil, err
	}
	return s.lectureRepo.ListByBatch(ctx, batchID)
}

// ListForTeacher retrieves a batch's lectures for its assigned teacher.
func (s *LectureService) ListForTeacher(ctx context.Context, batchID uuid.UUID, teacherID int) ([]model.Lecture, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}
	return s.lectureRepo.ListByBatch(ctx, batchID)
}

func (s *LectureService) get(ctx context.Context, id uuid.UUID) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lecture, nil
}
