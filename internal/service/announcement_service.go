package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// AnnouncementService posts batch announcements and queues their fan-out
// into per-student notifications. Delivery is asynchronous: the HTTP
// request only records the announcement and enqueues a job; the worker
// materializes notification rows and publishes live updates.
type AnnouncementService struct {
	announcementRepo *repository.AnnouncementRepository
	batchSvc         *BatchService
	redis            *redis.Client
	logger           zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(
	announcementRepo *repository.AnnouncementRepository,
	batchSvc *BatchService,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		batchSvc:         batchSvc,
		redis:            redisClient,
		logger:           logger.With().Str("service", "announcement").Logger(),
	}
}

// Create posts an announcement to a batch and enqueues its fan-out job. A
// failed enqueue does not roll the announcement back; it is logged for
// manual replay.
func (s *AnnouncementService) Create(ctx context.Context, batchID uuid.UUID, authorID int, req *model.CreateAnnouncementRequest) (*model.Announcement, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, authorID); err != nil {
		return nil, err
	}

	announcement := &model.Announcement{
		BatchID:  batchID,
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}

	job := model.NotificationFanoutJob{
		AnnouncementID: announcement.ID,
		BatchID:        batchID,
		Title:          announcement.Title,
		Body:           announcement.Body,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode fanout job: %w", err)
	}
	if err := s.redis.RPush(ctx, config.WorkerKey.NotificationFanoutQueue, payload).Err(); err != nil {
		s.logger.Error().Err(err).
			Str("announcement_id", announcement.ID.String()).
			Msg("failed to enqueue notification fanout")
	}

	s.logger.Info().Str("announcement_id", announcement.ID.String()).Msg("announcement posted")
	return announcement, nil
}

// ListForStudent retrieves a batch's announcements for an enrolled student.
func (s *AnnouncementService) ListForStudent(ctx context.Context, batchID uuid.UUID, studentID int) ([]model.Announcement, error) {
	if err := s.batchSvc.RequireEnrollment(ctx, batchID, studentID); err != nil {
		return nil, err
	}
	return s.announcementRepo.ListByBatch(ctx, batchID)
}

// ListForTeacher retrieves a batch's announcements for its assigned teacher.
func (s *AnnouncementService) ListForTeacher(ctx context.Context, batchID uuid.UUID, teacherID int) ([]model.Announcement, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}
	return s.announcementRepo.ListByBatch(ctx, batchID)
}
