package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// NotificationService exposes a student's notification inbox.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo *repository.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger.With().Str("service", "notification").Logger(),
	}
}

// List retrieves a student's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, studentID, page, perPage int) ([]model.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.notificationRepo.ListByStudent(ctx, studentID, perPage, (page-1)*perPage)
}

// CountUnread returns the number of unread notifications for a student.
func (s *NotificationService) CountUnread(ctx context.Context, studentID int) (int, error) {
	return s.notificationRepo.CountUnread(ctx, studentID)
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64, studentID int) error {
	updated, err := s.notificationRepo.MarkRead(ctx, id, studentID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every notification of a student as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID int) error {
	return s.notificationRepo.MarkAllRead(ctx, studentID)
}
