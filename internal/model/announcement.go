package model

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a message posted to every student enrolled in a batch.
type Announcement struct {
	ID        uuid.UUID `json:"id"`
	BatchID   uuid.UUID `json:"batch_id"`
	AuthorID  int       `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is the per-student copy of an announcement, produced by the
// fan-out worker.
type Notification struct {
	ID             int64     `json:"id"`
	StudentID      int       `json:"student_id"`
	AnnouncementID uuid.UUID `json:"announcement_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationFanoutJob is the queue payload handed from announcement
// creation to the fan-out worker.
type NotificationFanoutJob struct {
	AnnouncementID uuid.UUID `json:"announcement_id"`
	BatchID        uuid.UUID `json:"batch_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
}

// CreateAnnouncementRequest is the payload for posting an announcement.
type CreateAnnouncementRequest struct {
	Title string `json:"title" binding:"required,min=3,max=255"`
	Body  string `json:"body" binding:"required,min=1,max=5000"`
}
