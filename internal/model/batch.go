package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch represents a course/cohort that students enroll into.
type Batch struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	TeacherID   *int       `json:"teacher_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Enrollment links a student to a batch. At most one per (batch, student).
type Enrollment struct {
	BatchID    uuid.UUID `json:"batch_id"`
	StudentID  int       `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// CreateBatchRequest is the back-office payload for creating a batch.
type CreateBatchRequest struct {
	Name        string     `json:"name" binding:"required,min=3,max=255"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Subject     string     `json:"subject" binding:"omitempty,max=100"`
	TeacherID   *int       `json:"teacher_id" binding:"omitempty"`
	StartDate   *time.Time `json:"start_date" binding:"omitempty"`
}

// UpdateBatchRequest is the back-office payload for updating a batch.
type UpdateBatchRequest struct {
	Name        string     `json:"name" binding:"required,min=3,max=255"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Subject     string     `json:"subject" binding:"omitempty,max=100"`
	TeacherID   *int       `json:"teacher_id" binding:"omitempty"`
	StartDate   *time.Time `json:"start_date" binding:"omitempty"`
	Active      *bool      `json:"active" binding:"omitempty"`
}
