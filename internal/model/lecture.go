package model

import (
	"time"

	"github.com/google/uuid"
)

// Lecture represents a recorded class video inside a batch.
type Lecture struct {
	ID          uuid.UUID `json:"id"`
	BatchID     uuid.UUID `json:"batch_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	VideoURL    string    `json:"video_url"`
	OrderNum    int       `json:"order_num"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateLectureRequest is the payload for adding a lecture to a batch.
type CreateLectureRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	VideoURL    string `json:"video_url" binding:"required,url,max=1000"`
	OrderNum    int    `json:"order_num" binding:"min=0"`
}

// UpdateLectureRequest is the payload for updating a lecture.
type UpdateLectureRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	VideoURL    string `json:"video_url" binding:"required,url,max=1000"`
	OrderNum    int    `json:"order_num" binding:"min=0"`
}
