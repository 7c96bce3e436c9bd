package model

import (
	"time"

	"github.com/google/uuid"
)

// Resource represents a downloadable study material attached to a batch
// (notes, worksheets, solution PDFs). The file itself lives under the
// configured upload directory and is served statically.
type Resource struct {
	ID         uuid.UUID `json:"id"`
	BatchID    uuid.UUID `json:"batch_id"`
	Title      string    `json:"title"`
	FilePath   string    `json:"file_path"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploaderID int       `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
}
