package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// AnnouncementRepository handles announcement data access.
type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

// GetByID retrieves an announcement by id.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	a := &model.Announcement{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, batch_id, author_id, title, body, created_at
		 FROM announcements WHERE id = $1`, id,
	).Scan(&a.ID, &a.BatchID, &a.AuthorID, &a.Title, &a.Body, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO announcements (batch_id, author_id, title, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.BatchID, a.AuthorID, a.Title, a.Body,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListByBatch retrieves the announcements of a batch, newest first.
func (r *AnnouncementRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.Announcement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, batch_id, author_id, title, body, created_at
		 FROM announcements WHERE batch_id = $1
		 ORDER BY created_at DESC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.BatchID, &a.AuthorID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}
