package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// ResourceRepository handles study-material metadata access.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// GetByID retrieves a resource by id.
func (r *ResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	res := &model.Resource{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, batch_id, title, file_path, mime_type, size_bytes, uploader_id, created_at
		 FROM resources WHERE id = $1`, id,
	).Scan(&res.ID, &res.BatchID, &res.Title, &res.FilePath, &res.MimeType, &res.SizeBytes, &res.UploaderID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Create inserts a new resource record.
func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO resources (batch_id, title, file_path, mime_type, size_bytes, uploader_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		res.BatchID, res.Title, res.FilePath, res.MimeType, res.SizeBytes, res.UploaderID,
	).Scan(&res.ID, &res.CreatedAt)
}

// Delete removes a resource record. The caller is responsible for removing
// the file from disk.
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	return err
}

// ListByBatch retrieves the resources of a batch, newest first.
func (r *ResourceRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, batch_id, title, file_path, mime_type, size_bytes, uploader_id, created_at
		 FROM resources WHERE batch_id = $1
		 ORDER BY created_at DESC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.BatchID, &res.Title, &res.FilePath, &res.MimeType, &res.SizeBytes, &res.UploaderID, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}
