package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// LectureRepository handles lecture data access.
type LectureRepository struct {
	pool *pgxpool.Pool
}

// NewLectureRepository creates a new LectureRepository.
func NewLectureRepository(pool *pgxpool.Pool) *LectureRepository {
	return &LectureRepository{pool: pool}
}

// GetByID retrieves a lecture by id.
func (r *LectureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lecture, error) {
	l := &model.Lecture{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, batch_id, title, description, video_url, order_num, created_at, updated_at
		 FROM lectures WHERE id = $1`, id,
	).Scan(&l.ID, &l.BatchID, &l.Title, &l.Description, &l.VideoURL, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a new lecture.
func (r *LectureRepository) Create(ctx context.Context, l *model.Lecture) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lectures (batch_id, title, description, video_url, order_num)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		l.BatchID, l.Title, l.Description, l.VideoURL, l.OrderNum,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// Update modifies an existing lecture.
func (r *LectureRepository) Update(ctx context.Context, l *model.Lecture) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lectures
		 SET title = $1, description = $2, video_url = $3, order_num = $4, updated_at = NOW()
		 WHERE id = $5`,
		l.Title, l.Description, l.VideoURL, l.OrderNum, l.ID)
	return err
}

// Delete removes a lecture.
func (r *LectureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	return err
}

// ListByBatch retrieves the lectures of a batch in their teaching order.
func (r *LectureRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.Lecture, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, batch_id, title, description, video_url, order_num, created_at, updated_at
		 FROM lectures WHERE batch_id = $1
		 ORDER BY order_num ASC, created_at ASC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(&l.ID, &l.BatchID, &l.Title, &l.Description, &l.VideoURL, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lectures = append(lectures, l)
	}
	return lectures, rows.Err()
}
