package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// NotificationRepository handles per-student notification rows produced by
// the announcement fan-out worker.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateBatch inserts one notification row per student in a single
// statement. Re-delivery for the same announcement is a no-op.
func (r *NotificationRepository) CreateBatch(ctx context.Context, announcementID uuid.UUID, title, body string, studentIDs []int) error {
	if len(studentIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (student_id, announcement_id, title, body)
		 SELECT sid, $2, $3, $4 FROM UNNEST($1::int[]) AS sid
		 ON CONFLICT (student_id, announcement_id) DO NOTHING`,
		studentIDs, announcementID, title, body)
	return err
}

// ListByStudent retrieves a student's notifications, newest first.
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID, limit, offset int) ([]model.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE student_id = $1`, studentID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, announcement_id, title, body, read, created_at
		 FROM notifications WHERE student_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, studentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.StudentID, &n.AnnouncementID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

// CountUnread returns the number of unread notifications for a student.
func (r *NotificationRepository) CountUnread(ctx context.Context, studentID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE student_id = $1 AND read = FALSE`,
		studentID,
	).Scan(&count)
	return count, err
}

// MarkRead marks one notification as read. Scoped to the owning student so
// a student cannot touch another student's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, studentID int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND student_id = $2`,
		id, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead marks every notification of a student as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE student_id = $1 AND read = FALSE`,
		studentID)
	return err
}
