package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// BatchRepository handles batch and enrollment data access.
type BatchRepository struct {
	pool *pgxpool.Pool
}

// NewBatchRepository creates a new BatchRepository.
func NewBatchRepository(pool *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{pool: pool}
}

// GetByID retrieves a batch by id.
func (r *BatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	b := &model.Batch{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, subject, teacher_id, start_date, active, created_at, updated_at
		 FROM batches WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Description, &b.Subject, &b.TeacherID, &b.StartDate, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a new batch.
func (r *BatchRepository) Create(ctx context.Context, b *model.Batch) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO batches (name, description, subject, teacher_id, start_date, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		b.Name, b.Description, b.Subject, b.TeacherID, b.StartDate, b.Active,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// Update modifies an existing batch.
func (r *BatchRepository) Update(ctx context.Context, b *model.Batch) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE batches
		 SET name = $1, description = $2, subject = $3, teacher_id = $4,
		     start_date = $5, active = $6, updated_at = NOW()
		 WHERE id = $7`,
		b.Name, b.Description, b.Subject, b.TeacherID, b.StartDate, b.Active, b.ID)
	return err
}

// Delete removes a batch.
func (r *BatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	return err
}

// List retrieves all batches ordered by creation time, newest first.
func (r *BatchRepository) List(ctx context.Context) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, subject, teacher_id, start_date, active, created_at, updated_at
		 FROM batches ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListActive retrieves batches open for enrollment, newest first.
func (r *BatchRepository) ListActive(ctx context.Context) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, subject, teacher_id, start_date, active, created_at, updated_at
		 FROM batches WHERE active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListByTeacher retrieves the batches assigned to a teacher.
func (r *BatchRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, subject, teacher_id, start_date, active, created_at, updated_at
		 FROM batches WHERE teacher_id = $1 ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

// ListByStudent retrieves the batches a student is enrolled in.
func (r *BatchRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.name, b.description, b.subject, b.teacher_id, b.start_date, b.active, b.created_at, b.updated_at
		 FROM batches b
		 JOIN enrollments e ON e.batch_id = b.id
		 WHERE e.student_id = $1
		 ORDER BY b.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func scanBatches(rows pgx.Rows) ([]model.Batch, error) {
	var batches []model.Batch
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Subject, &b.TeacherID, &b.StartDate, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Enroll adds a student to a batch. Re-enrolling is a no-op; the returned
// bool reports whether a new enrollment row was created.
func (r *BatchRepository) Enroll(ctx context.Context, batchID uuid.UUID, studentID int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (batch_id, student_id)
		 VALUES ($1, $2)
		 ON CONFLICT (batch_id, student_id) DO NOTHING`,
		batchID, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Unenroll removes a student from a batch.
func (r *BatchRepository) Unenroll(ctx context.Context, batchID uuid.UUID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE batch_id = $1 AND student_id = $2`,
		batchID, studentID)
	return err
}

// IsEnrolled reports whether a student is enrolled in a batch.
func (r *BatchRepository) IsEnrolled(ctx context.Context, batchID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE batch_id = $1 AND student_id = $2)`,
		batchID, studentID,
	).Scan(&exists)
	return exists, err
}

// ListEnrolledStudents retrieves the students enrolled in a batch.
func (r *BatchRepository) ListEnrolledStudents(ctx context.Context, batchID uuid.UUID) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, s.email, s.phone, s.password_hash, s.created_at, s.updated_at
		 FROM students s
		 JOIN enrollments e ON e.student_id = s.id
		 WHERE e.batch_id = $1
		 ORDER BY s.name ASC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.PasswordHash, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
