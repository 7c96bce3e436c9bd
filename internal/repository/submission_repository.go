package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// SubmissionRepository handles the submission ledger. A unique index on
// (quiz_id, student_id) makes creation exactly-once; concurrent duplicates
// lose the insert and read back the winning row.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create records a submission. When a row for the same (quiz, student)
// already exists the insert is a no-op and the stored winner is returned
// instead, so callers always end up holding the authoritative row.
func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO submissions (quiz_id, student_id, answers, score, total_questions)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (quiz_id, student_id) DO NOTHING
		 RETURNING id, created_at`,
		sub.QuizID, sub.StudentID, answers, sub.Score, sub.TotalQuestions,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Lost the race: another request inserted first.
	return r.GetByQuizAndStudent(ctx, sub.QuizID, sub.StudentID)
}

// GetByQuizAndStudent retrieves a student's submission for a quiz.
func (r *SubmissionRepository) GetByQuizAndStudent(ctx context.Context, quizID uuid.UUID, studentID int) (*model.Submission, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, student_id, answers, score, total_questions, created_at
		 FROM submissions WHERE quiz_id = $1 AND student_id = $2`,
		quizID, studentID))
}

// GetByID retrieves a submission by id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, student_id, answers, score, total_questions, created_at
		 FROM submissions WHERE id = $1`, id))
}

func (r *SubmissionRepository) scanOne(row pgx.Row) (*model.Submission, error) {
	sub := &model.Submission{}
	var raw []byte
	err := row.Scan(&sub.ID, &sub.QuizID, &sub.StudentID, &raw, &sub.Score, &sub.TotalQuestions, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &sub.Answers); err != nil {
		return nil, fmt.Errorf("%w: answers: %v", ErrMalformedDocument, err)
	}
	return sub, nil
}

// ListByQuiz retrieves every submission for a quiz joined with the owning
// student's name, best score first.
func (r *SubmissionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.SubmissionResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sub.id, sub.student_id, s.name, sub.score, sub.total_questions, sub.created_at
		 FROM submissions sub
		 JOIN students s ON s.id = sub.student_id
		 WHERE sub.quiz_id = $1
		 ORDER BY sub.score DESC, sub.created_at ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.SubmissionResult
	for rows.Next() {
		var res model.SubmissionResult
		if err := rows.Scan(&res.SubmissionID, &res.StudentID, &res.StudentName, &res.Score, &res.TotalQuestions, &res.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListByStudent retrieves a student's submissions across all quizzes with
// the quiz titles, newest first.
func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.StudentSubmissionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sub.id, sub.quiz_id, q.title, q.scheduled_date, sub.score, sub.total_questions, sub.created_at
		 FROM submissions sub
		 JOIN quizzes q ON q.id = sub.quiz_id
		 WHERE sub.student_id = $1
		 ORDER BY sub.created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.StudentSubmissionSummary
	for rows.Next() {
		var s model.StudentSubmissionSummary
		if err := rows.Scan(&s.SubmissionID, &s.QuizID, &s.QuizTitle, &s.ScheduledDate, &s.Score, &s.TotalQuestions, &s.SubmittedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
