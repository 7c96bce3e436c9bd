package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// QuizRepository handles quiz data access. Questions live in a JSONB column
// as an ordered array; decoding validates every question's shape and fails
// the whole read when any entry is malformed.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz. The caller must have validated the questions;
// the row is immutable after this point.
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (batch_id, author_id, title, scheduled_date, questions)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		quiz.BatchID, quiz.AuthorID, quiz.Title, quiz.ScheduledDate, questions,
	).Scan(&quiz.ID, &quiz.CreatedAt)
}

// GetByID retrieves a quiz with its full question set, correct options
// included. Returns ErrMalformedDocument when the stored questions do not
// decode cleanly.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz := &model.Quiz{}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, batch_id, author_id, title, scheduled_date, questions, created_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&quiz.ID, &quiz.BatchID, &quiz.AuthorID, &quiz.Title, &quiz.ScheduledDate, &raw, &quiz.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeQuestions(raw, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("quiz %s: %w", id, err)
	}
	return quiz, nil
}

// Delete removes a quiz and, through cascade, its submissions.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// ListByBatch retrieves a batch's quizzes without their question bodies,
// newest scheduled date first. QuestionCount stands in for the payload so
// listings stay light.
func (r *QuizRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]model.QuizSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, batch_id, author_id, title, scheduled_date,
		        jsonb_array_length(questions), created_at
		 FROM quizzes WHERE batch_id = $1
		 ORDER BY scheduled_date DESC, created_at DESC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.QuizSummary
	for rows.Next() {
		var q model.QuizSummary
		if err := rows.Scan(&q.ID, &q.BatchID, &q.AuthorID, &q.Title, &q.ScheduledDate, &q.QuestionCount, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// decodeQuestions unmarshals a stored question array and checks every
// entry's shape.
func decodeQuestions(raw []byte, out *[]model.Question) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for i, q := range *out {
		if !q.WellFormed() {
			return fmt.Errorf("%w: question %d", ErrMalformedDocument, i)
		}
	}
	return nil
}
