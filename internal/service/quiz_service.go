package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/dpp"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// quizPayloadTTL bounds the Redis cache of sanitized quiz payloads.
const quizPayloadTTL = 24 * time.Hour

// QuizService handles quiz authoring and teacher-facing results. Quizzes
// are validated as complete drafts at save time and are immutable once
// stored; the only write path besides Create is Delete.
type QuizService struct {
	quizRepo       *repository.QuizRepository
	submissionRepo *repository.SubmissionRepository
	batchSvc       *BatchService
	redis          *redis.Client
	logger         zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo *repository.QuizRepository,
	submissionRepo *repository.SubmissionRepository,
	batchSvc *BatchService,
	redisClient *redis.Client,
	logger zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		batchSvc:       batchSvc,
		redis:          redisClient,
		logger:         logger.With().Str("service", "quiz").Logger(),
	}
}

// Create validates and saves a new quiz for a batch the teacher is
// assigned to. Draft completeness errors come back as *dpp.ValidationError
// with a message naming the first unmet condition; the client keeps its
// draft and the author fixes it.
func (s *QuizService) Create(ctx context.Context, authorID int, req *model.CreateQuizRequest) (*model.Quiz, error) {
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, &dpp.ValidationError{Message: "a batch must be selected"}
	}
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, authorID); err != nil {
		return nil, err
	}

	draft := &dpp.Draft{
		Title:   req.Title,
		BatchID: batchID,
	}
	if req.ScheduledDate != "" {
		date, err := time.Parse("2006-01-02", req.ScheduledDate)
		if err != nil {
			return nil, &dpp.ValidationError{Message: "scheduled date must be YYYY-MM-DD"}
		}
		draft.ScheduledDate = date
	}
	for _, q := range req.Questions {
		draft.Questions = append(draft.Questions, model.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
		})
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		BatchID:       draft.BatchID,
		AuthorID:      authorID,
		Title:         draft.Title,
		ScheduledDate: draft.ScheduledDate,
		Questions:     draft.Questions,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}

	s.warmPayloadCache(ctx, quiz)
	s.logger.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(quiz.Questions)).
		Msg("quiz created")
	return quiz, nil
}

// GetForTeacher retrieves a full quiz, correct options included, for its
// batch's assigned teacher.
func (s *QuizService) GetForTeacher(ctx context.Context, quizID uuid.UUID, teacherID int) (*model.Quiz, error) {
	quiz, err := s.get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.batchSvc.RequireTeacherAccess(ctx, quiz.BatchID, teacherID); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Delete removes a quiz and its submissions, and drops the cached payload.
func (s *QuizService) Delete(ctx context.Context, quizID uuid.UUID, teacherID int) error {
	if _, err := s.GetForTeacher(ctx, quizID, teacherID); err != nil {
		return err
	}
	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.redis.Del(ctx, config.CacheKey.QuizPayloadKey(quizID.String()))
	return nil
}

// ListForTeacher retrieves a batch's quiz summaries for its assigned
// teacher.
func (s *QuizService) ListForTeacher(ctx context.Context, batchID uuid.UUID, teacherID int) ([]model.QuizSummary, error) {
	if err := s.batchSvc.RequireTeacherAccess(ctx, batchID, teacherID); err != nil {
		return nil, err
	}
	return s.quizRepo.ListByBatch(ctx, batchID)
}

// ListForStudent retrieves a batch's quiz summaries for an enrolled
// student.
func (s *QuizService) ListForStudent(ctx context.Context, batchID uuid.UUID, studentID int) ([]model.QuizSummary, error) {
	if err := s.batchSvc.RequireEnrollment(ctx, batchID, studentID); err != nil {
		return nil, err
	}
	return s.quizRepo.ListByBatch(ctx, batchID)
}

// Results retrieves every submission for a quiz with student identities,
// for its batch's assigned teacher.
func (s *QuizService) Results(ctx context.Context, quizID uuid.UUID, teacherID int) ([]model.SubmissionResult, error) {
	if _, err := s.GetForTeacher(ctx, quizID, teacherID); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByQuiz(ctx, quizID)
}

func (s *QuizService) get(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// warmPayloadCache stores the sanitized student payload right after save,
// so the first wave of attempts does not all hit Postgres. Failure is
// non-fatal: the attempt path falls back to the database.
func (s *QuizService) warmPayloadCache(ctx context.Context, quiz *model.Quiz) {
	payload, err := json.Marshal(model.PayloadFor(quiz))
	if err != nil {
		return
	}
	key := config.CacheKey.QuizPayloadKey(quiz.ID.String())
	if err := s.redis.Set(ctx, key, payload, quizPayloadTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to warm quiz payload cache")
	}
}
