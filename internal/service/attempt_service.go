package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shikshya/shikshya-backend/internal/config"
	"github.com/shikshya/shikshya-backend/internal/dpp"
	"github.com/shikshya/shikshya-backend/internal/model"
	"github.com/shikshya/shikshya-backend/internal/repository"
)

// AttemptState is the outcome of resolving a quiz attempt. Status is
// either dpp.StateRedirecting (a submission already exists; Submission and
// Review are set) or dpp.StateInProgress (Quiz is set, with any autosaved
// answers restored into SavedAnswers).
type AttemptState struct {
	Status       dpp.State          `json:"status"`
	Quiz         *model.QuizPayload `json:"quiz,omitempty"`
	SavedAnswers model.AnswerMap    `json:"saved_answers,omitempty"`
	Submission   *model.Submission  `json:"submission,omitempty"`
	Review       *dpp.Review        `json:"review,omitempty"`
}

// SubmitOutcome is the result of a submit call. AlreadySubmitted is true
// when a prior submission won; Submission and Review always describe the
// authoritative stored row.
type SubmitOutcome struct {
	AlreadySubmitted bool              `json:"already_submitted"`
	Submission       *model.Submission `json:"submission"`
	Review           *dpp.Review       `json:"review"`
}

// AttemptService drives student quiz attempts through the dpp session
// state machine. It doubles as the session's persistence backend, mapping
// repository errors onto the dpp sentinels, and keeps a Redis-side
// autosave buffer so an interrupted attempt can resume with its answers.
type AttemptService struct {
	quizRepo       *repository.QuizRepository
	submissionRepo *repository.SubmissionRepository
	batchSvc       *BatchService
	redis          *redis.Client
	cfg            *config.Config
	logger         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	quizRepo *repository.QuizRepository,
	submissionRepo *repository.SubmissionRepository,
	batchSvc *BatchService,
	redisClient *redis.Client,
	cfg *config.Config,
	logger zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		quizRepo:       quizRepo,
		submissionRepo: submissionRepo,
		batchSvc:       batchSvc,
		redis:          redisClient,
		cfg:            cfg,
		logger:         logger.With().Str("service", "attempt").Logger(),
	}
}

// FindSubmission implements dpp.Backend. A missing row is (nil, nil).
func (s *AttemptService) FindSubmission(ctx context.Context, quizID uuid.UUID, studentID int) (*model.Submission, error) {
	sub, err := s.submissionRepo.GetByQuizAndStudent(ctx, quizID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// LoadQuiz implements dpp.Backend.
func (s *AttemptService) LoadQuiz(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dpp.ErrQuizNotFound
		}
		if errors.Is(err, repository.ErrMalformedDocument) {
			return nil, fmt.Errorf("%w: %v", dpp.ErrQuizMalformed, err)
		}
		return nil, err
	}
	return quiz, nil
}

// CreateSubmission implements dpp.Backend. On a lost race the stored
// winner comes back and the write is a no-op.
func (s *AttemptService) CreateSubmission(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	return s.submissionRepo.Create(ctx, sub)
}

// Resolve runs the attempt entry sequence for a student opening a quiz:
// the submission ledger is checked before anything else, so an existing
// submission redirects straight to its result and the quiz is never
// loaded. Otherwise the sanitized payload is served (from cache when warm)
// together with any autosaved answers.
func (s *AttemptService) Resolve(ctx context.Context, quizID uuid.UUID, studentID int) (*AttemptState, error) {
	sess := dpp.NewSession(s, quizID, studentID)
	state, err := sess.Resolve(ctx)
	if err != nil {
		return nil, s.mapResolveErr(err)
	}

	if state == dpp.StateRedirecting {
		review, err := s.reviewFor(ctx, sess.ExistingSubmission)
		if err != nil {
			return nil, err
		}
		return &AttemptState{
			Status:     dpp.StateRedirecting,
			Submission: sess.ExistingSubmission,
			Review:     review,
		}, nil
	}

	quiz := sess.Quiz()
	if err := s.batchSvc.RequireEnrollment(ctx, quiz.BatchID, studentID); err != nil {
		return nil, err
	}

	saved, err := s.loadAutosave(ctx, quizID, studentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("failed to load autosave buffer")
		saved = nil
	}
	if saved != nil {
		if err := sess.RestoreAnswers(saved); err == nil {
			saved = sess.Answers()
		}
	}

	return &AttemptState{
		Status:       dpp.StateInProgress,
		Quiz:         s.payloadFor(ctx, quiz),
		SavedAnswers: saved,
	}, nil
}

// Autosave stores a student's in-progress answers in Redis with a TTL.
// The buffer is a convenience copy only; nothing reaches the submission
// ledger until Submit. Autosaving after submission is rejected.
func (s *AttemptService) Autosave(ctx context.Context, quizID uuid.UUID, studentID int, answers model.AnswerMap) error {
	existing, err := s.FindSubmission(ctx, quizID, studentID)
	if err != nil {
		return fmt.Errorf("check existing submission: %w", err)
	}
	if existing != nil {
		return ErrAlreadySubmitted
	}

	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	key := config.CacheKey.AttemptAnswersKey(quizID.String(), studentID)
	return s.redis.Set(ctx, key, payload, s.cfg.AutosaveTTL).Err()
}

// Submit finalizes an attempt. The submitted answer map is authoritative;
// out-of-range entries are dropped before scoring. When unanswered
// questions remain and the student has not confirmed, it returns
// dpp.ErrPartialSubmission with the missing indices and writes nothing. A
// resubmit against an existing submission converges on the stored result
// with AlreadySubmitted set.
func (s *AttemptService) Submit(ctx context.Context, quizID uuid.UUID, studentID int, req *model.SubmitQuizRequest) (*SubmitOutcome, []int, error) {
	sess := dpp.NewSession(s, quizID, studentID)
	state, err := sess.Resolve(ctx)
	if err != nil {
		return nil, nil, s.mapResolveErr(err)
	}

	if state == dpp.StateRedirecting {
		review, err := s.reviewFor(ctx, sess.ExistingSubmission)
		if err != nil {
			return nil, nil, err
		}
		return &SubmitOutcome{
			AlreadySubmitted: true,
			Submission:       sess.ExistingSubmission,
			Review:           review,
		}, nil, nil
	}

	if err := s.batchSvc.RequireEnrollment(ctx, sess.Quiz().BatchID, studentID); err != nil {
		return nil, nil, err
	}

	if err := sess.RestoreAnswers(req.Answers); err != nil {
		return nil, nil, err
	}
	if err := sess.Submit(ctx, req.AcknowledgePartial); err != nil {
		if errors.Is(err, dpp.ErrPartialSubmission) {
			return nil, sess.Unanswered(), err
		}
		return nil, nil, err
	}

	s.redis.Del(ctx, config.CacheKey.AttemptAnswersKey(quizID.String(), studentID))

	review := dpp.BuildReview(sess.Quiz().Questions, sess.Submission)
	s.logger.Info().
		Str("quiz_id", quizID.String()).
		Int("student_id", studentID).
		Int("score", sess.Submission.Score).
		Msg("quiz submitted")

	// On a lost insert race the session carries the stored winner, which
	// still belongs to this student, so the outcome converges either way.
	return &SubmitOutcome{
		Submission: sess.Submission,
		Review:     review,
	}, nil, nil
}

// Review reconstructs the per-question result view for a student's
// submission. Pure read: repeated calls yield identical output.
func (s *AttemptService) Review(ctx context.Context, quizID uuid.UUID, studentID int) (*dpp.Review, *model.Submission, error) {
	sub, err := s.FindSubmission(ctx, quizID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, ErrNotFound
	}
	review, err := s.reviewFor(ctx, sub)
	if err != nil {
		return nil, nil, err
	}
	return review, sub, nil
}

// ListMine retrieves a student's submission history across quizzes.
func (s *AttemptService) ListMine(ctx context.Context, studentID int) ([]model.StudentSubmissionSummary, error) {
	return s.submissionRepo.ListByStudent(ctx, studentID)
}

func (s *AttemptService) reviewFor(ctx context.Context, sub *model.Submission) (*dpp.Review, error) {
	quiz, err := s.LoadQuiz(ctx, sub.QuizID)
	if err != nil {
		return nil, err
	}
	return dpp.BuildReview(quiz.Questions, sub), nil
}

// payloadFor returns the sanitized payload, preferring the Redis copy and
// re-warming it on a miss.
func (s *AttemptService) payloadFor(ctx context.Context, quiz *model.Quiz) *model.QuizPayload {
	key := config.CacheKey.QuizPayloadKey(quiz.ID.String())
	if raw, err := s.redis.Get(ctx, key).Bytes(); err == nil {
		payload := &model.QuizPayload{}
		if json.Unmarshal(raw, payload) == nil {
			return payload
		}
	}

	payload := model.PayloadFor(quiz)
	if raw, err := json.Marshal(payload); err == nil {
		if err := s.redis.Set(ctx, key, raw, quizPayloadTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quiz.ID.String()).Msg("failed to warm quiz payload cache")
		}
	}
	return payload
}

func (s *AttemptService) loadAutosave(ctx context.Context, quizID uuid.UUID, studentID int) (model.AnswerMap, error) {
	key := config.CacheKey.AttemptAnswersKey(quizID.String(), studentID)
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var answers model.AnswerMap
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("decode autosave buffer: %w", err)
	}
	return answers, nil
}

func (s *AttemptService) mapResolveErr(err error) error {
	if errors.Is(err, dpp.ErrQuizNotFound) {
		return ErrNotFound
	}
	return err
}
