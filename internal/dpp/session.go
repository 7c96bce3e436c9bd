package dpp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// State enumerates the take-quiz session states.
type State string

const (
	// StateResolving is the initial state: the existing-submission check
	// and quiz load have not completed yet.
	StateResolving State = "RESOLVING"
	// StateInProgress means the quiz is loaded and the student is
	// answering. Navigation and answer changes are unrestricted.
	StateInProgress State = "IN_PROGRESS"
	// StateRedirecting is terminal: a submission already existed, control
	// passes to the result view for ExistingSubmission.
	StateRedirecting State = "REDIRECTING"
	// StateSubmitted is terminal: the submission was created.
	StateSubmitted State = "SUBMITTED"
	// StateFailed is terminal: the quiz could not be loaded.
	StateFailed State = "FAILED"
)

// Backend is the narrow persistence surface a session needs. The quiz and
// submission stores sit behind it so the state machine stays pure.
type Backend interface {
	// FindSubmission returns the submission for (quizID, studentID), or
	// (nil, nil) when none exists.
	FindSubmission(ctx context.Context, quizID uuid.UUID, studentID int) (*model.Submission, error)
	// LoadQuiz returns the quiz or ErrQuizNotFound / ErrQuizMalformed.
	LoadQuiz(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error)
	// CreateSubmission persists sub exactly once per (quiz, student). If a
	// concurrent submission won the race, the stored winner is returned
	// instead and the write is a no-op.
	CreateSubmission(ctx context.Context, sub *model.Submission) (*model.Submission, error)
}

// Session drives one student's single pass through one quiz:
//
//	Resolving ─┬─ existing submission ──► Redirecting (terminal)
//	           ├─ quiz loads ──────────► InProgress ──► Submitted (terminal)
//	           └─ load fails ──────────► Failed (terminal)
//
// A failed ledger write keeps the session InProgress with answers intact
// so the student can retry. The session is single-goroutine; it holds no
// locks and must not be shared.
type Session struct {
	backend   Backend
	quizID    uuid.UUID
	studentID int

	state   State
	quiz    *model.Quiz
	answers model.AnswerMap
	current int

	// ExistingSubmission is set when Resolve finds a prior submission
	// (state Redirecting).
	ExistingSubmission *model.Submission
	// Submission is set after a successful Submit (state Submitted).
	Submission *model.Submission
}

// NewSession creates a session in the Resolving state.
func NewSession(backend Backend, quizID uuid.UUID, studentID int) *Session {
	return &Session{
		backend:   backend,
		quizID:    quizID,
		studentID: studentID,
		state:     StateResolving,
		answers:   make(model.AnswerMap),
	}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Quiz returns the loaded quiz, or nil before InProgress.
func (s *Session) Quiz() *model.Quiz {
	return s.quiz
}

// Answers returns the in-memory answer map.
func (s *Session) Answers() model.AnswerMap {
	return s.answers
}

// CurrentQuestion returns the current question index.
func (s *Session) CurrentQuestion() int {
	return s.current
}

// Resolve runs the entry sequence: check the submission ledger first, then
// load the quiz. The ledger check is the read-side enforcement of the
// one-submission invariant: an existing submission short-circuits to
// Redirecting and the quiz is never loaded. A quiz that cannot be loaded
// moves the session to Failed, which is terminal with no retry.
func (s *Session) Resolve(ctx context.Context) (State, error) {
	if s.state != StateResolving {
		return s.state, ErrInvalidState
	}

	existing, err := s.backend.FindSubmission(ctx, s.quizID, s.studentID)
	if err != nil {
		s.state = StateFailed
		return s.state, fmt.Errorf("check existing submission: %w", err)
	}
	if existing != nil {
		s.ExistingSubmission = existing
		s.state = StateRedirecting
		return s.state, nil
	}

	quiz, err := s.backend.LoadQuiz(ctx, s.quizID)
	if err != nil {
		s.state = StateFailed
		return s.state, fmt.Errorf("load quiz: %w", err)
	}

	s.quiz = quiz
	s.state = StateInProgress
	return s.state, nil
}

// SelectAnswer records the chosen option for a question, overwriting any
// prior choice. Allowed for any question at any time while InProgress.
func (s *Session) SelectAnswer(questionIndex, optionIndex int) error {
	if s.state != StateInProgress {
		return ErrInvalidState
	}
	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return ErrIndexOutOfRange
	}
	if optionIndex < 0 || optionIndex >= len(s.quiz.Questions[questionIndex].Options) {
		return ErrIndexOutOfRange
	}
	s.answers[questionIndex] = optionIndex
	return nil
}

// RestoreAnswers seeds the in-memory answer map from an autosave buffer,
// dropping entries whose indices fall outside the quiz. Used when a
// student reloads mid-attempt.
func (s *Session) RestoreAnswers(saved model.AnswerMap) error {
	if s.state != StateInProgress {
		return ErrInvalidState
	}
	for qi, oi := range saved {
		if qi < 0 || qi >= len(s.quiz.Questions) {
			continue
		}
		if oi < 0 || oi >= len(s.quiz.Questions[qi].Options) {
			continue
		}
		s.answers[qi] = oi
	}
	return nil
}

// GoTo moves the current-question cursor, clamped to the quiz bounds.
func (s *Session) GoTo(questionIndex int) error {
	if s.state != StateInProgress {
		return ErrInvalidState
	}
	if questionIndex < 0 {
		questionIndex = 0
	}
	if max := len(s.quiz.Questions) - 1; questionIndex > max {
		questionIndex = max
	}
	s.current = questionIndex
	return nil
}

// Unanswered returns the indices of questions with no recorded answer.
func (s *Session) Unanswered() []int {
	if s.quiz == nil {
		return nil
	}
	var missing []int
	for i := range s.quiz.Questions {
		if _, ok := s.answers[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Submit scores the answers and writes the submission. When unanswered
// questions remain and confirmPartial is false, it returns
// ErrPartialSubmission without side effects; the caller confirms with the
// student and calls Submit again. A ledger write failure leaves the
// session InProgress with the answers untouched so the student can retry;
// only a successful write transitions to Submitted.
func (s *Session) Submit(ctx context.Context, confirmPartial bool) error {
	if s.state != StateInProgress {
		return ErrInvalidState
	}

	if len(s.Unanswered()) > 0 && !confirmPartial {
		return ErrPartialSubmission
	}

	sub := &model.Submission{
		QuizID:         s.quizID,
		StudentID:      s.studentID,
		Answers:        s.answers,
		Score:          Score(s.quiz.Questions, s.answers),
		TotalQuestions: len(s.quiz.Questions),
	}

	stored, err := s.backend.CreateSubmission(ctx, sub)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	s.Submission = stored
	s.state = StateSubmitted
	return nil
}
