package dpp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// fakeBackend is an in-memory Backend keyed like the submission ledger.
type fakeBackend struct {
	quizzes     map[uuid.UUID]*model.Quiz
	submissions map[string]*model.Submission

	failCreate  error
	createCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		quizzes:     make(map[uuid.UUID]*model.Quiz),
		submissions: make(map[string]*model.Submission),
	}
}

func ledgerKey(quizID uuid.UUID, studentID int) string {
	return fmt.Sprintf("%s/%d", quizID, studentID)
}

func (f *fakeBackend) FindSubmission(_ context.Context, quizID uuid.UUID, studentID int) (*model.Submission, error) {
	sub, ok := f.submissions[ledgerKey(quizID, studentID)]
	if !ok {
		return nil, nil
	}
	return sub, nil
}

func (f *fakeBackend) LoadQuiz(_ context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, ok := f.quizzes[quizID]
	if !ok {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (f *fakeBackend) CreateSubmission(_ context.Context, sub *model.Submission) (*model.Submission, error) {
	f.createCalls++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	key := ledgerKey(sub.QuizID, sub.StudentID)
	if existing, ok := f.submissions[key]; ok {
		// Concurrent winner already holds the slot.
		return existing, nil
	}
	stored := *sub
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	f.submissions[key] = &stored
	return &stored, nil
}

func seedQuiz(f *fakeBackend) *model.Quiz {
	quiz := &model.Quiz{
		ID:      uuid.New(),
		BatchID: uuid.New(),
		Title:   "Vectors DPP 1",
		Questions: []model.Question{
			{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1},
			{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
			{Text: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
		},
	}
	f.quizzes[quiz.ID] = quiz
	return quiz
}

func TestSessionResolveToInProgress(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)

	s := NewSession(f, quiz.ID, 42)
	if s.State() != StateResolving {
		t.Fatalf("initial state = %s, want %s", s.State(), StateResolving)
	}

	state, err := s.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if state != StateInProgress {
		t.Fatalf("state = %s, want %s", state, StateInProgress)
	}
	if s.Quiz() == nil || len(s.Quiz().Questions) != 3 {
		t.Error("quiz not loaded into session")
	}
	if s.CurrentQuestion() != 0 {
		t.Errorf("current question = %d, want 0", s.CurrentQuestion())
	}
}

func TestSessionResolveQuizNotFound(t *testing.T) {
	f := newFakeBackend()

	s := NewSession(f, uuid.New(), 42)
	state, err := s.Resolve(context.Background())

	if state != StateFailed {
		t.Errorf("state = %s, want %s", state, StateFailed)
	}
	if !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("err = %v, want wrapped ErrQuizNotFound", err)
	}

	// Failed is terminal.
	if err := s.Submit(context.Background(), true); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Submit after failure: err = %v, want ErrInvalidState", err)
	}
}

// Re-entry after a prior submission must redirect to the existing result,
// never present a fresh quiz.
func TestSessionResolveRedirectsOnExistingSubmission(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)

	first := NewSession(f, quiz.ID, 42)
	if _, err := first.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = first.SelectAnswer(0, 1)
	if err := first.Submit(context.Background(), true); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second := NewSession(f, quiz.ID, 42)
	state, err := second.Resolve(context.Background())
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if state != StateRedirecting {
		t.Fatalf("state = %s, want %s", state, StateRedirecting)
	}
	if second.ExistingSubmission == nil || second.ExistingSubmission.ID != first.Submission.ID {
		t.Error("redirect does not carry the original submission")
	}

	// A different student still gets a fresh attempt.
	other := NewSession(f, quiz.ID, 7)
	if state, _ := other.Resolve(context.Background()); state != StateInProgress {
		t.Errorf("other student state = %s, want %s", state, StateInProgress)
	}
}

func TestSessionAnswerAndNavigation(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.SelectAnswer(0, 2); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	// Revisiting overwrites the prior choice.
	if err := s.SelectAnswer(0, 1); err != nil {
		t.Fatalf("SelectAnswer overwrite: %v", err)
	}
	if got := s.Answers()[0]; got != 1 {
		t.Errorf("answers[0] = %d, want 1", got)
	}

	if err := s.SelectAnswer(5, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("question index out of range: err = %v", err)
	}
	if err := s.SelectAnswer(0, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("option index out of range: err = %v", err)
	}

	// Navigation clamps to bounds.
	_ = s.GoTo(99)
	if s.CurrentQuestion() != 2 {
		t.Errorf("GoTo(99) landed on %d, want 2", s.CurrentQuestion())
	}
	_ = s.GoTo(-5)
	if s.CurrentQuestion() != 0 {
		t.Errorf("GoTo(-5) landed on %d, want 0", s.CurrentQuestion())
	}
}

func TestSessionRestoreAnswers(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := s.RestoreAnswers(model.AnswerMap{0: 1, 2: 2, 9: 0, 1: 99})
	if err != nil {
		t.Fatalf("RestoreAnswers: %v", err)
	}

	if len(s.Answers()) != 2 {
		t.Errorf("restored %d answers, want 2 (invalid entries dropped)", len(s.Answers()))
	}
	if s.Answers()[0] != 1 || s.Answers()[2] != 2 {
		t.Errorf("restored answers = %v", s.Answers())
	}
}

// Scenario: question 2 of 3 unanswered. Submit without confirmation must
// not create anything; confirming creates a submission missing that key.
func TestSessionPartialSubmissionGate(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	_ = s.SelectAnswer(0, 1)
	_ = s.SelectAnswer(1, 0)

	err := s.Submit(context.Background(), false)
	if !errors.Is(err, ErrPartialSubmission) {
		t.Fatalf("Submit without confirm: err = %v, want ErrPartialSubmission", err)
	}
	if s.State() != StateInProgress {
		t.Fatalf("state after declined gate = %s, want %s", s.State(), StateInProgress)
	}
	if f.createCalls != 0 {
		t.Fatalf("ledger writes = %d, want 0 before confirmation", f.createCalls)
	}

	if err := s.Submit(context.Background(), true); err != nil {
		t.Fatalf("confirmed Submit: %v", err)
	}
	if s.State() != StateSubmitted {
		t.Fatalf("state = %s, want %s", s.State(), StateSubmitted)
	}

	sub := s.Submission
	if _, ok := sub.Answers[2]; ok {
		t.Error("unanswered question recorded in answers map")
	}
	if sub.Score != 2 || sub.TotalQuestions != 3 {
		t.Errorf("score = %d/%d, want 2/3", sub.Score, sub.TotalQuestions)
	}
}

func TestSessionSubmitAllUnanswered(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.Submit(context.Background(), true); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	sub := s.Submission
	if sub.Score != 0 || sub.TotalQuestions != 3 || len(sub.Answers) != 0 {
		t.Errorf("empty submit produced score=%d total=%d answers=%v",
			sub.Score, sub.TotalQuestions, sub.Answers)
	}
}

// A failed ledger write is retryable: the session stays InProgress with
// answers intact, and a later submit succeeds.
func TestSessionSubmitRetryAfterWriteFailure(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = s.SelectAnswer(0, 1)
	_ = s.SelectAnswer(1, 0)
	_ = s.SelectAnswer(2, 2)

	f.failCreate = errors.New("connection reset")
	if err := s.Submit(context.Background(), false); err == nil {
		t.Fatal("Submit succeeded despite write failure")
	}
	if s.State() != StateInProgress {
		t.Fatalf("state after write failure = %s, want %s", s.State(), StateInProgress)
	}
	if len(s.Answers()) != 3 {
		t.Fatal("answers lost after failed write")
	}

	f.failCreate = nil
	if err := s.Submit(context.Background(), false); err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if s.Submission.Score != 3 {
		t.Errorf("score = %d, want 3", s.Submission.Score)
	}
}

// Two sessions racing past the resolve check converge on one submission:
// the ledger returns the winner's row to the loser.
func TestSessionConcurrentSubmitConverges(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)

	a := NewSession(f, quiz.ID, 42)
	b := NewSession(f, quiz.ID, 42)
	if _, err := a.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	_ = a.SelectAnswer(0, 1)
	_ = b.SelectAnswer(0, 3)

	if err := a.Submit(context.Background(), true); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := b.Submit(context.Background(), true); err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if a.Submission.ID != b.Submission.ID {
		t.Error("concurrent submits produced two ledger rows")
	}
	if len(f.submissions) != 1 {
		t.Errorf("ledger rows = %d, want 1", len(f.submissions))
	}
}

func TestSessionResolveOnlyOnce(t *testing.T) {
	f := newFakeBackend()
	quiz := seedQuiz(f)
	s := NewSession(f, quiz.ID, 42)
	if _, err := s.Resolve(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Resolve(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Resolve: err = %v, want ErrInvalidState", err)
	}
}
