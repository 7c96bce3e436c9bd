package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerMap maps a question index to the chosen option index. Unanswered
// questions are simply absent keys. encoding/json stringifies the integer
// keys on the wire ({"0":1,"2":3}), which round-trips exactly through the
// JSONB column.
type AnswerMap map[int]int

// Submission is one student's single, final answer set and score for one
// quiz. At most one exists per (quiz, student); created once, never mutated.
type Submission struct {
	ID             uuid.UUID `json:"id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	StudentID      int       `json:"student_id"`
	Answers        AnswerMap `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitQuizRequest is the payload for submitting a quiz attempt.
// AcknowledgePartial must be true when not every question is answered;
// otherwise the submit is rejected with a confirmation prompt.
type SubmitQuizRequest struct {
	Answers            AnswerMap `json:"answers"`
	AcknowledgePartial bool      `json:"acknowledge_partial"`
}

// StudentSubmissionSummary pairs a submission row with its quiz's title for
// a student's own history listing.
type StudentSubmissionSummary struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	ScheduledDate  time.Time `json:"scheduled_date"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmissionResult pairs a submission row with the owning student's
// identity for teacher-facing result listings.
type SubmissionResult struct {
	SubmissionID   uuid.UUID `json:"submission_id"`
	StudentID      int       `json:"student_id"`
	StudentName    string    `json:"student_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
