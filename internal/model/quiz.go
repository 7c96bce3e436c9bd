package model

import (
	"time"

	"github.com/google/uuid"
)

// OptionCount is the fixed number of answer options per DPP question.
const OptionCount = 4

// Quiz represents a Daily Practice Problem set: an ordered list of
// multiple-choice questions attached to a batch and a calendar date.
// A quiz is written once by a teacher and is immutable afterwards.
type Quiz struct {
	ID            uuid.UUID  `json:"id"`
	BatchID       uuid.UUID  `json:"batch_id"`
	AuthorID      int        `json:"author_id"`
	Title         string     `json:"title"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Questions     []Question `json:"questions"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuizSummary is a quiz row without its question bodies, for listings.
type QuizSummary struct {
	ID            uuid.UUID `json:"id"`
	BatchID       uuid.UUID `json:"batch_id"`
	AuthorID      int       `json:"author_id"`
	Title         string    `json:"title"`
	ScheduledDate time.Time `json:"scheduled_date"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Question is a single multiple-choice prompt. Questions are embedded in
// their quiz (stored as a JSONB array) and addressed by position, not by id.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// WellFormed reports whether the question satisfies the stored-shape
// invariant: non-empty text, exactly OptionCount non-empty options, and a
// correct-option index inside the options range. Used both before save and
// when decoding documents back out of the store.
func (q Question) WellFormed() bool {
	if q.Text == "" {
		return false
	}
	if len(q.Options) != OptionCount {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return q.CorrectOption >= 0 && q.CorrectOption < len(q.Options)
}

// QuestionForStudent is a question with the correct option stripped,
// safe to hand to a student taking the quiz.
type QuestionForStudent struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// QuizPayload is the sanitized quiz sent to (and cached for) students.
type QuizPayload struct {
	QuizID        uuid.UUID            `json:"quiz_id"`
	BatchID       uuid.UUID            `json:"batch_id"`
	Title         string               `json:"title"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	Questions     []QuestionForStudent `json:"questions"`
}

// PayloadFor builds the sanitized student payload for a quiz.
func PayloadFor(quiz *Quiz) *QuizPayload {
	questions := make([]QuestionForStudent, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = QuestionForStudent{Text: q.Text, Options: q.Options}
	}
	return &QuizPayload{
		QuizID:        quiz.ID,
		BatchID:       quiz.BatchID,
		Title:         quiz.Title,
		ScheduledDate: quiz.ScheduledDate,
		Questions:     questions,
	}
}

// QuestionInput mirrors Question for authoring payloads. Validation is
// deliberately deferred to save time so a teacher can compose a draft with
// temporarily empty fields; see dpp.Draft.Validate.
type QuestionInput struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// CreateQuizRequest is the payload for saving a new quiz. Beyond basic
// shape, completeness is checked by the draft validator, not binding tags.
type CreateQuizRequest struct {
	BatchID       string          `json:"batch_id" binding:"required,uuid"`
	Title         string          `json:"title"`
	ScheduledDate string          `json:"scheduled_date" binding:"omitempty,datetime=2006-01-02"`
	Questions     []QuestionInput `json:"questions"`
}
