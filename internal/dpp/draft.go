package dpp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shikshya/shikshya-backend/internal/model"
)

// Draft is an in-progress quiz composition. Field edits perform no
// validation so an author can leave parts empty mid-edit; completeness is
// enforced once, by Validate, at save time.
type Draft struct {
	Title         string
	BatchID       uuid.UUID
	ScheduledDate time.Time
	Questions     []model.Question
}

// NewDraft creates an empty draft seeded with one blank question, matching
// the shape an authoring client starts from.
func NewDraft() *Draft {
	d := &Draft{}
	d.AddQuestion()
	return d
}

// AddQuestion appends a blank question with empty option slots and the
// correct option defaulting to the first slot.
func (d *Draft) AddQuestion() {
	d.Questions = append(d.Questions, model.Question{
		Options: make([]string, model.OptionCount),
	})
}

// RemoveQuestion removes the question at index. A draft always retains at
// least one question: removing the last remaining question is a silent
// no-op, as is an out-of-range index. This mirrors the soft guard a client
// applies, and Validate independently rejects empty drafts so the
// invariant does not depend on any particular client.
func (d *Draft) RemoveQuestion(index int) {
	if len(d.Questions) <= 1 {
		return
	}
	if index < 0 || index >= len(d.Questions) {
		return
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
}

// SetQuestionText sets the prompt of the question at index.
func (d *Draft) SetQuestionText(index int, text string) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	d.Questions[index].Text = text
	return nil
}

// SetOption sets one option slot of the question at index.
func (d *Draft) SetOption(index, optionIndex int, text string) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	q := &d.Questions[index]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}
	q.Options[optionIndex] = text
	return nil
}

// SetCorrectOption designates the correct option of the question at index.
func (d *Draft) SetCorrectOption(index, optionIndex int) error {
	if index < 0 || index >= len(d.Questions) {
		return ErrIndexOutOfRange
	}
	q := &d.Questions[index]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrIndexOutOfRange
	}
	q.CorrectOption = optionIndex
	return nil
}

// Validate checks the draft for completeness and returns a
// *ValidationError naming the first unmet condition, or nil when the draft
// is ready to save. Conditions are checked in the order an author fills
// the form: title, batch, date, then each question front to back.
func (d *Draft) Validate() error {
	if d.Title == "" {
		return &ValidationError{Message: "quiz title is required"}
	}
	if d.BatchID == uuid.Nil {
		return &ValidationError{Message: "a batch must be selected"}
	}
	if d.ScheduledDate.IsZero() {
		return &ValidationError{Message: "a scheduled date must be selected"}
	}
	if len(d.Questions) == 0 {
		return &ValidationError{Message: "at least one question is required"}
	}
	for i, q := range d.Questions {
		if q.Text == "" {
			return &ValidationError{Message: fmt.Sprintf("question %d has no text", i+1)}
		}
		if len(q.Options) != model.OptionCount {
			return &ValidationError{Message: fmt.Sprintf("question %d must have %d options", i+1, model.OptionCount)}
		}
		for j, opt := range q.Options {
			if opt == "" {
				return &ValidationError{Message: fmt.Sprintf("question %d option %d is empty", i+1, j+1)}
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return &ValidationError{Message: fmt.Sprintf("question %d has no valid correct option", i+1)}
		}
	}
	return nil
}
