package dpp

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shikshya/shikshya-backend/internal/model"
)

func completeDraft() *Draft {
	d := &Draft{
		Title:         "Kinematics DPP 3",
		BatchID:       uuid.New(),
		ScheduledDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	d.AddQuestion()
	d.AddQuestion()
	for i := 0; i < 2; i++ {
		_ = d.SetQuestionText(i, "What is v at t=2s?")
		for j := 0; j < model.OptionCount; j++ {
			_ = d.SetOption(i, j, "option")
		}
		_ = d.SetCorrectOption(i, 1)
	}
	return d
}

func TestNewDraftSeedsOneQuestion(t *testing.T) {
	d := NewDraft()
	if len(d.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(d.Questions))
	}
	if len(d.Questions[0].Options) != model.OptionCount {
		t.Errorf("options = %d, want %d", len(d.Questions[0].Options), model.OptionCount)
	}
	if d.Questions[0].CorrectOption != 0 {
		t.Errorf("correct option = %d, want 0", d.Questions[0].CorrectOption)
	}
}

func TestRemoveQuestionSoftGuard(t *testing.T) {
	d := NewDraft()

	// Removing the only question is a silent no-op.
	d.RemoveQuestion(0)
	if len(d.Questions) != 1 {
		t.Fatalf("questions = %d after removing last, want 1", len(d.Questions))
	}

	d.AddQuestion()
	d.RemoveQuestion(0)
	if len(d.Questions) != 1 {
		t.Fatalf("questions = %d after valid remove, want 1", len(d.Questions))
	}

	// Out-of-range removal is also a no-op.
	d.AddQuestion()
	d.RemoveQuestion(5)
	if len(d.Questions) != 2 {
		t.Errorf("questions = %d after out-of-range remove, want 2", len(d.Questions))
	}
}

func TestRemoveQuestionKeepsOrder(t *testing.T) {
	d := NewDraft()
	d.AddQuestion()
	d.AddQuestion()
	_ = d.SetQuestionText(0, "first")
	_ = d.SetQuestionText(1, "second")
	_ = d.SetQuestionText(2, "third")

	d.RemoveQuestion(1)

	if d.Questions[0].Text != "first" || d.Questions[1].Text != "third" {
		t.Errorf("order after remove = [%q, %q], want [first, third]",
			d.Questions[0].Text, d.Questions[1].Text)
	}
}

func TestDraftEditBounds(t *testing.T) {
	d := NewDraft()

	if err := d.SetQuestionText(3, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetQuestionText out of range: err = %v", err)
	}
	if err := d.SetOption(0, model.OptionCount, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetOption out of range: err = %v", err)
	}
	if err := d.SetCorrectOption(0, -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetCorrectOption out of range: err = %v", err)
	}
}

func TestValidateComplete(t *testing.T) {
	if err := completeDraft().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateFirstUnmetCondition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantMsg string
	}{
		{
			name:    "missing title",
			mutate:  func(d *Draft) { d.Title = "" },
			wantMsg: "title",
		},
		{
			name:    "missing batch",
			mutate:  func(d *Draft) { d.BatchID = uuid.Nil },
			wantMsg: "batch",
		},
		{
			name:    "missing date",
			mutate:  func(d *Draft) { d.ScheduledDate = time.Time{} },
			wantMsg: "date",
		},
		{
			name:    "no questions",
			mutate:  func(d *Draft) { d.Questions = nil },
			wantMsg: "at least one question",
		},
		{
			name:    "empty question text",
			mutate:  func(d *Draft) { d.Questions[1].Text = "" },
			wantMsg: "question 2 has no text",
		},
		{
			name:    "empty option",
			mutate:  func(d *Draft) { d.Questions[0].Options[2] = "" },
			wantMsg: "question 1 option 3",
		},
		{
			name:    "wrong option arity",
			mutate:  func(d *Draft) { d.Questions[0].Options = []string{"a", "b"} },
			wantMsg: "must have 4 options",
		},
		{
			name:    "correct option out of range",
			mutate:  func(d *Draft) { d.Questions[0].CorrectOption = 9 },
			wantMsg: "correct option",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := completeDraft()
			tc.mutate(d)

			err := d.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if !strings.Contains(ve.Message, tc.wantMsg) {
				t.Errorf("message %q does not mention %q", ve.Message, tc.wantMsg)
			}
		})
	}
}

// Title and batch failures must be reported before question-level ones.
func TestValidateOrder(t *testing.T) {
	d := completeDraft()
	d.Title = ""
	d.Questions[0].Text = ""

	err := d.Validate()
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Errorf("Validate() = %v, want title error first", err)
	}
}
