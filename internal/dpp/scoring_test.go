package dpp

import (
	"testing"

	"github.com/shikshya/shikshya-backend/internal/model"
)

func threeQuestionSet() []model.Question {
	return []model.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
		{Text: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
	}
}

func TestScore(t *testing.T) {
	questions := threeQuestionSet()

	tests := []struct {
		name    string
		answers model.AnswerMap
		want    int
	}{
		{name: "two of three correct", answers: model.AnswerMap{0: 1, 1: 0, 2: 1}, want: 2},
		{name: "all correct", answers: model.AnswerMap{0: 1, 1: 0, 2: 2}, want: 3},
		{name: "all wrong", answers: model.AnswerMap{0: 0, 1: 1, 2: 0}, want: 0},
		{name: "empty answers", answers: model.AnswerMap{}, want: 0},
		{name: "nil answers", answers: nil, want: 0},
		{name: "partial one correct", answers: model.AnswerMap{1: 0}, want: 1},
		{name: "partial one wrong", answers: model.AnswerMap{1: 3}, want: 0},
		{name: "stray index ignored", answers: model.AnswerMap{0: 1, 7: 2}, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(questions, tc.answers)
			if got != tc.want {
				t.Errorf("Score() = %d, want %d", got, tc.want)
			}
			if got < 0 || got > len(questions) {
				t.Errorf("Score() = %d out of bounds [0,%d]", got, len(questions))
			}
		})
	}
}

func TestScoreNoQuestions(t *testing.T) {
	if got := Score(nil, model.AnswerMap{0: 1}); got != 0 {
		t.Errorf("Score(nil, ...) = %d, want 0", got)
	}
}

func TestBuildReview(t *testing.T) {
	questions := threeQuestionSet()
	answers := model.AnswerMap{0: 1, 1: 0, 2: 1}
	sub := &model.Submission{
		Answers:        answers,
		Score:          Score(questions, answers),
		TotalQuestions: len(questions),
	}

	review := BuildReview(questions, sub)

	if review.Summary.Score != 2 {
		t.Errorf("summary score = %d, want 2", review.Summary.Score)
	}
	if review.Summary.TotalQuestions != 3 {
		t.Errorf("summary total = %d, want 3", review.Summary.TotalQuestions)
	}
	// 2/3 rounds half-up to 67.
	if review.Summary.Percentage != 67 {
		t.Errorf("summary percentage = %d, want 67", review.Summary.Percentage)
	}

	if len(review.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(review.Entries))
	}

	for i, want := range []bool{true, true, false} {
		if review.Entries[i].IsCorrect != want {
			t.Errorf("entry %d IsCorrect = %v, want %v", i, review.Entries[i].IsCorrect, want)
		}
		if review.Entries[i].ChosenOption == nil {
			t.Errorf("entry %d ChosenOption = nil, want set", i)
		}
	}

	if review.Entries[2].CorrectOption != 2 {
		t.Errorf("entry 2 CorrectOption = %d, want 2", review.Entries[2].CorrectOption)
	}
}

func TestBuildReviewAllUnanswered(t *testing.T) {
	questions := threeQuestionSet()
	sub := &model.Submission{
		Answers:        model.AnswerMap{},
		Score:          0,
		TotalQuestions: 3,
	}

	review := BuildReview(questions, sub)

	if review.Summary.Score != 0 || review.Summary.Percentage != 0 {
		t.Errorf("summary = %+v, want zero score and percentage", review.Summary)
	}
	for i, e := range review.Entries {
		if e.IsCorrect {
			t.Errorf("entry %d marked correct without an answer", i)
		}
		if e.ChosenOption != nil {
			t.Errorf("entry %d ChosenOption = %d, want nil", i, *e.ChosenOption)
		}
	}
}

func TestBuildReviewAllCorrect(t *testing.T) {
	questions := threeQuestionSet()
	answers := model.AnswerMap{0: 1, 1: 0, 2: 2}
	sub := &model.Submission{
		Answers:        answers,
		Score:          Score(questions, answers),
		TotalQuestions: len(questions),
	}

	review := BuildReview(questions, sub)

	if review.Summary.Score != 3 {
		t.Errorf("summary score = %d, want 3", review.Summary.Score)
	}
	if review.Summary.Percentage != 100 {
		t.Errorf("summary percentage = %d, want 100", review.Summary.Percentage)
	}
}

// A review is a pure function of persisted data: rebuilding it must yield
// identical output.
func TestBuildReviewIdempotent(t *testing.T) {
	questions := threeQuestionSet()
	sub := &model.Submission{
		Answers:        model.AnswerMap{0: 1, 2: 0},
		Score:          1,
		TotalQuestions: 3,
	}

	first := BuildReview(questions, sub)
	second := BuildReview(questions, sub)

	if first.Summary != second.Summary {
		t.Errorf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
	for i := range first.Entries {
		a, b := first.Entries[i], second.Entries[i]
		if a.IsCorrect != b.IsCorrect || a.CorrectOption != b.CorrectOption {
			t.Errorf("entry %d differs between builds", i)
		}
		if (a.ChosenOption == nil) != (b.ChosenOption == nil) {
			t.Errorf("entry %d chosen-option presence differs", i)
		}
	}
}

func TestBuildReviewZeroTotalGuard(t *testing.T) {
	sub := &model.Submission{Answers: model.AnswerMap{}, Score: 0, TotalQuestions: 0}

	review := BuildReview(nil, sub)
	if review.Summary.Percentage != 0 {
		t.Errorf("percentage = %d, want 0 for zero total", review.Summary.Percentage)
	}
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 rounds half-up
		{5, 8, 63},
		{3, 3, 100},
		{0, 5, 0},
	}

	for _, tc := range tests {
		sub := &model.Submission{Score: tc.score, TotalQuestions: tc.total}
		got := BuildReview(nil, sub).Summary.Percentage
		if got != tc.want {
			t.Errorf("percentage(%d/%d) = %d, want %d", tc.score, tc.total, got, tc.want)
		}
	}
}
