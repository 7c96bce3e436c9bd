package model

import "testing"

func TestQuestionWellFormed(t *testing.T) {
	base := Question{
		Text:          "What is 2+2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectOption: 1,
	}

	tests := []struct {
		name   string
		mutate func(q *Question)
		want   bool
	}{
		{"complete", func(q *Question) {}, true},
		{"empty text", func(q *Question) { q.Text = "" }, false},
		{"too few options", func(q *Question) { q.Options = q.Options[:3] }, false},
		{"too many options", func(q *Question) { q.Options = append(q.Options, "7") }, false},
		{"blank option", func(q *Question) { q.Options[2] = "" }, false},
		{"negative correct index", func(q *Question) { q.CorrectOption = -1 }, false},
		{"correct index past range", func(q *Question) { q.CorrectOption = 4 }, false},
		{"correct at last slot", func(q *Question) { q.CorrectOption = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			q.Options = append([]string(nil), base.Options...)
			tt.mutate(&q)
			if got := q.WellFormed(); got != tt.want {
				t.Errorf("WellFormed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPayloadForStripsAnswers(t *testing.T) {
	quiz := &Quiz{
		Title: "DPP 1",
		Questions: []Question{
			{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
			{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: 0},
		},
	}

	payload := PayloadFor(quiz)
	if len(payload.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(payload.Questions))
	}
	for i, q := range payload.Questions {
		if q.Text != quiz.Questions[i].Text {
			t.Errorf("question %d text mismatch", i)
		}
		if len(q.Options) != OptionCount {
			t.Errorf("question %d has %d options", i, len(q.Options))
		}
	}
}
