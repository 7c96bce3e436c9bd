package dpp

import (
	"math"

	"github.com/shikshya/shikshya-backend/internal/model"
)

// ReviewEntry is the per-question breakdown shown after scoring.
// ChosenOption is nil for questions the student left unanswered.
type ReviewEntry struct {
	Index         int      `json:"index"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	ChosenOption  *int     `json:"chosen_option,omitempty"`
	IsCorrect     bool     `json:"is_correct"`
}

// ReviewSummary aggregates a submission's outcome.
type ReviewSummary struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
	Percentage     int `json:"percentage"`
}

// Review is the full replayable result view for one submission.
type Review struct {
	Entries []ReviewEntry `json:"entries"`
	Summary ReviewSummary `json:"summary"`
}

// BuildReview reconstructs the per-question review for a submission
// against its quiz's questions. Pure read transform: calling it twice for
// the same inputs yields identical output. The summary reuses the frozen
// score and total stored on the submission; the percentage rounds
// half-up. A zero question count (historically malformed data) yields 0%
// rather than dividing by zero.
func BuildReview(questions []model.Question, sub *model.Submission) *Review {
	entries := make([]ReviewEntry, len(questions))
	for i, q := range questions {
		entry := ReviewEntry{
			Index:         i,
			QuestionText:  q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
		}
		if chosen, ok := sub.Answers[i]; ok {
			c := chosen
			entry.ChosenOption = &c
			entry.IsCorrect = chosen == q.CorrectOption
		}
		entries[i] = entry
	}

	percentage := 0
	if sub.TotalQuestions > 0 {
		percentage = int(math.Round(100 * float64(sub.Score) / float64(sub.TotalQuestions)))
	}

	return &Review{
		Entries: entries,
		Summary: ReviewSummary{
			Score:          sub.Score,
			TotalQuestions: sub.TotalQuestions,
			Percentage:     percentage,
		},
	}
}
