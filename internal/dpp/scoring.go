package dpp

import "github.com/shikshya/shikshya-backend/internal/model"

// Score counts the questions whose chosen option matches the correct
// option. Absent answers never match. Pure and total: any well-formed
// input yields a count in [0, len(questions)].
func Score(questions []model.Question, answers model.AnswerMap) int {
	correct := 0
	for i, q := range questions {
		if chosen, ok := answers[i]; ok && chosen == q.CorrectOption {
			correct++
		}
	}
	return correct
}
