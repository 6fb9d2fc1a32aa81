// internal/quiz/scoring.go
package quiz

import (
	"math"

	"elearn/internal/models"
)

// ScoreAnswers grades a submission against the stored answer keys. Submitted
// entries are matched to questions by questionIndex; a question with no
// matching entry, or a nil selection, is graded incorrect. Correctness is
// always recomputed here — nothing the client claims about its own answers
// is consulted.
func ScoreAnswers(questions []models.Question, submitted []models.SubmittedAnswer) ([]models.AttemptAnswer, int) {
	graded := make([]models.AttemptAnswer, len(questions))
	correct := 0

	for i, question := range questions {
		selected := selectedFor(submitted, i)
		isCorrect := selected != nil && *selected == question.CorrectAnswer
		if isCorrect {
			correct++
		}
		graded[i] = models.AttemptAnswer{
			QuestionIndex:  i,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
		}
	}

	return graded, correct
}

func selectedFor(submitted []models.SubmittedAnswer, questionIndex int) *int {
	for _, answer := range submitted {
		if answer.QuestionIndex == questionIndex {
			return answer.SelectedAnswer
		}
	}
	return nil
}

// PercentScore is the rounded percentage of correct answers, half rounding
// up. A quiz with no questions scores 0.
func PercentScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
