// internal/models/dto.go
package models

import (
	"time"
)

// StudentQuestionView carries a question as students see it while taking a
// quiz: text and options only, never the correct-answer index or explanation.
type StudentQuestionView struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

type StudentQuizView struct {
	ID          uint                  `json:"_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	TimeLimit   uint                  `json:"timeLimit"`
	Questions   []StudentQuestionView `json:"questions"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// StudentView strips the answer key from a quiz.
func (q Quiz) StudentView() StudentQuizView {
	questions := make([]StudentQuestionView, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = StudentQuestionView{
			Text:    question.Text,
			Options: question.Options,
		}
	}

	return StudentQuizView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		TimeLimit:   q.TimeLimit,
		Questions:   questions,
		CreatedAt:   q.CreatedAt,
	}
}

// SubmittedAnswer is one entry of a submission as sent by the client.
// SelectedAnswer nil means "no selection". Any correctness flag a client
// might attach is not even decoded.
type SubmittedAnswer struct {
	QuestionIndex  int  `json:"questionIndex"`
	SelectedAnswer *int `json:"selectedAnswer"`
}

type SubmitAttemptRequest struct {
	QuizID    uint              `json:"quizId"`
	Answers   []SubmittedAnswer `json:"answers"`
	TimeSpent float64           `json:"timeSpent"` // minutes
}

// AttemptResult is the summary returned after grading. It never carries the
// answer key or explanations.
type AttemptResult struct {
	Score          int  `json:"score"`
	Passed         bool `json:"passed"`
	CorrectAnswers int  `json:"correctAnswers"`
	TotalQuestions int  `json:"totalQuestions"`
	AttemptID      uint `json:"attemptId"`
}
