// internal/models/attempt.go
package models

import (
	"time"
)

// AttemptAnswer is one graded entry of an attempt. SelectedAnswer is nil when
// the student left the question unanswered; IsCorrect is computed server-side
// at submission time and never recomputed afterwards.
type AttemptAnswer struct {
	QuestionIndex  int  `json:"questionIndex"`
	SelectedAnswer *int `json:"selectedAnswer"`
	IsCorrect      bool `json:"isCorrect"`
}

// QuizAttempt is the append-only record of one graded submission. Rows are
// created exactly once and never updated or deleted.
type QuizAttempt struct {
	ID        uint            `json:"_id" gorm:"primaryKey"`
	CreatedAt time.Time       `json:"attemptedAt"`
	StudentID uint            `json:"student" gorm:"index;not null"`
	QuizID    uint            `json:"quiz" gorm:"index;not null"`
	CourseID  uint            `json:"course" gorm:"index;not null"`
	Answers   []AttemptAnswer `json:"answers" gorm:"serializer:json"`
	Score     int             `json:"score"`  // percent, 0-100, rounded
	Passed    bool            `json:"passed"` // score >= quiz passing score at submission time
	TimeSpent float64         `json:"timeSpent"` // minutes
}
