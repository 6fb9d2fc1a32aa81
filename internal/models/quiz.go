// internal/models/quiz.go
package models

import (
	"time"
)

// Quiz status values. Archiving hides a quiz from students but keeps the row
// so historical attempts stay resolvable.
const (
	QuizActive   = "active"
	QuizArchived = "archived"
)

const (
	DefaultTimeLimit    = 30 // minutes
	DefaultPassingScore = 70 // percent
)

// OptionsPerQuestion is fixed: every question carries exactly four options
// and a correct-answer index in [0,3].
const OptionsPerQuestion = 4

type Quiz struct {
	ID           uint       `json:"_id" gorm:"primaryKey"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	CourseID     uint       `json:"course" gorm:"index;not null"`
	InstructorID uint       `json:"instructor" gorm:"index;not null"`
	TimeLimit    uint       `json:"timeLimit"`    // minutes
	PassingScore int        `json:"passingScore"` // percent, 0-100
	Status       string     `json:"-" gorm:"default:active;index"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID            uint     `json:"-" gorm:"primaryKey"`
	QuizID        uint     `json:"-" gorm:"index"`
	Position      int      `json:"-"`
	Text          string   `json:"question" gorm:"not null"`
	Options       []string `json:"options" gorm:"serializer:json"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}
