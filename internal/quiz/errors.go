// internal/quiz/errors.go
package quiz

import "errors"

var (
	ErrQuizNotFound   = errors.New("quiz not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrNotEnrolled    = errors.New("you are not enrolled in this course")
	ErrNotOwner       = errors.New("permission denied")

	// ErrValidation is the base of every request-shape failure; wrap it with
	// the field-specific message so handlers can map the whole family to 400.
	ErrValidation = errors.New("validation failed")
)
