// internal/course/repository.go
package course

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"elearn/internal/models"
	"elearn/internal/quiz"
)

// Repository is the enrollment collaborator consumed by the quiz service.
// Course CRUD itself lives elsewhere; this surface is lookup + membership.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quiz.ErrCourseNotFound
		}
		log.Printf("Error getting course %d: %v", courseID, err)
		return nil, err
	}
	return &course, nil
}

// IsEnrolled reports membership of the student in the course's enrolled set.
func (r *Repository) IsEnrolled(courseID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("course_enrollments").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("Error checking enrollment for user %d in course %d: %v", userID, courseID, err)
		return false, err
	}
	return count > 0, nil
}

// Enroll adds a student to the course. Used by seeding and tests; enrollment
// through payment capture is out of scope here.
func (r *Repository) Enroll(courseID, userID uint) error {
	course := models.Course{ID: courseID}
	return r.db.Model(&course).Association("Students").Append(&models.User{ID: userID})
}
