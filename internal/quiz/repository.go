// internal/quiz/repository.go
package quiz

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"elearn/internal/models"
)

// Store is what the service needs from persistence. The gorm Repository is
// the production implementation; tests use an in-memory one.
type Store interface {
	CreateQuiz(quiz *models.Quiz) error
	GetQuizByID(quizID uint) (*models.Quiz, error)
	GetQuizzesByCourse(courseID uint) ([]models.Quiz, error)
	UpdateQuiz(quiz *models.Quiz) error
	UpdateQuizStatus(quizID uint, status string) error
	SaveAttempt(attempt *models.QuizAttempt) error
	GetAttemptsByQuiz(quizID uint) ([]models.QuizAttempt, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuiz(quiz *models.Quiz) error {
	err := r.db.Create(quiz).Error
	if err != nil {
		log.Printf("Error creating quiz: %v", err)
		return err
	}
	return nil
}

func (r *Repository) GetQuizByID(quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).First(&quiz, quizID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		log.Printf("Error getting quiz %d: %v", quizID, err)
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuizzesByCourse(courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.Where("course_id = ? AND status = ?", courseID, models.QuizActive).
		Order("created_at desc").
		Find(&quizzes).Error

	if err != nil {
		log.Printf("Error getting quizzes for course %d: %v", courseID, err)
		return nil, err
	}
	return quizzes, nil
}

// UpdateQuiz saves the quiz row; when the question set changed, the old rows
// are dropped and the new set written in their place.
func (r *Repository) UpdateQuiz(quiz *models.Quiz) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if quiz.Questions != nil {
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
			for i := range quiz.Questions {
				quiz.Questions[i].ID = 0
				quiz.Questions[i].QuizID = quiz.ID
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quiz).Error
	})
	if err != nil {
		log.Printf("Error updating quiz %d: %v", quiz.ID, err)
		return err
	}
	return nil
}

func (r *Repository) UpdateQuizStatus(quizID uint, status string) error {
	err := r.db.Model(&models.Quiz{}).Where("id = ?", quizID).Update("status", status).Error
	if err != nil {
		log.Printf("Error updating status of quiz %d: %v", quizID, err)
		return err
	}
	return nil
}

// SaveAttempt inserts one attempt row. Attempts are append-only; there is no
// update or delete path.
func (r *Repository) SaveAttempt(attempt *models.QuizAttempt) error {
	err := r.db.Create(attempt).Error
	if err != nil {
		log.Printf("Error saving attempt for quiz %d: %v", attempt.QuizID, err)
		return err
	}
	return nil
}

func (r *Repository) GetAttemptsByQuiz(quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.Where("quiz_id = ?", quizID).
		Order("created_at desc").
		Find(&attempts).Error

	if err != nil {
		log.Printf("Error getting attempts for quiz %d: %v", quizID, err)
		return nil, err
	}
	return attempts, nil
}
