// internal/quiz/service.go
package quiz

import (
	"fmt"
	"log"

	"elearn/internal/models"
)

// CourseDirectory is the enrollment collaborator: course lookup plus the
// membership check gating quiz access.
type CourseDirectory interface {
	GetCourse(courseID uint) (*models.Course, error)
	IsEnrolled(courseID, userID uint) (bool, error)
}

// Cache holds sanitized student quiz views. Every method may fail without
// affecting correctness; the database stays authoritative.
type Cache interface {
	GetStudentView(quizID uint) (*models.StudentQuizView, error)
	SetStudentView(view *models.StudentQuizView) error
	Invalidate(quizID uint) error
}

// ResultFeed pushes attempt summaries to instructors watching a quiz's
// results. Publishing is fire-and-forget.
type ResultFeed interface {
	PublishResult(quizID uint, data interface{})
}

type Service struct {
	store   Store
	courses CourseDirectory
	cache   Cache
	feed    ResultFeed
}

// NewService wires the scoring service. cache and feed may be nil.
func NewService(store Store, courses CourseDirectory, cache Cache, feed ResultFeed) *Service {
	return &Service{
		store:   store,
		courses: courses,
		cache:   cache,
		feed:    feed,
	}
}

type QuestionInput struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type CreateQuizRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	CourseID     uint            `json:"courseId"`
	Questions    []QuestionInput `json:"questions"`
	TimeLimit    uint            `json:"timeLimit"`
	PassingScore *int            `json:"passingScore"`
}

// UpdateQuizRequest carries the fields an instructor may change. Nil / empty
// fields are left untouched; questions, when present, replace the whole set.
type UpdateQuizRequest struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	Questions    []QuestionInput `json:"questions"`
	TimeLimit    *uint           `json:"timeLimit"`
	PassingScore *int            `json:"passingScore"`
}

type QuizResults struct {
	Quiz     QuizHeader           `json:"quiz"`
	Attempts []models.QuizAttempt `json:"attempts"`
}

type QuizHeader struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PassingScore int    `json:"passingScore"`
}

func (s *Service) CreateQuiz(instructorID uint, req CreateQuizRequest) (*models.Quiz, error) {
	if req.Title == "" || req.Description == "" || req.CourseID == 0 || len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: title, description, course ID, and questions are required", ErrValidation)
	}

	questions, err := validateQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourse(req.CourseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotOwner
	}

	timeLimit := req.TimeLimit
	if timeLimit == 0 {
		timeLimit = models.DefaultTimeLimit
	}
	passingScore := models.DefaultPassingScore
	if req.PassingScore != nil {
		passingScore = *req.PassingScore
	}
	if passingScore < 0 || passingScore > 100 {
		return nil, fmt.Errorf("%w: passing score must be between 0 and 100", ErrValidation)
	}

	quiz := &models.Quiz{
		Title:        req.Title,
		Description:  req.Description,
		CourseID:     req.CourseID,
		InstructorID: instructorID,
		TimeLimit:    timeLimit,
		PassingScore: passingScore,
		Status:       models.QuizActive,
		Questions:    questions,
	}

	if err := s.store.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) GetCourseQuizzes(courseID uint) ([]models.Quiz, error) {
	return s.store.GetQuizzesByCourse(courseID)
}

// GetQuizForStudent returns the sanitized view of an active quiz, gated on
// enrollment in the owning course.
func (s *Service) GetQuizForStudent(quizID, studentID uint) (*models.StudentQuizView, error) {
	quiz, err := s.getActiveQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEnrollment(quiz.CourseID, studentID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if view, err := s.cache.GetStudentView(quizID); err == nil {
			return view, nil
		}
	}

	view := quiz.StudentView()
	if s.cache != nil {
		if err := s.cache.SetStudentView(&view); err != nil {
			log.Printf("Error caching quiz %d view: %v", quizID, err)
		}
	}
	return &view, nil
}

// SubmitAttempt is the authoritative grading path. Correctness is recomputed
// from the stored answer keys, one immutable attempt row is written, and the
// result summary carries no key material. Nothing deduplicates repeat
// submissions: a student submitting twice produces two attempt rows.
func (s *Service) SubmitAttempt(studentID uint, req models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	quiz, err := s.getActiveQuiz(req.QuizID)
	if err != nil {
		return nil, err
	}

	if err := s.requireEnrollment(quiz.CourseID, studentID); err != nil {
		return nil, err
	}

	graded, correct := ScoreAnswers(quiz.Questions, req.Answers)
	score := PercentScore(correct, len(quiz.Questions))
	passed := score >= quiz.PassingScore

	attempt := &models.QuizAttempt{
		StudentID: studentID,
		QuizID:    quiz.ID,
		CourseID:  quiz.CourseID,
		Answers:   graded,
		Score:     score,
		Passed:    passed,
		TimeSpent: req.TimeSpent,
	}

	if err := s.store.SaveAttempt(attempt); err != nil {
		return nil, err
	}

	result := &models.AttemptResult{
		Score:          score,
		Passed:         passed,
		CorrectAnswers: correct,
		TotalQuestions: len(quiz.Questions),
		AttemptID:      attempt.ID,
	}

	if s.feed != nil {
		s.feed.PublishResult(quiz.ID, map[string]interface{}{
			"attemptId":   attempt.ID,
			"student":     studentID,
			"score":       score,
			"passed":      passed,
			"attemptedAt": attempt.CreatedAt,
		})
	}

	return result, nil
}

func (s *Service) GetQuizResults(quizID, instructorID uint) (*QuizResults, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.InstructorID != instructorID {
		return nil, ErrNotOwner
	}

	attempts, err := s.store.GetAttemptsByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	return &QuizResults{
		Quiz: QuizHeader{
			Title:        quiz.Title,
			Description:  quiz.Description,
			PassingScore: quiz.PassingScore,
		},
		Attempts: attempts,
	}, nil
}

func (s *Service) UpdateQuiz(quizID, instructorID uint, req UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.InstructorID != instructorID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, fmt.Errorf("%w: passing score must be between 0 and 100", ErrValidation)
		}
		quiz.PassingScore = *req.PassingScore
	}
	if req.Questions != nil {
		questions, err := validateQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
	}

	if err := s.store.UpdateQuiz(quiz); err != nil {
		return nil, err
	}
	s.invalidate(quizID)
	return quiz, nil
}

// ArchiveQuiz flips the quiz to archived. The row and its attempts are kept.
func (s *Service) ArchiveQuiz(quizID, instructorID uint) error {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return err
	}
	if quiz.InstructorID != instructorID {
		return ErrNotOwner
	}

	if err := s.store.UpdateQuizStatus(quizID, models.QuizArchived); err != nil {
		return err
	}
	s.invalidate(quizID)
	return nil
}

// IsQuizOwner reports whether the instructor owns the quiz; used by the
// result feed to gate subscriptions.
func (s *Service) IsQuizOwner(quizID, instructorID uint) (bool, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return false, err
	}
	return quiz.InstructorID == instructorID, nil
}

func (s *Service) getActiveQuiz(quizID uint) (*models.Quiz, error) {
	quiz, err := s.store.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.QuizActive {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Service) requireEnrollment(courseID, studentID uint) error {
	enrolled, err := s.courses.IsEnrolled(courseID, studentID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}

func (s *Service) invalidate(quizID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(quizID); err != nil {
		log.Printf("Error invalidating cache for quiz %d: %v", quizID, err)
	}
}

func validateQuestions(inputs []QuestionInput) ([]models.Question, error) {
	questions := make([]models.Question, len(inputs))
	for i, input := range inputs {
		if input.Text == "" || len(input.Options) != models.OptionsPerQuestion ||
			input.CorrectAnswer == nil || *input.CorrectAnswer < 0 || *input.CorrectAnswer >= models.OptionsPerQuestion {
			return nil, fmt.Errorf("%w: invalid question format at index %d", ErrValidation, i)
		}
		questions[i] = models.Question{
			Position:      i,
			Text:          input.Text,
			Options:       input.Options,
			CorrectAnswer: *input.CorrectAnswer,
			Explanation:   input.Explanation,
		}
	}
	return questions, nil
}
