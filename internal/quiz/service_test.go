// internal/quiz/service_test.go
package quiz

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearn/internal/models"
)

// memoryStore keeps quizzes and attempts in maps so service behavior is
// testable without postgres.
type memoryStore struct {
	mu       sync.Mutex
	nextID   uint
	quizzes  map[uint]*models.Quiz
	attempts []models.QuizAttempt
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID:  1,
		quizzes: make(map[uint]*models.Quiz),
	}
}

func (m *memoryStore) CreateQuiz(quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz.ID = m.nextID
	m.nextID++
	stored := *quiz
	m.quizzes[quiz.ID] = &stored
	return nil
}

func (m *memoryStore) GetQuizByID(quizID uint) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[quizID]
	if !ok {
		return nil, ErrQuizNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (m *memoryStore) GetQuizzesByCourse(courseID uint) ([]models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var quizzes []models.Quiz
	for _, quiz := range m.quizzes {
		if quiz.CourseID == courseID && quiz.Status == models.QuizActive {
			quizzes = append(quizzes, *quiz)
		}
	}
	return quizzes, nil
}

func (m *memoryStore) UpdateQuiz(quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quiz.ID]; !ok {
		return ErrQuizNotFound
	}
	stored := *quiz
	m.quizzes[quiz.ID] = &stored
	return nil
}

func (m *memoryStore) UpdateQuizStatus(quizID uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[quizID]
	if !ok {
		return ErrQuizNotFound
	}
	quiz.Status = status
	return nil
}

func (m *memoryStore) SaveAttempt(attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = m.nextID
	m.nextID++
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *memoryStore) GetAttemptsByQuiz(quizID uint) ([]models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var attempts []models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.QuizID == quizID {
			attempts = append(attempts, attempt)
		}
	}
	return attempts, nil
}

// fakeCourses owns one course and one enrolled-student set.
type fakeCourses struct {
	course   models.Course
	enrolled map[uint]bool
}

func (f *fakeCourses) GetCourse(courseID uint) (*models.Course, error) {
	if courseID != f.course.ID {
		return nil, ErrCourseNotFound
	}
	copied := f.course
	return &copied, nil
}

func (f *fakeCourses) IsEnrolled(courseID, userID uint) (bool, error) {
	if courseID != f.course.ID {
		return false, ErrCourseNotFound
	}
	return f.enrolled[userID], nil
}

type recordingFeed struct {
	published []uint
}

func (r *recordingFeed) PublishResult(quizID uint, data interface{}) {
	r.published = append(r.published, quizID)
}

const (
	instructorID = 1
	studentID    = 2
	strangerID   = 3
	courseID     = 10
)

func newTestService(t *testing.T) (*Service, *memoryStore, *recordingFeed) {
	t.Helper()
	store := newMemoryStore()
	courses := &fakeCourses{
		course:   models.Course{ID: courseID, Name: "Algorithms", InstructorID: instructorID},
		enrolled: map[uint]bool{studentID: true},
	}
	feed := &recordingFeed{}
	return NewService(store, courses, nil, feed), store, feed
}

func createTestQuiz(t *testing.T, service *Service, passingScore int, correct ...int) *models.Quiz {
	t.Helper()
	questions := make([]QuestionInput, len(correct))
	for i, c := range correct {
		answer := c
		questions[i] = QuestionInput{
			Text:          "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: &answer,
		}
	}
	quiz, err := service.CreateQuiz(instructorID, CreateQuizRequest{
		Title:        "Midterm",
		Description:  "Covers weeks 1-6",
		CourseID:     courseID,
		Questions:    questions,
		PassingScore: &passingScore,
	})
	require.NoError(t, err)
	return quiz
}

func TestCreateQuiz_Validation(t *testing.T) {
	service, _, _ := newTestService(t)
	answer := 0

	cases := []struct {
		name string
		req  CreateQuizRequest
	}{
		{"missing title", CreateQuizRequest{
			Description: "d", CourseID: courseID,
			Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: &answer}},
		}},
		{"no questions", CreateQuizRequest{
			Title: "t", Description: "d", CourseID: courseID,
		}},
		{"three options", CreateQuizRequest{
			Title: "t", Description: "d", CourseID: courseID,
			Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c"}, CorrectAnswer: &answer}},
		}},
		{"missing correct answer", CreateQuizRequest{
			Title: "t", Description: "d", CourseID: courseID,
			Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c", "d"}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateQuiz(instructorID, tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateQuiz_CorrectAnswerOutOfRange(t *testing.T) {
	service, _, _ := newTestService(t)
	answer := 4
	_, err := service.CreateQuiz(instructorID, CreateQuizRequest{
		Title: "t", Description: "d", CourseID: courseID,
		Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: &answer}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateQuiz_RequiresCourseOwnership(t *testing.T) {
	service, _, _ := newTestService(t)
	answer := 0
	_, err := service.CreateQuiz(strangerID, CreateQuizRequest{
		Title: "t", Description: "d", CourseID: courseID,
		Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: &answer}},
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateQuiz_Defaults(t *testing.T) {
	service, _, _ := newTestService(t)
	answer := 0
	quiz, err := service.CreateQuiz(instructorID, CreateQuizRequest{
		Title: "t", Description: "d", CourseID: courseID,
		Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: &answer}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(models.DefaultTimeLimit), quiz.TimeLimit)
	assert.Equal(t, models.DefaultPassingScore, quiz.PassingScore)
}

func TestGetQuizForStudent_StripsAnswerKey(t *testing.T) {
	service, _, _ := newTestService(t)
	createTestQuiz(t, service, 70, 2, 3)

	view, err := service.GetQuizForStudent(1, studentID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 2)

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "correctAnswer")
	assert.NotContains(t, string(payload), "explanation")
}

func TestGetQuizForStudent_NotEnrolled(t *testing.T) {
	service, _, _ := newTestService(t)
	createTestQuiz(t, service, 70, 0)

	_, err := service.GetQuizForStudent(1, strangerID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestGetQuizForStudent_NotFound(t *testing.T) {
	service, _, _ := newTestService(t)
	_, err := service.GetQuizForStudent(99, studentID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitAttempt_GradesAndPersists(t *testing.T) {
	service, store, feed := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0, 1, 2, 3)

	result, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{
		QuizID: quiz.ID,
		Answers: []models.SubmittedAnswer{
			{QuestionIndex: 0, SelectedAnswer: intPtr(0)},
			{QuestionIndex: 1, SelectedAnswer: intPtr(1)},
			{QuestionIndex: 2, SelectedAnswer: intPtr(2)},
			{QuestionIndex: 3, SelectedAnswer: intPtr(0)},
		},
		TimeSpent: 12.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.NotZero(t, result.AttemptID)

	require.Len(t, store.attempts, 1)
	attempt := store.attempts[0]
	assert.Equal(t, uint(studentID), attempt.StudentID)
	assert.Equal(t, quiz.ID, attempt.QuizID)
	assert.Equal(t, uint(courseID), attempt.CourseID)
	assert.Equal(t, 12.5, attempt.TimeSpent)
	assert.False(t, attempt.Answers[3].IsCorrect)

	assert.Equal(t, []uint{quiz.ID}, feed.published)
}

func TestSubmitAttempt_IgnoresClientCorrectnessEntirely(t *testing.T) {
	// The request type has no correctness field at all; grading only reads
	// the stored key. Submitting a wrong answer at every index yields zero.
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0, 0)

	result, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{
		QuizID: quiz.ID,
		Answers: []models.SubmittedAnswer{
			{QuestionIndex: 0, SelectedAnswer: intPtr(3)},
			{QuestionIndex: 1, SelectedAnswer: intPtr(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitAttempt_NotEnrolledCreatesNoAttempt(t *testing.T) {
	service, store, feed := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	_, err := service.SubmitAttempt(strangerID, models.SubmitAttemptRequest{
		QuizID:  quiz.ID,
		Answers: []models.SubmittedAnswer{{QuestionIndex: 0, SelectedAnswer: intPtr(0)}},
	})
	assert.ErrorIs(t, err, ErrNotEnrolled)
	assert.Empty(t, store.attempts)
	assert.Empty(t, feed.published)
}

func TestSubmitAttempt_QuizNotFound(t *testing.T) {
	service, store, _ := newTestService(t)
	_, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{QuizID: 42})
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.Empty(t, store.attempts)
}

func TestSubmitAttempt_OneOfTwoFails(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0, 1)

	result, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{
		QuizID: quiz.ID,
		Answers: []models.SubmittedAnswer{
			{QuestionIndex: 0, SelectedAnswer: intPtr(0)},
			{QuestionIndex: 1, SelectedAnswer: intPtr(0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitAttempt_RepeatSubmissionsAppend(t *testing.T) {
	// Nothing deduplicates attempts: two submissions, two rows.
	service, store, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	req := models.SubmitAttemptRequest{
		QuizID:  quiz.ID,
		Answers: []models.SubmittedAnswer{{QuestionIndex: 0, SelectedAnswer: intPtr(0)}},
	}
	_, err := service.SubmitAttempt(studentID, req)
	require.NoError(t, err)
	_, err = service.SubmitAttempt(studentID, req)
	require.NoError(t, err)

	assert.Len(t, store.attempts, 2)
}

func TestGetQuizResults_OwnerOnly(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 60, 0)

	_, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{
		QuizID:  quiz.ID,
		Answers: []models.SubmittedAnswer{{QuestionIndex: 0, SelectedAnswer: intPtr(0)}},
	})
	require.NoError(t, err)

	results, err := service.GetQuizResults(quiz.ID, instructorID)
	require.NoError(t, err)
	assert.Equal(t, "Midterm", results.Quiz.Title)
	assert.Equal(t, 60, results.Quiz.PassingScore)
	require.Len(t, results.Attempts, 1)

	_, err = service.GetQuizResults(quiz.ID, strangerID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestArchiveQuiz_HidesFromStudents(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	require.NoError(t, service.ArchiveQuiz(quiz.ID, instructorID))

	_, err := service.GetQuizForStudent(quiz.ID, studentID)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	_, err = service.SubmitAttempt(studentID, models.SubmitAttemptRequest{QuizID: quiz.ID})
	assert.ErrorIs(t, err, ErrQuizNotFound)

	// The owner still reads results for an archived quiz.
	_, err = service.GetQuizResults(quiz.ID, instructorID)
	assert.NoError(t, err)
}

func TestArchiveQuiz_OwnerOnly(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	err := service.ArchiveQuiz(quiz.ID, strangerID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUpdateQuiz_OwnerGatedAndValidated(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	_, err := service.UpdateQuiz(quiz.ID, strangerID, UpdateQuizRequest{})
	assert.ErrorIs(t, err, ErrNotOwner)

	badScore := 120
	_, err = service.UpdateQuiz(quiz.ID, instructorID, UpdateQuizRequest{PassingScore: &badScore})
	assert.ErrorIs(t, err, ErrValidation)

	newTitle := "Final"
	newScore := 80
	updated, err := service.UpdateQuiz(quiz.ID, instructorID, UpdateQuizRequest{
		Title:        &newTitle,
		PassingScore: &newScore,
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, 80, updated.PassingScore)
}

func TestZeroQuestionQuizScoresZero(t *testing.T) {
	// CreateQuiz refuses empty question sets, so seed the store directly:
	// a quiz emptied of questions must grade to score 0 without dividing by
	// zero, and passes only when the passing score is 0.
	for _, passingScore := range []int{0, 70} {
		service, store, _ := newTestService(t)
		store.CreateQuiz(&models.Quiz{
			Title:        "Empty",
			CourseID:     courseID,
			InstructorID: instructorID,
			PassingScore: passingScore,
			Status:       models.QuizActive,
		})

		result, err := service.SubmitAttempt(studentID, models.SubmitAttemptRequest{QuizID: 1})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, passingScore == 0, result.Passed)
		assert.Equal(t, 0, result.TotalQuestions)
	}
}

func TestIsQuizOwner(t *testing.T) {
	service, _, _ := newTestService(t)
	quiz := createTestQuiz(t, service, 70, 0)

	owner, err := service.IsQuizOwner(quiz.ID, instructorID)
	require.NoError(t, err)
	assert.True(t, owner)

	owner, err = service.IsQuizOwner(quiz.ID, studentID)
	require.NoError(t, err)
	assert.False(t, owner)

	_, err = service.IsQuizOwner(99, instructorID)
	assert.True(t, errors.Is(err, ErrQuizNotFound))
}
