// internal/session/session.go
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"elearn/internal/models"
)

// QuizAPI is what a session needs from the server: the sanitized quiz and
// the grading endpoint. internal/client implements it over HTTP.
type QuizAPI interface {
	FetchQuiz(ctx context.Context, quizID uint) (*models.StudentQuizView, error)
	SubmitAttempt(ctx context.Context, req models.SubmitAttemptRequest) (*models.AttemptResult, error)
}

type State string

const (
	StateIdle       State = "idle"
	StateLoaded     State = "loaded" // quiz fetched, countdown not yet running
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed" // auto-submit at expiry failed; attempt lost
)

var (
	ErrNotInProgress  = errors.New("session is not in progress")
	ErrAlreadyStarted = errors.New("session already started")
	ErrQuestionIndex  = errors.New("question index out of range")
	ErrOptionIndex    = errors.New("option index out of range")
)

// Session holds the ephemeral state of one quiz-taking run: the sanitized
// quiz, the nullable selections, and the countdown. All transitions go
// through the mutex, so a manual submit racing the expiry tick resolves to
// exactly one network submission.
type Session struct {
	id  string
	api QuizAPI

	mu        sync.Mutex
	state     State
	quiz      *models.StudentQuizView
	answers   []*int
	remaining int // seconds
	result    *models.AttemptResult
	stop      chan struct{}

	// tickEvery is one second outside of tests.
	tickEvery time.Duration
}

func New(api QuizAPI) *Session {
	return &Session{
		id:        uuid.NewString(),
		api:       api,
		state:     StateIdle,
		tickEvery: time.Second,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Result is the last grading summary, nil until the session completes.
func (s *Session) Result() *models.AttemptResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Start fetches the quiz, initializes the null-filled answer sequence and
// the countdown, and moves the session into InProgress. Valid from Idle or
// from a terminal state (retaking after Completed/Failed starts over).
func (s *Session) Start(ctx context.Context, quizID uint) error {
	s.mu.Lock()
	switch s.state {
	case StateIdle, StateCompleted, StateFailed:
	default:
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.mu.Unlock()

	quiz, err := s.api.FetchQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StateCompleted, StateFailed:
	default:
		// Someone else started this session while the fetch was in flight.
		return ErrAlreadyStarted
	}
	s.quiz = quiz
	s.answers = make([]*int, len(quiz.Questions))
	s.remaining = int(quiz.TimeLimit) * 60
	s.result = nil
	s.state = StateLoaded
	s.beginLocked()
	return nil
}

// SelectAnswer records a choice. Last write wins; selections are only
// mutable while the countdown runs.
func (s *Session) SelectAnswer(questionIndex, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if questionIndex < 0 || questionIndex >= len(s.answers) {
		return ErrQuestionIndex
	}
	if optionIndex < 0 || optionIndex >= models.OptionsPerQuestion {
		return ErrOptionIndex
	}

	selected := optionIndex
	s.answers[questionIndex] = &selected
	return nil
}

// Submit sends the full answer set for grading. A second trigger while a
// submission is in flight, or after completion, is a no-op. On failure the
// session falls back to InProgress so the learner sees the error and the
// countdown keeps running.
func (s *Session) Submit(ctx context.Context) (*models.AttemptResult, error) {
	return s.submit(ctx, false)
}

// Exit abandons the run without submitting; no attempt record is created.
func (s *Session) Exit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	s.stopCountdownLocked()
	s.state = StateIdle
	s.quiz = nil
	s.answers = nil
	s.remaining = 0
	return nil
}

// Tick advances the countdown by one second. At zero it fires the one
// automatic transition: submission with whatever is answered, unanswered
// questions included as null selections. Exposed so tests can drive time.
func (s *Session) Tick() bool {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return true
	}
	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return false
	}
	s.remaining = 0
	s.mu.Unlock()

	if _, err := s.submit(context.Background(), true); err != nil {
		log.Printf("Auto-submit for session %s failed: %v", s.id, err)
	}
	return true
}

func (s *Session) submit(ctx context.Context, auto bool) (*models.AttemptResult, error) {
	s.mu.Lock()
	if s.state != StateInProgress {
		// Double-fire guard: the submission already went out (or the
		// session never started). Hand back whatever result exists.
		result := s.result
		s.mu.Unlock()
		return result, nil
	}
	s.state = StateSubmitting
	s.stopCountdownLocked()

	req := models.SubmitAttemptRequest{
		QuizID:    s.quiz.ID,
		Answers:   make([]models.SubmittedAnswer, len(s.answers)),
		TimeSpent: float64(int(s.quiz.TimeLimit)*60-s.remaining) / 60,
	}
	for i, selected := range s.answers {
		req.Answers[i] = models.SubmittedAnswer{
			QuestionIndex:  i,
			SelectedAnswer: selected,
		}
	}
	s.mu.Unlock()

	result, err := s.api.SubmitAttempt(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if auto || s.remaining <= 0 {
			// Nothing left on the clock to retry with; the attempt is
			// lost. There is no persisted draft to recover from.
			s.state = StateFailed
			return nil, err
		}
		s.state = StateInProgress
		s.beginLocked()
		return nil, err
	}

	s.result = result
	s.state = StateCompleted
	return result, nil
}

// beginLocked starts the countdown goroutine. Caller holds the mutex.
func (s *Session) beginLocked() {
	s.state = StateInProgress
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if s.Tick() {
					return
				}
			}
		}
	}()
}

func (s *Session) stopCountdownLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
