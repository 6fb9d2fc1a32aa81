// internal/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearn/internal/models"
)

func TestFetchQuiz_DecodesStudentView(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quiz/7", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.APIResponse{
			Success: true,
			Data: models.StudentQuizView{
				ID:        7,
				Title:     "Midterm",
				TimeLimit: 30,
				Questions: []models.StudentQuestionView{
					{Text: "q1", Options: []string{"a", "b", "c", "d"}},
				},
			},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, "test-token")
	view, err := c.FetchQuiz(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Midterm", view.Title)
	assert.Equal(t, uint(30), view.TimeLimit)
	require.Len(t, view.Questions, 1)
	assert.Len(t, view.Questions[0].Options, 4)
}

func TestFetchQuiz_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		models.WriteError(w, http.StatusNotFound, "quiz not found")
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, "test-token")
	_, err := c.FetchQuiz(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchQuiz_NotEnrolled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		models.WriteError(w, http.StatusForbidden, "you are not enrolled in this course")
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, "test-token")
	_, err := c.FetchQuiz(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestSubmitAttempt_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/quiz/submit", r.URL.Path)

		var req models.SubmitAttemptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint(7), req.QuizID)
		require.Len(t, req.Answers, 2)
		assert.Nil(t, req.Answers[1].SelectedAnswer)

		models.WriteSuccess(w, http.StatusOK, "Quiz submitted successfully", models.AttemptResult{
			Score:          50,
			Passed:         false,
			CorrectAnswers: 1,
			TotalQuestions: 2,
			AttemptID:      31,
		})
	}))
	defer server.Close()

	selected := 2
	c := NewHTTPClient(server.URL, "test-token")
	result, err := c.SubmitAttempt(context.Background(), models.SubmitAttemptRequest{
		QuizID: 7,
		Answers: []models.SubmittedAnswer{
			{QuestionIndex: 0, SelectedAnswer: &selected},
			{QuestionIndex: 1, SelectedAnswer: nil},
		},
		TimeSpent: 3.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, uint(31), result.AttemptID)
}

func TestSubmitAttempt_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		models.WriteInternalError(w, "Failed to submit quiz", assert.AnError)
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, "test-token")
	_, err := c.SubmitAttempt(context.Background(), models.SubmitAttemptRequest{QuizID: 7})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNotEnrolled)
}
