// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"elearn/internal/models"
)

var (
	ErrNotFound    = errors.New("quiz not found")
	ErrNotEnrolled = errors.New("you are not enrolled in this course")
)

// HTTPClient talks to the quiz API on behalf of one authenticated student.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

// FetchQuiz loads the sanitized quiz detail. The server strips answer keys
// before this payload leaves it.
func (c *HTTPClient) FetchQuiz(ctx context.Context, quizID uint) (*models.StudentQuizView, error) {
	url := fmt.Sprintf("%s/api/quiz/%d", c.baseURL, quizID)

	rawData, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var view models.StudentQuizView
	if err := json.Unmarshal(rawData, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SubmitAttempt sends the full answer set for grading and returns the
// result summary.
func (c *HTTPClient) SubmitAttempt(ctx context.Context, req models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	url := c.baseURL + "/api/quiz/submit"

	rawData, err := c.doRequest(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, err
	}

	var result models.AttemptResult
	if err := json.Unmarshal(rawData, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, ErrNotFound
		case http.StatusForbidden:
			return nil, ErrNotEnrolled
		default:
			return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, envelope.Message)
		}
	}

	return envelope.Data, nil
}
