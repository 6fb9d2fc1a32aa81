// internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"elearn/internal/auth"
	"elearn/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.service.CreateQuiz(userID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to create quiz")
		return
	}

	models.WriteSuccess(w, http.StatusCreated, "Quiz created successfully", quiz)
}

func (h *Handler) GetCourseQuizzes(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}

	quizzes, err := h.service.GetCourseQuizzes(courseID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch quizzes")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "", quizzes)
}

func (h *Handler) GetQuizDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizID, err := pathID(r, "quizId")
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	view, err := h.service.GetQuizForStudent(quizID, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch quiz details")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "", view)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.SubmitAttempt(userID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to submit quiz")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "Quiz submitted successfully", result)
}

func (h *Handler) GetQuizResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizID, err := pathID(r, "quizId")
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	results, err := h.service.GetQuizResults(quizID, userID)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch quiz results")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "", results)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizID, err := pathID(r, "quizId")
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	var req UpdateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.service.UpdateQuiz(quizID, userID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to update quiz")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "Quiz updated successfully", quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		models.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quizID, err := pathID(r, "quizId")
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	if err := h.service.ArchiveQuiz(quizID, userID); err != nil {
		writeServiceError(w, err, "Failed to delete quiz")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "Quiz deleted successfully", nil)
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	return uint(id), err
}

// writeServiceError maps the service error taxonomy onto the envelope:
// validation 400, not-found 404, forbidden 403, everything else 500 with the
// underlying error attached for diagnostics.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		models.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrQuizNotFound), errors.Is(err, ErrCourseNotFound):
		models.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotEnrolled), errors.Is(err, ErrNotOwner):
		models.WriteError(w, http.StatusForbidden, err.Error())
	default:
		models.WriteInternalError(w, fallback, err)
	}
}
