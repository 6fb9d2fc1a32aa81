// internal/auth/handler.go
package auth

import (
	"encoding/json"
	"net/http"

	"elearn/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		models.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	models.WriteSuccess(w, http.StatusOK, "", map[string]string{"token": token})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	}

	if err := h.service.Register(user); err != nil {
		models.WriteError(w, http.StatusBadRequest, "Registration failed")
		return
	}

	models.WriteSuccess(w, http.StatusCreated, "Registered successfully", nil)
}
