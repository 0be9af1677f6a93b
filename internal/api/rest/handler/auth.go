package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// AuthService defines account registration and login operations.
type AuthService interface {
	Register(ctx context.Context, username, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Auth handles the registration and login endpoints.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"username", req.Username)

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"username", req.Username,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"username", user.Username,
		"user_id", user.ID)

	writeJSON(w, http.StatusCreated, registerResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// Login exchanges credentials for a bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"username", req.Username)

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"username", req.Username,
			"error", err.Error())
		writeError(w, err)
		return
	}

	h.logger.Info("Auth handler: login completed",
		"username", req.Username)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
