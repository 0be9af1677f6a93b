package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

// errorResponse is the uniform error body: {"detail": "..."}.
type errorResponse struct {
	Detail string `json:"detail"`
}

// handleError maps domain errors to an HTTP status and a client-safe message.
// Anything unmapped is an internal error and keeps its detail out of the body.
func handleError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrUsernameTaken):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, "missing authorization token"
	case errors.Is(err, model.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, model.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "daily analysis limit reached"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, detail := handleError(err)
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
