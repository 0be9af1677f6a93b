package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid input", err: model.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "wrapped invalid input", err: fmt.Errorf("%w: lyrics are required", model.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "username taken", err: model.ErrUsernameTaken, wantStatus: http.StatusConflict},
		{name: "invalid credentials", err: model.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "unauthenticated", err: model.ErrUnauthenticated, wantStatus: http.StatusUnauthorized},
		{name: "token expired", err: model.ErrTokenExpired, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", err: model.ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "quota exceeded", err: model.ErrQuotaExceeded, wantStatus: http.StatusTooManyRequests},
		{name: "not found", err: model.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown error", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := handleError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestHandleError_InternalHidesDetail(t *testing.T) {
	_, detail := handleError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", detail)
}

func TestHandleError_InvalidInputKeepsDetail(t *testing.T) {
	_, detail := handleError(fmt.Errorf("%w: lyrics and language are required", model.ErrInvalidInput))
	assert.Contains(t, detail, "lyrics and language are required")
}
