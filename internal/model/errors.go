package model

import "errors"

// Stable error kinds exposed by the core services. The REST layer maps these
// to transport status codes in exactly one place (handler error mapper).
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrTokenExpired       = errors.New("access token expired")
	ErrQuotaExceeded      = errors.New("daily analysis quota exceeded")
	ErrNotFound           = errors.New("not found")
)
