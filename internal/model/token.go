package model

import "github.com/google/uuid"

// TokenManager issues and validates access tokens. Tokens are stateless:
// expiry is the only invalidation, there is no revocation list.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	// ParseAccessToken verifies signature and expiry and returns the bound
	// user ID. Failures are ErrTokenExpired or ErrInvalidToken.
	ParseAccessToken(token string) (uuid.UUID, error)
}
