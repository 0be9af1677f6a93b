package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lyristudy/lyristudy-server/internal/model"
)

// Claims represents JWT claims with the bound user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements model.TokenManager backed by symmetric HMAC. The secret key
// is loaded once at construction and never changes during a process lifetime.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key and
// access-token lifetime.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	return &JWT{secretKey: secretKey, ttl: ttl}
}

// GenerateAccessToken creates a signed, time-bound access token for userID.
func (j *JWT) GenerateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates signature and expiry and extracts the user ID.
// Expired tokens yield model.ErrTokenExpired; everything else that fails
// verification yields model.ErrInvalidToken.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, model.ErrTokenExpired
		}
		return uuid.Nil, model.ErrInvalidToken
	}
	if !token.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidToken
	}
	return claims.UserID, nil
}
