package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// userIDKey is the context key under which the authenticated user ID travels.
const userIDKey contextKey = "user_id"

// Manager moves the authenticated user ID in and out of request contexts.
type Manager struct{}

// NewManager creates a new request context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a child context carrying userID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID set by the authentication
// middleware. The boolean reports whether a valid ID was present.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}

	return userID, true
}
