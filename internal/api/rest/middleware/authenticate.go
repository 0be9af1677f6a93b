package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lyristudy/lyristudy-server/internal/logger"
	"github.com/lyristudy/lyristudy-server/internal/model"
)

// Authenticate validates bearer tokens and injects the user ID into the
// request context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenManager:   tokenManager,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle parses the Authorization header, validates the token and calls next
// with the user ID in context. Requests without a valid token never reach
// next.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			m.unauthorized(w, "missing authorization token")
			return
		}

		userID, err := m.tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected",
				"error", err.Error())

			if errors.Is(err, model.ErrTokenExpired) {
				m.unauthorized(w, "token expired")
				return
			}
			m.unauthorized(w, "invalid token")
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}

	return token
}

func (m *Authenticate) unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
