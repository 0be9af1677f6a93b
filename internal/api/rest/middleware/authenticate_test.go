package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restctx "github.com/lyristudy/lyristudy-server/internal/api/rest/context"
	"github.com/lyristudy/lyristudy-server/internal/mocks"
	"github.com/lyristudy/lyristudy-server/internal/model"
	"github.com/lyristudy/lyristudy-server/internal/testutil"
)

func TestAuthenticate_Handle(t *testing.T) {
	ctxMgr := restctx.NewManager()

	t.Run("valid token reaches the handler with user ID", func(t *testing.T) {
		tokens := &mocks.TokenManager{}
		userID := uuid.New()
		tokens.On("ParseAccessToken", "good-token").Return(userID, nil).Once()

		m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

		var gotUserID uuid.UUID
		var called bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			id, ok := ctxMgr.GetUserIDFromContext(r.Context())
			require.True(t, ok)
			gotUserID = id
		})

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		tokens := &mocks.TokenManager{}
		m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

		var called bool
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing authorization token")
		tokens.AssertNotCalled(t, "ParseAccessToken", mock.Anything)
	})

	t.Run("header without bearer prefix", func(t *testing.T) {
		tokens := &mocks.TokenManager{}
		m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		tokens := &mocks.TokenManager{}
		tokens.On("ParseAccessToken", "stale").Return(uuid.Nil, model.ErrTokenExpired).Once()

		m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "token expired")
	})

	t.Run("invalid token", func(t *testing.T) {
		tokens := &mocks.TokenManager{}
		tokens.On("ParseAccessToken", "garbage").Return(uuid.Nil, model.ErrInvalidToken).Once()

		m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	})
}
