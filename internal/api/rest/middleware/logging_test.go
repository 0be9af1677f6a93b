package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lyristudy/lyristudy-server/internal/testutil"
)

func TestLogging_Handle(t *testing.T) {
	t.Run("passes the request through", func(t *testing.T) {
		m := NewLogging(testutil.MakeNoopLogger())

		var called bool
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusTeapot)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("default status is 200", func(t *testing.T) {
		m := NewLogging(testutil.MakeNoopLogger())

		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		m.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	sr.WriteHeader(http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, sr.status)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
