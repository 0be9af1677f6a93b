package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_Address(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), ":8080")
	assert.Equal(t, ":8080", s.Address())
}

func TestHTTPServer_StartAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	s := NewHTTPServer(handler, "127.0.0.1:0")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start(NewPlainListener())
	}()

	// Wait for the listener to come up before shutting down.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_Start_ListenError(t *testing.T) {
	s := NewHTTPServer(http.NewServeMux(), "invalid-address")

	err := s.Start(NewPlainListener())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestHTTPServer_ServesRequests(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ln, err := NewPlainListener().Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer(handler, ln.Addr().String())
	require.NoError(t, ln.Close())

	go func() {
		_ = s.Start(NewPlainListener())
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	var resp *http.Response
	url := fmt.Sprintf("http://%s/", s.Address())
	for i := 0; i < 20; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
