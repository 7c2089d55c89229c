package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Options{
		BaseURL:   server.URL + "/api/",
		Timeout:   2 * time.Second,
		UserAgent: "todo-client-test/1.0",
		Tokens:    middleware.TokenFunc(func() string { return token }),
	})
	require.NoError(t, err)
	return client
}

func TestClientSendsHeaders(t *testing.T) {
	var got http.Header
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"ok"}`))
	}, "t1")

	var out struct {
		Title string `json:"title"`
	}
	require.NoError(t, client.Post(context.Background(), "/lists", map[string]string{"title": "ok"}, &out))

	assert.Equal(t, "/api/lists", path)
	assert.Equal(t, "ok", out.Title)
	assert.Equal(t, "Bearer t1", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "todo-client-test/1.0", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get(middleware.RequestIDHeader))
}

func TestClientAnonymousWithoutToken(t *testing.T) {
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, "")

	require.NoError(t, client.Get(context.Background(), "/auth/profile", &struct{}{}))
	assert.Empty(t, auth)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        interface{}
		wantKind    error
		wantMessage string
	}{
		{"bad credentials", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"}, ErrAuth, "Invalid credentials"},
		{"forbidden", http.StatusForbidden, map[string]string{"error": "Forbidden"}, ErrAuth, "Forbidden"},
		{"bad request", http.StatusBadRequest, map[string]string{"message": "Title is required"}, ErrValidation, "Title is required"},
		{"conflict", http.StatusConflict, map[string]string{"message": "User already exists"}, ErrValidation, "User already exists"},
		{"unprocessable", http.StatusUnprocessableEntity, nil, ErrValidation, ""},
		{"not found", http.StatusNotFound, map[string]string{"message": "Task not found"}, ErrNotFound, "Task not found"},
		{"server", http.StatusInternalServerError, nil, ErrServer, ""},
		{"bad gateway", http.StatusBadGateway, nil, ErrServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != nil {
					json.NewEncoder(w).Encode(tt.body)
				}
			}, "")

			err := client.Get(context.Background(), "/anything", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantKind), "got %v", err)
			assert.Equal(t, tt.wantMessage, MessageOf(err))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Options{BaseURL: url})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/lists", nil)
	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
	assert.Equal(t, "network", KindName(err))
	assert.Empty(t, MessageOf(err))
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := New(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = client.Get(context.Background(), "/slow", nil)
	assert.True(t, errors.Is(err, ErrNetwork), "got %v", err)
}

func TestClientEmptySuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "")

	var out map[string]string
	err := client.Get(context.Background(), "/lists/1", &out)
	assert.True(t, errors.Is(err, ErrServer), "got %v", err)

	assert.NoError(t, client.Delete(context.Background(), "/lists/1"))
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:5000"})
	assert.Error(t, err)
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{200, nil},
		{201, nil},
		{204, nil},
		{400, ErrValidation},
		{401, ErrAuth},
		{403, ErrAuth},
		{404, ErrNotFound},
		{409, ErrValidation},
		{422, ErrValidation},
		{500, ErrServer},
		{503, ErrServer},
	}
	for _, tt := range tests {
		if got := KindForStatus(tt.status); got != tt.want {
			t.Errorf("KindForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClientResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"` + strings.Repeat("x", 256) + `"}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(Options{BaseURL: server.URL, MaxResponseSize: 64})
	require.NoError(t, err)

	var out map[string]string
	err = client.Get(context.Background(), "/lists/1", &out)
	assert.True(t, errors.Is(err, ErrServer), "got %v", err)
	assert.True(t, errors.Is(err, middleware.ErrResponseTooLarge), "got %v", err)
}
