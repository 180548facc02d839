package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gotutor/internal/progress"
)

func TestFetchProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/progress/demo user", r.URL.Path)
		_, _ = io.WriteString(w, `[
			{"user_id":"demo user","lesson_id":1,"completed":true,"completed_at":"2025-03-01T10:00:00Z"},
			{"user_id":"demo user","lesson_id":2,"completed":true},
			{"user_id":"demo user","lesson_id":3,"completed":false}
		]`)
	}))
	defer srv.Close()

	c := NewProgressClient(srv.URL+"/api/", time.Second, nil, nil)
	got, err := c.FetchProgress(context.Background(), "demo user")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].LessonID)
	assert.True(t, got[0].Completed)
	require.NotNil(t, got[0].CompletedAt)
	assert.Equal(t, 3, got[1].LessonID)
}

func TestFetchProgressNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	}))
	defer srv.Close()

	got, err := NewProgressClient(srv.URL, time.Second, nil, nil).FetchProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchProgressErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"db down"}`, true},
		{"not found", http.StatusNotFound, "", true},
		{"not an array", http.StatusOK, `{"user_id":"u1"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewProgressClient(srv.URL, time.Second, nil, nil).FetchProgress(context.Background(), "u1")
			require.Error(t, err)
			var se *StatusError
			assert.Equal(t, tt.wantStatus, errors.As(err, &se))
			if tt.wantStatus {
				assert.Equal(t, tt.status, se.Code)
			}
		})
	}
}

func TestFetchProgressTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewProgressClient(srv.URL, 50*time.Millisecond, nil, nil)
	start := time.Now()
	_, err := c.FetchProgress(context.Background(), "u1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSubmitProgress(t *testing.T) {
	var got progress.Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/progress", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"message":"Progress updated successfully"}`)
	}))
	defer srv.Close()

	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	err := NewProgressClient(srv.URL, time.Second, nil, nil).
		SubmitProgress(context.Background(), progress.NewCompletion("u1", 4, at))
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 4, got.LessonID)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(at))
}

func TestSubmitProgressRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewProgressClient(srv.URL, time.Second, nil, nil).
		SubmitProgress(context.Background(), progress.Record{UserID: "u1", LessonID: 1})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Error(), "bad request")
}

func TestExecute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/execute", r.URL.Path)
		var req ExecRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Code == "bad" {
			_, _ = io.WriteString(w, `{"output":"","error":"Execution error: exit status 1"}`)
			return
		}
		_, _ = io.WriteString(w, `{"output":"Hello, World!\n"}`)
	}))
	defer srv.Close()

	c := NewExecutionClient(srv.URL, time.Second, nil)

	res, err := c.Execute(context.Background(), `fmt.Println("Hello, World!")`)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!\n", res.Output)
	assert.Empty(t, res.Error)

	res, err = c.Execute(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, "Execution error: exit status 1", res.Error)
}

func TestExecuteWithoutService(t *testing.T) {
	c := NewExecutionClient("", time.Second, nil)
	_, err := c.Execute(context.Background(), `fmt.Println("Hello")`)
	assert.ErrorIs(t, err, ErrNoExecutionService)
}

func TestFetchLessons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lessons":
			_, _ = io.WriteString(w, `[{"id":1,"title":"Hello, Go!","difficulty":"beginner","order":1}]`)
		case "/health":
			_, _ = io.WriteString(w, `{"status":"healthy"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewLessonClient(srv.URL, time.Second, nil)
	ls, err := c.FetchLessons(context.Background())
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "Hello, Go!", ls[0].Title)
	assert.NoError(t, c.Health(context.Background()))
}

func TestProgressClientSatisfiesAuthority(t *testing.T) {
	var _ progress.Authority = (*ProgressClient)(nil)
}
