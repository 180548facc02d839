package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gotutor/internal/lessons"
	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/remote"
	"github.com/abhisek/gotutor/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(Options{Progress: st.ProgressRepo()})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t).Handler(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestLessons(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/lessons", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ls []lessons.Lesson
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ls))
	assert.Len(t, ls, 10)

	w = do(t, h, http.MethodGet, "/api/lessons/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var l lessons.Lesson
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, "Functions", l.Title)

	for _, id := range []string{"99", "abc"} {
		w = do(t, h, http.MethodGet, "/api/lessons/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
}

func TestProgressUpsertAndList(t *testing.T) {
	h := newTestServer(t).Handler()

	w := do(t, h, http.MethodGet, "/api/progress/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	first := `{"user_id":"u1","lesson_id":2,"completed":true,"completed_at":"2025-03-01T10:00:00Z"}`
	w = do(t, h, http.MethodPost, "/api/progress", first)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A later completion keeps the first timestamp.
	later := `{"user_id":"u1","lesson_id":2,"completed":true,"completed_at":"2025-03-05T10:00:00Z"}`
	w = do(t, h, http.MethodPost, "/api/progress", later)
	require.Equal(t, http.StatusOK, w.Code)

	// An incomplete submission does not downgrade.
	w = do(t, h, http.MethodPost, "/api/progress", `{"user_id":"u1","lesson_id":2,"completed":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/progress/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var recs []progress.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Completed)
	require.NotNil(t, recs[0].CompletedAt)
	assert.True(t, recs[0].CompletedAt.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestProgressRejectsInvalidBodies(t *testing.T) {
	h := newTestServer(t).Handler()

	bodies := []string{
		`not json`,
		`{"lesson_id":1,"completed":true,"completed_at":"2025-03-01T10:00:00Z"}`,
		`{"user_id":"u1","lesson_id":0,"completed":false}`,
		`{"user_id":"u1","lesson_id":1,"completed":true}`,
	}
	for _, b := range bodies {
		w := do(t, h, http.MethodPost, "/api/progress", b)
		assert.Equal(t, http.StatusBadRequest, w.Code, b)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/api/progress", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()
	do(t, h, http.MethodPost, "/api/progress",
		`{"user_id":"u1","lesson_id":1,"completed":true,"completed_at":"2025-03-01T10:00:00Z"}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "gotutor_lessons_completed_total 1")
	assert.Contains(t, body, `gotutor_progress_upserts_total{outcome="ok"} 1`)
	assert.Contains(t, body, `gotutor_http_requests_total{method="POST",route="/api/progress",status="200"} 1`)
}

func TestClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()
	ctx := context.Background()

	c := remote.NewProgressClient(srv.URL+"/api", time.Second, nil, nil)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.SubmitProgress(ctx, progress.NewCompletion("u1", 5, at)))

	recs, err := c.FetchProgress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 5, recs[0].LessonID)
	assert.True(t, recs[0].CompletedAt.Equal(at))

	ls, err := remote.NewLessonClient(srv.URL+"/api", time.Second, nil).FetchLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, ls, 10)
}
