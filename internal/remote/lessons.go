package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abhisek/gotutor/internal/lessons"
)

// LessonClient fetches the lesson catalog. It implements lessons.Source.
type LessonClient struct {
	c client
}

// NewLessonClient returns a client for baseURL. hc may be nil.
func NewLessonClient(baseURL string, timeout time.Duration, hc *http.Client) *LessonClient {
	return &LessonClient{c: newClient(baseURL, timeout, hc)}
}

// FetchLessons returns all lessons from the backend.
func (l *LessonClient) FetchLessons(ctx context.Context) ([]lessons.Lesson, error) {
	data, err := l.c.do(ctx, http.MethodGet, "/lessons", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch lessons: %w", err)
	}
	var out []lessons.Lesson
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	return out, nil
}

// Health reports whether the backend answers its health check.
func (l *LessonClient) Health(ctx context.Context) error {
	_, err := l.c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
