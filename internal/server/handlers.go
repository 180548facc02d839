package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/gotutor/internal/progress"
	"github.com/abhisek/gotutor/internal/store"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) listLessons(c *gin.Context) {
	c.JSON(http.StatusOK, s.lessons)
}

func (s *Server) getLesson(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		for _, l := range s.lessons {
			if l.ID == id {
				c.JSON(http.StatusOK, l)
				return
			}
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
}

func (s *Server) getProgress(c *gin.Context) {
	userID := c.Param("user_id")
	rows, err := s.progress.List(c.Request.Context(), userID)
	if err != nil {
		s.log.Error("list progress", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
		return
	}

	out := make([]progress.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToRecord(r))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateProgress(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.metrics.progressUpserts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := progress.ValidateRecordJSON(raw); err != nil {
		s.metrics.progressUpserts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var rec progress.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.metrics.progressUpserts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !rec.Completed {
		rec.CompletedAt = nil
	}

	ctx := c.Request.Context()
	before := s.completedBefore(ctx, rec.UserID, rec.LessonID)
	row, err := s.progress.Upsert(ctx, store.ProgressRow{
		UserID:      rec.UserID,
		LessonID:    rec.LessonID,
		Completed:   rec.Completed,
		CompletedAt: rec.CompletedAt,
	})
	if err != nil {
		s.metrics.progressUpserts.WithLabelValues("error").Inc()
		s.log.Error("upsert progress", "user_id", rec.UserID, "lesson_id", rec.LessonID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	s.metrics.progressUpserts.WithLabelValues("ok").Inc()
	if row.Completed && !before {
		s.metrics.completions.Inc()
		s.log.Info("lesson completed", "user_id", row.UserID, "lesson_id", row.LessonID)
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Progress updated successfully",
		"progress": rowToRecord(row),
	})
}

// completedBefore reports whether the stored record was already completed.
func (s *Server) completedBefore(ctx context.Context, userID string, lessonID int) bool {
	rows, err := s.progress.List(ctx, userID)
	if err != nil {
		return false
	}
	for _, r := range rows {
		if r.LessonID == lessonID {
			return r.Completed
		}
	}
	return false
}

func rowToRecord(r store.ProgressRow) progress.Record {
	return progress.Record{
		UserID:      r.UserID,
		LessonID:    r.LessonID,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
	}
}
