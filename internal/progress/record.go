// Package progress owns the learner's progress record set: the durable
// local cache, and the reconciler that keeps it in step with the remote
// progress authority.
package progress

import (
	"sort"
	"time"
)

// Record is the completion state of one (user, lesson) pair. CompletedAt is
// set iff Completed is true.
type Record struct {
	UserID      string     `json:"user_id"`
	LessonID    int        `json:"lesson_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewCompletion returns a completed record stamped with at.
func NewCompletion(userID string, lessonID int, at time.Time) Record {
	return Record{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &at,
	}
}

// Find returns the record for lessonID, if present.
func Find(records []Record, lessonID int) (Record, bool) {
	for _, r := range records {
		if r.LessonID == lessonID {
			return r, true
		}
	}
	return Record{}, false
}

// CompletedCount counts completed records.
func CompletedCount(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Completed {
			n++
		}
	}
	return n
}

// byLesson collapses records to one per lesson ID, later entries winning,
// and returns them ordered by lesson ID.
func byLesson(records []Record) []Record {
	idx := make(map[int]Record, len(records))
	for _, r := range records {
		idx[r.LessonID] = r
	}
	out := make([]Record, 0, len(idx))
	for _, r := range idx {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out
}

// Merge combines two views of the same user's progress into one record per
// lesson. A completed record beats an incomplete one. When both are
// completed the later CompletedAt wins. When neither is, remote wins.
func Merge(local, remote []Record) []Record {
	merged := make(map[int]Record)
	for _, r := range byLesson(remote) {
		merged[r.LessonID] = r
	}
	for _, l := range byLesson(local) {
		r, ok := merged[l.LessonID]
		if !ok || preferLocal(l, r) {
			merged[l.LessonID] = l
		}
	}

	out := make([]Record, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out
}

func preferLocal(local, remote Record) bool {
	switch {
	case local.Completed && !remote.Completed:
		return true
	case !local.Completed:
		return false
	case remote.CompletedAt == nil:
		return local.CompletedAt != nil
	case local.CompletedAt == nil:
		return false
	default:
		return local.CompletedAt.After(*remote.CompletedAt)
	}
}
