// Package engagement derives engagement metrics from a progress record set.
// Everything here is a pure function recomputed on every read; nothing is
// cached or persisted.
package engagement

import (
	"math"
	"sort"
	"time"

	"github.com/abhisek/gotutor/internal/progress"
)

// Snapshot is the engagement state derived from a record set.
type Snapshot struct {
	CompletedCount int
	TotalLessons   int
	// CompletionPercentage is in [0, 100], rounded to one decimal.
	CompletionPercentage float64
	Tier                 Tier
	StreakDays           int
	TotalTimeMinutes     int
}

// Calculate builds a Snapshot. totalMinutes is the cumulative time-on-task
// including the current session.
func Calculate(records []progress.Record, totalLessons, totalMinutes int, now time.Time) Snapshot {
	completed := progress.CompletedCount(records)
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return Snapshot{
		CompletedCount:       completed,
		TotalLessons:         totalLessons,
		CompletionPercentage: Percentage(completed, totalLessons),
		Tier:                 TierFor(completed, totalLessons),
		StreakDays:           Streak(records, now),
		TotalTimeMinutes:     totalMinutes,
	}
}

// Percentage returns 100*completed/total rounded to one decimal and clamped
// to [0, 100]. Zero lessons yields 0.
func Percentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 100 * float64(completed) / float64(total)
	p = math.Round(p*10) / 10
	return math.Max(0, math.Min(100, p))
}

// Recent returns up to n completed records, most recent completion first.
func Recent(records []progress.Record, n int) []progress.Record {
	var done []progress.Record
	for _, r := range records {
		if r.Completed && r.CompletedAt != nil {
			done = append(done, r)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedAt.After(*done[j].CompletedAt)
	})
	if n >= 0 && len(done) > n {
		done = done[:n]
	}
	return done
}

// Goal is the next tier and how many more lessons reach it.
type Goal struct {
	Tier          Tier
	LessonsNeeded int
}

// NextTier returns the next tier above the snapshot's and the lessons still
// needed to reach it. ok is false at Master or with no lessons.
func NextTier(s Snapshot) (Goal, bool) {
	if s.TotalLessons <= 0 {
		return Goal{}, false
	}
	tiers := AllTiers()
	for i, t := range tiers {
		if t != s.Tier || i == len(tiers)-1 {
			continue
		}
		next := tiers[i+1]
		// Smallest count c with 100*c >= threshold*total.
		need := (next.Threshold()*s.TotalLessons+99)/100 - s.CompletedCount
		if need < 1 {
			need = 1
		}
		return Goal{Tier: next, LessonsNeeded: need}, true
	}
	return Goal{}, false
}
