package engagement

import (
	"sort"
	"time"

	"github.com/abhisek/gotutor/internal/progress"
)

// Streak counts consecutive calendar days, ending today or yesterday in
// now's location, with at least one completion. Several completions on one
// day count once.
func Streak(records []progress.Record, now time.Time) int {
	loc := now.Location()

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, r := range records {
		if !r.Completed || r.CompletedAt == nil {
			continue
		}
		d := civilDay(r.CompletedAt.In(loc))
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := civilDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !seen[today] && !seen[yesterday] {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if dayGap(days[i-1], days[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// civilDay maps t to midnight UTC of its calendar date in t's location, so
// day arithmetic is unaffected by DST shifts.
func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayGap(later, earlier time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
