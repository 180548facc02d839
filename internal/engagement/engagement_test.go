package engagement

import (
	"testing"
	"time"

	"github.com/abhisek/gotutor/internal/progress"
)

func completedOn(lessonID int, at time.Time) progress.Record {
	return progress.NewCompletion("u1", lessonID, at)
}

func completedN(n int) []progress.Record {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var out []progress.Record
	for i := 1; i <= n; i++ {
		out = append(out, completedOn(i, at))
	}
	return out
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 10, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{10, 10, 100},
		{12, 10, 100},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		completed, total int
		want             Tier
	}{
		{0, 0, TierGettingStarted},
		{0, 10, TierGettingStarted},
		{2, 10, TierGettingStarted},
		{1, 4, TierBeginner},
		{5, 10, TierIntermediate},
		{3, 4, TierExpert},
		{15, 20, TierExpert},
		{7, 10, TierIntermediate},
		{10, 10, TierMaster},
		// 2/3 rounds to 66.7 for display but must not reach Expert.
		{2, 3, TierIntermediate},
	}
	for _, tt := range tests {
		if got := TierFor(tt.completed, tt.total); got != tt.want {
			t.Errorf("TierFor(%d, %d) = %s, want %s", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestCalculateExactlySeventyFivePercentIsExpert(t *testing.T) {
	s := Calculate(completedN(3), 4, 0, time.Now())
	if s.CompletionPercentage != 75.0 {
		t.Fatalf("percentage = %v, want 75", s.CompletionPercentage)
	}
	if s.Tier != TierExpert {
		t.Errorf("tier = %s, want expert", s.Tier)
	}
}

func TestCalculateZeroLessons(t *testing.T) {
	s := Calculate(nil, 0, 12, time.Now())
	if s.CompletionPercentage != 0 || s.Tier != TierGettingStarted {
		t.Errorf("got %+v", s)
	}
	if s.TotalTimeMinutes != 12 {
		t.Errorf("TotalTimeMinutes = %d, want 12", s.TotalTimeMinutes)
	}
}

func TestCalculateIgnoresIncompleteRecords(t *testing.T) {
	recs := append(completedN(2), progress.Record{UserID: "u1", LessonID: 9})
	s := Calculate(recs, 10, 0, time.Now())
	if s.CompletedCount != 2 || s.CompletionPercentage != 20 {
		t.Errorf("got %+v", s)
	}
}

func TestStreak(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, loc)
	day := func(offset, hour int) time.Time {
		return time.Date(2025, 3, 10+offset, hour, 0, 0, 0, loc)
	}

	tests := []struct {
		name string
		at   []time.Time
		want int
	}{
		{"none", nil, 0},
		{"today only", []time.Time{day(0, 9)}, 1},
		{"yesterday only", []time.Time{day(-1, 9)}, 1},
		{"three days then gap", []time.Time{day(0, 9), day(-1, 9), day(-2, 9), day(-4, 9)}, 3},
		{"single completion three days ago", []time.Time{day(-3, 9)}, 0},
		{"same day counts once", []time.Time{day(0, 8), day(0, 9), day(0, 10), day(-1, 9)}, 2},
		{"ending yesterday", []time.Time{day(-1, 9), day(-2, 9), day(-3, 9)}, 3},
		{"unordered input", []time.Time{day(-2, 9), day(0, 9), day(-1, 9)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recs []progress.Record
			for i, at := range tt.at {
				recs = append(recs, completedOn(i+1, at))
			}
			if got := Streak(recs, now); got != tt.want {
				t.Errorf("Streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakUsesLocalCalendarDay(t *testing.T) {
	// 02:00 UTC on the 10th is still the 9th at UTC-5.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, loc)
	recs := []progress.Record{
		completedOn(1, time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)),
		completedOn(2, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)),
	}
	if got := Streak(recs, now); got != 2 {
		t.Errorf("Streak = %d, want 2", got)
	}
}

func TestStreakAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2025-03-09.
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, loc)
	recs := []progress.Record{
		completedOn(1, time.Date(2025, 3, 10, 0, 30, 0, 0, loc)),
		completedOn(2, time.Date(2025, 3, 9, 0, 30, 0, 0, loc)),
		completedOn(3, time.Date(2025, 3, 8, 23, 30, 0, 0, loc)),
	}
	if got := Streak(recs, now); got != 3 {
		t.Errorf("Streak = %d, want 3", got)
	}
}

func TestRecent(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	recs := []progress.Record{
		completedOn(1, base),
		completedOn(2, base.Add(2*time.Hour)),
		{UserID: "u1", LessonID: 3},
		completedOn(4, base.Add(time.Hour)),
		completedOn(5, base.Add(3*time.Hour)),
	}

	got := Recent(recs, 3)
	want := []int{5, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.LessonID != want[i] {
			t.Errorf("Recent[%d] = lesson %d, want %d", i, r.LessonID, want[i])
		}
	}

	if got := Recent(nil, 3); len(got) != 0 {
		t.Errorf("Recent(nil) = %v", got)
	}
}

func TestNextTier(t *testing.T) {
	tests := []struct {
		completed, total int
		wantTier         Tier
		wantNeed         int
		wantOK           bool
	}{
		{0, 10, TierBeginner, 3, true},
		{3, 10, TierIntermediate, 2, true},
		{5, 10, TierExpert, 3, true},
		{8, 10, TierMaster, 2, true},
		{10, 10, "", 0, false},
		{0, 0, "", 0, false},
		{0, 4, TierBeginner, 1, true},
	}
	for _, tt := range tests {
		s := Calculate(completedN(tt.completed), tt.total, 0, time.Now())
		goal, ok := NextTier(s)
		if ok != tt.wantOK {
			t.Errorf("NextTier(%d/%d) ok = %v, want %v", tt.completed, tt.total, ok, tt.wantOK)
			continue
		}
		if ok && (goal.Tier != tt.wantTier || goal.LessonsNeeded != tt.wantNeed) {
			t.Errorf("NextTier(%d/%d) = %+v, want %s in %d", tt.completed, tt.total, goal, tt.wantTier, tt.wantNeed)
		}
	}
}

func TestTierDisplay(t *testing.T) {
	for _, tier := range AllTiers() {
		if tier.DisplayName() == "" || tier.Icon() == "" {
			t.Errorf("tier %s missing display data", tier)
		}
	}
	if TierGettingStarted.DisplayName() != "Getting Started" {
		t.Errorf("DisplayName = %q", TierGettingStarted.DisplayName())
	}
}
