package progress

import (
	"testing"
	"time"

	"github.com/julianstephens/askeza/internal/models"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestStatus(t *testing.T) {
	now := base.AddDate(0, 0, 10)

	tests := []struct {
		name     string
		progress *models.TemplateProgress
		duration int
		want     models.TemplateStatus
	}{
		{
			name:     "no record",
			progress: nil,
			duration: 14,
			want:     models.StatusNotStarted,
		},
		{
			name:     "mastery wins over not started",
			progress: &models.TemplateProgress{TimesCompleted: 3},
			duration: 14,
			want:     models.StatusMastered,
		},
		{
			name:     "ninety days is mastery",
			progress: &models.TemplateProgress{DateStarted: ptrTime(base), DaysCompleted: 90},
			duration: 0,
			want:     models.StatusMastered,
		},
		{
			name:     "never started",
			progress: &models.TemplateProgress{TimesCompleted: 1},
			duration: 14,
			want:     models.StatusNotStarted,
		},
		{
			name:     "fresh run",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -1)), DaysCompleted: 1, LastUpdated: ptrTime(now)},
			duration: 14,
			want:     models.StatusInProgress,
		},
		{
			name:     "started today with no progress",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now)},
			duration: 14,
			want:     models.StatusInProgress,
		},
		{
			name:     "idle partial run degrades to completed",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -9)), DaysCompleted: 2, LastUpdated: ptrTime(now.AddDate(0, 0, -4))},
			duration: 14,
			want:     models.StatusCompleted,
		},
		{
			name:     "idle run with zero progress stays in progress",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -9))},
			duration: 14,
			want:     models.StatusInProgress,
		},
		{
			name:     "exactly three idle days is not stale",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -3)), DaysCompleted: 1},
			duration: 14,
			want:     models.StatusInProgress,
		},
		{
			name:     "lifetime run in progress",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -2)), DaysCompleted: 40, LastUpdated: ptrTime(now)},
			duration: 0,
			want:     models.StatusInProgress,
		},
		{
			name:     "reached duration",
			progress: &models.TemplateProgress{DateStarted: ptrTime(now.AddDate(0, 0, -14)), DaysCompleted: 14, TimesCompleted: 1},
			duration: 14,
			want:     models.StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.progress, tt.duration, now, loc); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateStreakMonotonicBest(t *testing.T) {
	p := &models.TemplateProgress{}
	sequence := []int{1, 2, 3, 0, 1, 5, 2, -4, 4}
	lastBest := 0
	for _, current := range sequence {
		UpdateStreak(p, current)
		if p.BestStreak < lastBest {
			t.Fatalf("best streak dropped from %d to %d", lastBest, p.BestStreak)
		}
		if p.BestStreak < p.CurrentStreak {
			t.Fatalf("best %d below current %d", p.BestStreak, p.CurrentStreak)
		}
		lastBest = p.BestStreak
	}
	if p.BestStreak != 5 {
		t.Errorf("expected best streak 5, got %d", p.BestStreak)
	}
	if p.CurrentStreak != 4 {
		t.Errorf("expected current streak 4, got %d", p.CurrentStreak)
	}
}
