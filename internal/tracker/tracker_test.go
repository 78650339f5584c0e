package tracker

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/constants"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/lifecycle"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/profile"
	"github.com/julianstephens/askeza/internal/storage"
	"github.com/julianstephens/askeza/internal/storage/sqlite"
	"github.com/julianstephens/askeza/internal/templates"
)

type fixture struct {
	store     *sqlite.Store
	clk       *clock.Fake
	askezas   *lifecycle.Manager
	templates *templates.Service
	profile   *profile.Service
	tracker   *Tracker
}

func setupTracker(t *testing.T) *fixture {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clk := clock.NewFake(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	f := &fixture{
		store:     store,
		clk:       clk,
		askezas:   lifecycle.NewManager(storage.NewAskezaRepository(store), clk, time.UTC),
		templates: templates.NewService(store),
		profile:   profile.NewService(store),
	}
	f.tracker = New(f.templates, store, f.profile, f.askezas, clk)
	f.tracker.Attach()
	return f
}

func (f *fixture) addTemplate(t *testing.T, key string, days int, category models.Category) models.PracticeTemplate {
	t.Helper()
	tmpl, err := f.templates.Save(models.PracticeTemplate{
		TemplateKey:  key,
		Title:        key,
		Category:     category,
		DurationDays: days,
		Difficulty:   2,
	})
	if err != nil {
		t.Fatalf("failed to save template %s: %v", key, err)
	}
	return tmpl
}

func TestStartTemplateTwiceIsRejected(t *testing.T) {
	f := setupTracker(t)
	tmpl := f.addTemplate(t, "cold-14", 14, models.CategoryBody)

	a, err := f.tracker.StartTemplate(tmpl.TemplateKey)
	if err != nil {
		t.Fatalf("StartTemplate failed: %v", err)
	}
	if a.TemplateID == nil || *a.TemplateID != tmpl.ID {
		t.Errorf("expected askeza linked to %s, got %v", tmpl.ID, a.TemplateID)
	}
	first, err := f.store.GetProgress(tmpl.ID)
	if err != nil {
		t.Fatalf("GetProgress failed: %v", err)
	}

	f.clk.Advance(time.Hour)
	if _, err := f.tracker.StartTemplate(tmpl.ID); !errors.Is(err, apperrors.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	if n := len(f.askezas.Active()); n != 1 {
		t.Errorf("expected exactly one askeza, got %d", n)
	}
	second, _ := f.store.GetProgress(tmpl.ID)
	if !second.DateStarted.Equal(*first.DateStarted) {
		t.Errorf("expected date started unchanged, was %v now %v", first.DateStarted, second.DateStarted)
	}
}

func TestStartTemplateUnknown(t *testing.T) {
	f := setupTracker(t)
	if _, err := f.tracker.StartTemplate("missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletionXP(t *testing.T) {
	f := setupTracker(t)
	tmpl := f.addTemplate(t, "two-weeks", 14, models.CategoryMind)

	award, err := f.tracker.UpdateProgress(tmpl.ID, 14, true)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if award.Status != models.StatusCompleted || award.XP != 14 {
		t.Errorf("expected completed with 14 XP, got %s with %d", award.Status, award.XP)
	}

	// Two more completions reach mastery on the third.
	if _, err := f.tracker.UpdateProgress(tmpl.ID, 14, true); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	award, err = f.tracker.UpdateProgress(tmpl.ID, 14, true)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if award.Status != models.StatusMastered || award.XP != 42 {
		t.Errorf("expected mastered with 42 XP, got %s with %d", award.Status, award.XP)
	}

	p, _ := f.profile.Get()
	if p.XP != 14+14+42 {
		t.Errorf("expected %d total XP, got %d", 14+14+42, p.XP)
	}
	stored, _ := f.store.GetProgress(tmpl.ID)
	if stored.TimesCompleted != 3 || stored.IsProcessingCompletion {
		t.Errorf("unexpected progress record %+v", stored)
	}
}

func TestCompletionXPTable(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		done   int
		status models.TemplateStatus
		want   int
	}{
		{"fixed completed", 14, 14, models.StatusCompleted, 14},
		{"fixed mastered", 14, 14, models.StatusMastered, 42},
		{"lifetime uses days completed", 0, 25, models.StatusCompleted, 25},
		{"lifetime mastered", 0, 90, models.StatusMastered, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionXP(models.PracticeTemplate{DurationDays: tt.days}, models.TemplateProgress{DaysCompleted: tt.done}, tt.status)
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCompletionGuardPreventsDoubleCount(t *testing.T) {
	f := setupTracker(t)
	tmpl := f.addTemplate(t, "guarded", 7, models.CategoryBody)

	stuck := models.TemplateProgress{TemplateID: tmpl.ID, TimesCompleted: 1, IsProcessingCompletion: true}
	if err := f.store.UpsertProgress(stuck); err != nil {
		t.Fatalf("UpsertProgress failed: %v", err)
	}

	award, err := f.tracker.UpdateProgress(tmpl.ID, 7, true)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if !award.Skipped || award.Total() != 0 {
		t.Errorf("expected skipped award, got %+v", award)
	}
	got, _ := f.store.GetProgress(tmpl.ID)
	if got.TimesCompleted != 1 {
		t.Errorf("expected times completed to stay 1, got %d", got.TimesCompleted)
	}
}

func TestAskezaCompletionUpdatesTemplate(t *testing.T) {
	f := setupTracker(t)
	tmpl := f.addTemplate(t, "week", 7, models.CategorySpirit)

	if _, err := f.tracker.StartTemplate(tmpl.TemplateKey); err != nil {
		t.Fatalf("StartTemplate failed: %v", err)
	}

	f.clk.AdvanceDays(3)
	if _, err := f.askezas.ReconcileAll(f.clk.Now()); err != nil {
		t.Fatalf("ReconcileAll failed: %v", err)
	}
	if err := f.tracker.SyncFromAskezas(f.askezas.Active()); err != nil {
		t.Fatalf("SyncFromAskezas failed: %v", err)
	}
	mid, _ := f.store.GetProgress(tmpl.ID)
	if mid.DaysCompleted != 3 || mid.CurrentStreak != 3 {
		t.Errorf("expected synced progress 3, got %+v", mid)
	}

	f.clk.AdvanceDays(4)
	if _, err := f.askezas.ReconcileAll(f.clk.Now()); err != nil {
		t.Fatalf("ReconcileAll failed: %v", err)
	}

	done, _ := f.store.GetProgress(tmpl.ID)
	if done.TimesCompleted != 1 || done.DaysCompleted != 7 || done.BestStreak != 7 {
		t.Errorf("expected one completion at 7 days, got %+v", done)
	}
	p, _ := f.profile.Get()
	if p.XP != 7 {
		t.Errorf("expected 7 XP, got %d", p.XP)
	}

	if _, err := f.tracker.StartTemplate(tmpl.TemplateKey); err != nil {
		t.Errorf("expected a new run to be allowed after completion, got %v", err)
	}
}

func TestEarlyCompletionClosesRun(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		advance  int
		wantDays int
		wantXP   int
	}{
		{"fixed after three days", 14, 3, 14, 14},
		{"fixed on the start day", 14, 0, 14, 14},
		{"lifetime after five days", 0, 5, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTracker(t)
			tmpl := f.addTemplate(t, "early", tt.days, models.CategoryBody)

			a, err := f.tracker.StartTemplate(tmpl.TemplateKey)
			if err != nil {
				t.Fatalf("StartTemplate failed: %v", err)
			}
			f.clk.AdvanceDays(tt.advance)
			if _, err := f.askezas.ReconcileAll(f.clk.Now()); err != nil {
				t.Fatalf("ReconcileAll failed: %v", err)
			}
			if err := f.askezas.Complete(a.ID); err != nil {
				t.Fatalf("Complete failed: %v", err)
			}

			got, _ := f.store.GetProgress(tmpl.ID)
			if got.TimesCompleted != 1 || got.DaysCompleted != tt.wantDays {
				t.Errorf("expected one completion at %d days, got %+v", tt.wantDays, got)
			}
			if got.CurrentStreak != tt.advance {
				t.Errorf("expected streak %d, got %d", tt.advance, got.CurrentStreak)
			}
			if tt.days > 0 {
				status, _, _ := f.tracker.Status(tmpl)
				if status != models.StatusCompleted {
					t.Errorf("expected completed status, got %s", status)
				}
			}
			p, _ := f.profile.Get()
			if p.XP != tt.wantXP {
				t.Errorf("expected %d XP, got %d", tt.wantXP, p.XP)
			}

			if _, err := f.tracker.StartTemplate(tmpl.TemplateKey); err != nil {
				t.Errorf("expected a new run after early completion, got %v", err)
			}
			if _, err := f.tracker.StartTemplate(tmpl.TemplateKey); !errors.Is(err, apperrors.ErrAlreadyActive) {
				t.Errorf("expected the new run to block another start, got %v", err)
			}
		})
	}
}

func TestCategoryAchievement(t *testing.T) {
	f := setupTracker(t)
	var last Award
	for i := 0; i < constants.CategoryAchievementThreshold; i++ {
		tmpl := f.addTemplate(t, fmt.Sprintf("body-%d", i), 10, models.CategoryBody)
		award, err := f.tracker.UpdateProgress(tmpl.ID, 10, true)
		if err != nil {
			t.Fatalf("UpdateProgress failed: %v", err)
		}
		if i < constants.CategoryAchievementThreshold-1 && award.Achievement != "" {
			t.Fatalf("achievement granted too early at %d", i)
		}
		last = award
	}

	want := constants.CategoryAchievementPrefix + string(models.CategoryBody)
	if last.Achievement != want || last.BonusXP != constants.CategoryAchievementXP {
		t.Errorf("expected %s with bonus, got %+v", want, last)
	}

	extra := f.addTemplate(t, "body-extra", 10, models.CategoryBody)
	again, err := f.tracker.UpdateProgress(extra.ID, 10, true)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if again.Achievement != "" {
		t.Errorf("achievement must only be granted once, got %+v", again)
	}

	p, _ := f.profile.Get()
	wantXP := 10*(constants.CategoryAchievementThreshold+1) + constants.CategoryAchievementXP
	if p.XP != wantXP {
		t.Errorf("expected %d XP, got %d", wantXP, p.XP)
	}
}

func seedCourse(t *testing.T, f *fixture) {
	t.Helper()
	course := "path"
	for _, key := range []string{"step-1", "step-2", "step-3"} {
		if _, err := f.templates.Save(models.PracticeTemplate{TemplateKey: key, Title: key, Category: models.CategoryMind, DurationDays: 5, Difficulty: 1, CourseID: &course}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	if err := f.store.SaveCourse(models.CoursePath{ID: course, Title: "Path", TemplateKeys: []string{"step-1", "step-2", "step-3"}, Difficulty: 1, Category: models.CategoryMind}); err != nil {
		t.Fatalf("SaveCourse failed: %v", err)
	}
}

func TestCourseAdvancement(t *testing.T) {
	f := setupTracker(t)
	seedCourse(t, f)

	step1, _ := f.templates.GetByTemplateKey("step-1")
	award, err := f.tracker.UpdateProgress(step1.ID, 5, true)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if award.NextTemplateKey != "step-2" {
		t.Errorf("expected next step-2, got %q", award.NextTemplateKey)
	}

	status, err := f.tracker.CourseStatus("path")
	if err != nil {
		t.Fatalf("CourseStatus failed: %v", err)
	}
	if status.Steps[0].Status != models.StatusCompleted || status.Next == nil || status.Next.TemplateKey != "step-2" {
		t.Errorf("unexpected course status %+v", status)
	}

	step3, _ := f.templates.GetByTemplateKey("step-3")
	award, _ = f.tracker.UpdateProgress(step3.ID, 5, true)
	if award.NextTemplateKey != "" {
		t.Errorf("expected no step after the last, got %q", award.NextTemplateKey)
	}

	if _, err := f.tracker.CourseStatus("nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecommendPrefersUncoveredCategories(t *testing.T) {
	f := setupTracker(t)
	body := f.addTemplate(t, "body-a", 7, models.CategoryBody)
	f.addTemplate(t, "body-b", 7, models.CategoryBody)
	f.addTemplate(t, "mind-a", 7, models.CategoryMind)

	if _, err := f.tracker.UpdateProgress(body.ID, 7, true); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	recs, err := f.tracker.Recommend(2)
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].TemplateKey != "mind-a" || recs[1].TemplateKey != "body-b" {
		t.Errorf("unexpected order %q, %q", recs[0].TemplateKey, recs[1].TemplateKey)
	}
	for _, r := range recs {
		if r.ID == body.ID {
			t.Error("completed template must not be recommended")
		}
	}
}
