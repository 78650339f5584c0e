// Package tracker keeps per-template progress in step with the askezas
// started from templates, and hands out XP, achievements and course steps.
package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/constants"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/lifecycle"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/profile"
	"github.com/julianstephens/askeza/internal/progress"
	"github.com/julianstephens/askeza/internal/storage"
	"github.com/julianstephens/askeza/internal/templates"
)

type Tracker struct {
	templates *templates.Service
	store     storage.ProgressStore
	profile   *profile.Service
	askezas   *lifecycle.Manager
	clk       clock.Clock
	loc       *time.Location
}

// Award describes what a completion earned.
type Award struct {
	Status          models.TemplateStatus
	XP              int
	Achievement     string
	BonusXP         int
	NextTemplateKey string
	// Skipped is set when a completion for this template was already being processed.
	Skipped bool
}

// Total is the XP granted including bonuses.
func (a Award) Total() int {
	return a.XP + a.BonusXP
}

func New(tmpl *templates.Service, store storage.ProgressStore, prof *profile.Service, askezas *lifecycle.Manager, clk clock.Clock) *Tracker {
	return &Tracker{
		templates: tmpl,
		store:     store,
		profile:   prof,
		askezas:   askezas,
		clk:       clk,
		loc:       askezas.Location(),
	}
}

// Attach subscribes the tracker to askeza completions so that finishing a
// template-linked askeza counts as completing the template.
func (t *Tracker) Attach() {
	t.askezas.OnComplete(func(a models.Askeza) {
		if a.TemplateID == nil {
			return
		}
		if _, err := t.UpdateProgress(*a.TemplateID, a.Progress, true); err != nil {
			logger.Error("Failed to record template completion", "template_id", *a.TemplateID, "askeza_id", a.ID, "error", err)
		}
	})
}

// loadProgress returns nil when the template was never started.
func (t *Tracker) loadProgress(templateID string) (*models.TemplateProgress, error) {
	p, err := t.store.GetProgress(templateID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Status derives the current status of a template.
func (t *Tracker) Status(tmpl models.PracticeTemplate) (models.TemplateStatus, *models.TemplateProgress, error) {
	p, err := t.loadProgress(tmpl.ID)
	if err != nil {
		return "", nil, err
	}
	return progress.Status(p, tmpl.DurationDays, t.clk.Now(), t.loc), p, nil
}

// StartTemplate begins a new run of the template referenced by id or key and
// creates the linked askeza. A run already in progress yields ErrAlreadyActive
// and leaves everything untouched.
func (t *Tracker) StartTemplate(ref string) (models.Askeza, error) {
	tmpl, err := t.templates.Resolve(ref)
	if err != nil {
		return models.Askeza{}, err
	}

	open, existing, err := t.RunOpen(tmpl)
	if err != nil {
		return models.Askeza{}, err
	}
	if open || t.hasActiveAskeza(tmpl.ID) {
		return models.Askeza{}, fmt.Errorf("template %q: %w", tmpl.TemplateKey, apperrors.ErrAlreadyActive)
	}

	now := t.clk.Now()
	p := models.TemplateProgress{TemplateID: tmpl.ID}
	if existing != nil {
		p = *existing
	}
	p.DateStarted = &now
	p.LastUpdated = &now
	p.DaysCompleted = 0
	p.IsProcessingCompletion = false
	progress.UpdateStreak(&p, 0)

	if err := t.store.UpsertProgress(p); err != nil {
		return models.Askeza{}, fmt.Errorf("failed to save progress for %s: %w", tmpl.TemplateKey, err)
	}

	a, err := t.askezas.CreateFromTemplate(tmpl)
	if err != nil {
		return models.Askeza{}, err
	}
	logger.Info("Template started", "template_key", tmpl.TemplateKey, "askeza_id", a.ID)
	return a, nil
}

// RunOpen reports whether the template has a started run that has not been
// completed yet.
func (t *Tracker) RunOpen(tmpl models.PracticeTemplate) (bool, *models.TemplateProgress, error) {
	status, p, err := t.Status(tmpl)
	if err != nil {
		return false, nil, err
	}
	return status == models.StatusInProgress && !lifetimeRunClosed(tmpl, p), p, nil
}

// lifetimeRunClosed reports a lifetime template that has completed at least
// once. Its status stays in progress after completion, so only a linked
// askeza marks the run as open.
func lifetimeRunClosed(tmpl models.PracticeTemplate, p *models.TemplateProgress) bool {
	return tmpl.DurationDays == 0 && p != nil && p.TimesCompleted > 0
}

func (t *Tracker) hasActiveAskeza(templateID string) bool {
	for _, a := range t.askezas.Active() {
		if a.TemplateID != nil && *a.TemplateID == templateID {
			return true
		}
	}
	return false
}

// UpdateProgress records days completed for a template. With isCompleted it
// also counts a completion cycle and grants XP, guarded so a re-entrant call
// for the same template does not count twice.
func (t *Tracker) UpdateProgress(templateID string, daysCompleted int, isCompleted bool) (Award, error) {
	tmpl, err := t.templates.GetByID(templateID)
	if err != nil {
		return Award{}, err
	}

	existing, err := t.loadProgress(templateID)
	if err != nil {
		return Award{}, err
	}
	p := models.TemplateProgress{TemplateID: templateID}
	if existing != nil {
		p = *existing
	}

	now := t.clk.Now()
	if daysCompleted < 0 {
		daysCompleted = 0
	}
	p.DaysCompleted = daysCompleted
	// A fixed run that completes early still counts as its full duration.
	if isCompleted && tmpl.DurationDays > 0 && daysCompleted < tmpl.DurationDays {
		p.DaysCompleted = tmpl.DurationDays
	}
	p.LastUpdated = &now
	if p.DateStarted == nil {
		p.DateStarted = &now
	}
	progress.UpdateStreak(&p, daysCompleted)

	if !isCompleted {
		if err := t.store.UpsertProgress(p); err != nil {
			return Award{}, fmt.Errorf("failed to save progress for %s: %w", tmpl.TemplateKey, err)
		}
		return Award{Status: progress.Status(&p, tmpl.DurationDays, now, t.loc)}, nil
	}

	if p.IsProcessingCompletion {
		logger.Warn("Completion already in progress, skipping", "template_key", tmpl.TemplateKey)
		return Award{Skipped: true}, nil
	}

	p.IsProcessingCompletion = true
	if err := t.store.UpsertProgress(p); err != nil {
		return Award{}, fmt.Errorf("failed to save progress for %s: %w", tmpl.TemplateKey, err)
	}

	p.TimesCompleted++
	award, awardErr := t.completeCycle(tmpl, p, now)

	p.IsProcessingCompletion = false
	if err := t.store.UpsertProgress(p); err != nil {
		return award, fmt.Errorf("failed to save progress for %s: %w", tmpl.TemplateKey, err)
	}
	return award, awardErr
}

func (t *Tracker) completeCycle(tmpl models.PracticeTemplate, p models.TemplateProgress, now time.Time) (Award, error) {
	award := Award{Status: progress.Status(&p, tmpl.DurationDays, now, t.loc)}
	award.XP = CompletionXP(tmpl, p, award.Status)

	if _, err := t.profile.AwardXP(award.XP, "template:"+tmpl.TemplateKey); err != nil {
		return award, err
	}

	// The current record is not stored yet with its new count.
	achievement, err := t.checkCategoryAchievement(tmpl.Category, p)
	if err != nil {
		return award, err
	}
	if achievement != "" {
		award.Achievement = achievement
		award.BonusXP = constants.CategoryAchievementXP
		if _, err := t.profile.AwardXP(award.BonusXP, achievement); err != nil {
			return award, err
		}
	}

	next, err := t.nextInCourse(tmpl)
	if err != nil {
		return award, err
	}
	award.NextTemplateKey = next

	logger.Info("Template completed", "template_key", tmpl.TemplateKey, "status", award.Status, "xp", award.Total())
	return award, nil
}

// CompletionXP is the template duration, tripled for a mastered completion.
// Lifetime templates use the days actually completed.
func CompletionXP(tmpl models.PracticeTemplate, p models.TemplateProgress, status models.TemplateStatus) int {
	basis := tmpl.DurationDays
	if basis == 0 {
		basis = p.DaysCompleted
	}
	if status == models.StatusMastered {
		return basis * constants.MasteryXPMultiplier
	}
	return basis
}

func (t *Tracker) checkCategoryAchievement(category models.Category, current models.TemplateProgress) (string, error) {
	all, err := t.templates.FetchAll()
	if err != nil {
		return "", err
	}
	records, err := t.store.GetAllProgress()
	if err != nil {
		return "", err
	}
	times := make(map[string]int, len(records))
	for _, r := range records {
		times[r.TemplateID] = r.TimesCompleted
	}
	times[current.TemplateID] = current.TimesCompleted

	count := 0
	for _, tmpl := range all {
		if tmpl.Category == category && times[tmpl.ID] >= 1 {
			count++
		}
	}
	if count < constants.CategoryAchievementThreshold {
		return "", nil
	}

	id := constants.CategoryAchievementPrefix + string(category)
	granted, err := t.profile.GrantAchievement(id)
	if err != nil || !granted {
		return "", err
	}
	return id, nil
}

func (t *Tracker) nextInCourse(tmpl models.PracticeTemplate) (string, error) {
	if tmpl.CourseID == nil {
		return "", nil
	}
	course, err := t.templates.Course(*tmpl.CourseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	for i, key := range course.TemplateKeys {
		if key == tmpl.TemplateKey && i+1 < len(course.TemplateKeys) {
			return course.TemplateKeys[i+1], nil
		}
	}
	return "", nil
}

// SyncFromAskezas copies the progress of active template-linked askezas into
// their template records.
func (t *Tracker) SyncFromAskezas(active []models.Askeza) error {
	for _, a := range active {
		if a.TemplateID == nil {
			continue
		}
		p, err := t.loadProgress(*a.TemplateID)
		if err != nil {
			return err
		}
		if p != nil && p.DaysCompleted == a.Progress {
			continue
		}
		if _, err := t.UpdateProgress(*a.TemplateID, a.Progress, false); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Askeza references a missing template", "askeza_id", a.ID, "template_id", *a.TemplateID)
				continue
			}
			return err
		}
	}
	return nil
}
