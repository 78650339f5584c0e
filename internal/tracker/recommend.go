package tracker

import (
	"sort"

	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/progress"
)

// TemplateView pairs a template with its derived status.
type TemplateView struct {
	Template models.PracticeTemplate
	Progress *models.TemplateProgress
	Status   models.TemplateStatus
}

// Overview returns every template with its status, in catalog order.
func (t *Tracker) Overview() ([]TemplateView, error) {
	all, err := t.templates.FetchAll()
	if err != nil {
		return nil, err
	}
	records, err := t.store.GetAllProgress()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.TemplateProgress, len(records))
	for _, r := range records {
		byID[r.TemplateID] = r
	}

	now := t.clk.Now()
	views := make([]TemplateView, 0, len(all))
	for _, tmpl := range all {
		v := TemplateView{Template: tmpl}
		if r, ok := byID[tmpl.ID]; ok {
			r := r
			v.Progress = &r
		}
		v.Status = progress.Status(v.Progress, tmpl.DurationDays, now, t.loc)
		views = append(views, v)
	}
	return views, nil
}

// Recommend suggests not-started templates from the categories the user has
// touched least. Within a category easier templates come first.
func (t *Tracker) Recommend(limit int) ([]models.PracticeTemplate, error) {
	views, err := t.Overview()
	if err != nil {
		return nil, err
	}

	coverage := make(map[models.Category]int)
	var candidates []models.PracticeTemplate
	for _, v := range views {
		if v.Status == models.StatusNotStarted {
			candidates = append(candidates, v.Template)
			continue
		}
		coverage[v.Template.Category]++
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if coverage[a.Category] != coverage[b.Category] {
			return coverage[a.Category] < coverage[b.Category]
		}
		if a.Difficulty != b.Difficulty {
			return a.Difficulty < b.Difficulty
		}
		return a.Title < b.Title
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	if candidates == nil {
		candidates = []models.PracticeTemplate{}
	}
	return candidates, nil
}
