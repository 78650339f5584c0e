package progress

import (
	"time"

	"github.com/julianstephens/askeza/internal/constants"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/utils"
)

// Status derives a template's status from its progress record. It is never
// stored; a nil record means the template was never started.
//
// Mastery is checked first and wins over everything else. A started run that
// has not reached its duration is in progress, unless it has sat idle for more
// than StaleAfterDays with some progress, in which case it counts as completed.
func Status(p *models.TemplateProgress, durationDays int, now time.Time, loc *time.Location) models.TemplateStatus {
	if p == nil {
		return models.StatusNotStarted
	}
	if IsMastered(*p) {
		return models.StatusMastered
	}
	if p.DateStarted == nil {
		return models.StatusNotStarted
	}

	if durationDays == 0 || p.DaysCompleted < durationDays {
		// TODO: confirm with product whether idle partial runs should really read as completed.
		if p.DaysCompleted > 0 && idleDays(*p, now, loc) > constants.StaleAfterDays {
			return models.StatusCompleted
		}
		return models.StatusInProgress
	}

	return models.StatusCompleted
}

// IsMastered reports the mastery thresholds independently of the current run.
func IsMastered(p models.TemplateProgress) bool {
	return p.TimesCompleted >= constants.MasteryTimesCompleted || p.DaysCompleted >= constants.MasteryDaysCompleted
}

func idleDays(p models.TemplateProgress, now time.Time, loc *time.Location) int {
	since := p.DateStarted
	if p.LastUpdated != nil {
		since = p.LastUpdated
	}
	if since == nil {
		return 0
	}
	return utils.CalendarDaysBetween(*since, now, loc)
}

// UpdateStreak sets the current streak and keeps BestStreak as its running maximum.
func UpdateStreak(p *models.TemplateProgress, current int) {
	if current < 0 {
		current = 0
	}
	p.CurrentStreak = current
	if p.CurrentStreak > p.BestStreak {
		p.BestStreak = p.CurrentStreak
	}
}
