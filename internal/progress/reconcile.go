// Package progress recomputes askeza progress from the calendar and derives
// template status from cumulative stats. Everything here is a pure function of
// its inputs; callers own persistence.
package progress

import (
	"fmt"
	"time"

	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/utils"
)

type ResultKind int

const (
	Unchanged ResultKind = iota
	Updated
	Completed
)

func (k ResultKind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result describes the transition Reconcile or ForceTick wants applied.
// Askeza always holds the record as it should be stored after the transition.
type Result struct {
	Kind      ResultKind
	Progress  int
	StartDate *time.Time
	Askeza    models.Askeza
}

// Reconcile recomputes progress as the number of calendar days since the
// start date. It never lowers progress, so calling it again with the same or
// an earlier now always yields Unchanged.
func Reconcile(a models.Askeza, now time.Time, loc *time.Location) Result {
	elapsed := utils.CalendarDaysBetween(a.StartDate, now, loc)
	if elapsed <= a.Progress {
		return Result{Kind: Unchanged, Progress: a.Progress, Askeza: a}
	}

	a.Progress = elapsed
	return settle(a, now)
}

// ForceTick advances progress by exactly one day and re-anchors the start date
// so that the calendar distance to now equals the new progress. It backs up the
// day-change watcher when sleep or clock gaps hide a boundary from Reconcile.
func ForceTick(a models.Askeza, now time.Time, loc *time.Location) Result {
	a.Progress++
	start := utils.DaysBefore(now, a.Progress, loc)
	a.StartDate = start

	r := settle(a, now)
	r.StartDate = &start
	return r
}

// SetProgress implements an explicit progress edit: progress is clamped to
// zero or more and the start date is moved so elapsed days match it.
func SetProgress(a models.Askeza, progress int, now time.Time, loc *time.Location) Result {
	if progress < 0 {
		progress = 0
	}
	a.Progress = progress
	start := utils.DaysBefore(now, progress, loc)
	a.StartDate = start

	r := settle(a, now)
	r.StartDate = &start
	return r
}

// settle decides between Updated and Completed for an askeza whose progress has
// already been moved.
func settle(a models.Askeza, now time.Time) Result {
	switch d := a.Duration.(type) {
	case models.Fixed:
		if a.Progress >= d.TotalDays {
			return Result{Kind: Completed, Progress: a.Progress, Askeza: MarkCompleted(a, now)}
		}
	case models.Lifetime:
		// no end day
	default:
		panic(fmt.Sprintf("progress: unknown duration variant %T", a.Duration))
	}
	return Result{Kind: Updated, Progress: a.Progress, Askeza: a}
}

// MarkCompleted flags a as completed and starts the wish clock if needed.
func MarkCompleted(a models.Askeza, now time.Time) models.Askeza {
	a.IsCompleted = true
	if a.CompletedAt == nil {
		t := now
		a.CompletedAt = &t
	}
	a.MarkWishWaiting()
	return a
}

// ElapsedDays exposes the calendar distance used by Reconcile.
func ElapsedDays(a models.Askeza, now time.Time, loc *time.Location) int {
	return utils.CalendarDaysBetween(a.StartDate, now, loc)
}

// LifetimeElapsed is the display breakdown for askezas without an end day.
func LifetimeElapsed(a models.Askeza, now time.Time) utils.ElapsedBreakdown {
	return utils.Elapsed(a.StartDate, now)
}

// DaysRemaining returns the days left for a Fixed askeza and false for Lifetime.
func DaysRemaining(a models.Askeza) (int, bool) {
	switch d := a.Duration.(type) {
	case models.Fixed:
		left := d.TotalDays - a.Progress
		if left < 0 {
			left = 0
		}
		return left, true
	case models.Lifetime:
		return 0, false
	default:
		panic(fmt.Sprintf("progress: unknown duration variant %T", a.Duration))
	}
}
