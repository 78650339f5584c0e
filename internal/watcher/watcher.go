// Package watcher drives reconciliation from timers and activation events.
// Every trigger goes through Trigger, which serializes callers, drops
// triggers that arrive inside the debounce window and detects calendar day
// changes since the last recorded check.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/time/rate"

	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/constants"
	"github.com/julianstephens/askeza/internal/lifecycle"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/utils"
)

type Reason int

const (
	ReasonTick Reason = iota
	ReasonForeground
	ReasonDayBoundary
)

func (r Reason) String() string {
	switch r {
	case ReasonTick:
		return "tick"
	case ReasonForeground:
		return "foreground"
	case ReasonDayBoundary:
		return "day_boundary"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// CheckpointStore persists the moment of the last check.
type CheckpointStore interface {
	LoadLastCheckTimestamp() (*time.Time, error)
	SaveLastCheckTimestamp(time.Time) error
}

// Syncer receives the active askezas after each reconciliation.
type Syncer interface {
	SyncFromAskezas(active []models.Askeza) error
}

type Options struct {
	TickInterval   time.Duration
	DebounceWindow time.Duration
}

type Watcher struct {
	mu sync.Mutex

	askezas     *lifecycle.Manager
	checkpoints CheckpointStore
	syncer      Syncer
	clk         clock.Clock
	limiter     *rate.Limiter
	opts        Options
}

// Report describes what a single trigger did.
type Report struct {
	Reason      Reason
	Debounced   bool
	DayChanged  bool
	Reconciled  lifecycle.Summary
	ForceTicked lifecycle.Summary
}

func New(askezas *lifecycle.Manager, checkpoints CheckpointStore, syncer Syncer, clk clock.Clock, opts Options) *Watcher {
	if opts.TickInterval <= 0 {
		opts.TickInterval = constants.DefaultTickInterval
	}
	limit := rate.Inf
	if opts.DebounceWindow > 0 {
		limit = rate.Every(opts.DebounceWindow)
	}
	return &Watcher{
		askezas:     askezas,
		checkpoints: checkpoints,
		syncer:      syncer,
		clk:         clk,
		limiter:     rate.NewLimiter(limit, 1),
		opts:        opts,
	}
}

// Trigger runs one reconciliation pass. Day-boundary triggers bypass the
// debounce window; all others inside it return a Debounced report without
// touching storage.
func (w *Watcher) Trigger(reason Reason) (Report, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clk.Now()
	report := Report{Reason: reason}
	if reason != ReasonDayBoundary && !w.limiter.AllowN(now, 1) {
		report.Debounced = true
		return report, nil
	}

	summary, err := w.askezas.ReconcileAll(now)
	report.Reconciled = summary
	if err != nil {
		return report, fmt.Errorf("reconcile failed: %w", err)
	}

	last, err := w.checkpoints.LoadLastCheckTimestamp()
	if err != nil {
		return report, err
	}

	loc := w.askezas.Location()
	if last != nil && now.After(*last) && !utils.SameDay(*last, now, loc) {
		report.DayChanged = true
		ticked, err := w.askezas.ForceTick(now, w.staleSince(*last, summary.Unchanged))
		report.ForceTicked = ticked
		if err != nil {
			return report, fmt.Errorf("force tick failed: %w", err)
		}
	}

	if last == nil || report.DayChanged {
		if err := w.checkpoints.SaveLastCheckTimestamp(now); err != nil {
			return report, err
		}
	}

	if w.syncer != nil && (report.Reconciled.Changed() || report.ForceTicked.Changed()) {
		if err := w.syncer.SyncFromAskezas(w.askezas.Active()); err != nil {
			return report, fmt.Errorf("template sync failed: %w", err)
		}
	}

	logger.Debug("Trigger handled", "reason", reason, "day_changed", report.DayChanged,
		"updated", len(report.Reconciled.Updated), "completed", len(report.Reconciled.Completed),
		"force_ticked", len(report.ForceTicked.Updated)+len(report.ForceTicked.Completed))
	return report, nil
}

// staleSince keeps the unchanged askezas that already existed at the last
// check. Askezas started after it have not lived through the boundary.
func (w *Watcher) staleSince(last time.Time, unchanged []string) []string {
	var ids []string
	for _, id := range unchanged {
		a, ok := w.askezas.Find(id)
		if ok && a.StartDate.Before(last) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (w *Watcher) fire(reason Reason) {
	if _, err := w.Trigger(reason); err != nil {
		logger.Error("Reconciliation trigger failed", "reason", reason, "error", err)
	}
}

// Run fires a foreground trigger, then schedules the periodic tick and the
// midnight watcher until ctx is done. Each receive on foreground fires
// another foreground trigger.
func (w *Watcher) Run(ctx context.Context, foreground <-chan struct{}) error {
	c := cron.NewWithLocation(w.askezas.Location())
	if err := c.AddFunc("@every "+w.opts.TickInterval.String(), func() { w.fire(ReasonTick) }); err != nil {
		return fmt.Errorf("failed to schedule tick: %w", err)
	}
	if err := c.AddFunc(constants.MidnightSpec, func() { w.fire(ReasonDayBoundary) }); err != nil {
		return fmt.Errorf("failed to schedule midnight watcher: %w", err)
	}

	w.fire(ReasonForeground)
	c.Start()
	defer c.Stop()
	logger.Info("Watcher started", "tick_interval", w.opts.TickInterval, "debounce", w.opts.DebounceWindow)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher stopped")
			return nil
		case <-foreground:
			w.fire(ReasonForeground)
		}
	}
}
