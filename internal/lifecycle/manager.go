// Package lifecycle owns the authoritative active and completed askeza
// collections. It is the only code that mutates them and every mutation
// persists a full snapshot of both before returning. A mutation whose snapshot
// cannot be written leaves memory as it was.
//
// A Manager is not safe for concurrent use; callers serialize access.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/askeza/internal/clock"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/progress"
)

// Repository is the snapshot contract the manager persists through.
type Repository interface {
	LoadActiveAskezas() ([]models.Askeza, error)
	LoadCompletedAskezas() ([]models.Askeza, error)
	SaveActiveAskezas([]models.Askeza) error
	SaveCompletedAskezas([]models.Askeza) error
}

type Manager struct {
	repo Repository
	clk  clock.Clock
	loc  *time.Location

	active    []models.Askeza
	completed []models.Askeza

	onComplete []func(models.Askeza)
}

// Summary reports what a bulk reconciliation did, by askeza id.
type Summary struct {
	Updated   []string
	Completed []string
	Unchanged []string
}

// Changed reports whether anything was written.
func (s Summary) Changed() bool {
	return len(s.Updated) > 0 || len(s.Completed) > 0
}

func NewManager(repo Repository, clk clock.Clock, loc *time.Location) *Manager {
	if loc == nil {
		loc = time.Local
	}
	return &Manager{
		repo:      repo,
		clk:       clk,
		loc:       loc,
		active:    []models.Askeza{},
		completed: []models.Askeza{},
	}
}

// Load replaces the in-memory collections with the persisted snapshots. An id
// present in both is kept only in completed.
func (m *Manager) Load() error {
	active, err := m.repo.LoadActiveAskezas()
	if err != nil {
		return err
	}
	completed, err := m.repo.LoadCompletedAskezas()
	if err != nil {
		return err
	}

	done := make(map[string]bool, len(completed))
	for _, a := range completed {
		done[a.ID] = true
	}
	m.active = m.active[:0]
	for _, a := range active {
		if done[a.ID] {
			logger.Warn("Dropping askeza present in both collections", "askeza_id", a.ID)
			continue
		}
		m.active = append(m.active, a)
	}
	m.completed = completed
	return nil
}

// OnComplete registers fn to run after an askeza has been moved to the
// completed collection and the snapshot was persisted.
func (m *Manager) OnComplete(fn func(models.Askeza)) {
	m.onComplete = append(m.onComplete, fn)
}

func (m *Manager) Active() []models.Askeza {
	return append([]models.Askeza(nil), m.active...)
}

func (m *Manager) Completed() []models.Askeza {
	return append([]models.Askeza(nil), m.completed...)
}

// Find looks an askeza up in both collections.
func (m *Manager) Find(id string) (models.Askeza, bool) {
	if i := indexOf(m.active, id); i >= 0 {
		return m.active[i], true
	}
	if i := indexOf(m.completed, id); i >= 0 {
		return m.completed[i], true
	}
	return models.Askeza{}, false
}

// Location is the calendar used for day arithmetic.
func (m *Manager) Location() *time.Location {
	return m.loc
}

func (m *Manager) Create(title, intention string, duration models.Duration, category models.Category) (models.Askeza, error) {
	return m.create(title, intention, duration, category, nil)
}

// CreateFromTemplate instantiates an askeza linked back to t.
func (m *Manager) CreateFromTemplate(t models.PracticeTemplate) (models.Askeza, error) {
	id := t.ID
	return m.create(t.Title, t.Intention, t.Duration(), t.Category, &id)
}

func (m *Manager) create(title, intention string, duration models.Duration, category models.Category, templateID *string) (models.Askeza, error) {
	if err := validateDuration(duration); err != nil {
		return models.Askeza{}, err
	}

	now := m.clk.Now()
	a := models.Askeza{
		ID:         uuid.NewString(),
		Title:      title,
		Intention:  intention,
		StartDate:  now,
		Duration:   duration,
		Category:   models.ParseCategory(string(category)),
		TemplateID: templateID,
		CreatedAt:  now,
	}
	prev := m.capture()
	m.active = append(m.active, a)

	if err := m.persist(prev); err != nil {
		return models.Askeza{}, err
	}
	logger.Info("Askeza created", "askeza_id", a.ID, "duration", models.FormatDuration(duration))
	return a, nil
}

func validateDuration(d models.Duration) error {
	switch v := d.(type) {
	case models.Fixed:
		if v.TotalDays <= 0 {
			return fmt.Errorf("%w: fixed duration must be at least one day", apperrors.ErrInvalidArgument)
		}
		return nil
	case models.Lifetime:
		return nil
	case nil:
		return fmt.Errorf("%w: duration is required", apperrors.ErrInvalidArgument)
	default:
		panic(fmt.Sprintf("lifecycle: unknown duration variant %T", d))
	}
}

// Extend adds days to a Fixed askeza. Completed askezas can be extended too;
// they are not reopened.
func (m *Manager) Extend(id string, days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: additional days must be positive", apperrors.ErrInvalidArgument)
	}

	prev := m.capture()
	a, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("askeza %q: %w", id, apperrors.ErrNotFound)
	}
	switch d := a.Duration.(type) {
	case models.Fixed:
		a.Duration = models.Fixed{TotalDays: d.TotalDays + days}
	case models.Lifetime:
		return fmt.Errorf("askeza %q: %w", id, apperrors.ErrLifetimeExtension)
	default:
		panic(fmt.Sprintf("lifecycle: unknown duration variant %T", a.Duration))
	}
	return m.persist(prev)
}

// UpdateProgress sets progress explicitly and re-anchors the start date so
// elapsed days match. Reaching a fixed total completes the askeza.
func (m *Manager) UpdateProgress(id string, n int) error {
	i := indexOf(m.active, id)
	if i < 0 {
		if indexOf(m.completed, id) >= 0 {
			return fmt.Errorf("%w: askeza %q is already completed", apperrors.ErrInvalidArgument, id)
		}
		return fmt.Errorf("askeza %q: %w", id, apperrors.ErrNotFound)
	}

	now := m.clk.Now()
	r := progress.SetProgress(m.active[i], n, now, m.loc)
	if r.Kind == progress.Completed {
		return m.moveToCompleted(i, r.Askeza)
	}
	prev := m.capture()
	m.active[i] = r.Askeza
	return m.persist(prev)
}

// Complete finishes an active askeza before its natural end. Completing an
// already completed askeza is a no-op.
func (m *Manager) Complete(id string) error {
	i := indexOf(m.active, id)
	if i < 0 {
		if indexOf(m.completed, id) >= 0 {
			return nil
		}
		return fmt.Errorf("askeza %q: %w", id, apperrors.ErrNotFound)
	}
	return m.moveToCompleted(i, progress.MarkCompleted(m.active[i], m.clk.Now()))
}

// Reset zeroes progress and restarts the clock. The askeza stays in whichever
// collection holds it.
func (m *Manager) Reset(id string) error {
	prev := m.capture()
	a, ok := m.lookup(id)
	if !ok {
		return fmt.Errorf("askeza %q: %w", id, apperrors.ErrNotFound)
	}
	a.Progress = 0
	a.StartDate = m.clk.Now()
	return m.persist(prev)
}

// Delete removes id from whichever collection holds it. Unknown ids are ignored.
func (m *Manager) Delete(id string) error {
	prev := m.capture()
	if i := indexOf(m.active, id); i >= 0 {
		m.active = append(m.active[:i], m.active[i+1:]...)
	} else if i := indexOf(m.completed, id); i >= 0 {
		m.completed = append(m.completed[:i], m.completed[i+1:]...)
	} else {
		logger.Debug("Delete of unknown askeza ignored", "askeza_id", id)
		return nil
	}
	return m.persist(prev)
}

// UpdateWish attaches, replaces or (with nil or blank) clears the wish. A new
// wish starts out waiting. Unknown ids are ignored.
func (m *Manager) UpdateWish(id string, wish *string) error {
	prev := m.capture()
	a, ok := m.lookup(id)
	if !ok {
		logger.Debug("Wish update for unknown askeza ignored", "askeza_id", id)
		return nil
	}

	if wish == nil || strings.TrimSpace(*wish) == "" {
		a.Wish = nil
		a.WishStatus = nil
	} else {
		w := *wish
		s := models.WishWaiting
		a.Wish = &w
		a.WishStatus = &s
	}
	return m.persist(prev)
}

// UpdateWishStatus sets the status directly. Unknown ids and askezas without a
// wish are ignored so that a status never exists without a wish.
func (m *Manager) UpdateWishStatus(id string, status models.WishStatus) error {
	prev := m.capture()
	a, ok := m.lookup(id)
	if !ok {
		logger.Debug("Wish status update for unknown askeza ignored", "askeza_id", id)
		return nil
	}
	if !a.HasWish() {
		logger.Debug("Wish status update ignored, askeza has no wish", "askeza_id", id)
		return nil
	}
	s := status
	a.WishStatus = &s
	return m.persist(prev)
}

// ReconcileAll applies calendar reconciliation to every active askeza. The
// snapshot is only written when something changed.
func (m *Manager) ReconcileAll(now time.Time) (Summary, error) {
	return m.apply(now, nil, func(a models.Askeza) progress.Result {
		return progress.Reconcile(a, now, m.loc)
	})
}

// ForceTickAll advances every active askeza by one day.
func (m *Manager) ForceTickAll(now time.Time) (Summary, error) {
	return m.apply(now, nil, func(a models.Askeza) progress.Result {
		return progress.ForceTick(a, now, m.loc)
	})
}

// ForceTick advances only the listed active askezas by one day.
func (m *Manager) ForceTick(now time.Time, ids []string) (Summary, error) {
	only := make(map[string]bool, len(ids))
	for _, id := range ids {
		only[id] = true
	}
	return m.apply(now, only, func(a models.Askeza) progress.Result {
		return progress.ForceTick(a, now, m.loc)
	})
}

func (m *Manager) apply(now time.Time, only map[string]bool, fn func(models.Askeza) progress.Result) (Summary, error) {
	var summary Summary
	kept := make([]models.Askeza, 0, len(m.active))
	var done []models.Askeza

	for _, a := range m.active {
		if only != nil && !only[a.ID] {
			kept = append(kept, a)
			continue
		}
		r := fn(a)
		switch r.Kind {
		case progress.Unchanged:
			summary.Unchanged = append(summary.Unchanged, a.ID)
			kept = append(kept, a)
		case progress.Updated:
			summary.Updated = append(summary.Updated, a.ID)
			kept = append(kept, r.Askeza)
		case progress.Completed:
			summary.Completed = append(summary.Completed, a.ID)
			done = append(done, r.Askeza)
		}
	}

	if !summary.Changed() {
		return summary, nil
	}

	prev := m.capture()
	m.active = kept
	m.completed = append(m.completed, done...)
	if err := m.persist(prev); err != nil {
		return summary, err
	}

	logger.Debug("Reconciled askezas", "updated", len(summary.Updated), "completed", len(summary.Completed), "at", now)
	for _, a := range done {
		m.notifyComplete(a)
	}
	return summary, nil
}

// moveToCompleted removes active[i] and appends a to completed in one step.
func (m *Manager) moveToCompleted(i int, a models.Askeza) error {
	prev := m.capture()
	m.active = append(m.active[:i], m.active[i+1:]...)
	m.completed = append(m.completed, a)
	if err := m.persist(prev); err != nil {
		return err
	}
	logger.Info("Askeza completed", "askeza_id", a.ID, "progress", a.Progress)
	m.notifyComplete(a)
	return nil
}

func (m *Manager) notifyComplete(a models.Askeza) {
	for _, fn := range m.onComplete {
		fn(a)
	}
}

// lookup returns a pointer into whichever collection holds id.
func (m *Manager) lookup(id string) (*models.Askeza, bool) {
	if i := indexOf(m.active, id); i >= 0 {
		return &m.active[i], true
	}
	if i := indexOf(m.completed, id); i >= 0 {
		return &m.completed[i], true
	}
	return nil, false
}

type collections struct {
	active    []models.Askeza
	completed []models.Askeza
}

// capture copies both collections so a failed persist can restore them.
func (m *Manager) capture() collections {
	return collections{
		active:    append([]models.Askeza{}, m.active...),
		completed: append([]models.Askeza{}, m.completed...),
	}
}

// persist writes both snapshots. On failure memory is put back to prev, and an
// active snapshot that was already written is rewritten from prev.
func (m *Manager) persist(prev collections) error {
	if err := m.repo.SaveActiveAskezas(m.active); err != nil {
		m.active, m.completed = prev.active, prev.completed
		return fmt.Errorf("failed to persist active askezas: %w", err)
	}
	if err := m.repo.SaveCompletedAskezas(m.completed); err != nil {
		m.active, m.completed = prev.active, prev.completed
		if rerr := m.repo.SaveActiveAskezas(m.active); rerr != nil {
			logger.Error("Failed to restore active askezas", "error", rerr)
		}
		return fmt.Errorf("failed to persist completed askezas: %w", err)
	}
	return nil
}

func indexOf(list []models.Askeza, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
