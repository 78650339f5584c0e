package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/askeza/internal/backup"
	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/config"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/lifecycle"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/profile"
	"github.com/julianstephens/askeza/internal/storage"
	"github.com/julianstephens/askeza/internal/templates"
	"github.com/julianstephens/askeza/internal/tracker"
	"github.com/julianstephens/askeza/internal/watcher"
)

// Context is handed to every command's Run method. Store, Config, Clock and
// Location are always set; the services are populated by Wire once the store
// is loaded.
type Context struct {
	Store    storage.Provider
	Config   *config.Config
	Clock    clock.Clock
	Location *time.Location
	Out      io.Writer

	Repo      *storage.AskezaRepository
	Askezas   *lifecycle.Manager
	Templates *templates.Service
	Profile   *profile.Service
	Tracker   *tracker.Tracker
	Watcher   *watcher.Watcher
}

// NewContext returns a context writing to stdout.
func NewContext(store storage.Provider, cfg *config.Config, clk clock.Clock, loc *time.Location) *Context {
	if clk == nil {
		clk = clock.System()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Context{
		Store:    store,
		Config:   cfg,
		Clock:    clk,
		Location: loc,
		Out:      os.Stdout,
	}
}

// Wire builds the services over the loaded store, restores the askeza
// collections and seeds the built-in catalog when configured to.
func (c *Context) Wire() error {
	c.Repo = storage.NewAskezaRepository(c.Store)
	c.Askezas = lifecycle.NewManager(c.Repo, c.Clock, c.Location)
	if err := c.Askezas.Load(); err != nil {
		return fmt.Errorf("failed to load askezas: %w", err)
	}

	c.Templates = templates.NewService(c.Store)
	c.Profile = profile.NewService(c.Store)
	c.Tracker = tracker.New(c.Templates, c.Store, c.Profile, c.Askezas, c.Clock)
	c.Tracker.Attach()

	if c.Config == nil || c.Config.SeedOnStart {
		if _, err := c.Templates.SeedDefault(); err != nil {
			return fmt.Errorf("failed to seed templates: %w", err)
		}
	}

	opts := watcher.Options{}
	if c.Config != nil {
		opts.TickInterval = c.Config.TickInterval
		opts.DebounceWindow = c.Config.DebounceWindow
	}
	c.Watcher = watcher.New(c.Askezas, c.Repo, c.Tracker, c.Clock, opts)
	return nil
}

// Activate runs the reconciliation an app performs when it comes to the
// foreground.
func (c *Context) Activate() error {
	if c.Watcher == nil {
		return errors.New("context not wired")
	}
	_, err := c.Watcher.Trigger(watcher.ReasonForeground)
	return err
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath(), c.Clock)
	if _, err := mgr.Create(); err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			return
		}
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveAskeza finds an askeza by full id or by a unique id prefix, looking
// at active askezas first.
func (c *Context) ResolveAskeza(ref string) (models.Askeza, error) {
	if a, ok := c.Askezas.Find(ref); ok {
		return a, nil
	}
	var matches []models.Askeza
	for _, list := range [][]models.Askeza{c.Askezas.Active(), c.Askezas.Completed()} {
		for _, a := range list {
			if ref != "" && strings.HasPrefix(a.ID, ref) {
				matches = append(matches, a)
			}
		}
	}
	switch len(matches) {
	case 0:
		return models.Askeza{}, fmt.Errorf("askeza %q: %w", ref, apperrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Askeza{}, fmt.Errorf("askeza %q is ambiguous (%d matches): %w", ref, len(matches), apperrors.ErrInvalidArgument)
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}
