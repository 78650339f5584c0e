package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/askeza/internal/backup"
	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/storage"
	"github.com/julianstephens/askeza/internal/templates"
	"github.com/julianstephens/askeza/internal/utils"
)

// errWarning marks a check that found something worth reporting without failing.
type errWarning struct{ msg string }

func (e errWarning) Error() string { return e.msg }

type check struct {
	name string
	// opensDB marks the check whose success makes the database checks runnable.
	opensDB bool
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", opensDB: true, run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Askeza snapshots", needsDB: true, run: checkSnapshots},
	{name: "Template links", needsDB: true, run: checkTemplateLinks},
	{name: "Template titles", needsDB: true, run: checkTemplateTitles},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := false
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var warn errWarning
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), c.name)
			if c.opensDB {
				dbReachable = true
			}
		case errors.As(err, &warn):
			ctx.Printf("%s %s: WARNING\n", cli.WarnStyle.Render("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", cli.ErrorStyle.Render("✗"), c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetProfile(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersions()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d; run 'askeza migrate'", current, latest)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath(), ctx.Clock)
	list, err := mgr.List()
	if err != nil {
		return errWarning{msg: err.Error()}
	}
	if len(list) == 0 {
		return errWarning{msg: fmt.Sprintf("no backups found in %s; run 'askeza backup create'", mgr.Dir())}
	}
	if age := ctx.Clock.Now().Sub(list[0].Timestamp); age > 7*24*time.Hour {
		return errWarning{msg: fmt.Sprintf("newest backup is %d days old", int(age.Hours()/24))}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	if ctx.Config != nil {
		if _, err := utils.LoadLocation(ctx.Config.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
		}
	}
	now := ctx.Clock.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkSnapshots(ctx *cli.Context) error {
	repo := storage.NewAskezaRepository(ctx.Store)
	active, err := repo.LoadActiveAskezas()
	if err != nil {
		return err
	}
	completed, err := repo.LoadCompletedAskezas()
	if err != nil {
		return err
	}
	return validateSnapshots(active, completed)
}

// validateSnapshots reports the first structural problem across both collections.
func validateSnapshots(active, completed []models.Askeza) error {
	seen := make(map[string]string, len(active)+len(completed))
	for _, a := range active {
		if prev, dup := seen[a.ID]; dup {
			return fmt.Errorf("askeza %s appears twice (%s and active)", a.ID, prev)
		}
		seen[a.ID] = "active"
		if a.IsCompleted {
			return fmt.Errorf("askeza %s is marked completed but still active", a.ID)
		}
		if a.Progress < 0 {
			return fmt.Errorf("askeza %s has negative progress %d", a.ID, a.Progress)
		}
		if d, ok := a.Duration.(models.Fixed); ok && a.Progress >= d.TotalDays {
			return fmt.Errorf("askeza %s reached %d/%d days but was not completed", a.ID, a.Progress, d.TotalDays)
		}
	}
	for _, a := range completed {
		if prev, dup := seen[a.ID]; dup {
			return fmt.Errorf("askeza %s appears twice (%s and completed)", a.ID, prev)
		}
		seen[a.ID] = "completed"
		if !a.IsCompleted {
			return fmt.Errorf("completed askeza %s is not marked completed", a.ID)
		}
	}
	return nil
}

func checkTemplateLinks(ctx *cli.Context) error {
	repo := storage.NewAskezaRepository(ctx.Store)
	active, err := repo.LoadActiveAskezas()
	if err != nil {
		return err
	}
	svc := templates.NewService(ctx.Store)
	for _, a := range active {
		if a.TemplateID == nil {
			continue
		}
		if _, err := svc.GetByID(*a.TemplateID); err != nil {
			return errWarning{msg: fmt.Sprintf("askeza %s references missing template %s", a.ID, *a.TemplateID)}
		}
	}
	return nil
}

func checkTemplateTitles(ctx *cli.Context) error {
	all, err := templates.NewService(ctx.Store).FetchAll()
	if err != nil {
		return err
	}
	var bad []string
	for _, t := range all {
		if !templates.CheckTitleDuration(t) {
			bad = append(bad, t.TemplateKey)
		}
	}
	if len(bad) > 0 {
		return errWarning{msg: fmt.Sprintf("titles disagree with durations: %v", bad)}
	}
	return nil
}
