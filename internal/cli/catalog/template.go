package catalog

import (
	"fmt"
	"os"

	"github.com/julianstephens/askeza/internal/cli"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
	"github.com/julianstephens/askeza/internal/templates"
	"github.com/julianstephens/askeza/internal/tracker"
	"github.com/julianstephens/askeza/internal/utils"
)

type TemplateListCmd struct {
	Category   string `help:"Only templates in this category (body, mind, spirit, emotions, abstinence, habits, custom)."`
	Difficulty int    `help:"Only templates of this difficulty (1-5)."`
	Days       int    `help:"Only templates of this duration; 0 selects lifetime templates." default:"-1"`
	Search     string `help:"Case-insensitive text search over title, description and intention."`
}

func (c *TemplateListCmd) filter() (templates.Filter, error) {
	f := templates.Filter{SearchText: c.Search}
	if c.Category != "" {
		if !models.IsValidCategory(c.Category) {
			return f, fmt.Errorf("unknown category %q: %w", c.Category, apperrors.ErrInvalidArgument)
		}
		cat := models.Category(c.Category)
		f.Category = &cat
	}
	if c.Difficulty > 0 {
		d := c.Difficulty
		f.Difficulty = &d
	}
	if c.Days >= 0 {
		d := c.Days
		f.DurationDays = &d
	}
	return f, nil
}

func (c *TemplateListCmd) Run(ctx *cli.Context) error {
	f, err := c.filter()
	if err != nil {
		return err
	}
	matched, err := ctx.Templates.Filtered(f)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if len(matched) == 0 {
		ctx.Println("No templates match.")
		return nil
	}

	views, err := ctx.Tracker.Overview()
	if err != nil {
		return err
	}
	status := make(map[string]models.TemplateStatus, len(views))
	for _, v := range views {
		status[v.Template.ID] = v.Status
	}

	for _, t := range matched {
		ctx.Printf("%-22s %-11s %s  %s  %s\n",
			t.TemplateKey,
			t.Category,
			difficultyStars(t.Difficulty),
			cli.TitleStyle.Render(t.Title),
			cli.StatusBadge(status[t.ID]))
	}
	return nil
}

type TemplateShowCmd struct {
	Ref string `arg:"" help:"Template id or key."`
}

func (c *TemplateShowCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Templates.Resolve(c.Ref)
	if err != nil {
		return err
	}
	status, p, err := ctx.Tracker.Status(t)
	if err != nil {
		return err
	}

	ctx.Println(cli.TitleStyle.Render(t.Title))
	ctx.Printf("  Key:        %s\n", t.TemplateKey)
	ctx.Printf("  Category:   %s\n", t.Category)
	ctx.Printf("  Duration:   %s\n", models.FormatDuration(t.Duration()))
	ctx.Printf("  Difficulty: %s\n", difficultyStars(t.Difficulty))
	if t.Description != "" {
		ctx.Printf("  About:      %s\n", t.Description)
	}
	if t.Intention != "" {
		ctx.Printf("  Intention:  %s\n", t.Intention)
	}
	if t.Quote != "" {
		ctx.Printf("  %s\n", cli.MutedStyle.Render("“"+t.Quote+"”"))
	}
	ctx.Printf("  Status:     %s\n", cli.StatusBadge(status))
	if p != nil {
		ctx.Printf("  Days:       %d (streak %d, best %d)\n", p.DaysCompleted, p.CurrentStreak, p.BestStreak)
		ctx.Printf("  Completed:  %d times\n", p.TimesCompleted)
		if p.DateStarted != nil {
			ctx.Printf("  Started:    %s\n", utils.FormatDate(*p.DateStarted, ctx.Location))
		}
	}
	return nil
}

type TemplateStartCmd struct {
	Ref string `arg:"" help:"Template id or key."`
}

func (c *TemplateStartCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Tracker.StartTemplate(c.Ref)
	if err != nil {
		return err
	}
	ctx.Printf("%s Started %s (%s)\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(a.Title), cli.ShortID(a.ID))
	return nil
}

// TemplateCompleteCmd finishes the current run of a template. When an askeza
// is linked to it, completing that askeza records the template completion.
type TemplateCompleteCmd struct {
	Ref string `arg:"" help:"Template id or key."`
}

func (c *TemplateCompleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Templates.Resolve(c.Ref)
	if err != nil {
		return err
	}

	for _, a := range ctx.Askezas.Active() {
		if a.TemplateID == nil || *a.TemplateID != t.ID {
			continue
		}
		before, err := ctx.Profile.Get()
		if err != nil {
			return err
		}
		if err := ctx.Askezas.Complete(a.ID); err != nil {
			return err
		}
		after, err := ctx.Profile.Get()
		if err != nil {
			return err
		}
		ctx.Printf("%s %s completed, +%d XP\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(t.Title), after.XP-before.XP)
		return nil
	}

	open, p, err := ctx.Tracker.RunOpen(t)
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("template %q has no run in progress; start it first: %w", t.TemplateKey, apperrors.ErrInvalidArgument)
	}
	days := t.DurationDays
	if days == 0 {
		days = p.DaysCompleted
	}
	award, err := ctx.Tracker.UpdateProgress(t.ID, days, true)
	if err != nil {
		return err
	}
	printAward(ctx, t, award)
	return nil
}

func printAward(ctx *cli.Context, t models.PracticeTemplate, award tracker.Award) {
	if award.Skipped {
		ctx.Printf("A completion of %s is already being recorded.\n", t.Title)
		return
	}
	ctx.Printf("%s %s %s, +%d XP\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(t.Title), award.Status, award.XP)
	if award.Achievement != "" {
		ctx.Printf("%s Achievement unlocked: %s (+%d XP)\n", cli.TitleStyle.Render("★"), award.Achievement, award.BonusXP)
	}
	if award.NextTemplateKey != "" {
		ctx.Printf("Next in course: %s\n", award.NextTemplateKey)
	}
}

type TemplateSeedCmd struct {
	File string `help:"YAML catalog to seed from instead of the built-in one." type:"existingfile"`
}

func (c *TemplateSeedCmd) Run(ctx *cli.Context) error {
	var (
		report templates.SeedReport
		err    error
	)
	if c.File == "" {
		report, err = ctx.Templates.SeedDefault()
	} else {
		var data []byte
		data, err = os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}
		var catalog templates.Catalog
		catalog, err = templates.ParseCatalog(data)
		if err != nil {
			return err
		}
		report, err = ctx.Templates.Seed(catalog)
	}
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	ctx.Printf("Templates: %d added, %d already present\n", report.Added, report.Skipped)
	ctx.Printf("Courses:   %d added, %d already present\n", report.CoursesAdded, report.CoursesSkipped)
	return nil
}

func difficultyStars(d int) string {
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	stars := ""
	for i := 0; i < 5; i++ {
		if i < d {
			stars += "●"
		} else {
			stars += "○"
		}
	}
	return stars
}
