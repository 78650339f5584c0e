package askezas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/askeza/internal/cli"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/models"
)

type CreateCmd struct {
	Title     string `arg:"" help:"Title of the askeza."`
	Days      int    `help:"Duration in days." xor:"duration"`
	Lifetime  bool   `help:"Run with no end day." xor:"duration"`
	Category  string `help:"Category." enum:"body,mind,spirit,emotions,abstinence,habits,custom" default:"custom"`
	Intention string `help:"Why you are doing this."`
	Wish      string `help:"A wish tied to completing the askeza."`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title must not be empty: %w", apperrors.ErrInvalidArgument)
	}
	var duration models.Duration
	switch {
	case c.Lifetime:
		duration = models.Lifetime{}
	case c.Days > 0:
		duration = models.Fixed{TotalDays: c.Days}
	default:
		return fmt.Errorf("either --days N (N > 0) or --lifetime is required: %w", apperrors.ErrInvalidArgument)
	}

	a, err := ctx.Askezas.Create(c.Title, c.Intention, duration, models.ParseCategory(c.Category))
	if err != nil {
		return err
	}
	if c.Wish != "" {
		if err := ctx.Askezas.UpdateWish(a.ID, &c.Wish); err != nil {
			return err
		}
	}

	ctx.Printf("%s Created askeza %s (%s)\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(a.Title), cli.ShortID(a.ID))
	return nil
}

type ListCmd struct {
	Completed bool `help:"List completed askezas instead of active ones."`
	All       bool `help:"List both active and completed askezas."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	now := ctx.Clock.Now()
	printed := 0
	if !c.Completed || c.All {
		active := ctx.Askezas.Active()
		if c.All {
			ctx.Println(cli.HeaderStyle.Render("Active"))
		}
		for _, a := range active {
			ctx.Println(cli.AskezaLine(a, now))
		}
		printed += len(active)
	}
	if c.Completed || c.All {
		completed := ctx.Askezas.Completed()
		if c.All {
			ctx.Println(cli.HeaderStyle.Render("Completed"))
		}
		for _, a := range completed {
			ctx.Println(cli.AskezaLine(a, now))
		}
		printed += len(completed)
	}
	if printed == 0 {
		ctx.Println("No askezas found.")
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Askeza id or unique id prefix."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	ctx.Printf("%s", cli.AskezaDetails(a, ctx.Clock.Now(), ctx.Location))
	return nil
}

type ExtendCmd struct {
	ID   string `arg:"" help:"Askeza id or unique id prefix."`
	Days int    `arg:"" help:"Days to add."`
}

func (c *ExtendCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Askezas.Extend(a.ID, c.Days); err != nil {
		return err
	}
	a, _ = ctx.Askezas.Find(a.ID)
	ctx.Printf("%s Extended %s to %s\n", cli.SuccessStyle.Render("✓"), a.Title, models.FormatDuration(a.Duration))
	return nil
}

type ProgressCmd struct {
	ID   string `arg:"" help:"Askeza id or unique id prefix."`
	Days int    `arg:"" help:"Days completed so far."`
}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Askezas.UpdateProgress(a.ID, c.Days); err != nil {
		return err
	}
	a, _ = ctx.Askezas.Find(a.ID)
	if a.IsCompleted {
		ctx.Printf("%s %s completed!\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(a.Title))
		return nil
	}
	ctx.Printf("%s %s\n", a.Title, cli.ProgressText(a, ctx.Clock.Now()))
	return nil
}

type CompleteCmd struct {
	ID string `arg:"" help:"Askeza id or unique id prefix."`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if a.IsCompleted {
		ctx.Printf("%s is already completed.\n", a.Title)
		return nil
	}
	if err := ctx.Askezas.Complete(a.ID); err != nil {
		return err
	}
	ctx.Printf("%s %s completed!\n", cli.SuccessStyle.Render("✓"), cli.TitleStyle.Render(a.Title))
	return nil
}

type ResetCmd struct {
	ID string `arg:"" help:"Askeza id or unique id prefix."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Askezas.Reset(a.ID); err != nil {
		return err
	}
	ctx.Printf("%s %s restarted from today\n", cli.SuccessStyle.Render("✓"), a.Title)
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Askeza id or unique id prefix."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if errors.Is(err, apperrors.ErrNotFound) {
		ctx.Printf("No askeza matches %q, nothing deleted.\n", c.ID)
		return nil
	}
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Askezas.Delete(a.ID); err != nil {
		return err
	}
	ctx.Printf("%s Deleted %s\n", cli.SuccessStyle.Render("✓"), a.Title)
	return nil
}
