package askezas

import (
	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/models"
)

type WishCmd struct {
	Set    WishSetCmd    `cmd:"" help:"Attach a wish to an askeza."`
	Clear  WishClearCmd  `cmd:"" help:"Remove the wish from an askeza."`
	Status WishStatusCmd `cmd:"" help:"Record whether the wish came true."`
}

type WishSetCmd struct {
	ID   string `arg:"" help:"Askeza id or unique id prefix."`
	Wish string `arg:"" help:"The wish."`
}

func (c *WishSetCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Askezas.UpdateWish(a.ID, &c.Wish); err != nil {
		return err
	}
	ctx.Printf("%s Wish set for %s\n", cli.SuccessStyle.Render("✓"), a.Title)
	return nil
}

type WishClearCmd struct {
	ID string `arg:"" help:"Askeza id or unique id prefix."`
}

func (c *WishClearCmd) Run(ctx *cli.Context) error {
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Askezas.UpdateWish(a.ID, nil); err != nil {
		return err
	}
	ctx.Printf("%s Wish cleared for %s\n", cli.SuccessStyle.Render("✓"), a.Title)
	return nil
}

type WishStatusCmd struct {
	ID     string `arg:"" help:"Askeza id or unique id prefix."`
	Status string `arg:"" help:"waiting, fulfilled or unfulfilled." enum:"waiting,fulfilled,unfulfilled"`
}

func (c *WishStatusCmd) Run(ctx *cli.Context) error {
	status, err := models.ParseWishStatus(c.Status)
	if err != nil {
		return err
	}
	a, err := ctx.ResolveAskeza(c.ID)
	if err != nil {
		return err
	}
	if !a.HasWish() {
		ctx.Printf("%s has no wish; nothing to update.\n", a.Title)
		return nil
	}
	if err := ctx.Askezas.UpdateWishStatus(a.ID, status); err != nil {
		return err
	}
	ctx.Printf("%s Wish for %s is now %s\n", cli.SuccessStyle.Render("✓"), a.Title, status)
	return nil
}
