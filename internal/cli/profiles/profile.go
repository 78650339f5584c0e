package profiles

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/constants"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Profile.Get()
	if err != nil {
		return err
	}

	name := p.Nickname
	if name == "" {
		name = "(no nickname)"
	}
	ctx.Println(cli.TitleStyle.Render(name))
	ctx.Printf("  Level %d  %s XP\n", p.Level(), humanize.Comma(int64(p.XP)))
	into := p.XP % constants.XPPerLevel
	ctx.Printf("  %s %d/%d to level %d\n", cli.ProgressBar(into, constants.XPPerLevel), into, constants.XPPerLevel, p.Level()+1)
	if p.AvatarURL != "" {
		ctx.Printf("  Avatar: %s\n", p.AvatarURL)
	}

	ctx.Printf("  Active askezas: %d, completed: %d\n", len(ctx.Askezas.Active()), len(ctx.Askezas.Completed()))
	if len(p.Achievements) > 0 {
		ctx.Printf("  Achievements: %s\n", strings.Join(p.Achievements, ", "))
	}
	return nil
}

type ProfileSetCmd struct {
	Nickname string `help:"Display name."`
	Avatar   string `help:"Avatar URL."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Profile.Get()
	if err != nil {
		return err
	}
	nickname, avatar := current.Nickname, current.AvatarURL
	if c.Nickname != "" {
		nickname = c.Nickname
	}
	if c.Avatar != "" {
		avatar = c.Avatar
	}
	if _, err := ctx.Profile.UpdateIdentity(nickname, avatar); err != nil {
		return err
	}
	ctx.Printf("%s Profile updated\n", cli.SuccessStyle.Render("✓"))
	return nil
}
