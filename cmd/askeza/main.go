package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/cli/askezas"
	"github.com/julianstephens/askeza/internal/cli/backups"
	"github.com/julianstephens/askeza/internal/cli/catalog"
	"github.com/julianstephens/askeza/internal/cli/profiles"
	"github.com/julianstephens/askeza/internal/cli/system"
	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/config"
	"github.com/julianstephens/askeza/internal/constants"
	apperrors "github.com/julianstephens/askeza/internal/errors"
	"github.com/julianstephens/askeza/internal/keyring"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	ConfigFile string `name:"config" help:"YAML config file." type:"path" default:"${config_file}"`
	DB         string `help:"SQLite file path or PostgreSQL connection string. Overrides the config file. For PostgreSQL, credentials must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass instead." env:"ASKEZA_DB"`
	Debug      bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize askeza storage and seed the template catalog."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Watch   system.WatchCmd   `cmd:"" help:"Keep askezas in step with the calendar until interrupted."`
	Tick    system.TickCmd    `cmd:"" help:"Reconcile progress once."`

	Create   askezas.CreateCmd   `cmd:"" help:"Start a new askeza."`
	List     askezas.ListCmd     `cmd:"" help:"List askezas." default:"1"`
	Show     askezas.ShowCmd     `cmd:"" help:"Show one askeza."`
	Extend   askezas.ExtendCmd   `cmd:"" help:"Add days to an askeza."`
	Progress askezas.ProgressCmd `cmd:"" help:"Set the days completed."`
	Complete askezas.CompleteCmd `cmd:"" help:"Mark an askeza completed."`
	Reset    askezas.ResetCmd    `cmd:"" help:"Restart an askeza from today."`
	Delete   askezas.DeleteCmd   `cmd:"" help:"Delete an askeza."`
	Wish     askezas.WishCmd     `cmd:"" help:"Manage the wish of an askeza."`

	Template struct {
		List     catalog.TemplateListCmd     `cmd:"" help:"List practice templates." default:"1"`
		Show     catalog.TemplateShowCmd     `cmd:"" help:"Show a template and its progress."`
		Start    catalog.TemplateStartCmd    `cmd:"" help:"Start an askeza from a template."`
		Complete catalog.TemplateCompleteCmd `cmd:"" help:"Complete the current run of a template."`
		Seed     catalog.TemplateSeedCmd     `cmd:"" help:"Add missing templates from a catalog."`
	} `cmd:"" help:"Browse and start practice templates."`
	Course struct {
		List catalog.CourseListCmd `cmd:"" help:"List courses." default:"1"`
		Show catalog.CourseShowCmd `cmd:"" help:"Show the steps of a course."`
	} `cmd:"" help:"Follow template courses."`
	Recommend catalog.RecommendCmd `cmd:"" help:"Suggest templates to try next."`

	Profile struct {
		Show profiles.ProfileShowCmd `cmd:"" help:"Show level, XP and achievements." default:"1"`
		Set  profiles.ProfileSetCmd  `cmd:"" help:"Update nickname or avatar."`
	} `cmd:"" help:"Manage your profile."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// Commands that manage storage themselves and must run before it is loaded.
var unloaded = map[string]bool{"init": true, "doctor": true, "keyring": true}

// Commands that need the store but not the askeza services.
var storeOnly = map[string]bool{"migrate": true, "backup": true}

// Commands that drive reconciliation themselves.
var selfTriggered = map[string]bool{"watch": true, "tick": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Askeza: track personal discipline practices day by day"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.DataDir(constants.DefaultConfigDir)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := strings.Fields(ctx.Command())[0]
	store, err := openStore(cfg, command)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	loc, err := cfg.Location()
	if err != nil {
		apperrors.Fatal(err)
	}
	appCtx := cli.NewContext(store, cfg, clock.System(), loc)

	if !unloaded[command] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		if !storeOnly[command] {
			if err := appCtx.Wire(); err != nil {
				apperrors.Fatal(err)
			}
			if !selfTriggered[command] {
				if err := appCtx.Activate(); err != nil {
					logger.Warn("Reconciliation on start failed", "error", err)
				}
			}
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// openStore resolves the storage DSN: an explicit --db or ASKEZA_DB wins,
// then a connection string from the OS keyring, then the config file value.
func openStore(cfg *config.Config, command string) (storage.Provider, error) {
	if CLI.DB != "" {
		return storage.Open(config.ExpandPath(CLI.DB))
	}
	if command != "keyring" {
		connStr, err := keyring.ConnectionString()
		switch {
		case err == nil:
			logger.Debug("Using connection string from OS keyring")
			return storage.OpenTrusted(connStr)
		case !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("OS keyring unavailable", "error", err)
		}
	}
	return storage.Open(config.ExpandPath(cfg.DB))
}
