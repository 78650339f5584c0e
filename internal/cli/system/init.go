package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/storage/sqlite"
	"github.com/julianstephens/askeza/internal/templates"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); ok && isFile(ctx.Store.GetConfigPath()) {
			dbPath := ctx.Store.GetConfigPath()
			// Close first to release the file handle
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized askeza storage at: %s\n", ctx.Store.GetConfigPath())

	report, err := templates.NewService(ctx.Store).SeedDefault()
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	ctx.Printf("Seeded %d templates and %d courses (%d already present)\n",
		report.Added, report.CoursesAdded, report.Skipped+report.CoursesSkipped)
	return nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
