package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/keyring"
	"github.com/julianstephens/askeza/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so credentials are acceptable here
		ctx.Println(cli.WarnStyle.Render("Warning: connection string contains embedded credentials."))
		ctx.Println("It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.StoreConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Printf("%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	ctx.Println("  askeza will use it when no --db or ASKEZA_DB is given")
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.ConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'askeza keyring set' to store one")
		}
		return err
	}
	ctx.Println(keyring.Mask(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.ForgetConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Printf("%s Connection string deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.Available() {
		ctx.Println(cli.ErrorStyle.Render("✗ OS keyring is not available on this system"))
		return keyring.ErrUnavailable
	}
	ctx.Printf("%s OS keyring is available\n", cli.SuccessStyle.Render("✓"))

	if _, err := keyring.ConnectionString(); err == nil {
		ctx.Printf("%s Connection string is stored in keyring\n", cli.SuccessStyle.Render("✓"))
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}
