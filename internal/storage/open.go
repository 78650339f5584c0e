package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/askeza/internal/storage/postgres"
	"github.com/julianstephens/askeza/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// Migrator is implemented by providers that can apply migrations after Load.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersions() (current, latest int, err error)
}

var (
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)

// Open picks a backend from the shape of dsn: PostgreSQL URIs go to postgres,
// anything else is treated as a SQLite file path. Neither store is opened.
func Open(dsn string) (Provider, error) {
	if !postgres.IsURL(dsn) {
		return sqlite.NewStore(dsn), nil
	}
	if _, err := postgres.ValidateConnString(dsn); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w: use the OS keyring ('askeza keyring set'), PGPASSWORD or .pgpass instead", err)
		}
		return nil, err
	}
	return postgres.New(dsn), nil
}

// OpenTrusted is Open for connection strings read from the OS keyring, where
// embedded credentials are allowed.
func OpenTrusted(dsn string) (Provider, error) {
	if !postgres.IsURL(dsn) {
		return sqlite.NewStore(dsn), nil
	}
	if _, err := postgres.ValidateConnString(dsn); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return nil, err
	}
	return postgres.New(dsn), nil
}
