package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // register pgx5:// driver
	_ "github.com/golang-migrate/migrate/v4/source/file"     // register file:// source
)

// RunMigrations applies every pending migration found in migrationsDir to the
// database at dsn and returns the resulting schema version. A plain directory
// path is accepted as well as a file:// URL.
func RunMigrations(dsn, migrationsDir string) (uint, error) {
	m, err := migrate.New(sourceURL(migrationsDir), databaseURL(dsn))
	if err != nil {
		return 0, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: run migrations up: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	return version, nil
}

func sourceURL(dir string) string {
	if strings.Contains(dir, "://") {
		return dir
	}
	return "file://" + dir
}

// databaseURL rewrites postgres:// URLs to the pgx5:// scheme the migrate
// driver registers under.
func databaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}
