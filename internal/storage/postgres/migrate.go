package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationResult reports the schema state after Migrate.
type MigrationResult struct {
	Version uint
	Dirty   bool
	Changed bool
}

// Migrate applies the SQL migrations in dir to the database at dsn.
// steps > 0 applies that many up migrations, steps < 0 rolls that many back
// and steps == 0 migrates all the way up.
//
// Postcondition: an already-current schema is not an error; Changed is false.
func Migrate(dsn, dir string, steps int) (MigrationResult, error) {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	changed := true
	if errors.Is(err, migrate.ErrNoChange) {
		err, changed = nil, false
	}
	if err != nil {
		return MigrationResult{}, fmt.Errorf("migrating: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("reading schema version: %w", err)
	}
	return MigrationResult{Version: version, Dirty: dirty, Changed: changed}, nil
}

// Rollback reverts every migration in dir.
func Rollback(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back: %w", err)
	}
	return nil
}
