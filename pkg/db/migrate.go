package db

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	dbfs "github.com/indrajit912/vaultsafe/db"
)

// RunMigrations applies all pending embedded migrations for the
// connection's dialect. It is safe to call on every startup;
// already-applied migrations are skipped.
func RunMigrations(gdb *gorm.DB) error {
	dialect := gdb.Dialector.Name()

	migrationsFS, err := fs.Sub(dbfs.Migrations, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("failed to get embedded migrations for %s: %w", dialect, err)
	}

	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	var dbDriver database.Driver
	switch dialect {
	case "postgres":
		dbDriver, err = migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	default:
		dbDriver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dialect, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
