package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/spf13/cobra"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema up
to date. Release builds (tag embed_migrations) carry the migrations in
the binary; development builds read them from db/migrations.

'vaultsafe init' runs the embedded migrations itself, so this command is
only needed for upgrades or for a database managed by hand.

Example:
  vaultsafe db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDBMigrate(); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  vaultsafe db down      # Rollback 1 migration
  vaultsafe db down 3    # Rollback 3 migrations`,
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			_, _ = fmt.Sscanf(args[0], "%d", &steps)
		}

		if err := runDBMigrateDown(steps); err != nil {
			fmt.Println("Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version and the latest available.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDBMigrateStatus(); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// newMigrator builds a migrator over the configured database. The source
// of the migrations is picked at build time: embedded with the
// embed_migrations tag, the db/migrations directory without it.
func newMigrator() (*migrate.Migrate, error) {
	gdb, err := db.Connect(db.Config{URL: config.Get().ResolvedDatabaseURL()})
	if err != nil {
		return nil, err
	}
	dialect := gdb.Dialector.Name()

	sourceDriver, err := migrationSource(dialect)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	var dbDriver database.Driver
	switch dialect {
	case "postgres":
		dbDriver, err = migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	default:
		dbDriver, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("source", sourceDriver, dialect, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func runDBMigrate() error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			fmt.Println("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", newVersion)

	fmt.Println("Migrations complete")
	return nil
}

func runDBMigrateDown(steps int) error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, _ := m.Version()
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func runDBMigrateStatus() error {
	dialect := db.Dialect(config.Get().ResolvedDatabaseURL())

	m, err := newMigrator()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	switch {
	case err == migrate.ErrNilVersion:
		fmt.Println("No migrations have been applied yet")
	case err != nil:
		return err
	default:
		fmt.Printf("Current version: %d\n", version)
		if dirty {
			fmt.Println("Warning: Database is in a dirty state")
		}
	}

	files, err := listMigrationFiles(dialect)
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(files)
	if len(files) > 0 {
		fmt.Printf("Latest available: %d (%d migration file(s))\n",
			migrationVersion(files[len(files)-1]), len(files))
	}
	return nil
}

// migrationVersion extracts the numeric version prefix from an .up.sql
// filename, e.g. "20240612091500_create_vault.up.sql".
func migrationVersion(filename string) int64 {
	parts := strings.SplitN(filename, "_", 2)
	var version int64
	_, _ = fmt.Sscanf(parts[0], "%d", &version)
	return version
}
