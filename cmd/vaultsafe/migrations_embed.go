//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	dbfs "github.com/indrajit912/vaultsafe/db"
)

// migrationSource serves the migrations compiled into the binary.
func migrationSource(dialect string) (source.Driver, error) {
	fmt.Println("Using embedded migrations (production build)")

	migrationsFS, err := fs.Sub(dbfs.Migrations, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations for %s: %w", dialect, err)
	}

	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	return d, nil
}

func listMigrationFiles(dialect string) ([]string, error) {
	migrationsFS, err := fs.Sub(dbfs.Migrations, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations for %s: %w", dialect, err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
