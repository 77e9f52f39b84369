//go:build !embed_migrations

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

// migrationSource serves the migrations from the source tree, for
// development builds.
func migrationSource(dialect string) (source.Driver, error) {
	path := filepath.Join(defaultMigrationsPath, dialect)
	fmt.Printf("Running migrations from file://%s\n", path)
	return (&file.File{}).Open("file://" + path)
}

func listMigrationFiles(dialect string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(defaultMigrationsPath, dialect))
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
