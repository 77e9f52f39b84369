package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/indrajit912/vaultsafe/pkg/config"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL or SQLite file path. When empty
	// it falls back to VAULTSAFE_DATABASE_URL, then DATABASE_URL, then the
	// SQLite file in the vault directory.
	URL string
}

// Connect establishes a database connection. The dialect is picked from the
// URL: postgres:// and postgresql:// URLs go to PostgreSQL, anything else is
// treated as a SQLite file path.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = URL()
	}
	if dbURL == "" {
		dbURL = config.DatabasePath()
	}

	// Default to silent logging unless VAULTSAFE_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("VAULTSAFE_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		// Map dialect-specific constraint failures onto gorm's error
		// sentinels, in particular gorm.ErrDuplicatedKey for the mnemonic
		// registry's unique index.
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch Dialect(dbURL) {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	default:
		path := sqlitePath(dbURL)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		dialector = sqlite.Open(sqliteDSN(path))
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// URL returns the database URL from the environment. Returns empty string
// if neither VAULTSAFE_DATABASE_URL nor DATABASE_URL is set.
func URL() string {
	if url := os.Getenv("VAULTSAFE_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// Dialect reports the SQL dialect for a database URL: "postgres" or
// "sqlite".
func Dialect(dbURL string) string {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// sqlitePath strips an optional sqlite:// scheme, leaving the file path.
func sqlitePath(dbURL string) string {
	path := strings.TrimPrefix(dbURL, "sqlite://")
	return strings.TrimPrefix(path, "file:")
}

// sqliteDSN appends the pragmas every connection needs: foreign keys for
// the mnemonic cascade, and a busy timeout so concurrent CLI and server
// processes queue instead of failing.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
