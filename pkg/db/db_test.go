package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	assert.Equal(t, "postgres", Dialect("postgres://localhost:5432/vaultsafe"))
	assert.Equal(t, "postgres", Dialect("postgresql://localhost:5432/vaultsafe"))
	assert.Equal(t, "sqlite", Dialect("/home/user/.vaultsafe/vaultsafe.db"))
	assert.Equal(t, "sqlite", Dialect("sqlite:///home/user/.vaultsafe/vaultsafe.db"))
	assert.Equal(t, "sqlite", Dialect("vaultsafe.db"))
}

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "/tmp/v.db", sqlitePath("sqlite:///tmp/v.db"))
	assert.Equal(t, "/tmp/v.db", sqlitePath("/tmp/v.db"))
	assert.Equal(t, "/tmp/v.db", sqlitePath("file:/tmp/v.db"))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "/tmp/v.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("/tmp/v.db"))

	// Explicit options suppress the defaults.
	custom := "/tmp/v.db?_pragma=journal_mode(WAL)"
	assert.Equal(t, custom, sqliteDSN(custom))
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vault.db")

	gdb, err := Connect(Config{URL: path})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	require.NoError(t, RunMigrations(gdb))

	// Running again is a no-op.
	require.NoError(t, RunMigrations(gdb))

	for _, table := range []string{"vault", "credential", "mnemonic"} {
		var count int64
		require.NoError(t, gdb.Table(table).Count(&count).Error, "table %s", table)
		assert.Zero(t, count)
	}
}
