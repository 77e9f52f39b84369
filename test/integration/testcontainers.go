package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/zalando/go-keyring"
	"gorm.io/gorm"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

// TestContext holds the resources shared by every scenario: one vault home
// directory, one database, one vault service and one running web server.
type TestContext struct {
	Dir         string
	DB          *gorm.DB
	Service     *vault.Service
	Web         *ServerInstance
	DatabaseURL string
	HTTPClient  *http.Client

	container *tcpostgres.PostgresContainer
}

// NewTestContext prepares an isolated vault home and database.
//
// The database is a throwaway SQLite file by default, so the suite runs
// anywhere. Set VAULTSAFE_TEST_PG=1 to run the same scenarios against a
// PostgreSQL testcontainer instead (requires Docker).
func NewTestContext(ctx context.Context) (*TestContext, error) {
	// The session steps hit the OS keyring; swap in the in-memory provider.
	keyring.MockInit()

	dir, err := os.MkdirTemp("", "vaultsafe-integration-*")
	if err != nil {
		return nil, err
	}
	tc := &TestContext{Dir: dir}

	// Point every path the suite touches (database, session file, audit log)
	// into the temp dir before the config singleton is read.
	_ = os.Setenv("VAULTSAFE_DIR", dir)

	if os.Getenv("VAULTSAFE_TEST_PG") == "1" {
		if err := tc.startPostgres(ctx); err != nil {
			tc.Close(ctx)
			return nil, err
		}
		_ = os.Setenv("VAULTSAFE_DATABASE_URL", tc.DatabaseURL)
	}

	if err := config.Reload(); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	tc.DatabaseURL = config.Get().ResolvedDatabaseURL()

	gdb, err := db.Connect(db.Config{URL: tc.DatabaseURL})
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tc.DB = gdb

	if err := db.RunMigrations(gdb); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tc.Service = vault.NewService(gormstore.NewStore(gdb))

	tc.Web, err = StartServer(tc.Service)
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start web server: %w", err)
	}

	// The client keeps the session cookie between steps, the way a browser
	// would.
	jar, err := cookiejar.New(nil)
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.HTTPClient = &http.Client{Timeout: 10 * time.Second, Jar: jar}

	return tc, nil
}

// startPostgres brings up the PostgreSQL container and records its
// connection string.
func (tc *TestContext) startPostgres(ctx context.Context) error {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("vaultsafe_test"),
		tcpostgres.WithUsername("vaultsafe"),
		tcpostgres.WithPassword("vaultsafe"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return fmt.Errorf("failed to get container port: %w", err)
	}
	tc.DatabaseURL = fmt.Sprintf("postgres://vaultsafe:vaultsafe@%s:%s/vaultsafe_test?sslmode=disable", host, port.Port())
	return nil
}

// ResetClient drops all cookies so the next scenario starts logged out.
func (tc *TestContext) ResetClient() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}
	tc.HTTPClient.Jar = jar
}

// Close cleans up all test resources.
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Web != nil {
		tc.Web.Stop()
	}
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if tc.container != nil {
		_ = tc.container.Terminate(ctx)
	}
	if tc.Dir != "" {
		_ = os.RemoveAll(tc.Dir)
	}
}
