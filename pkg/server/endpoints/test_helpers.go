package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indrajit912/vaultsafe/pkg/audit"
	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/server"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
	"github.com/indrajit912/vaultsafe/pkg/vault"
)

const testMasterPassword = "Secret123"

// newTestServer builds a server over a temp SQLite vault with every
// endpoint registered.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	audit.SetEnabled(false)

	gdb, err := db.Connect(db.Config{URL: filepath.Join(t.TempDir(), "vault.db")})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := vault.NewService(gormstore.NewStore(gdb))
	cfg := &config.VaultSafeConfig{Host: "127.0.0.1", Port: 8000, ServerSessionTTL: 900}
	srv := server.NewServer(svc, cfg)
	RegisterAll(srv)
	return srv
}

// initTestVault initializes the vault behind the server.
func initTestVault(t *testing.T, srv *server.Server) {
	t.Helper()

	_, err := srv.Service.Initialize(context.Background(), vault.InitRequest{
		MasterPassword: testMasterPassword,
		Name:           "test",
	})
	require.NoError(t, err)
}

// login posts the master password and returns the session cookie.
func login(t *testing.T, srv *server.Server) *http.Cookie {
	t.Helper()

	rec := postForm(srv, "/login", url.Values{"master_passwd": {testMasterPassword}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == server.SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

// addCredential creates a credential directly through the service.
func addCredential(t *testing.T, srv *server.Server, name string, mnemonics []string, fields map[model.Field]string) *vault.Credential {
	t.Helper()

	ctx := context.Background()
	key, _, err := srv.Service.Unlock(ctx, testMasterPassword)
	require.NoError(t, err)
	defer strongbox.Wipe(key)

	cred, err := srv.Service.Create(ctx, key, vault.CreateRequest{
		Name:      name,
		Mnemonics: mnemonics,
		Fields:    fields,
	})
	require.NoError(t, err)
	return cred
}

// get performs a GET through the router, with the session cookie if given.
func get(srv *server.Server, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form POST through the router.
func postForm(srv *server.Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}
