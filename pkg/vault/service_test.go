package vault

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
	gormstore "github.com/indrajit912/vaultsafe/pkg/store/gorm"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	gdb, err := db.Connect(db.Config{URL: filepath.Join(t.TempDir(), "vault.db")})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewService(gormstore.NewStore(gdb))
}

// initVault initializes a vault and returns its unlocked key.
func initVault(t *testing.T, svc *Service, password string) []byte {
	t.Helper()

	ctx := context.Background()
	_, err := svc.Initialize(ctx, InitRequest{MasterPassword: password, Name: "test"})
	require.NoError(t, err)

	key, _, err := svc.Unlock(ctx, password)
	require.NoError(t, err)
	t.Cleanup(func() { strongbox.Wipe(key) })
	return key
}

func TestInitializeAndUnlock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	vault, err := svc.Initialize(ctx, InitRequest{
		MasterPassword: "Secret123",
		Name:           "personal",
		OwnerName:      "Ada",
		OwnerEmail:     "ada@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, vault.UUID)
	assert.Len(t, vault.KDFSalt, strongbox.SaltSize)
	assert.Equal(t, strongbox.DefaultIterations, vault.KDFIterations)
	assert.NotEmpty(t, vault.KeyCheck)
	assert.True(t, vault.SessionCheck)
	assert.Equal(t, 3600, vault.SessionTTL)

	key, unlocked, err := svc.Unlock(ctx, "Secret123")
	require.NoError(t, err)
	defer strongbox.Wipe(key)
	assert.Len(t, key, strongbox.KeySize)
	assert.Equal(t, vault.UUID, unlocked.UUID)

	_, _, err = svc.Unlock(ctx, "WrongPass")
	assert.ErrorIs(t, err, strongbox.ErrAuthentication)
}

func TestUnlockBeforeInitialize(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Unlock(context.Background(), "Secret123")
	assert.ErrorIs(t, err, store.ErrVaultNotFound)

	ok, err := svc.Initialized(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInitializeRejectsEmptyPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Initialize(context.Background(), InitRequest{MasterPassword: ""})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReinitializePurgesEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := initVault(t, svc, "Secret123")

	_, err := svc.Create(ctx, key, CreateRequest{
		Name:      "Gmail",
		Mnemonics: []string{"g1"},
		Fields:    map[model.Field]string{model.FieldPassword: "hunter2"},
	})
	require.NoError(t, err)

	_, err = svc.Initialize(ctx, InitRequest{MasterPassword: "NewSecret"})
	require.NoError(t, err)

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.Credentials)
	assert.Zero(t, info.Mnemonics)

	// The freed alias is reusable in the new vault.
	newKey, _, err := svc.Unlock(ctx, "NewSecret")
	require.NoError(t, err)
	defer strongbox.Wipe(newKey)
	_, err = svc.Create(ctx, newKey, CreateRequest{Name: "Gmail", Mnemonics: []string{"g1"}})
	assert.NoError(t, err)
}

func TestInfoCounts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := initVault(t, svc, "Secret123")

	_, err := svc.Create(ctx, key, CreateRequest{Name: "Gmail", Mnemonics: []string{"g1", "g2"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, key, CreateRequest{Name: "Bank", Mnemonics: []string{"b1"}})
	require.NoError(t, err)

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Credentials)
	assert.Equal(t, int64(3), info.Mnemonics)
	assert.Equal(t, "test", info.Vault.Name)
}

func TestUpdateVault(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	initVault(t, svc, "Secret123")

	name := "work"
	owner := "Grace"
	sessionCheck := false
	ttl := 120

	vault, err := svc.UpdateVault(ctx, UpdateVaultRequest{
		Name:         &name,
		OwnerName:    &owner,
		SessionCheck: &sessionCheck,
		SessionTTL:   &ttl,
	})
	require.NoError(t, err)
	assert.Equal(t, "work", vault.Name)
	assert.Equal(t, "Grace", vault.OwnerName)
	assert.False(t, vault.SessionCheck)
	assert.Equal(t, 120, vault.SessionTTL)

	// Untouched attributes keep their values.
	fetched, err := svc.Vault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "work", fetched.Name)

	bad := -1
	_, err = svc.UpdateVault(ctx, UpdateVaultRequest{SessionTTL: &bad})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChangeMasterPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := initVault(t, svc, "Secret123")

	for _, c := range []struct{ name, alias, password string }{
		{"Gmail", "g1", "hunter2"},
		{"Bank", "b1", "letmein"},
	} {
		_, err := svc.Create(ctx, key, CreateRequest{
			Name:      c.name,
			Mnemonics: []string{c.alias},
			Fields:    map[model.Field]string{model.FieldPassword: c.password},
		})
		require.NoError(t, err)
	}

	// Snapshot stored rows: rotation must swap envelopes but leave field
	// ciphertexts alone.
	before, err := svc.store.FetchCredentialByMnemonic("g1")
	require.NoError(t, err)

	resealed, err := svc.ChangeMasterPassword(ctx, "Secret123", "NewSecret456")
	require.NoError(t, err)
	assert.Equal(t, 2, resealed)

	after, err := svc.store.FetchCredentialByMnemonic("g1")
	require.NoError(t, err)
	assert.Equal(t, before.Ciphertext(model.FieldPassword), after.Ciphertext(model.FieldPassword),
		"field ciphertexts must not change on rotation")
	assert.NotEqual(t, before.EncryptedKey, after.EncryptedKey,
		"the sealed data key must be re-sealed")

	_, _, err = svc.Unlock(ctx, "Secret123")
	assert.ErrorIs(t, err, strongbox.ErrAuthentication, "old password must stop working")

	newKey, _, err := svc.Unlock(ctx, "NewSecret456")
	require.NoError(t, err)
	defer strongbox.Wipe(newKey)

	for alias, want := range map[string]string{"g1": "hunter2", "b1": "letmein"} {
		cred, err := svc.Get(ctx, newKey, alias, nil)
		require.NoError(t, err)
		assert.Equal(t, want, cred.Fields[model.FieldPassword])
	}
}

func TestChangeMasterPasswordWrongCurrent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := initVault(t, svc, "Secret123")

	_, err := svc.Create(ctx, key, CreateRequest{Name: "Gmail", Mnemonics: []string{"g1"}})
	require.NoError(t, err)

	_, err = svc.ChangeMasterPassword(ctx, "WrongPass", "NewSecret456")
	assert.ErrorIs(t, err, strongbox.ErrAuthentication)

	// Nothing changed: the original password still unlocks.
	stillKey, _, err := svc.Unlock(ctx, "Secret123")
	require.NoError(t, err)
	strongbox.Wipe(stillKey)

	_, err = svc.ChangeMasterPassword(ctx, "Secret123", "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSaltRotatesWithPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	initVault(t, svc, "Secret123")

	before, err := svc.Vault(ctx)
	require.NoError(t, err)
	saltBefore := append([]byte(nil), before.KDFSalt...)

	_, err = svc.ChangeMasterPassword(ctx, "Secret123", "NewSecret456")
	require.NoError(t, err)

	after, err := svc.Vault(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, saltBefore, after.KDFSalt)
	assert.NotEqual(t, before.KeyCheck, after.KeyCheck)
}
