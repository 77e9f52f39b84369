package gorm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrajit912/vaultsafe/pkg/db"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	gdb, err := db.Connect(db.Config{URL: filepath.Join(t.TempDir(), "vault.db")})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewStore(gdb)
}

func testCredential(name string) *model.Credential {
	return &model.Credential{
		Name:         name,
		EncryptedKey: []byte("sealed-data-key"),
	}
}

func TestVaultLifecycle(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchVault()
	assert.ErrorIs(t, err, store.ErrVaultNotFound)

	vault := &model.Vault{
		Name:          "personal",
		OwnerName:     "Ada",
		KDFSalt:       []byte("0123456789abcdef0123456789abcdef"),
		KDFIterations: 210000,
		KeyCheck:      "deadbeef",
		SessionTTL:    3600,
	}
	require.NoError(t, s.CreateVault(vault))
	assert.NotEmpty(t, vault.UUID, "BeforeCreate should assign a UUID")

	fetched, err := s.FetchVault()
	require.NoError(t, err)
	assert.Equal(t, "personal", fetched.Name)
	assert.Equal(t, 210000, fetched.KDFIterations)

	fetched.Name = "work"
	require.NoError(t, s.SaveVault(fetched))

	fetched, err = s.FetchVault()
	require.NoError(t, err)
	assert.Equal(t, "work", fetched.Name)

	require.NoError(t, s.PurgeVault())
	_, err = s.FetchVault()
	assert.ErrorIs(t, err, store.ErrVaultNotFound)
}

func TestCredentialLifecycle(t *testing.T) {
	s := newTestStore(t)

	cred := testCredential("Gmail")
	cred.SetCiphertext(model.FieldPassword, []byte("packed-password"))
	require.NoError(t, s.CreateCredential(cred))
	require.NotEmpty(t, cred.UUID)

	fetched, err := s.FetchCredential(cred.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Gmail", fetched.Name)
	assert.Equal(t, []byte("packed-password"), fetched.Ciphertext(model.FieldPassword))
	assert.Nil(t, fetched.Ciphertext(model.FieldUsername))

	_, err = s.FetchCredential("no-such-uuid")
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)

	// Save writes every column, so a cleared field lands as NULL.
	fetched.SetCiphertext(model.FieldPassword, nil)
	fetched.SetCiphertext(model.FieldUsername, []byte("packed-username"))
	require.NoError(t, s.SaveCredential(fetched))

	fetched, err = s.FetchCredential(cred.UUID)
	require.NoError(t, err)
	assert.Nil(t, fetched.Ciphertext(model.FieldPassword))
	assert.Equal(t, []byte("packed-username"), fetched.Ciphertext(model.FieldUsername))

	count, err := s.CountCredentials()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.DeleteCredential(fetched))
	_, err = s.FetchCredential(cred.UUID)
	assert.ErrorIs(t, err, store.ErrCredentialNotFound)
}

func TestListCredentialsOrdersByName(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"Zoho", "Amazon", "Gmail"} {
		require.NoError(t, s.CreateCredential(testCredential(name)))
	}

	credentials, err := s.ListCredentials()
	require.NoError(t, err)
	require.Len(t, credentials, 3)
	assert.Equal(t, "Amazon", credentials[0].Name)
	assert.Equal(t, "Gmail", credentials[1].Name)
	assert.Equal(t, "Zoho", credentials[2].Name)
}

func TestMnemonicRegistry(t *testing.T) {
	s := newTestStore(t)

	gmail := testCredential("Gmail")
	require.NoError(t, s.CreateCredential(gmail))
	require.NoError(t, s.ReserveMnemonics(gmail.ID, []string{"g1", "g2"}))

	resolved, err := s.FetchCredentialByMnemonic("g2")
	require.NoError(t, err)
	assert.Equal(t, gmail.UUID, resolved.UUID)
	assert.ElementsMatch(t, []string{"g1", "g2"}, resolved.MnemonicNames())

	_, err = s.FetchCredentialByMnemonic("unknown")
	assert.ErrorIs(t, err, store.ErrMnemonicNotFound)

	// Aliases are globally unique, even for a different credential.
	other := testCredential("Other")
	require.NoError(t, s.CreateCredential(other))
	err = s.ReserveMnemonics(other.ID, []string{"fresh", "g1"})
	assert.ErrorIs(t, err, store.ErrDuplicateMnemonic)

	taken, err := s.TakenMnemonics([]string{"g1", "g2", "g3"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, taken)

	// A credential's own aliases don't count against it.
	taken, err = s.TakenMnemonics([]string{"g1", "g3"}, gmail.ID)
	require.NoError(t, err)
	assert.Empty(t, taken)

	count, err := s.CountMnemonics()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.ReleaseMnemonics(gmail.ID))
	count, err = s.CountMnemonics()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteCredentialDropsAliases(t *testing.T) {
	s := newTestStore(t)

	cred := testCredential("Gmail")
	require.NoError(t, s.CreateCredential(cred))
	require.NoError(t, s.ReserveMnemonics(cred.ID, []string{"g1", "g2"}))

	fetched, err := s.FetchCredential(cred.UUID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteCredential(fetched))

	count, err := s.CountMnemonics()
	require.NoError(t, err)
	assert.Zero(t, count, "aliases must be freed when the credential goes away")

	// Freed aliases are reusable.
	next := testCredential("Next")
	require.NoError(t, s.CreateCredential(next))
	assert.NoError(t, s.ReserveMnemonics(next.ID, []string{"g1"}))
}

func TestTransactionRollsBack(t *testing.T) {
	s := newTestStore(t)

	sentinel := store.ErrDuplicateMnemonic
	err := s.Transaction(func(tx store.Store) error {
		cred := testCredential("Doomed")
		if err := tx.CreateCredential(cred); err != nil {
			return err
		}
		if err := tx.ReserveMnemonics(cred.ID, []string{"d1"}); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	count, err := s.CountCredentials()
	require.NoError(t, err)
	assert.Zero(t, count, "rolled-back credential must not persist")

	count, err = s.CountMnemonics()
	require.NoError(t, err)
	assert.Zero(t, count, "rolled-back aliases must not persist")
}

func TestTransactionCommits(t *testing.T) {
	s := newTestStore(t)

	err := s.Transaction(func(tx store.Store) error {
		cred := testCredential("Kept")
		if err := tx.CreateCredential(cred); err != nil {
			return err
		}
		return tx.ReserveMnemonics(cred.ID, []string{"k1"})
	})
	require.NoError(t, err)

	resolved, err := s.FetchCredentialByMnemonic("k1")
	require.NoError(t, err)
	assert.Equal(t, "Kept", resolved.Name)
}

func TestWithContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	scoped := s.WithContext(ctx)

	require.NoError(t, scoped.CreateCredential(testCredential("Scoped")))

	cancel()
	_, err := scoped.ListCredentials()
	assert.Error(t, err, "operations on a canceled context must fail")
}

func TestCheckConnectivity(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.CheckConnectivity())
}
