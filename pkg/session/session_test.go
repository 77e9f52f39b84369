package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	keyring.MockInit()
	m := &Manager{Path: filepath.Join(t.TempDir(), ".session")}
	t.Cleanup(func() { _ = m.Clear() })
	return m
}

func testVault(ttl int) *model.Vault {
	return &model.Vault{
		UUID:         "8dbbbdc2-6d67-44b9-9d39-f03e34e72f7e",
		SessionCheck: true,
		SessionTTL:   ttl,
	}
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := strongbox.RandomBytes(strongbox.KeySize)
	require.NoError(t, err)
	return key
}

func TestIssueAndLoad(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	key := testKey(t)

	require.NoError(t, m.Issue(vlt, key))

	info, err := os.Stat(m.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := m.Load(vlt)
	require.NoError(t, err)
	defer strongbox.Wipe(loaded)
	assert.Equal(t, key, loaded)
}

func TestLoadWithoutSession(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Load(testVault(3600))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadWrongVault(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	// A session issued against one vault is useless after re-init.
	other := testVault(3600)
	other.UUID = "00000000-0000-0000-0000-000000000000"
	_, err := m.Load(other)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadExpiredSession(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(-1)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	_, err := m.Load(vlt)
	assert.ErrorIs(t, err, ErrNoSession)

	status, err := m.Describe()
	require.NoError(t, err)
	assert.False(t, status.Active)
}

func TestLoadTamperedToken(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	token, err := os.ReadFile(m.Path)
	require.NoError(t, err)
	token[len(token)/2] ^= 0x01
	require.NoError(t, os.WriteFile(m.Path, token, 0o600))

	_, err = m.Load(vlt)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadAfterKeyringEntryGone(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	require.NoError(t, keyring.Delete(keyringService, keyringAccount))

	_, err := m.Load(vlt)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	require.NoError(t, m.Clear())

	_, err := os.Stat(m.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = m.Load(vlt)
	assert.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is fine.
	assert.NoError(t, m.Clear())
}

func TestDescribe(t *testing.T) {
	m := newTestManager(t)

	status, err := m.Describe()
	require.NoError(t, err)
	assert.False(t, status.Active)

	vlt := testVault(900)
	require.NoError(t, m.Issue(vlt, testKey(t)))

	status, err = m.Describe()
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, vlt.UUID, status.VaultUUID)
	assert.WithinDuration(t, time.Now().Add(900*time.Second), status.ExpiresAt, 5*time.Second)
}

func TestIssueOverwritesPreviousSession(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)

	first := testKey(t)
	require.NoError(t, m.Issue(vlt, first))

	second := testKey(t)
	require.NoError(t, m.Issue(vlt, second))

	loaded, err := m.Load(vlt)
	require.NoError(t, err)
	defer strongbox.Wipe(loaded)
	assert.Equal(t, second, loaded)
}

func TestSessionFileHoldsNoKeyMaterial(t *testing.T) {
	m := newTestManager(t)
	vlt := testVault(3600)
	key := testKey(t)
	require.NoError(t, m.Issue(vlt, key))

	raw, err := os.ReadFile(m.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), string(key))
}
