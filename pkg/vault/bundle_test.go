package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

func exportFixture(t *testing.T, svc *Service, key []byte) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Create(ctx, key, CreateRequest{
		Name:      "Gmail",
		Mnemonics: []string{"g1", "g2"},
		Fields: map[model.Field]string{
			model.FieldUsername: "ada@gmail.com",
			model.FieldPassword: "hunter2",
		},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, key, CreateRequest{
		Name:      "Bank",
		Mnemonics: []string{"b1"},
		Fields: map[model.Field]string{
			model.FieldPassword: "pin-0000",
			model.FieldNotes:    "branch code 42",
		},
	})
	require.NoError(t, err)
}

func TestExportDecryptedAndImport(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{})
	require.NoError(t, err)

	assert.False(t, bundle.Metadata.FileEncrypted)
	assert.NotEmpty(t, bundle.Metadata.ExportedDate)
	assert.Empty(t, bundle.Metadata.KDFSalt)
	assert.Empty(t, bundle.Metadata.FileKeyHash)
	require.Len(t, bundle.Credentials, 2)

	// ListCredentials orders by name, so Bank comes first.
	bank, gmail := bundle.Credentials[0], bundle.Credentials[1]
	assert.Equal(t, "Bank", bank.Name)
	assert.Equal(t, "Gmail", gmail.Name)
	assert.Equal(t, "g1,g2", gmail.Mnemonics)
	require.NotNil(t, gmail.Password)
	assert.Equal(t, "hunter2", *gmail.Password, "decrypted bundles carry plaintext")
	assert.Nil(t, gmail.Notes, "absent fields stay null")
	assert.Nil(t, gmail.EncryptedKey, "decrypted bundles carry no envelope")

	// The bundle restores into a vault with a different master password.
	dst := newTestService(t)
	dstKey := initVault(t, dst, "Different456")

	report, err := dst.Import(ctx, dstKey, bundle, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank", "Gmail"}, report.Imported)
	assert.Empty(t, report.Skipped)

	cred, err := dst.Get(ctx, dstKey, "g2", nil)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cred.Fields[model.FieldPassword])
	assert.Equal(t, "ada@gmail.com", cred.Fields[model.FieldUsername])
	assert.NotEqual(t, gmail.UUID, cred.UUID, "imports mint a fresh identity")
}

func TestExportEncryptedAndImport(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{FilePassword: "transit-pw"})
	require.NoError(t, err)

	assert.True(t, bundle.Metadata.FileEncrypted)
	assert.NotEmpty(t, bundle.Metadata.KDFSalt)
	assert.Equal(t, strongbox.DefaultIterations, bundle.Metadata.KDFIterations)
	assert.NotEmpty(t, bundle.Metadata.FileKeyHash)

	gmail := bundle.Credentials[1]
	require.NotNil(t, gmail.Password)
	assert.NotEqual(t, "hunter2", *gmail.Password, "encrypted bundles never leak plaintext")
	require.NotNil(t, gmail.EncryptedKey)

	// Field ciphertexts travel exactly as stored; only the envelope is
	// re-sealed for the file key.
	row, err := src.store.FetchCredentialByMnemonic("g1")
	require.NoError(t, err)
	stored := base64.StdEncoding.EncodeToString(row.Ciphertext(model.FieldPassword))
	assert.Equal(t, stored, *gmail.Password)
	sealed, err := base64.StdEncoding.DecodeString(*gmail.EncryptedKey)
	require.NoError(t, err)
	assert.NotEqual(t, row.EncryptedKey, sealed)

	dst := newTestService(t)
	dstKey := initVault(t, dst, "Different456")

	report, err := dst.Import(ctx, dstKey, bundle, "transit-pw")
	require.NoError(t, err)
	assert.Len(t, report.Imported, 2)

	cred, err := dst.Get(ctx, dstKey, "b1", nil)
	require.NoError(t, err)
	assert.Equal(t, "pin-0000", cred.Fields[model.FieldPassword])
	assert.Equal(t, "branch code 42", cred.Fields[model.FieldNotes])
}

func TestImportEncryptedWrongFilePassword(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{FilePassword: "transit-pw"})
	require.NoError(t, err)

	dst := newTestService(t)
	dstKey := initVault(t, dst, "Different456")

	_, err = dst.Import(ctx, dstKey, bundle, "WrongPass")
	assert.ErrorIs(t, err, strongbox.ErrAuthentication)

	_, err = dst.Import(ctx, dstKey, bundle, "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr, "encrypted bundles demand a password up front")

	// The failed attempts wrote nothing.
	summaries, err := dst.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestImportEncryptedCorruptMetadata(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{FilePassword: "transit-pw"})
	require.NoError(t, err)

	dst := newTestService(t)
	dstKey := initVault(t, dst, "Different456")

	mangled := *bundle
	mangled.Metadata.KDFSalt = "not base64!!"
	_, err = dst.Import(ctx, dstKey, &mangled, "transit-pw")
	assert.ErrorIs(t, err, strongbox.ErrIntegrity)

	mangled = *bundle
	mangled.Metadata.KDFIterations = 0
	_, err = dst.Import(ctx, dstKey, &mangled, "transit-pw")
	assert.ErrorIs(t, err, strongbox.ErrIntegrity)
}

func TestImportSkipsTakenAliases(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{})
	require.NoError(t, err)

	dst := newTestService(t)
	dstKey := initVault(t, dst, "Different456")

	first, err := dst.Import(ctx, dstKey, bundle, "")
	require.NoError(t, err)
	assert.Len(t, first.Imported, 2)

	// Importing the same bundle again conflicts on every alias; the run
	// still completes and reports what it skipped.
	second, err := dst.Import(ctx, dstKey, bundle, "")
	require.NoError(t, err)
	assert.Empty(t, second.Imported)
	require.Len(t, second.Skipped, 2)
	assert.Equal(t, "Bank", second.Skipped[0].Name)
	assert.Equal(t, []string{"b1"}, second.Skipped[0].Aliases)
	assert.Equal(t, "Gmail", second.Skipped[1].Name)

	info, err := dst.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Credentials)
}

func TestImportRejectsWrongVaultKey(t *testing.T) {
	ctx := context.Background()

	src := newTestService(t)
	srcKey := initVault(t, src, "Secret123")
	exportFixture(t, src, srcKey)

	bundle, err := src.Export(ctx, srcKey, ExportOptions{})
	require.NoError(t, err)

	dst := newTestService(t)
	initVault(t, dst, "Different456")

	wrongKey, err := strongbox.RandomBytes(strongbox.KeySize)
	require.NoError(t, err)
	_, err = dst.Import(ctx, wrongKey, bundle, "")
	assert.ErrorIs(t, err, strongbox.ErrAuthentication)

	_, err = src.Export(ctx, wrongKey, ExportOptions{})
	assert.ErrorIs(t, err, strongbox.ErrAuthentication)
}

func TestBundleJSONShape(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t)
	key := initVault(t, svc, "Secret123")

	_, err := svc.Create(ctx, key, CreateRequest{
		Name:      "Gmail",
		Mnemonics: []string{"g2", "g1"},
		Fields:    map[model.Field]string{model.FieldPassword: "hunter2"},
	})
	require.NoError(t, err)

	bundle, err := svc.Export(ctx, key, ExportOptions{})
	require.NoError(t, err)

	raw, err := json.Marshal(bundle)
	require.NoError(t, err)

	var decoded struct {
		Metadata    map[string]any   `json:"metadata"`
		Credentials []map[string]any `json:"credentials"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, false, decoded.Metadata["file_encrypted"])
	assert.Contains(t, decoded.Metadata, "exported_date")
	assert.NotContains(t, decoded.Metadata, "kdf_salt")

	require.Len(t, decoded.Credentials, 1)
	entry := decoded.Credentials[0]
	assert.Equal(t, "Gmail", entry["name"])
	assert.Equal(t, "g1,g2", entry["mnemonics"], "aliases are one sorted comma-joined string")
	assert.Equal(t, "hunter2", entry["password"])
	assert.Contains(t, entry, "token")
	assert.Nil(t, entry["token"], "absent fields serialize as null")
	assert.NotContains(t, entry, "encrypted_key")
}
