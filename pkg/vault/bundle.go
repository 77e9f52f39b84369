package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// Bundle is the portable export format. Decrypted bundles carry plaintext
// field values; encrypted bundles carry the field ciphertexts exactly as
// stored plus each data key re-sealed under a file key, and the metadata
// needed to re-derive that file key from the file password.
type Bundle struct {
	Metadata    BundleMetadata     `json:"metadata"`
	Credentials []BundleCredential `json:"credentials"`
}

// BundleMetadata describes how the bundle was produced. The KDF parameters
// travel with the bundle so an encrypted export stays importable after the
// vault's own salt has rotated.
type BundleMetadata struct {
	FileEncrypted bool   `json:"file_encrypted"`
	ExportedDate  string `json:"exported_date"`
	KDFSalt       string `json:"kdf_salt,omitempty"`
	KDFIterations int    `json:"kdf_iterations,omitempty"`
	FileKeyHash   string `json:"file_key_hash,omitempty"`
}

// BundleCredential is one exported credential. Absent fields are null;
// mnemonics are comma-joined.
type BundleCredential struct {
	UUID           string  `json:"uuid"`
	Name           string  `json:"name"`
	Mnemonics      string  `json:"mnemonics"`
	Username       *string `json:"username"`
	Password       *string `json:"password"`
	URL            *string `json:"url"`
	PrimaryEmail   *string `json:"primary_email"`
	SecondaryEmail *string `json:"secondary_email"`
	Token          *string `json:"token"`
	RecoveryKey    *string `json:"recovery_key"`
	Notes          *string `json:"notes"`
	EncryptedKey   *string `json:"encrypted_key,omitempty"`
}

// FieldValue returns the exported value for a field, nil when absent.
func (bc *BundleCredential) FieldValue(f model.Field) *string {
	switch f {
	case model.FieldUsername:
		return bc.Username
	case model.FieldPassword:
		return bc.Password
	case model.FieldURL:
		return bc.URL
	case model.FieldPrimaryEmail:
		return bc.PrimaryEmail
	case model.FieldSecondaryEmail:
		return bc.SecondaryEmail
	case model.FieldToken:
		return bc.Token
	case model.FieldRecoveryKey:
		return bc.RecoveryKey
	case model.FieldNotes:
		return bc.Notes
	}
	return nil
}

// SetFieldValue stores an exported value for a field.
func (bc *BundleCredential) SetFieldValue(f model.Field, value *string) {
	switch f {
	case model.FieldUsername:
		bc.Username = value
	case model.FieldPassword:
		bc.Password = value
	case model.FieldURL:
		bc.URL = value
	case model.FieldPrimaryEmail:
		bc.PrimaryEmail = value
	case model.FieldSecondaryEmail:
		bc.SecondaryEmail = value
	case model.FieldToken:
		bc.Token = value
	case model.FieldRecoveryKey:
		bc.RecoveryKey = value
	case model.FieldNotes:
		bc.Notes = value
	}
}

// Aliases splits the comma-joined mnemonic list.
func (bc *BundleCredential) Aliases() []string {
	parts := strings.Split(bc.Mnemonics, ",")
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if alias := strings.TrimSpace(p); alias != "" {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// ExportOptions controls Export. An empty FilePassword exports plaintext;
// anything else derives a file key and keeps every secret encrypted.
type ExportOptions struct {
	FilePassword string
}

// Export builds a bundle of every credential. With a file password the
// field ciphertexts travel exactly as stored and each data key is unsealed
// from the vault key and re-sealed under the file key; without one the
// fields are decrypted into plaintext.
func (s *Service) Export(ctx context.Context, vaultKey []byte, opts ExportOptions) (*Bundle, error) {
	st := s.store.WithContext(ctx)
	if err := verifyVaultKey(st, vaultKey); err != nil {
		return nil, err
	}

	credentials, err := st.ListCredentials()
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Metadata: BundleMetadata{
			FileEncrypted: opts.FilePassword != "",
			ExportedDate:  time.Now().UTC().Format(time.RFC3339),
		},
		Credentials: make([]BundleCredential, 0, len(credentials)),
	}

	var fileKey []byte
	if opts.FilePassword != "" {
		kdf, err := strongbox.NewKDF()
		if err != nil {
			return nil, err
		}
		fileKey = kdf.DeriveKey(opts.FilePassword)
		defer strongbox.Wipe(fileKey)

		bundle.Metadata.KDFSalt = base64.StdEncoding.EncodeToString(kdf.Salt)
		bundle.Metadata.KDFIterations = kdf.Iterations
		bundle.Metadata.FileKeyHash = strongbox.KeyCheck(fileKey)
	}

	for i := range credentials {
		cred := &credentials[i]

		bc, err := exportCredential(cred, vaultKey, fileKey)
		if err != nil {
			return nil, err
		}
		bundle.Credentials = append(bundle.Credentials, *bc)
	}

	return bundle, nil
}

func exportCredential(cred *model.Credential, vaultKey, fileKey []byte) (*BundleCredential, error) {
	dataKey, err := strongbox.Unseal(vaultKey, cred.EncryptedKey, keyAAD(cred.UUID))
	if err != nil {
		return nil, err
	}
	defer strongbox.Wipe(dataKey)

	names := cred.MnemonicNames()
	sort.Strings(names)

	bc := &BundleCredential{
		UUID:      cred.UUID,
		Name:      cred.Name,
		Mnemonics: strings.Join(names, ","),
	}

	if fileKey == nil {
		cipher, err := strongbox.NewSymmetric(dataKey)
		if err != nil {
			return nil, err
		}
		for _, f := range cred.PresentFields() {
			plain, err := cipher.Decrypt(fieldAAD(cred.UUID, f), cred.Ciphertext(f))
			if err != nil {
				return nil, err
			}
			value := string(plain)
			bc.SetFieldValue(f, &value)
		}
		return bc, nil
	}

	for _, f := range cred.PresentFields() {
		value := base64.StdEncoding.EncodeToString(cred.Ciphertext(f))
		bc.SetFieldValue(f, &value)
	}

	sealed, err := strongbox.Seal(fileKey, dataKey, keyAAD(cred.UUID))
	if err != nil {
		return nil, err
	}
	encryptedKey := base64.StdEncoding.EncodeToString(sealed)
	bc.EncryptedKey = &encryptedKey

	return bc, nil
}

// SkippedCredential names a bundle entry Import left out and the aliases
// that blocked it.
type SkippedCredential struct {
	Name    string
	Aliases []string
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Imported []string
	Skipped  []SkippedCredential
}

// Import creates a credential for every bundle entry. For encrypted
// bundles the file key is re-derived from the password and checked against
// the bundle's hash before anything is written; a wrong password is
// strongbox.ErrAuthentication. Entries whose aliases are already taken are
// skipped and reported, and the rest of the bundle still imports. Every
// imported credential gets a fresh UUID and data key through Create.
func (s *Service) Import(ctx context.Context, vaultKey []byte, bundle *Bundle, filePassword string) (*ImportReport, error) {
	if err := verifyVaultKey(s.store.WithContext(ctx), vaultKey); err != nil {
		return nil, err
	}

	var fileKey []byte
	if bundle.Metadata.FileEncrypted {
		if filePassword == "" {
			return nil, validationErrorf("bundle is encrypted: file password is required")
		}
		salt, err := base64.StdEncoding.DecodeString(bundle.Metadata.KDFSalt)
		if err != nil || len(salt) == 0 || bundle.Metadata.KDFIterations <= 0 {
			return nil, strongbox.ErrIntegrity
		}
		kdf := &strongbox.KDF{Salt: salt, Iterations: bundle.Metadata.KDFIterations}
		fileKey = kdf.DeriveKey(filePassword)
		defer strongbox.Wipe(fileKey)

		if err := strongbox.VerifyKey(fileKey, bundle.Metadata.FileKeyHash); err != nil {
			return nil, err
		}
	}

	report := &ImportReport{}
	for i := range bundle.Credentials {
		bc := &bundle.Credentials[i]

		fields, err := importFields(bc, fileKey)
		if err != nil {
			return nil, err
		}

		_, err = s.Create(ctx, vaultKey, CreateRequest{
			Name:      bc.Name,
			Mnemonics: bc.Aliases(),
			Fields:    fields,
		})
		var dup *DuplicateMnemonicError
		if errors.As(err, &dup) {
			report.Skipped = append(report.Skipped, SkippedCredential{Name: bc.Name, Aliases: dup.Aliases})
			continue
		}
		if err != nil {
			return nil, err
		}
		report.Imported = append(report.Imported, bc.Name)
	}

	return report, nil
}

// importFields recovers the plaintext field values of one bundle entry.
// Encrypted entries decrypt under the data key recovered via the file key,
// bound to the entry's original UUID.
func importFields(bc *BundleCredential, fileKey []byte) (map[model.Field]string, error) {
	fields := make(map[model.Field]string)

	if fileKey == nil {
		for _, f := range model.FieldValues() {
			if value := bc.FieldValue(f); value != nil {
				fields[f] = *value
			}
		}
		return fields, nil
	}

	if bc.EncryptedKey == nil {
		return nil, strongbox.ErrIntegrity
	}
	sealed, err := base64.StdEncoding.DecodeString(*bc.EncryptedKey)
	if err != nil {
		return nil, strongbox.ErrIntegrity
	}

	dataKey, err := strongbox.Unseal(fileKey, sealed, keyAAD(bc.UUID))
	if err != nil {
		return nil, err
	}
	defer strongbox.Wipe(dataKey)

	cipher, err := strongbox.NewSymmetric(dataKey)
	if err != nil {
		return nil, err
	}

	for _, f := range model.FieldValues() {
		value := bc.FieldValue(f)
		if value == nil {
			continue
		}
		packed, err := base64.StdEncoding.DecodeString(*value)
		if err != nil {
			return nil, strongbox.ErrIntegrity
		}
		plain, err := cipher.Decrypt(fieldAAD(bc.UUID, f), packed)
		if err != nil {
			return nil, err
		}
		fields[f] = string(plain)
	}

	return fields, nil
}
