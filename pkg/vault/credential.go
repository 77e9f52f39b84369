package vault

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// Credential is the decrypted view handed to callers. Fields holds
// plaintext values; a field the credential never had simply has no entry.
type Credential struct {
	UUID      string
	Name      string
	Mnemonics []string
	Fields    map[model.Field]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary names a credential without decrypting anything: its aliases and
// which fields are present.
type Summary struct {
	UUID      string
	Name      string
	Mnemonics []string
	Fields    []model.Field
	CreatedAt time.Time
	UpdatedAt time.Time
}

// keyAAD binds a sealed data key to its credential row.
func keyAAD(credentialUUID string) []byte {
	return []byte(credentialUUID)
}

// fieldAAD binds a field ciphertext to its row and column, so a ciphertext
// moved to a sibling field or another credential fails authentication.
func fieldAAD(credentialUUID string, f model.Field) []byte {
	return []byte(credentialUUID + "/" + f.String())
}

// normalizeAliases trims aliases, rejects malformed ones, and drops
// duplicates within the request while preserving order.
func normalizeAliases(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	aliases := make([]string, 0, len(names))
	for _, name := range names {
		alias := strings.TrimSpace(name)
		if alias == "" {
			return nil, validationErrorf("mnemonic must not be empty")
		}
		if strings.ContainsAny(alias, ", ") {
			return nil, validationErrorf("mnemonic %q must not contain spaces or commas", alias)
		}
		if seen[alias] {
			continue
		}
		seen[alias] = true
		aliases = append(aliases, alias)
	}
	return aliases, nil
}

// CreateRequest carries the inputs for a new credential.
type CreateRequest struct {
	Name      string
	Mnemonics []string
	Fields    map[model.Field]string
}

// Create stores a new credential: a fresh data key encrypts every provided
// field, the data key is sealed under the vault key, and the aliases are
// reserved in the registry. The row and its aliases commit atomically —
// if any alias is already taken the whole credential is rejected with
// DuplicateMnemonicError.
func (s *Service) Create(ctx context.Context, vaultKey []byte, req CreateRequest) (*Credential, error) {
	if req.Name == "" {
		return nil, validationErrorf("credential name is required")
	}
	aliases, err := normalizeAliases(req.Mnemonics)
	if err != nil {
		return nil, err
	}
	if len(aliases) == 0 {
		return nil, validationErrorf("at least one mnemonic is required")
	}

	dataKey, err := strongbox.GenerateDataKey()
	if err != nil {
		return nil, err
	}
	defer strongbox.Wipe(dataKey)

	fieldCipher, err := strongbox.NewSymmetric(dataKey)
	if err != nil {
		return nil, err
	}

	cred := &model.Credential{Name: req.Name}
	// The UUID participates in every AAD, so it has to exist before the
	// first encryption rather than at insert time.
	cred.UUID = uuid.NewString()

	for f, value := range req.Fields {
		packed, err := fieldCipher.Encrypt(fieldAAD(cred.UUID, f), []byte(value))
		if err != nil {
			return nil, err
		}
		cred.SetCiphertext(f, packed)
	}

	sealed, err := strongbox.Seal(vaultKey, dataKey, keyAAD(cred.UUID))
	if err != nil {
		return nil, err
	}
	cred.EncryptedKey = sealed

	err = s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		if err := verifyVaultKey(tx, vaultKey); err != nil {
			return err
		}
		taken, err := tx.TakenMnemonics(aliases, 0)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return &DuplicateMnemonicError{Aliases: taken}
		}
		if err := tx.CreateCredential(cred); err != nil {
			return err
		}
		if err := tx.ReserveMnemonics(cred.ID, aliases); err != nil {
			if errors.Is(err, store.ErrDuplicateMnemonic) {
				// Lost a race with a concurrent reservation after the
				// check above; the constraint is the backstop.
				return &DuplicateMnemonicError{Aliases: aliases}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	values := make(map[model.Field]string, len(req.Fields))
	for f, v := range req.Fields {
		values[f] = v
	}

	return &Credential{
		UUID:      cred.UUID,
		Name:      cred.Name,
		Mnemonics: aliases,
		Fields:    values,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}

// Get resolves a mnemonic and decrypts the requested fields. A nil fields
// slice decrypts every present field; requested fields the credential
// doesn't have are skipped, not errors.
func (s *Service) Get(ctx context.Context, vaultKey []byte, mnemonic string, fields []model.Field) (*Credential, error) {
	st := s.store.WithContext(ctx)
	if err := verifyVaultKey(st, vaultKey); err != nil {
		return nil, err
	}
	cred, err := st.FetchCredentialByMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	return decryptCredential(vaultKey, cred, fields)
}

// GetByUUID is Get keyed by credential UUID instead of alias.
func (s *Service) GetByUUID(ctx context.Context, vaultKey []byte, credentialUUID string, fields []model.Field) (*Credential, error) {
	st := s.store.WithContext(ctx)
	if err := verifyVaultKey(st, vaultKey); err != nil {
		return nil, err
	}
	cred, err := st.FetchCredential(credentialUUID)
	if err != nil {
		return nil, err
	}
	return decryptCredential(vaultKey, cred, fields)
}

// List returns a non-secret summary of every credential, ordered by name.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	credentials, err := s.store.WithContext(ctx).ListCredentials()
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(credentials))
	for i := range credentials {
		cred := &credentials[i]
		names := cred.MnemonicNames()
		sort.Strings(names)
		summaries = append(summaries, Summary{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: names,
			Fields:    cred.PresentFields(),
			CreatedAt: cred.CreatedAt,
			UpdatedAt: cred.UpdatedAt,
		})
	}
	return summaries, nil
}

// UpdateRequest carries credential changes. Nil means "keep": a nil Name
// keeps the name, a nil Mnemonics slice keeps the current aliases, and
// fields not mentioned in Fields or RemoveFields survive unchanged.
type UpdateRequest struct {
	Name         *string
	Mnemonics    []string
	Fields       map[model.Field]string
	RemoveFields []model.Field
}

// Update rewrites a credential. Surviving fields are decrypted under the
// old data key and everything is re-encrypted under a fresh one, so the
// stored row never mixes ciphertexts from two keys. When Mnemonics is
// non-nil the alias set is replaced; any requested alias owned by another
// credential aborts the whole update with DuplicateMnemonicError.
func (s *Service) Update(ctx context.Context, vaultKey []byte, mnemonic string, req UpdateRequest) (*Credential, error) {
	var result *Credential
	err := s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		if err := verifyVaultKey(tx, vaultKey); err != nil {
			return err
		}

		cred, err := tx.FetchCredentialByMnemonic(mnemonic)
		if err != nil {
			return err
		}

		dataKey, err := strongbox.Unseal(vaultKey, cred.EncryptedKey, keyAAD(cred.UUID))
		if err != nil {
			return err
		}
		defer strongbox.Wipe(dataKey)

		oldCipher, err := strongbox.NewSymmetric(dataKey)
		if err != nil {
			return err
		}

		removed := make(map[model.Field]bool, len(req.RemoveFields))
		for _, f := range req.RemoveFields {
			if _, ok := req.Fields[f]; ok {
				return validationErrorf("field %s is both set and removed", f)
			}
			removed[f] = true
		}

		plain := make(map[model.Field]string)
		for _, f := range cred.PresentFields() {
			if removed[f] {
				continue
			}
			if _, ok := req.Fields[f]; ok {
				continue
			}
			value, err := oldCipher.Decrypt(fieldAAD(cred.UUID, f), cred.Ciphertext(f))
			if err != nil {
				return err
			}
			plain[f] = string(value)
		}
		for f, v := range req.Fields {
			plain[f] = v
		}

		newDataKey, err := strongbox.GenerateDataKey()
		if err != nil {
			return err
		}
		defer strongbox.Wipe(newDataKey)

		newCipher, err := strongbox.NewSymmetric(newDataKey)
		if err != nil {
			return err
		}

		for _, f := range model.FieldValues() {
			value, ok := plain[f]
			if !ok {
				cred.SetCiphertext(f, nil)
				continue
			}
			packed, err := newCipher.Encrypt(fieldAAD(cred.UUID, f), []byte(value))
			if err != nil {
				return err
			}
			cred.SetCiphertext(f, packed)
		}

		sealed, err := strongbox.Seal(vaultKey, newDataKey, keyAAD(cred.UUID))
		if err != nil {
			return err
		}
		cred.EncryptedKey = sealed

		if req.Name != nil {
			if *req.Name == "" {
				return validationErrorf("credential name is required")
			}
			cred.Name = *req.Name
		}

		if err := tx.SaveCredential(cred); err != nil {
			return err
		}

		aliases := cred.MnemonicNames()
		sort.Strings(aliases)
		if req.Mnemonics != nil {
			aliases, err = normalizeAliases(req.Mnemonics)
			if err != nil {
				return err
			}
			if len(aliases) == 0 {
				return validationErrorf("at least one mnemonic is required")
			}
			taken, err := tx.TakenMnemonics(aliases, cred.ID)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				return &DuplicateMnemonicError{Aliases: taken}
			}
			if err := tx.ReleaseMnemonics(cred.ID); err != nil {
				return err
			}
			if err := tx.ReserveMnemonics(cred.ID, aliases); err != nil {
				if errors.Is(err, store.ErrDuplicateMnemonic) {
					return &DuplicateMnemonicError{Aliases: aliases}
				}
				return err
			}
		}

		result = &Credential{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: aliases,
			Fields:    plain,
			CreatedAt: cred.CreatedAt,
			UpdatedAt: cred.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a credential and frees its aliases. No key is needed:
// nothing is decrypted on the way out.
func (s *Service) Delete(ctx context.Context, mnemonic string) (*Summary, error) {
	var deleted *Summary
	err := s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		cred, err := tx.FetchCredentialByMnemonic(mnemonic)
		if err != nil {
			return err
		}

		names := cred.MnemonicNames()
		sort.Strings(names)
		deleted = &Summary{
			UUID:      cred.UUID,
			Name:      cred.Name,
			Mnemonics: names,
			Fields:    cred.PresentFields(),
			CreatedAt: cred.CreatedAt,
			UpdatedAt: cred.UpdatedAt,
		}
		return tx.DeleteCredential(cred)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// decryptCredential unseals the data key and decrypts the requested fields.
// It never returns partial plaintext: the first bad field fails the whole
// call.
func decryptCredential(vaultKey []byte, cred *model.Credential, fields []model.Field) (*Credential, error) {
	dataKey, err := strongbox.Unseal(vaultKey, cred.EncryptedKey, keyAAD(cred.UUID))
	if err != nil {
		return nil, err
	}
	defer strongbox.Wipe(dataKey)

	cipher, err := strongbox.NewSymmetric(dataKey)
	if err != nil {
		return nil, err
	}

	if fields == nil {
		fields = cred.PresentFields()
	}

	values := make(map[model.Field]string, len(fields))
	for _, f := range fields {
		packed := cred.Ciphertext(f)
		if packed == nil {
			continue
		}
		plain, err := cipher.Decrypt(fieldAAD(cred.UUID, f), packed)
		if err != nil {
			return nil, err
		}
		values[f] = string(plain)
	}

	names := cred.MnemonicNames()
	sort.Strings(names)

	return &Credential{
		UUID:      cred.UUID,
		Name:      cred.Name,
		Mnemonics: names,
		Fields:    values,
		CreatedAt: cred.CreatedAt,
		UpdatedAt: cred.UpdatedAt,
	}, nil
}
