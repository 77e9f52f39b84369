package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/store"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

// Service exposes every vault operation. It is safe for concurrent use as
// long as the underlying store is.
type Service struct {
	store store.Store
}

// NewService creates a Service on top of a store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// InitRequest carries the inputs for vault initialization.
type InitRequest struct {
	MasterPassword string
	Name           string
	OwnerName      string
	OwnerEmail     string
}

// Initialize creates the vault row: fresh KDF salt, default iterations, and
// the key check artifact derived from the master password. Any existing
// vault and all its credentials are purged first, so re-initialization is
// the documented way to start over. Neither the password nor the derived
// key is persisted.
func (s *Service) Initialize(ctx context.Context, req InitRequest) (*model.Vault, error) {
	if req.MasterPassword == "" {
		return nil, validationErrorf("master password must not be empty")
	}

	kdf, err := strongbox.NewKDF()
	if err != nil {
		return nil, err
	}

	key := kdf.DeriveKey(req.MasterPassword)
	defer strongbox.Wipe(key)

	vault := &model.Vault{
		Name:          req.Name,
		OwnerName:     req.OwnerName,
		OwnerEmail:    req.OwnerEmail,
		KDFSalt:       kdf.Salt,
		KDFIterations: kdf.Iterations,
		KeyCheck:      strongbox.KeyCheck(key),
		SessionCheck:  true,
		SessionTTL:    3600,
	}

	err = s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		if err := tx.PurgeVault(); err != nil {
			return err
		}
		return tx.CreateVault(vault)
	})
	if err != nil {
		return nil, err
	}
	return vault, nil
}

// Vault returns the vault row without unlocking it.
func (s *Service) Vault(ctx context.Context) (*model.Vault, error) {
	return s.store.WithContext(ctx).FetchVault()
}

// Initialized reports whether a vault exists.
func (s *Service) Initialized(ctx context.Context) (bool, error) {
	_, err := s.store.WithContext(ctx).FetchVault()
	if errors.Is(err, store.ErrVaultNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Unlock derives the vault key from the master password and verifies it
// against the stored check artifact. The caller owns the returned key and
// must strongbox.Wipe it when done. A wrong password is
// strongbox.ErrAuthentication.
func (s *Service) Unlock(ctx context.Context, masterPassword string) ([]byte, *model.Vault, error) {
	vault, err := s.store.WithContext(ctx).FetchVault()
	if err != nil {
		return nil, nil, err
	}

	kdf := &strongbox.KDF{Salt: vault.KDFSalt, Iterations: vault.KDFIterations}
	key := kdf.DeriveKey(masterPassword)
	if err := strongbox.VerifyKey(key, vault.KeyCheck); err != nil {
		strongbox.Wipe(key)
		return nil, nil, err
	}
	return key, vault, nil
}

// VaultInfo is the non-secret summary shown by the info command.
type VaultInfo struct {
	Vault       *model.Vault
	Credentials int64
	Mnemonics   int64
}

// Info returns the vault row and registry counts. Nothing is decrypted.
func (s *Service) Info(ctx context.Context) (*VaultInfo, error) {
	st := s.store.WithContext(ctx)

	vault, err := st.FetchVault()
	if err != nil {
		return nil, err
	}
	credentials, err := st.CountCredentials()
	if err != nil {
		return nil, err
	}
	mnemonics, err := st.CountMnemonics()
	if err != nil {
		return nil, err
	}

	return &VaultInfo{Vault: vault, Credentials: credentials, Mnemonics: mnemonics}, nil
}

// UpdateVaultRequest carries optional vault metadata changes; nil fields
// keep their current value.
type UpdateVaultRequest struct {
	Name         *string
	OwnerName    *string
	OwnerEmail   *string
	SessionCheck *bool
	SessionTTL   *int
}

// UpdateVault applies metadata changes to the vault row. Key material is
// untouched; use ChangeMasterPassword for that.
func (s *Service) UpdateVault(ctx context.Context, req UpdateVaultRequest) (*model.Vault, error) {
	var updated *model.Vault
	err := s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		vault, err := tx.FetchVault()
		if err != nil {
			return err
		}

		if req.Name != nil {
			vault.Name = *req.Name
		}
		if req.OwnerName != nil {
			vault.OwnerName = *req.OwnerName
		}
		if req.OwnerEmail != nil {
			vault.OwnerEmail = *req.OwnerEmail
		}
		if req.SessionCheck != nil {
			vault.SessionCheck = *req.SessionCheck
		}
		if req.SessionTTL != nil {
			if *req.SessionTTL <= 0 {
				return validationErrorf("session ttl must be positive, got %d", *req.SessionTTL)
			}
			vault.SessionTTL = *req.SessionTTL
		}

		updated = vault
		return tx.SaveVault(vault)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeMasterPassword rotates the vault key: it verifies the current
// password, unseals every credential's data key under the old vault key,
// re-seals it under the new one, and swaps in a fresh salt and key check.
// Field ciphertexts are untouched. The whole rotation is one transaction;
// a failure on any credential leaves the vault on the old password. It
// returns the number of re-sealed credentials.
func (s *Service) ChangeMasterPassword(ctx context.Context, currentPassword, newPassword string) (int, error) {
	if newPassword == "" {
		return 0, validationErrorf("master password must not be empty")
	}

	resealed := 0
	err := s.store.WithContext(ctx).Transaction(func(tx store.Store) error {
		vault, err := tx.FetchVault()
		if err != nil {
			return err
		}

		oldKDF := &strongbox.KDF{Salt: vault.KDFSalt, Iterations: vault.KDFIterations}
		oldKey := oldKDF.DeriveKey(currentPassword)
		defer strongbox.Wipe(oldKey)
		if err := strongbox.VerifyKey(oldKey, vault.KeyCheck); err != nil {
			return err
		}

		newKDF, err := strongbox.NewKDF()
		if err != nil {
			return err
		}
		newKey := newKDF.DeriveKey(newPassword)
		defer strongbox.Wipe(newKey)

		credentials, err := tx.ListCredentials()
		if err != nil {
			return err
		}

		for i := range credentials {
			cred := &credentials[i]
			dataKey, err := strongbox.Unseal(oldKey, cred.EncryptedKey, keyAAD(cred.UUID))
			if err != nil {
				return fmt.Errorf("credential %s: %w", cred.UUID, err)
			}
			sealed, err := strongbox.Seal(newKey, dataKey, keyAAD(cred.UUID))
			strongbox.Wipe(dataKey)
			if err != nil {
				return err
			}
			cred.EncryptedKey = sealed
			if err := tx.SaveCredential(cred); err != nil {
				return err
			}
		}

		vault.KDFSalt = newKDF.Salt
		vault.KDFIterations = newKDF.Iterations
		vault.KeyCheck = strongbox.KeyCheck(newKey)
		if err := tx.SaveVault(vault); err != nil {
			return err
		}

		resealed = len(credentials)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return resealed, nil
}

// Ping verifies the backing database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.WithContext(ctx).CheckConnectivity()
}

// verifyVaultKey rejects operations attempted with a key that doesn't
// match the vault's check artifact, so a wrong key can never encrypt new
// material into the vault.
func verifyVaultKey(st store.Store, vaultKey []byte) error {
	vault, err := st.FetchVault()
	if err != nil {
		return err
	}
	return strongbox.VerifyKey(vaultKey, vault.KeyCheck)
}
