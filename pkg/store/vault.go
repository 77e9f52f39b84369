package store

import (
	"errors"

	"github.com/indrajit912/vaultsafe/pkg/model"
)

// ErrVaultNotFound is returned when no vault has been initialized
var ErrVaultNotFound = errors.New("vault not found")

// VaultStore abstracts operations on the single vault row
type VaultStore interface {
	// CreateVault inserts the vault row.
	CreateVault(v *model.Vault) error

	// FetchVault retrieves the vault row.
	// Returns ErrVaultNotFound if the vault was never initialized.
	FetchVault() (*model.Vault, error)

	// SaveVault persists all columns of an existing vault row.
	SaveVault(v *model.Vault) error

	// PurgeVault deletes the vault row along with every credential and
	// mnemonic, returning the database to its uninitialized state.
	PurgeVault() error
}
