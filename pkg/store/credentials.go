package store

import (
	"errors"

	"github.com/indrajit912/vaultsafe/pkg/model"
)

// ErrCredentialNotFound is returned when a credential doesn't exist
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialsStore abstracts credential row operations
type CredentialsStore interface {
	// CreateCredential inserts a credential row.
	CreateCredential(c *model.Credential) error

	// FetchCredential retrieves a credential by UUID with its mnemonics
	// loaded. Returns ErrCredentialNotFound if no row matches.
	FetchCredential(uuid string) (*model.Credential, error)

	// FetchCredentialByMnemonic resolves an alias to its credential, with
	// mnemonics loaded. Returns ErrMnemonicNotFound if the alias is not
	// registered.
	FetchCredentialByMnemonic(alias string) (*model.Credential, error)

	// ListCredentials returns every credential with mnemonics loaded,
	// ordered by name.
	ListCredentials() ([]model.Credential, error)

	// CountCredentials reports the number of stored credentials.
	CountCredentials() (int64, error)

	// SaveCredential persists all columns of an existing credential row,
	// including NULLs for fields that were cleared.
	SaveCredential(c *model.Credential) error

	// DeleteCredential removes a credential row and its mnemonics.
	DeleteCredential(c *model.Credential) error
}
