package store

import "errors"

// ErrMnemonicNotFound is returned when an alias isn't registered
var ErrMnemonicNotFound = errors.New("mnemonic not found")

// ErrDuplicateMnemonic is returned when a reservation collides with an
// alias that is already registered
var ErrDuplicateMnemonic = errors.New("mnemonic already registered")

// MnemonicsStore abstracts the global alias registry. Alias names are
// unique across the whole vault, not per credential.
type MnemonicsStore interface {
	// ReserveMnemonics registers aliases for a credential. The underlying
	// unique constraint rejects collisions; a collision surfaces as
	// ErrDuplicateMnemonic and, inside a transaction, rolls back the
	// whole operation.
	ReserveMnemonics(credentialID uint, names []string) error

	// ReleaseMnemonics drops every alias registered to a credential.
	ReleaseMnemonics(credentialID uint) error

	// TakenMnemonics reports which of the given names are already
	// registered. When excludeCredentialID is non-zero, aliases owned by
	// that credential are not counted as taken.
	TakenMnemonics(names []string, excludeCredentialID uint) ([]string, error)

	// CountMnemonics reports the number of registered aliases.
	CountMnemonics() (int64, error)
}
