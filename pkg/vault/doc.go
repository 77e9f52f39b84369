// Package vault implements the credential vault on top of the strongbox
// crypto primitives and the store persistence layer.
//
// The Service is the single entry point. Unlock derives and verifies the
// vault key from the master password; every operation that reads or writes
// secret material takes that key explicitly and re-verifies it, so a stale
// or wrong key is rejected up front instead of producing garbage.
//
// Each credential carries its own random data key. Field values are
// encrypted under the data key, bound to the credential UUID and field
// name; the data key itself is stored sealed under the vault key. Changing
// the master password therefore re-seals one small envelope per credential
// and never touches field ciphertexts.
//
// Mnemonic aliases resolve credentials by name. The registry is global:
// an alias points at exactly one credential, and operations that would
// break that fail atomically with DuplicateMnemonicError.
package vault
