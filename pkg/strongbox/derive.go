package strongbox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the vault salt size in bytes. The salt is generated once
	// at vault initialization, persisted, and is not secret.
	SaltSize = 32

	// DefaultIterations is the PBKDF2 iteration count for new vaults.
	// Persisted per vault so it can be raised without breaking old ones.
	DefaultIterations = 210000
)

// KDF derives the vault key from the master password. Identical password,
// salt, and iteration count always yield the identical key.
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a KDF with a fresh random salt and default iterations.
func NewKDF() (*KDF, error) {
	salt, err := RandomBytes(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIterations,
	}, nil
}

// DeriveKey derives the vault key from the master password using
// PBKDF2-HMAC-SHA256. Deliberately slow; never cache the result beyond the
// operation that needs it.
func (k *KDF) DeriveKey(masterPassword string) []byte {
	return pbkdf2.Key([]byte(masterPassword), k.Salt, k.Iterations, KeySize, sha256.New)
}

// KeyCheck returns the one-way verification artifact for a vault key: the
// hex SHA-256 of the key. It is persisted at init and checked on unlock;
// neither the password nor the key itself is ever stored.
func KeyCheck(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])
}

// VerifyKey compares a derived key against the persisted check value in
// constant time. Failure is ErrAuthentication; the message does not say
// whether the password was wrong or the artifact corrupted.
func VerifyKey(key []byte, check string) error {
	expected, err := hex.DecodeString(check)
	if err != nil {
		return ErrAuthentication
	}

	sum := sha256.Sum256(key)
	if subtle.ConstantTimeCompare(sum[:], expected) != 1 {
		return ErrAuthentication
	}

	return nil
}
