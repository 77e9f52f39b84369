package strongbox

import (
	"crypto/sha256"
	"crypto/subtle"
)

const digestSize = sha256.Size

// GenerateDataKey returns a fresh random per-credential key. Data keys are
// never derived and never shared between credentials, so rotating the
// master password only re-seals key envelopes and leaves field ciphertexts
// alone.
func GenerateDataKey() ([]byte, error) {
	return RandomBytes(KeySize)
}

// Seal wraps a data key under the vault key. The sealed blob is the packed
// ciphertext followed by its SHA-256 digest:
//
//	"#{packed}#{sha256(packed)}"
//
// The digest lets Unseal tell corruption apart from a wrong vault key.
func Seal(vaultKey, dataKey, aad []byte) ([]byte, error) {
	cipher, err := NewSymmetric(vaultKey)
	if err != nil {
		return nil, err
	}

	packed, err := cipher.Encrypt(aad, dataKey)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(packed)
	return append(packed, digest[:]...), nil
}

// Unseal unwraps a sealed data key. A short blob or digest mismatch means
// the stored bytes changed underneath us: ErrIntegrity. An intact blob
// that still fails to open means the vault key is wrong:
// ErrAuthentication. A wrong key is never silently returned.
func Unseal(vaultKey, sealed, aad []byte) ([]byte, error) {
	if len(sealed) < digestSize+1+tagSize+ivSize {
		return nil, ErrIntegrity
	}

	split := len(sealed) - digestSize
	packed, digest := sealed[:split], sealed[split:]

	sum := sha256.Sum256(packed)
	if subtle.ConstantTimeCompare(sum[:], digest) != 1 {
		return nil, ErrIntegrity
	}

	cipher, err := NewSymmetric(vaultKey)
	if err != nil {
		return nil, err
	}

	dataKey, err := cipher.Decrypt(aad, packed)
	if err != nil {
		return nil, ErrAuthentication
	}

	return dataKey, nil
}
