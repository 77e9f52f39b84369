package strongbox

import (
	"crypto/rand"
	"io"
)

func RandomNonce() ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	return RandomBytes(ivSize)
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// Wipe zeroizes key material in place. Callers defer it on every path
// that holds a derived or unsealed key.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
