// Package passgen generates strong random passwords.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// charset is letters, digits and a handful of symbols that survive
// shells, URLs and web forms without quoting trouble.
const charset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"@#$-%&"

const (
	// MinLength is the shortest password Generate will produce.
	MinLength = 4
	// DefaultLength is the length used when the caller doesn't pick one.
	DefaultLength = 18
)

// Generate returns a random password of the given length, each character
// drawn independently from the charset with crypto/rand.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("password length must be at least %d characters", MinLength)
	}

	max := big.NewInt(int64(len(charset)))
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}

// GenerateMany returns count independent passwords of the given length.
func GenerateMany(length, count int) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}

	passwords := make([]string, count)
	for i := range passwords {
		p, err := Generate(length)
		if err != nil {
			return nil, err
		}
		passwords[i] = p
	}
	return passwords, nil
}
