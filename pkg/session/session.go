package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"

	"github.com/indrajit912/vaultsafe/pkg/config"
	"github.com/indrajit912/vaultsafe/pkg/model"
	"github.com/indrajit912/vaultsafe/pkg/strongbox"
)

const (
	keyringService = "vaultsafe"
	keyringAccount = "session"

	// The keyring entry holds two independent 32-byte keys: one seals the
	// vault key, the other signs the session token.
	secretSize = 2 * strongbox.KeySize
)

// ErrNoSession means no usable session exists: none was issued, it
// expired, the token or keyring entry is gone, or the token failed
// verification. Callers fall back to prompting for the master password.
var ErrNoSession = errors.New("no active session")

// Claims is the payload of the session token. SealedKey is the vault key
// in strongbox packed form, sealed under the keyring-held session key and
// bound to the vault's uuid.
type Claims struct {
	VaultUUID string `json:"vault_uuid"`
	SealedKey string `json:"sealed_key"`
	jwt.RegisteredClaims
}

// Status describes the current session without exposing key material.
type Status struct {
	Active    bool
	VaultUUID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager issues and resumes unlock sessions. The session file holds a
// signed token; the secret needed to use it never leaves the OS keyring.
type Manager struct {
	// Path is the session file location, ~/.vaultsafe/.session by default.
	Path string
}

// NewManager returns a manager over the configured session file.
func NewManager() *Manager {
	return &Manager{Path: config.SessionFilePath()}
}

// Issue stores an unlock session for the vault: a fresh random secret goes
// to the OS keyring and a signed token carrying the sealed vault key goes
// to the session file. The session expires after the vault's session TTL.
func (m *Manager) Issue(vlt *model.Vault, vaultKey []byte) error {
	secret, err := strongbox.RandomBytes(secretSize)
	if err != nil {
		return err
	}
	defer strongbox.Wipe(secret)
	sealKey, signKey := secret[:strongbox.KeySize], secret[strongbox.KeySize:]

	sealed, err := strongbox.Seal(sealKey, vaultKey, []byte(vlt.UUID))
	if err != nil {
		return err
	}

	now := time.Now()
	claims := Claims{
		VaultUUID: vlt.UUID,
		SealedKey: base64.StdEncoding.EncodeToString(sealed),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vaultsafe",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(vlt.SessionTTL) * time.Second)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signKey)
	if err != nil {
		return err
	}

	if err := keyring.Set(keyringService, keyringAccount, base64.StdEncoding.EncodeToString(secret)); err != nil {
		return fmt.Errorf("keyring: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(m.Path, []byte(token), 0o600)
}

// Load recovers the vault key from the stored session. Anything short of a
// valid, unexpired token for this exact vault is ErrNoSession; Load never
// reports why a session was unusable beyond that. The caller owns the
// returned key and must wipe it.
func (m *Manager) Load(vlt *model.Vault) ([]byte, error) {
	claims, secret, err := m.verify()
	if err != nil {
		return nil, err
	}
	defer strongbox.Wipe(secret)

	if claims.VaultUUID != vlt.UUID {
		return nil, ErrNoSession
	}

	sealed, err := base64.StdEncoding.DecodeString(claims.SealedKey)
	if err != nil {
		return nil, ErrNoSession
	}

	sealKey := secret[:strongbox.KeySize]
	vaultKey, err := strongbox.Unseal(sealKey, sealed, []byte(claims.VaultUUID))
	if err != nil {
		return nil, ErrNoSession
	}
	return vaultKey, nil
}

// Clear destroys the session: the file and the keyring entry. Clearing an
// absent session is not an error.
func (m *Manager) Clear() error {
	fileErr := os.Remove(m.Path)
	if fileErr != nil && os.IsNotExist(fileErr) {
		fileErr = nil
	}

	keyErr := keyring.Delete(keyringService, keyringAccount)
	if errors.Is(keyErr, keyring.ErrNotFound) {
		keyErr = nil
	}

	if fileErr != nil {
		return fileErr
	}
	return keyErr
}

// Describe reports whether a usable session exists and its validity
// window. A missing or unusable session is Active: false, not an error.
func (m *Manager) Describe() (*Status, error) {
	claims, secret, err := m.verify()
	if errors.Is(err, ErrNoSession) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}
	strongbox.Wipe(secret)

	return &Status{
		Active:    true,
		VaultUUID: claims.VaultUUID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// verify reads the session file and checks the token signature and expiry
// against the keyring secret.
func (m *Manager) verify() (*Claims, []byte, error) {
	raw, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, nil, ErrNoSession
	}

	encoded, err := keyring.Get(keyringService, keyringAccount)
	if err != nil {
		return nil, nil, ErrNoSession
	}
	secret, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(secret) != secretSize {
		return nil, nil, ErrNoSession
	}
	signKey := secret[strongbox.KeySize:]

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(string(raw), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		strongbox.Wipe(secret)
		return nil, nil, ErrNoSession
	}

	return claims, secret, nil
}
