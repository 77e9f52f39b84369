package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential is one stored credential. Every optional field holds an
// independently produced packed ciphertext, or NULL when the field was
// never provided — absence is first-class, never an empty ciphertext.
// EncryptedKey is the credential's own data key sealed under the vault
// key; the row is decryptable exactly when the current vault key unseals
// it.
type Credential struct {
	ID             uint      `gorm:"primaryKey"`
	UUID           string    `gorm:"column:uuid;uniqueIndex;not null"`
	Name           string    `gorm:"column:name;not null"`
	Username       []byte    `gorm:"column:username"`
	Password       []byte    `gorm:"column:password"`
	URL            []byte    `gorm:"column:url"`
	PrimaryEmail   []byte    `gorm:"column:primary_email"`
	SecondaryEmail []byte    `gorm:"column:secondary_email"`
	Token          []byte    `gorm:"column:token"`
	RecoveryKey    []byte    `gorm:"column:recovery_key"`
	Notes          []byte    `gorm:"column:notes"`
	EncryptedKey   []byte    `gorm:"column:encrypted_key;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Mnemonics []Mnemonic `gorm:"foreignKey:CredentialID;constraint:OnDelete:CASCADE"`
}

func (Credential) TableName() string {
	return "credential"
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// Ciphertext returns the stored packed ciphertext for a field, or nil when
// the field is not present.
func (c *Credential) Ciphertext(f Field) []byte {
	switch f {
	case FieldUsername:
		return c.Username
	case FieldPassword:
		return c.Password
	case FieldURL:
		return c.URL
	case FieldPrimaryEmail:
		return c.PrimaryEmail
	case FieldSecondaryEmail:
		return c.SecondaryEmail
	case FieldToken:
		return c.Token
	case FieldRecoveryKey:
		return c.RecoveryKey
	case FieldNotes:
		return c.Notes
	}
	return nil
}

// SetCiphertext stores a packed ciphertext for a field; nil clears it back
// to "not present".
func (c *Credential) SetCiphertext(f Field, packed []byte) {
	switch f {
	case FieldUsername:
		c.Username = packed
	case FieldPassword:
		c.Password = packed
	case FieldURL:
		c.URL = packed
	case FieldPrimaryEmail:
		c.PrimaryEmail = packed
	case FieldSecondaryEmail:
		c.SecondaryEmail = packed
	case FieldToken:
		c.Token = packed
	case FieldRecoveryKey:
		c.RecoveryKey = packed
	case FieldNotes:
		c.Notes = packed
	}
}

// PresentFields lists the fields that hold a ciphertext, in enum order.
func (c *Credential) PresentFields() []Field {
	var present []Field
	for _, f := range FieldValues() {
		if c.Ciphertext(f) != nil {
			present = append(present, f)
		}
	}
	return present
}

// MnemonicNames returns the alias strings of the loaded mnemonics.
func (c *Credential) MnemonicNames() []string {
	names := make([]string, 0, len(c.Mnemonics))
	for _, m := range c.Mnemonics {
		names = append(names, m.Name)
	}
	return names
}
